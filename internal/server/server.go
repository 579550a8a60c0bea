// Package server streams a live simulation over WebSocket. Each connection
// gets its own simulation, stepped by one goroutine at a fixed interval.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/pvsim/internal/sim"
)

const DefaultInterval = time.Second / 60

// Factory builds a fresh simulation for a connection or a reset.
type Factory func() (*sim.Simulation, error)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	factory  Factory
	interval time.Duration
}

func New(addr string, factory Factory) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		factory:  factory,
		interval: DefaultInterval,
	}
}

// WithInterval sets the wall-clock time between ticks.
func (s *Server) WithInterval(d time.Duration) *Server {
	if d > 0 {
		s.interval = d
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.WithFields(log.Fields{"addr": s.addr}).Info("serving")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// serveWs upgrades the request and runs one session until the peer leaves.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("upgrade failed")
		return
	}
	logger := log.WithFields(log.Fields{"remote": r.RemoteAddr})
	sess, err := newSession(NewSafeWriter(conn), s.factory, logger)
	if err != nil {
		logger.WithError(err).Error("session setup failed")
		conn.Close()
		return
	}
	logger.Info("session started")

	go sess.readLoop(conn)
	sess.tickLoop(r.Context(), s.interval)
	sess.out.Close()
	logger.WithFields(log.Fields{"ticks": sess.sim.Tick()}).Info("session ended")
}
