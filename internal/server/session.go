package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/pvsim/internal/sim"
)

// session owns one simulation. Only tickLoop touches it; readLoop hands
// messages over through a channel.
type session struct {
	out     *SafeWriter
	factory Factory
	sim     *sim.Simulation
	logger  *log.Entry

	messages chan ClientMessage
	done     chan struct{}
	quit     chan struct{}
}

func newSession(out *SafeWriter, factory Factory, logger *log.Entry) (*session, error) {
	s, err := factory()
	if err != nil {
		return nil, err
	}
	sess := &session{
		out:      out,
		factory:  factory,
		sim:      s,
		logger:   logger,
		messages: make(chan ClientMessage, 64),
		done:     make(chan struct{}),
		quit:     make(chan struct{}),
	}
	if err := out.WriteJSON(helloFor(s)); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *session) readLoop(conn *websocket.Conn) {
	defer close(s.done)
	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WithError(err).Debug("read failed")
			}
			return
		}
		switch msg.Type {
		case MessageTypeInput, MessageTypeReset:
			select {
			case s.messages <- msg:
			case <-s.quit:
				return
			}
		default:
			_ = s.out.WriteJSON(ErrorMessage{Type: MessageTypeError, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
		}
	}
}

// tickLoop steps the simulation once per interval with the latest input
// and streams each frame.
func (s *session) tickLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(s.quit)

	var in sim.Input
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
		}

	drain:
		for {
			select {
			case msg := <-s.messages:
				switch msg.Type {
				case MessageTypeInput:
					in = msg.Input()
				case MessageTypeReset:
					if err := s.reset(); err != nil {
						s.fail(err)
						return
					}
					in = sim.Input{}
				}
			default:
				break drain
			}
		}

		f, err := s.sim.Step(in)
		if err != nil {
			s.fail(err)
			return
		}
		if err := s.out.WriteJSON(frameMessage(f)); err != nil {
			s.logger.WithError(err).Debug("write failed")
			return
		}
	}
}

func (s *session) reset() error {
	next, err := s.factory()
	if err != nil {
		return err
	}
	s.sim = next
	return s.out.WriteJSON(helloFor(next))
}

func (s *session) fail(err error) {
	s.logger.WithError(err).Warn("simulation stopped")
	_ = s.out.WriteJSON(ErrorMessage{Type: MessageTypeError, Error: err.Error()})
}
