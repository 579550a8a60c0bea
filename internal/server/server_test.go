package server

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/pvsim/internal/collide"
	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/sim"
)

type envelope struct {
	Type   string      `json:"type"`
	Tick   int         `json:"tick"`
	Handle [2]float64  `json:"handle"`
	Plot   RectMessage `json:"plot"`
	Error  string      `json:"error"`
	Walls  []WallMessage
}

func testFactory() (*sim.Simulation, error) {
	cfg := config.DefaultConfig()
	cfg.Seed = 5
	return sim.New(cfg, collide.NewWorld(cfg.Substeps, cfg.Particles.Radius))
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := New(":0", testFactory).WithInterval(2 * time.Millisecond)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

// readUntil reads messages until match accepts one, or fails after limit.
func readUntil(t *testing.T, conn *websocket.Conn, limit int, match func(envelope) bool) envelope {
	t.Helper()
	for i := 0; i < limit; i++ {
		if env := read(t, conn); match(env) {
			return env
		}
	}
	t.Fatalf("no matching message in %d reads", limit)
	return envelope{}
}

func TestSession_HelloThenFrames(t *testing.T) {
	conn := dial(t)

	hello := read(t, conn)
	if hello.Type != MessageTypeHello {
		t.Fatalf("expected hello first, got %q", hello.Type)
	}
	if hello.Plot.Min[0] != -404 || hello.Plot.Max[1] != -65 {
		t.Errorf("unexpected plot %+v", hello.Plot)
	}

	first := read(t, conn)
	if first.Type != MessageTypeFrame || first.Tick != 1 {
		t.Fatalf("expected frame for tick 1, got %+v", first)
	}
	if len(first.Walls) != 4 {
		t.Errorf("expected 4 walls, got %d", len(first.Walls))
	}
	second := read(t, conn)
	if second.Tick != 2 {
		t.Errorf("expected tick 2, got %d", second.Tick)
	}
}

func TestSession_InputMovesHandle(t *testing.T) {
	conn := dial(t)
	read(t, conn)

	if err := conn.WriteJSON(ClientMessage{Type: MessageTypeInput, X: 100, Y: -150, Pressed: true}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, 500, func(env envelope) bool {
		return env.Type == MessageTypeFrame &&
			math.Abs(env.Handle[0]-100) < 1e-9 && math.Abs(env.Handle[1]+150) < 1e-9
	})
}

func TestSession_Reset(t *testing.T) {
	conn := dial(t)
	read(t, conn)
	readUntil(t, conn, 500, func(env envelope) bool { return env.Tick >= 5 })

	if err := conn.WriteJSON(ClientMessage{Type: MessageTypeReset}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, 500, func(env envelope) bool { return env.Type == MessageTypeHello })
	next := read(t, conn)
	if next.Type != MessageTypeFrame || next.Tick != 1 {
		t.Errorf("expected tick 1 after reset, got %+v", next)
	}
}

func TestSession_UnknownMessage(t *testing.T) {
	conn := dial(t)
	read(t, conn)

	if err := conn.WriteJSON(map[string]string{"type": "bogus"}); err != nil {
		t.Fatal(err)
	}
	env := readUntil(t, conn, 500, func(env envelope) bool { return env.Type == MessageTypeError })
	if !strings.Contains(env.Error, "bogus") {
		t.Errorf("expected error naming the type, got %q", env.Error)
	}
	// The session keeps streaming.
	readUntil(t, conn, 10, func(env envelope) bool { return env.Type == MessageTypeFrame })
}

func TestHealthz(t *testing.T) {
	ts := httptest.NewServer(New(":0", testFactory).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestSafeWriter_Concurrent(t *testing.T) {
	received := make(chan string, 10)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 0; i < 10; i++ {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- string(msg)
		}
	}))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	writer := NewSafeWriter(conn)
	defer writer.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := writer.WriteJSON(map[string]int{"id": id}); err != nil {
				t.Errorf("write %d: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	uniq := make(map[string]bool)
	for i := 0; i < 10; i++ {
		select {
		case msg := <-received:
			uniq[msg] = true
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}
	if len(uniq) != 10 {
		t.Errorf("expected 10 distinct messages, got %d", len(uniq))
	}
}

func ExampleClientMessage_Input() {
	in := ClientMessage{Type: MessageTypeInput, X: 1, Y: 2, Pressed: true}.Input()
	fmt.Println(in.Cursor, in.Pressed)
	// Output: [1 2] true
}
