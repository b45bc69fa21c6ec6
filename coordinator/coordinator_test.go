package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jsholden/wordbourne/bag"
	"github.com/jsholden/wordbourne/dictionary"
	"github.com/jsholden/wordbourne/message"
	"github.com/jsholden/wordbourne/room"
	"github.com/jsholden/wordbourne/tile"
)

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// fakeConn is an in-memory transport.Conn: inbound frames are read off a
// channel fed by the test, outbound frames land on another channel the
// test can drain.
type fakeConn struct {
	mu     sync.Mutex
	in     chan message.Message
	out    chan message.Message
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:  make(chan message.Message, 8),
		out: make(chan message.Message, 8),
	}
}

func (c *fakeConn) ReadMessage(m *message.Message) error {
	v, ok := <-c.in
	if !ok {
		return io.EOF
	}
	*m = v
	return nil
}

func (c *fakeConn) WriteMessage(m message.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("fakeConn: closed")
	}
	c.out <- m
	return nil
}

func (c *fakeConn) WritePing() error { return nil }
func (c *fakeConn) WriteClose(reason string) error {
	return nil
}
func (c *fakeConn) IsNormalClose(err error) bool { return errors.Is(err, io.EOF) }
func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.in)
	return nil
}

func (c *fakeConn) send(t *testing.T, m message.Message) {
	t.Helper()
	c.in <- m
}

func (c *fakeConn) recv(t *testing.T) message.Message {
	t.Helper()
	select {
	case m := <-c.out:
		return m
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outbound message")
		return message.Message{}
	}
}

func noShuffle(tiles []tile.Tile) {}

func testCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	var calls int
	registryCfg := room.RegistryConfig{
		Log: log.New(testWriter{t}, "", 0),
		IntnFunc: func(n int) int {
			i := calls % n
			calls++
			return i
		},
	}
	reg, err := registryCfg.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	cfg := Config{
		Log:                  log.New(testWriter{t}, "", 0),
		Registry:             reg,
		Dictionary:           dictionary.Config{}.NewPermissive(),
		Language:             bag.English,
		ShuffleFunc:          noShuffle,
		TurnDuration:         120 * time.Second,
		MaxConsecutivePasses: 6,
		ExchangeCountsAsPass: true,
	}
	co, err := cfg.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return co
}

func TestServeCreateRoomRespondsWithFullState(t *testing.T) {
	co := testCoordinator(t)
	conn := newFakeConn()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		co.Serve(ctx, conn)
		close(done)
	}()

	conn.send(t, message.New(message.TypeCreateRoom, message.CreateRoomPayload{Nickname: "Ada"}))
	reply := conn.recv(t)
	if reply.Type != message.TypeFullState {
		t.Fatalf("reply type = %v, want %v", reply.Type, message.TypeFullState)
	}
	var payload message.FullStatePayload
	if err := json.Unmarshal(reply.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.Room.Players) != 1 || payload.Room.Players[0].Nickname != "Ada" {
		t.Errorf("Room.Players = %+v, want a single player named Ada", payload.Room.Players)
	}

	conn.Close()
	<-done
}

func TestServeUnknownMessageTypeReturnsError(t *testing.T) {
	co := testCoordinator(t)
	conn := newFakeConn()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		co.Serve(ctx, conn)
		close(done)
	}()

	conn.send(t, message.Message{Type: "notARealType"})
	reply := conn.recv(t)
	if reply.Type != message.TypeError {
		t.Fatalf("reply type = %v, want %v", reply.Type, message.TypeError)
	}

	conn.Close()
	<-done
}

func TestServeJoinRoomUnknownCodeReturnsError(t *testing.T) {
	co := testCoordinator(t)
	conn := newFakeConn()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		co.Serve(ctx, conn)
		close(done)
	}()

	conn.send(t, message.New(message.TypeJoinRoom, message.JoinRoomPayload{RoomID: "ZZZZ", Nickname: "Bob"}))
	reply := conn.recv(t)
	if reply.Type != message.TypeError {
		t.Fatalf("reply type = %v, want %v", reply.Type, message.TypeError)
	}
	var payload message.ErrorPayload
	if err := json.Unmarshal(reply.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Code == "" {
		t.Error("wanted a non-empty error code")
	}

	conn.Close()
	<-done
}
