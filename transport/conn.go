// Package transport wraps a websocket connection behind the narrow
// interface the session coordinator needs, the way the teacher's
// game/socket/gorilla package wraps gorilla/websocket for its socket
// package. Keeping the interface separate from the concrete
// implementation lets coordinator tests substitute an in-memory Conn.
package transport

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jsholden/wordbourne/message"
)

// Conn is a bidirectional connection carrying message.Message envelopes.
type Conn interface {
	// ReadMessage blocks until a frame arrives and decodes it into m.
	ReadMessage(m *message.Message) error
	// WriteMessage encodes and sends m.
	WriteMessage(m message.Message) error
	// WritePing sends a transport-level keepalive ping.
	WritePing() error
	// WriteClose sends a close frame with reason; it does not close the
	// underlying connection.
	WriteClose(reason string) error
	// IsNormalClose reports whether err represents an expected close
	// rather than an unexpected transport failure.
	IsNormalClose(err error) bool
	// Close releases the underlying connection.
	Close() error
}

// Upgrader turns an HTTP request into a Conn.
type Upgrader interface {
	Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error)
}

// GorillaUpgrader implements Upgrader by wrapping gorilla/websocket.
type GorillaUpgrader struct {
	upgrader websocket.Upgrader
}

// NewGorillaUpgrader builds an Upgrader that accepts the requests
// checkOrigin approves. A nil checkOrigin accepts every origin, per
// spec.md section 6's "client origin (permissive default)".
func NewGorillaUpgrader(checkOrigin func(r *http.Request) bool) *GorillaUpgrader {
	u := websocket.Upgrader{}
	if checkOrigin != nil {
		u.CheckOrigin = checkOrigin
	} else {
		u.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return &GorillaUpgrader{upgrader: u}
}

// Upgrade creates a gorillaConn from the HTTP request.
func (u *GorillaUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error) {
	c, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &gorillaConn{Conn: c}, nil
}

type gorillaConn struct {
	*websocket.Conn
}

func (c *gorillaConn) ReadMessage(m *message.Message) error {
	return c.Conn.ReadJSON(m)
}

func (c *gorillaConn) WriteMessage(m message.Message) error {
	return c.Conn.WriteJSON(m)
}

func (c *gorillaConn) WritePing() error {
	return c.Conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *gorillaConn) WriteClose(reason string) error {
	data := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	return c.Conn.WriteMessage(websocket.CloseMessage, data)
}

func (c *gorillaConn) IsNormalClose(err error) bool {
	_, ok := err.(*websocket.CloseError)
	return ok && !websocket.IsUnexpectedCloseError(err,
		websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}

// PingPeriod is how often the coordinator should call WritePing to keep
// idle connections alive through intermediate proxies.
const PingPeriod = 54 * time.Second
