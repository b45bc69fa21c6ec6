// Package message defines the wire protocol between a connected client and
// the session coordinator: typed envelopes carrying a string Type and a raw
// JSON Payload, decoded to a concrete request or response shape at the
// coordinator boundary, per spec.md section 9's "dynamic message envelopes"
// design note.
package message

import "encoding/json"

// Type names the kind of envelope carried over the wire.
type Type string

// Inbound types, sent by a client.
const (
	TypeCreateRoom  Type = "createRoom"
	TypeJoinRoom    Type = "joinRoom"
	TypeReconnect   Type = "reconnect"
	TypeToggleReady Type = "toggleReady"
	TypeStartGame   Type = "startGame"
	TypePlayMove    Type = "playMove"
	TypeLeaveRoom   Type = "leaveRoom"
)

// Outbound types, sent by the coordinator.
const (
	TypeFullState    Type = "fullState"
	TypeRoomUpdate   Type = "roomUpdate"
	TypeGameState    Type = "gameState"
	TypeTurnUpdate   Type = "turnUpdate"
	TypeMoveAccepted Type = "moveAccepted"
	TypeInvalidMove  Type = "invalidMove"
	TypeGameEnded    Type = "gameEnded"
	TypeError        Type = "error"
)

// Message is the envelope every inbound and outbound frame is wrapped in.
type Message struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// New marshals payload into a Message of the given type. It panics only if
// payload cannot be marshaled, which callers guarantee cannot happen for
// the payload types defined in this package.
func New(t Type, payload interface{}) Message {
	data, err := json.Marshal(payload)
	if err != nil {
		panic("message: payload for " + string(t) + " does not marshal: " + err.Error())
	}
	return Message{Type: t, Payload: data}
}
