// Package errcode defines the stable error codes shared by the rules
// engine, game lifecycle, room registry, and the message protocol so that
// every layer reports failures the same way to clients.
package errcode

// Code is a stable, client-facing identifier for a failure reason.
type Code string

const (
	// Protocol / payload errors, answered as a top level "error" message.
	BadPayload  Code = "BAD_PAYLOAD"
	UnknownType Code = "UNKNOWN_TYPE"

	// Room registry errors.
	RoomNotFound         Code = "ROOM_NOT_FOUND"
	RoomFull             Code = "ROOM_FULL"
	RoomNotJoinable      Code = "ROOM_NOT_JOINABLE"
	NicknameTaken        Code = "NICKNAME_TAKEN"
	NotInRoom            Code = "NOT_IN_ROOM"
	NotHost              Code = "NOT_HOST"
	MinPlayers           Code = "MIN_PLAYERS"
	NotAllReady          Code = "NOT_ALL_READY"
	InvalidState         Code = "INVALID_STATE"
	RoomIDGenerationFail Code = "ROOM_ID_GENERATION_FAILED"

	// Game rule violations, answered as "invalidMove".
	NotYourTurn        Code = "NOT_YOUR_TURN"
	OutOfBounds        Code = "OUT_OF_BOUNDS"
	CellOccupied       Code = "CELL_OCCUPIED"
	TileNotInRack      Code = "TILE_NOT_IN_RACK"
	DuplicateTile      Code = "DUPLICATE_TILE"
	NotAligned         Code = "NOT_ALIGNED"
	MustCoverCenter    Code = "MUST_COVER_CENTER"
	NotContiguous      Code = "NOT_CONTIGUOUS"
	NotConnected       Code = "NOT_CONNECTED"
	NoWordFormed       Code = "NO_WORD_FORMED"
	InvalidWord        Code = "INVALID_WORD"
	NoTilesToExchange  Code = "NO_TILES_TO_EXCHANGE"
	BagTooSmall        Code = "BAG_TOO_SMALL"

	// Infrastructure / unexpected, answered as top level "error".
	ServerError Code = "SERVER_ERROR"
)

// messages holds a human-readable description for each code, used to
// populate the "message" field of a top-level error envelope; invalidMove
// envelopes use the code itself as "reason" and need no prose.
var messages = map[Code]string{
	BadPayload:           "the message payload did not match the expected shape",
	UnknownType:          "unrecognized message type",
	RoomNotFound:         "no room exists with that code",
	RoomFull:             "the room has no open seats",
	RoomNotJoinable:      "the room is not accepting new players",
	NicknameTaken:        "that nickname is already in use in this room",
	NotInRoom:            "you are not a member of that room",
	NotHost:              "only the host may do that",
	MinPlayers:           "at least two players are required to start",
	NotAllReady:          "every player must be ready to start",
	InvalidState:         "the room is not in the right state for that action",
	RoomIDGenerationFail: "could not generate a unique room code",
	ServerError:          "an unexpected server error occurred",
}

// Message returns a human-readable description of c, for the top-level
// error envelope's "message" field.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return string(c)
}
