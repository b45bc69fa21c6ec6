package room

import "github.com/jsholden/wordbourne/errcode"

// Error is a rejected room-registry operation, identified by a stable
// code rather than an unexpected failure.
type Error struct {
	Code errcode.Code
}

func (e *Error) Error() string {
	return string(e.Code)
}

func roomErr(code errcode.Code) *Error {
	return &Error{Code: code}
}

const (
	errRoomNotFound    = errcode.RoomNotFound
	errRoomFull        = errcode.RoomFull
	errRoomNotJoinable = errcode.RoomNotJoinable
	errNicknameTaken   = errcode.NicknameTaken
	errNotInRoom       = errcode.NotInRoom
	errNotHost         = errcode.NotHost
	errMinPlayers      = errcode.MinPlayers
	errNotAllReady     = errcode.NotAllReady
	errInvalidState    = errcode.InvalidState

	errRoomIDGenerationFailed = errcode.RoomIDGenerationFail
)
