package engine

import "errors"

var (
	ErrRoomFull         = errors.New("room is full")
	ErrProgressMismatch = errors.New("requested progress does not match room")
	ErrRoomClosed       = errors.New("room is closed")
	ErrUnknownClient    = errors.New("client is not in room")
	ErrUnknownAction    = errors.New("unknown action")
	ErrAlreadyJoined    = errors.New("client already in room")
)
