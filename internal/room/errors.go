package room

import "errors"

var (
	ErrMissingFields       = errors.New("room and player name required")
	ErrRoomIDTaken         = errors.New("room id already taken")
	ErrMatchAlreadyStarted = errors.New("game has already started")
	ErrRoomFull            = errors.New("room is full (maximum 4 players)")
	ErrNameTaken           = errors.New("player name already taken")
	ErrAlreadyJoined       = errors.New("connection already in a room")
	ErrRoomNotFound        = errors.New("room not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrNotHost             = errors.New("only the host can do that")
)
