package game

import "errors"

var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrDuplicatePlayer = errors.New("player already in match")
	ErrMatchNotActive  = errors.New("game not active")
	ErrAlreadyStarted  = errors.New("game already started")
	ErrNoPlayers       = errors.New("need at least one player")
	ErrUnknownAction   = errors.New("unknown action")
	ErrCannotHold      = errors.New("cannot hold right now")
	ErrNoActivePiece   = errors.New("no active piece")
)
