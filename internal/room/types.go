package room

import "github.com/sakshamg567/blockfall/internal/game"

// PlayerSummary is one roster entry.
type PlayerSummary struct {
	SocketID   string `json:"socketId"`
	PlayerName string `json:"playerName"`
	IsHost     bool   `json:"isHost"`
	Score      int    `json:"score"`
	Lines      int    `json:"lines"`
	Level      int    `json:"level"`
	GameOver   bool   `json:"gameOver"`
}

type JoinResult struct {
	Room       string          `json:"room"`
	PlayerName string          `json:"playerName"`
	IsHost     bool            `json:"isHost"`
	Players    []PlayerSummary `json:"players"`
	// Created is set when this join opened the room.
	Created bool `json:"-"`
}

type LeaveResult struct {
	Room       string          `json:"-"`
	PlayerName string          `json:"playerName"`
	NewHost    string          `json:"newHost,omitempty"`
	Players    []PlayerSummary `json:"players"`
	// Closed is set when the room was deleted because it emptied.
	Closed bool `json:"-"`

	// Ended is set when the departure concluded a running match. Snapshot
	// and Standings describe the room as it was left.
	Ended     bool            `json:"-"`
	Winner    string          `json:"-"`
	Snapshot  *game.Snapshot  `json:"-"`
	Standings []PlayerSummary `json:"-"`
}

// State is the lobby view of a room, with the match snapshot once the
// match has started.
type State struct {
	Room      string          `json:"room"`
	IsStarted bool            `json:"isStarted"`
	IsActive  bool            `json:"isActive"`
	Players   []PlayerSummary `json:"players"`
	GameState *game.Snapshot  `json:"gameState"`
}

// ActionResult carries an applied action back to the transport.
type ActionResult struct {
	Room       string
	PlayerName string
	Action     string
	Outcome    game.Outcome
	// Snapshot is set only when the outcome asks for a full broadcast.
	Snapshot *game.Snapshot
	Spectra  []game.Spectrum
	// Standings is set when the action ended the match.
	Standings []PlayerSummary
}

// Info is the listing entry for a room.
type Info struct {
	Room      string `json:"roomId"`
	Host      string `json:"host"`
	Players   int    `json:"players"`
	IsStarted bool   `json:"isStarted"`
	IsActive  bool   `json:"isActive"`
}
