package hub

import (
	"encoding/json"

	"github.com/sakshamg567/blockfall/internal/game"
	"github.com/sakshamg567/blockfall/internal/room"
)

// Message is the websocket envelope in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// inbound
const (
	EventJoinRoom    = "join-room"
	EventCreateRoom  = "create-room"
	EventStartGame   = "start-game"
	EventRestartGame = "restart-game"
	EventGameAction  = "game-action"
)

// outbound
const (
	EventRoomJoined     = "room-joined"
	EventPlayerJoined   = "player-joined"
	EventRoomState      = "room-state"
	EventGameStarted    = "game-started"
	EventGameRestarted  = "game-restarted"
	EventGameUpdate     = "game-update"
	EventSpectrumUpdate = "spectrum-update"
	EventPlayerLeft     = "player-left"
	EventError          = "error"
)

// action reported in the game-update sent when a departure ends a match
const actionLeave = "leave"

// InboundEvents lists the event names a client may send.
var InboundEvents = []string{
	EventJoinRoom,
	EventCreateRoom,
	EventStartGame,
	EventRestartGame,
	EventGameAction,
}

type joinPayload struct {
	Room       string `json:"room"`
	PlayerName string `json:"playerName"`
}

type roomPayload struct {
	Room string `json:"room"`
}

type actionPayload struct {
	Room   string          `json:"room"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type playerJoined struct {
	PlayerName string               `json:"playerName"`
	IsHost     bool                 `json:"isHost"`
	Players    []room.PlayerSummary `json:"players"`
}

type gameStarted struct {
	Success   bool          `json:"success"`
	GameState game.Snapshot `json:"gameState"`
}

type gameUpdate struct {
	PlayerName   string         `json:"playerName"`
	Action       string         `json:"action"`
	GameState    *game.Snapshot `json:"gameState"`
	Winner       *string        `json:"winner"`
	GameEnded    bool           `json:"gameEnded"`
	LinesCleared int            `json:"linesCleared"`
}

type spectrumUpdate struct {
	Room    string          `json:"room"`
	Players []game.Spectrum `json:"players"`
}

type errorPayload struct {
	Message string `json:"message"`
}
