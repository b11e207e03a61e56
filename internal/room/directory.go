package room

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/sakshamg567/blockfall/internal/game"
	"github.com/sakshamg567/blockfall/logger"
)

const MaxPlayers = 4

type session struct {
	roomID     string
	playerName string
}

type entry struct {
	engine *game.Engine
	hostID string
}

// Directory maps connections to rooms and owns every room's engine.
// It is not safe for concurrent use; the hub serialises all calls.
type Directory struct {
	sessions map[string]session
	rooms    map[string]*entry
	newRand  func(roomID string) game.Rand
}

type Option func(*Directory)

// WithRandSource sets how each new room gets its randomness.
func WithRandSource(fn func(roomID string) game.Rand) Option {
	return func(d *Directory) {
		d.newRand = fn
	}
}

func NewDirectory(opts ...Option) *Directory {
	d := &Directory{
		sessions: make(map[string]session),
		rooms:    make(map[string]*entry),
		newRand: func(string) game.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Join adds a connection to a room, opening the room if the id is unknown.
func (d *Directory) Join(connID, roomID, name string) (JoinResult, error) {
	return d.join(connID, roomID, name, false)
}

// CreateRoom is Join that refuses an id that already has a room.
func (d *Directory) CreateRoom(connID, roomID, name string) (JoinResult, error) {
	return d.join(connID, roomID, name, true)
}

func (d *Directory) join(connID, roomID, name string, mustCreate bool) (JoinResult, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" || strings.TrimSpace(name) == "" {
		return JoinResult{}, ErrMissingFields
	}
	if _, ok := d.sessions[connID]; ok {
		return JoinResult{}, ErrAlreadyJoined
	}

	ent, exists := d.rooms[roomID]
	if exists {
		if mustCreate {
			return JoinResult{}, ErrRoomIDTaken
		}
		if err := admit(ent, name); err != nil {
			return JoinResult{}, err
		}
	} else {
		ent = d.openRoom(roomID)
	}

	if err := ent.engine.AddPlayer(connID, name); err != nil {
		if !exists {
			delete(d.rooms, roomID)
		}
		return JoinResult{}, err
	}
	isHost := ent.hostID == ""
	if isHost {
		ent.hostID = connID
	}
	d.sessions[connID] = session{roomID: roomID, playerName: name}

	logger.Info("player %s (%s) joined room %s host=%v", name, connID, roomID, isHost)
	return JoinResult{
		Room:       roomID,
		PlayerName: name,
		IsHost:     isHost,
		Players:    roster(ent),
		Created:    !exists,
	}, nil
}

// admit applies the join policy of an existing room.
func admit(ent *entry, name string) error {
	if ent.engine.Started() {
		return ErrMatchAlreadyStarted
	}
	if ent.engine.Len() >= MaxPlayers {
		return ErrRoomFull
	}
	for _, p := range ent.engine.Players() {
		if p.Name == name {
			return ErrNameTaken
		}
	}
	return nil
}

// openRoom is the implicit creation path taken by a join to an unknown id.
func (d *Directory) openRoom(roomID string) *entry {
	ent := &entry{engine: game.NewEngine(roomID, d.newRand(roomID))}
	d.rooms[roomID] = ent
	logger.Info("room %s opened", roomID)
	return ent
}

// hosted resolves a room and checks that connID is its host.
func (d *Directory) hosted(connID, roomID string) (*entry, error) {
	ent, ok := d.rooms[strings.TrimSpace(roomID)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if _, ok := ent.engine.Player(connID); !ok {
		return nil, ErrPlayerNotFound
	}
	if ent.hostID != connID {
		return nil, ErrNotHost
	}
	return ent, nil
}

func (d *Directory) Start(connID, roomID string) (game.Snapshot, error) {
	ent, err := d.hosted(connID, roomID)
	if err != nil {
		return game.Snapshot{}, err
	}
	if err := ent.engine.Start(); err != nil {
		return game.Snapshot{}, err
	}
	logger.Info("room %s match started with %d players", ent.engine.RoomID(), ent.engine.Len())
	return ent.engine.Snapshot(), nil
}

func (d *Directory) Restart(connID, roomID string) (game.Snapshot, error) {
	ent, err := d.hosted(connID, roomID)
	if err != nil {
		return game.Snapshot{}, err
	}
	if err := ent.engine.Restart(); err != nil {
		return game.Snapshot{}, err
	}
	logger.Info("room %s match restarted", ent.engine.RoomID())
	return ent.engine.Snapshot(), nil
}

// Action forwards a player input to the room's engine.
func (d *Directory) Action(connID, roomID, action string) (ActionResult, error) {
	ent, ok := d.rooms[strings.TrimSpace(roomID)]
	if !ok {
		return ActionResult{}, ErrRoomNotFound
	}
	out, err := ent.engine.HandleAction(connID, game.Action(action))
	if err != nil {
		return ActionResult{}, err
	}

	p, _ := ent.engine.Player(connID)
	res := ActionResult{
		Room:       ent.engine.RoomID(),
		PlayerName: p.Name,
		Action:     action,
		Outcome:    out,
	}
	if !out.Applied {
		return res, nil
	}
	res.Spectra = ent.engine.Spectra()
	if out.Broadcast {
		snap := ent.engine.Snapshot()
		res.Snapshot = &snap
	}
	if out.Ended {
		res.Standings = roster(ent)
		logger.Info("room %s match ended winner=%q", res.Room, out.Winner)
	}
	return res, nil
}

// Disconnect removes a connection. The bool is false when the connection
// was not in any room.
func (d *Directory) Disconnect(connID string) (LeaveResult, bool) {
	s, ok := d.sessions[connID]
	if !ok {
		return LeaveResult{}, false
	}
	delete(d.sessions, connID)

	ent, ok := d.rooms[s.roomID]
	if !ok {
		return LeaveResult{}, false
	}
	out, ok := ent.engine.Leave(connID)
	if !ok {
		return LeaveResult{}, false
	}

	res := LeaveResult{
		Room:       s.roomID,
		PlayerName: s.playerName,
		Players:    []PlayerSummary{},
	}
	if ent.engine.Len() == 0 {
		delete(d.rooms, s.roomID)
		res.Closed = true
		logger.Info("room %s closed", s.roomID)
		return res, true
	}

	if ent.hostID == connID {
		next := ent.engine.Players()[0]
		ent.hostID = next.ID
		res.NewHost = next.Name
		logger.Info("room %s host passed to %s", s.roomID, next.Name)
	}
	res.Players = roster(ent)
	if out.Ended {
		snap := ent.engine.Snapshot()
		res.Ended = true
		res.Winner = out.Winner
		res.Snapshot = &snap
		res.Standings = res.Players
		logger.Info("room %s match ended on departure of %s winner=%q", s.roomID, s.playerName, out.Winner)
	}
	return res, true
}

// State returns the lobby view of a room.
func (d *Directory) State(roomID string) (State, bool) {
	ent, ok := d.rooms[strings.TrimSpace(roomID)]
	if !ok {
		return State{}, false
	}
	st := State{
		Room:      ent.engine.RoomID(),
		IsStarted: ent.engine.Started(),
		IsActive:  ent.engine.Active(),
		Players:   roster(ent),
	}
	if st.IsStarted {
		snap := ent.engine.Snapshot()
		st.GameState = &snap
	}
	return st, true
}

// Members returns the connection ids in a room in join order.
func (d *Directory) Members(roomID string) []string {
	ent, ok := d.rooms[roomID]
	if !ok {
		return nil
	}
	players := ent.engine.Players()
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids
}

// RoomOf returns the room a connection is in.
func (d *Directory) RoomOf(connID string) (string, bool) {
	s, ok := d.sessions[connID]
	return s.roomID, ok
}

func (d *Directory) Has(roomID string) bool {
	_, ok := d.rooms[roomID]
	return ok
}

// Rooms lists every open room ordered by id.
func (d *Directory) Rooms() []Info {
	out := make([]Info, 0, len(d.rooms))
	for id, ent := range d.rooms {
		info := Info{
			Room:      id,
			Players:   ent.engine.Len(),
			IsStarted: ent.engine.Started(),
			IsActive:  ent.engine.Active(),
		}
		if host, ok := ent.engine.Player(ent.hostID); ok {
			info.Host = host.Name
		}
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b Info) int {
		return strings.Compare(a.Room, b.Room)
	})
	return out
}

func roster(ent *entry) []PlayerSummary {
	players := ent.engine.Players()
	out := make([]PlayerSummary, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerSummary{
			SocketID:   p.ID,
			PlayerName: p.Name,
			IsHost:     p.ID == ent.hostID,
			Score:      p.Score,
			Lines:      p.Lines,
			Level:      p.Level,
			GameOver:   p.GameOver,
		})
	}
	return out
}
