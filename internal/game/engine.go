package game

import "github.com/sakshamg567/blockfall/internal/piece"

const (
	SpawnX = 3
	SpawnY = 0
)

// points per clear, indexed by rows cleared in one lock
var linePoints = [...]int{0, 40, 100, 300, 1200}

// wall-kick candidates, probed in order
var kickOffsets = [...][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {-1, -1}, {1, -1}}

// Engine runs one room's match. It owns its players and the shared piece
// sequence; nothing outside the engine mutates either. An Engine is not
// safe for concurrent use: callers serialise access.
type Engine struct {
	roomID  string
	order   []string
	players map[string]*PlayerState
	started bool
	active  bool
	seq     *Sequence
	rng     Rand
}

func NewEngine(roomID string, rng Rand) *Engine {
	return &Engine{
		roomID:  roomID,
		players: make(map[string]*PlayerState),
		seq:     newSequence(rng),
		rng:     rng,
	}
}

func (e *Engine) RoomID() string { return e.roomID }
func (e *Engine) Started() bool  { return e.started }
func (e *Engine) Active() bool   { return e.active }
func (e *Engine) Len() int       { return len(e.order) }

// AddPlayer appends a player in join order.
func (e *Engine) AddPlayer(id, name string) error {
	if _, ok := e.players[id]; ok {
		return ErrDuplicatePlayer
	}
	e.players[id] = NewPlayerState(id, name)
	e.order = append(e.order, id)
	return nil
}

// Leave drops a player; the remaining join order is kept. During an
// active match the departure is adjudicated, so the last live player of a
// multi-player match wins. The bool is false for an unknown id.
func (e *Engine) Leave(id string) (Outcome, bool) {
	if _, ok := e.players[id]; !ok {
		return Outcome{}, false
	}
	delete(e.players, id)
	for i, pid := range e.order {
		if pid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}

	var out Outcome
	if e.active && len(e.order) > 0 && e.adjudicate(&out) {
		out.Broadcast = true
	}
	return out, true
}

// Player returns a detached copy of one player's state.
func (e *Engine) Player(id string) (PlayerState, bool) {
	p, ok := e.players[id]
	if !ok {
		return PlayerState{}, false
	}
	return p.clone(), true
}

// Players returns detached copies in join order.
func (e *Engine) Players() []PlayerState {
	out := make([]PlayerState, 0, len(e.order))
	for _, p := range e.ordered() {
		out = append(out, p.clone())
	}
	return out
}

func (e *Engine) ordered() []*PlayerState {
	out := make([]*PlayerState, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.players[id])
	}
	return out
}

// Start begins the match: a fresh sequence, and every player on piece 0
// with piece 1 as preview.
func (e *Engine) Start() error {
	if e.started {
		return ErrAlreadyStarted
	}
	if len(e.order) == 0 {
		return ErrNoPlayers
	}

	e.seq.reset()
	e.seq.grow(initialSequence)
	e.started = true
	e.active = true

	for _, p := range e.ordered() {
		p.Reset()
		cur, next := e.spawn(0), e.spawn(1)
		p.Current, p.Next = &cur, &next
		p.PieceIndex = 1
	}
	return nil
}

// Restart resets every player and the sequence, then starts again.
func (e *Engine) Restart() error {
	e.started = false
	e.active = false
	e.seq.reset()
	for _, p := range e.ordered() {
		p.Reset()
	}
	return e.Start()
}

// spawn builds the piece at sequence index i in spawn pose. The sequence
// only ever holds valid kinds, so a construction error is a bug.
func (e *Engine) spawn(i int) piece.Piece {
	p, err := piece.New(e.seq.At(i), SpawnX, SpawnY)
	if err != nil {
		panic(err)
	}
	return p
}

// HandleAction applies one player input. A blocked move or rotation is
// not an error: it returns an Outcome with Applied false.
func (e *Engine) HandleAction(playerID string, action Action) (Outcome, error) {
	p, ok := e.players[playerID]
	if !ok {
		return Outcome{}, ErrPlayerNotFound
	}
	if !e.active || p.GameOver {
		return Outcome{}, ErrMatchNotActive
	}

	switch action {
	case ActionMoveLeft:
		return e.move(p, -1, 0)
	case ActionMoveRight:
		return e.move(p, 1, 0)
	case ActionMoveDown:
		return e.move(p, 0, 1)
	case ActionRotate:
		return e.rotate(p, false)
	case ActionRotateCounter:
		return e.rotate(p, true)
	case ActionHardDrop:
		return e.hardDrop(p)
	case ActionHold:
		return e.hold(p)
	default:
		return Outcome{}, unknownAction(action)
	}
}

func (e *Engine) move(p *PlayerState, dx, dy int) (Outcome, error) {
	if p.Current == nil {
		return Outcome{}, ErrNoActivePiece
	}
	moved := p.Current.Clone()
	moved.Translate(dx, dy)
	if p.Board.Fits(moved) {
		*p.Current = moved
		return applied(), nil
	}
	if dy > 0 {
		return e.lock(p), nil
	}
	return Outcome{}, nil
}

func (e *Engine) rotate(p *PlayerState, counter bool) (Outcome, error) {
	if p.Current == nil {
		return Outcome{}, ErrNoActivePiece
	}
	turned := p.Current.Clone()
	if counter {
		turned.RotateCounterClockwise()
	} else {
		turned.RotateClockwise()
	}
	for _, off := range kickOffsets {
		kicked := turned.Clone()
		kicked.Translate(off[0], off[1])
		if p.Board.Fits(kicked) {
			*p.Current = kicked
			return applied(), nil
		}
	}
	return Outcome{}, nil
}

func (e *Engine) hardDrop(p *PlayerState) (Outcome, error) {
	if p.Current == nil {
		return Outcome{}, ErrNoActivePiece
	}
	dist := 0
	for {
		probe := p.Current.Clone()
		probe.Translate(0, dist+1)
		if !p.Board.Fits(probe) {
			break
		}
		dist++
	}
	p.Current.Translate(0, dist)
	p.Score += 2 * dist

	out := e.lock(p)
	out.Dropped = dist
	return out, nil
}

func (e *Engine) hold(p *PlayerState) (Outcome, error) {
	if p.Current == nil {
		return Outcome{}, ErrNoActivePiece
	}
	if !p.CanHold {
		return Outcome{}, ErrCannotHold
	}

	stash := spawnPose(*p.Current)
	if p.Held == nil {
		cur := e.spawn(p.PieceIndex)
		p.PieceIndex++
		next := e.spawn(p.PieceIndex)
		p.Current, p.Next = &cur, &next
	} else {
		cur := spawnPose(*p.Held)
		p.Current = &cur
	}
	p.Held = &stash
	p.CanHold = false

	out := applied()
	if !p.Board.Fits(*p.Current) {
		p.GameOver = true
		out.GameOver = true
		out.Broadcast = true
		e.adjudicate(&out)
	}
	return out, nil
}

func spawnPose(p piece.Piece) piece.Piece {
	p.X, p.Y, p.Rotation = SpawnX, SpawnY, 0
	return p
}

// Snapshot is the full room view sent to clients.
type Snapshot struct {
	Room      string     `json:"room"`
	IsActive  bool       `json:"isActive"`
	IsStarted bool       `json:"isStarted"`
	Players   []Spectrum `json:"players"`
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Room:      e.roomID,
		IsActive:  e.active,
		IsStarted: e.started,
		Players:   e.Spectra(),
	}
}

// Spectra returns every player's spectrum in join order.
func (e *Engine) Spectra() []Spectrum {
	out := make([]Spectrum, 0, len(e.order))
	for _, p := range e.ordered() {
		out = append(out, p.Spectrum())
	}
	return out
}

// SequenceAt exposes the shared kind at index i, growing the sequence if
// needed.
func (e *Engine) SequenceAt(i int) piece.Kind {
	return e.seq.At(i)
}
