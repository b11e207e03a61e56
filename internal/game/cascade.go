package game

// Outcome describes what an applied action did to the room.
type Outcome struct {
	// Applied is false for a blocked move or rotation.
	Applied bool
	// Broadcast asks the caller to send a full room snapshot. It is set
	// when a piece locks or a player is eliminated; moves, rotations and
	// a surviving hold only change the acting player's spectrum.
	Broadcast bool

	Dropped      int
	LinesCleared int
	// GameOver is set when the acting player was eliminated.
	GameOver bool
	// Eliminated names opponents knocked out by garbage from this action.
	Eliminated []string

	Ended  bool
	Winner string
}

func applied() Outcome {
	return Outcome{Applied: true}
}

// lock commits the active piece and runs the cascade: line clear, score,
// garbage to opponents, adjudication, then the next spawn.
func (e *Engine) lock(p *PlayerState) Outcome {
	out := applied()
	out.Broadcast = true

	if p.Board.Stamp(*p.Current) {
		p.GameOver = true
		out.GameOver = true
		e.adjudicate(&out)
		return out
	}

	n := p.Board.ClearLines()
	out.LinesCleared = n
	if n > 0 {
		p.Score += linePoints[min(n, len(linePoints)-1)] * (p.Level + 1)
		p.addLines(n)
		out.Eliminated = e.applyPenalty(p, n)
		if e.adjudicate(&out) {
			return out
		}
	}

	e.advance(p)
	if !p.Board.Fits(*p.Current) {
		p.GameOver = true
		out.GameOver = true
		e.adjudicate(&out)
	}
	return out
}

// advance moves a player onto its next piece and refreshes the preview.
func (e *Engine) advance(p *PlayerState) {
	cur := e.spawn(p.PieceIndex)
	p.PieceIndex++
	next := e.spawn(p.PieceIndex)
	p.Current, p.Next = &cur, &next
	p.CanHold = true
}

// applyPenalty pushes n/2 garbage rows onto every other live player and
// returns the names of those it eliminated.
func (e *Engine) applyPenalty(src *PlayerState, n int) []string {
	rows := n / 2
	if rows == 0 {
		return nil
	}
	var eliminated []string
	for _, p := range e.ordered() {
		if p == src || p.GameOver {
			continue
		}
		for i := 0; i < rows; i++ {
			p.Board.PushGarbage(e.rng.IntN(BoardWidth))
			if !p.GameOver && buried(p) {
				p.GameOver = true
				eliminated = append(eliminated, p.Name)
			}
		}
	}
	return eliminated
}

// buried reports whether the active piece now overlaps the stack or sits
// below the floor.
func buried(p *PlayerState) bool {
	if p.Current == nil {
		return false
	}
	for _, c := range p.Current.Cells() {
		if c.Y >= BoardHeight || p.Board.Occupied(c.X, c.Y) {
			return true
		}
	}
	return false
}

// adjudicate concludes the match when a single survivor remains in a
// multi-player room, or when nobody is left. It reports whether the match
// ended.
func (e *Engine) adjudicate(out *Outcome) bool {
	alive, over := 0, 0
	var survivor *PlayerState
	for _, p := range e.ordered() {
		if p.GameOver {
			over++
			continue
		}
		alive++
		survivor = p
	}

	switch {
	case len(e.order) > 1 && alive == 1 && over > 0:
		out.Winner = survivor.Name
	case alive == 0:
	default:
		return false
	}
	e.active = false
	out.Ended = true
	return true
}
