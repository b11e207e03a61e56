package game

import "github.com/sakshamg567/blockfall/internal/piece"

// PlayerState is one participant's board and counters inside a match.
type PlayerState struct {
	ID   string
	Name string

	Board   Board
	Current *piece.Piece
	Next    *piece.Piece
	Held    *piece.Piece
	CanHold bool

	PieceIndex int
	Score      int
	Lines      int
	Level      int
	GameOver   bool
}

func NewPlayerState(id, name string) *PlayerState {
	p := &PlayerState{ID: id, Name: name}
	p.Reset()
	return p
}

// Reset returns the player to a fresh pre-match state.
func (p *PlayerState) Reset() {
	p.Board.Clear()
	p.Current = nil
	p.Next = nil
	p.Held = nil
	p.CanHold = true
	p.PieceIndex = 0
	p.Score = 0
	p.Lines = 0
	p.Level = 1
	p.GameOver = false
}

func (p *PlayerState) addLines(n int) {
	p.Lines += n
	p.Level = p.Lines/10 + 1
}

// Spectrum is the render-oriented view of one player.
type Spectrum struct {
	PlayerName   string            `json:"playerName"`
	Board        Board             `json:"board"`
	Score        int               `json:"score"`
	Lines        int               `json:"lines"`
	Level        int               `json:"level"`
	GameOver     bool              `json:"gameOver"`
	CurrentPiece *piece.Descriptor `json:"currentPiece"`
	NextPiece    *piece.Descriptor `json:"nextPiece"`
	HeldPiece    *piece.Descriptor `json:"heldPiece"`
}

func (p *PlayerState) Spectrum() Spectrum {
	return Spectrum{
		PlayerName:   p.Name,
		Board:        p.Board,
		Score:        p.Score,
		Lines:        p.Lines,
		Level:        p.Level,
		GameOver:     p.GameOver,
		CurrentPiece: describe(p.Current),
		NextPiece:    describe(p.Next),
		HeldPiece:    describe(p.Held),
	}
}

func describe(p *piece.Piece) *piece.Descriptor {
	if p == nil {
		return nil
	}
	d := p.Descriptor()
	return &d
}

// clone copies the state without sharing pieces.
func (p *PlayerState) clone() PlayerState {
	c := *p
	c.Current = copyPiece(p.Current)
	c.Next = copyPiece(p.Next)
	c.Held = copyPiece(p.Held)
	return c
}

func copyPiece(p *piece.Piece) *piece.Piece {
	if p == nil {
		return nil
	}
	c := p.Clone()
	return &c
}
