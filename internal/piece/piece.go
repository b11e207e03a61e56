package piece

import (
	"errors"
	"fmt"
)

// Kind names one of the seven tetromino shapes.
type Kind string

const (
	KindI Kind = "I"
	KindO Kind = "O"
	KindT Kind = "T"
	KindS Kind = "S"
	KindZ Kind = "Z"
	KindJ Kind = "J"
	KindL Kind = "L"
)

var ErrInvalidKind = errors.New("invalid piece kind")

// kinds is the draw order used by the random sequence.
var kinds = []Kind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}

// base shapes at rotation 0, row-major
var shapes = map[Kind][][]uint8{
	KindI: {{1, 1, 1, 1}},
	KindO: {
		{1, 1},
		{1, 1},
	},
	KindT: {
		{0, 1, 0},
		{1, 1, 1},
	},
	KindS: {
		{0, 1, 1},
		{1, 1, 0},
	},
	KindZ: {
		{1, 1, 0},
		{0, 1, 1},
	},
	KindJ: {
		{1, 0, 0},
		{1, 1, 1},
	},
	KindL: {
		{0, 0, 1},
		{1, 1, 1},
	},
}

var colors = map[Kind]string{
	KindI: "#00f0f0",
	KindO: "#f0f000",
	KindT: "#a000f0",
	KindS: "#00f000",
	KindZ: "#f00000",
	KindJ: "#0000f0",
	KindL: "#f0a000",
}

// Kinds returns every valid kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

func (k Kind) Valid() bool {
	_, ok := shapes[k]
	return ok
}

// Cell is an absolute board coordinate. Y grows downward; negative Y is
// above the visible board.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Piece is a tetromino with a position and a quarter-turn orientation.
// It is a plain value: copies never share state.
type Piece struct {
	Kind     Kind
	X        int
	Y        int
	Rotation int
}

// New builds a piece of the given kind at (x, y) in orientation 0.
func New(kind Kind, x, y int) (Piece, error) {
	if !kind.Valid() {
		return Piece{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return Piece{Kind: kind, X: x, Y: y}, nil
}

func (p Piece) Color() string {
	return colors[p.Kind]
}

func (p *Piece) RotateClockwise() {
	p.Rotation = (p.Rotation + 1) % 4
}

func (p *Piece) RotateCounterClockwise() {
	p.Rotation = (p.Rotation + 3) % 4
}

func (p *Piece) Translate(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// Clone returns an independent copy.
func (p Piece) Clone() Piece {
	return p
}

// Shape returns the piece matrix at its current orientation.
func (p Piece) Shape() [][]uint8 {
	shape := shapes[p.Kind]
	for i := 0; i < p.Rotation%4; i++ {
		shape = rotate90(shape)
	}
	return shape
}

// Cells enumerates the absolute occupied cells.
func (p Piece) Cells() []Cell {
	shape := p.Shape()
	cells := make([]Cell, 0, 4)
	for row := range shape {
		for col, v := range shape[row] {
			if v != 0 {
				cells = append(cells, Cell{X: p.X + col, Y: p.Y + row})
			}
		}
	}
	return cells
}

// rotate90 turns a matrix a quarter clockwise into a fresh matrix.
func rotate90(m [][]uint8) [][]uint8 {
	rows, cols := len(m), len(m[0])
	out := make([][]uint8, cols)
	for c := 0; c < cols; c++ {
		out[c] = make([]uint8, rows)
		for r := 0; r < rows; r++ {
			out[c][rows-1-r] = m[r][c]
		}
	}
	return out
}

// Descriptor is the render-facing form of a piece.
type Descriptor struct {
	Type     Kind   `json:"type"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Rotation int    `json:"rotation"`
	Color    string `json:"color"`
}

func (p Piece) Descriptor() Descriptor {
	return Descriptor{
		Type:     p.Kind,
		X:        p.X,
		Y:        p.Y,
		Rotation: p.Rotation,
		Color:    p.Color(),
	}
}
