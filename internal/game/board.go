package game

import (
	"bytes"
	"encoding/json"

	"github.com/sakshamg567/blockfall/internal/piece"
)

const (
	BoardWidth  = 10
	BoardHeight = 20

	GarbageColor = "#666666"
)

// Board is the fixed 20x10 grid. An empty cell is "", a locked cell holds
// a colour token. Rows are indexed top to bottom.
type Board [BoardHeight][BoardWidth]string

func (b *Board) Clear() {
	*b = Board{}
}

// Occupied reports whether a cell on the board is filled. Off-board cells
// report false.
func (b *Board) Occupied(x, y int) bool {
	if x < 0 || x >= BoardWidth || y < 0 || y >= BoardHeight {
		return false
	}
	return b[y][x] != ""
}

// Fits is the collision rule: every cell inside the columns, above the
// floor, and on an empty cell unless it is still above row 0.
func (b *Board) Fits(p piece.Piece) bool {
	for _, c := range p.Cells() {
		if c.X < 0 || c.X >= BoardWidth || c.Y >= BoardHeight {
			return false
		}
		if c.Y < 0 {
			continue
		}
		if b[c.Y][c.X] != "" {
			return false
		}
	}
	return true
}

// Stamp writes the on-board cells of p and reports whether any cell was
// left above the board.
func (b *Board) Stamp(p piece.Piece) (overflow bool) {
	color := p.Color()
	for _, c := range p.Cells() {
		if c.Y < 0 {
			overflow = true
			continue
		}
		if c.Y < BoardHeight && c.X >= 0 && c.X < BoardWidth {
			b[c.Y][c.X] = color
		}
	}
	return overflow
}

func (b *Board) rowFull(y int) bool {
	for _, v := range b[y] {
		if v == "" {
			return false
		}
	}
	return true
}

// ClearLines removes every full row, compacts the rest downward and
// refills the top with empty rows. It returns the number of rows removed.
func (b *Board) ClearLines() int {
	var next Board
	write := BoardHeight - 1
	cleared := 0
	for y := BoardHeight - 1; y >= 0; y-- {
		if b.rowFull(y) {
			cleared++
			continue
		}
		next[write] = b[y]
		write--
	}
	*b = next
	return cleared
}

// PushGarbage drops the top row and appends a garbage row at the bottom
// with a single hole at column hole.
func (b *Board) PushGarbage(hole int) {
	copy(b[:BoardHeight-1], b[1:])
	var row [BoardWidth]string
	for x := range row {
		if x != hole {
			row[x] = GarbageColor
		}
	}
	b[BoardHeight-1] = row
}

// MarshalJSON renders empty cells as 0 and locked cells as their colour,
// which is what board renderers consume.
func (b Board) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for y := range b {
		if y > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		for x, v := range b[y] {
			if x > 0 {
				buf.WriteByte(',')
			}
			if v == "" {
				buf.WriteByte('0')
				continue
			}
			s, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			buf.Write(s)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
