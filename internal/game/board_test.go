package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshamg567/blockfall/internal/piece"
)

func fillRow(b *Board, y int, color string, except ...int) {
	skip := map[int]bool{}
	for _, x := range except {
		skip[x] = true
	}
	for x := 0; x < BoardWidth; x++ {
		if !skip[x] {
			b[y][x] = color
		}
	}
}

func TestClearLinesSingleRow(t *testing.T) {
	var b Board
	fillRow(&b, 19, "#fff")

	assert.Equal(t, 1, b.ClearLines())
	assert.Equal(t, Board{}, b)
}

func TestClearLinesCompactsDownward(t *testing.T) {
	var b Board
	fillRow(&b, 19, "#a")
	fillRow(&b, 18, "#b", 4)
	fillRow(&b, 17, "#c")
	b[16][2] = "#d"

	assert.Equal(t, 2, b.ClearLines())
	assert.Equal(t, "#d", b[18][2])
	assert.Equal(t, "", b[19][4])
	assert.Equal(t, "#b", b[19][0])
	for y := 0; y < 18; y++ {
		for x := 0; x < BoardWidth; x++ {
			assert.Empty(t, b[y][x])
		}
	}
}

func TestPushGarbage(t *testing.T) {
	var b Board
	b[0][1] = "#top"
	b[1][1] = "#second"

	b.PushGarbage(7)

	assert.Equal(t, "#second", b[0][1])
	filled := 0
	for x, v := range b[BoardHeight-1] {
		if x == 7 {
			assert.Empty(t, v)
			continue
		}
		assert.Equal(t, GarbageColor, v)
		filled++
	}
	assert.Equal(t, 9, filled)
}

func TestFits(t *testing.T) {
	var b Board
	p, _ := piece.New(piece.KindI, 3, 0)
	assert.True(t, b.Fits(p))

	// above the board is exempt from occupancy but not from x bounds
	p.Y = -1
	assert.True(t, b.Fits(p))
	p.X = 7
	assert.False(t, b.Fits(p))

	p, _ = piece.New(piece.KindI, 3, 19)
	assert.True(t, b.Fits(p))
	p.Y = 20
	assert.False(t, b.Fits(p))

	b[19][5] = "#x"
	p.Y = 19
	assert.False(t, b.Fits(p))
}

func TestStampReportsOverflow(t *testing.T) {
	var b Board
	p, _ := piece.New(piece.KindT, 0, -1)
	assert.True(t, b.Stamp(p))
	// only the bottom row of the T lands on the board
	assert.Equal(t, []string{"#a000f0", "#a000f0", "#a000f0"}, b[0][:3])
}

func TestBoardMarshalJSON(t *testing.T) {
	var b Board
	b[19][0] = "#00f0f0"
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded [][]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, BoardHeight)
	assert.Len(t, decoded[0], BoardWidth)
	assert.Equal(t, float64(0), decoded[0][0])
	assert.Equal(t, "#00f0f0", decoded[19][0])
}
