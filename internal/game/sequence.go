package game

import "github.com/sakshamg567/blockfall/internal/piece"

const (
	initialSequence = 100
	sequenceBatch   = 50
)

// Rand is the source of randomness for piece draws and garbage holes.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Sequence is the append-only list of piece kinds shared by every player
// of a room. Players only ever read it by index.
type Sequence struct {
	kinds []piece.Kind
	rng   Rand
}

func newSequence(rng Rand) *Sequence {
	return &Sequence{rng: rng}
}

func (s *Sequence) Len() int {
	return len(s.kinds)
}

func (s *Sequence) reset() {
	s.kinds = nil
}

func (s *Sequence) grow(n int) {
	all := piece.Kinds()
	for i := 0; i < n; i++ {
		s.kinds = append(s.kinds, all[s.rng.IntN(len(all))])
	}
}

// At returns the kind at index i, extending the sequence in batches until
// at least one entry of lookahead past i exists.
func (s *Sequence) At(i int) piece.Kind {
	for len(s.kinds) <= i+1 {
		s.grow(sequenceBatch)
	}
	return s.kinds[i]
}

// Kinds returns a copy of the generated prefix.
func (s *Sequence) Kinds() []piece.Kind {
	out := make([]piece.Kind, len(s.kinds))
	copy(out, s.kinds)
	return out
}
