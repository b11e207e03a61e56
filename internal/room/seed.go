package room

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/sakshamg567/blockfall/internal/game"
)

// SeededSource gives each room a generator derived from seed and the room
// id, so a given room replays the same pieces and garbage holes.
func SeededSource(seed uint64) func(roomID string) game.Rand {
	return func(roomID string) game.Rand {
		h := fnv.New64a()
		h.Write([]byte(roomID))
		return rand.New(rand.NewPCG(seed, h.Sum64()))
	}
}
