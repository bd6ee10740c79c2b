package game

import (
	"math/rand"
	"sync"

	"github.com/rs/zerolog/log"
	"hubdice.com/server/util/random"
)

var diceLogger = log.With().Str("logger_name", "game::dice").Logger()

// Roller produces die faces for a roll.
type Roller interface {
	Roll(numDice int) []Face
}

// RandomRoller draws each face independently and uniformly.
type RandomRoller struct {
	lock sync.Mutex
	rng  *rand.Rand
}

// NewRandomRoller seeds a xoshiro source; seed 0 picks a random seed.
func NewRandomRoller(seed int64) *RandomRoller {
	return &RandomRoller{rng: random.NewRand(seed)}
}

func (r *RandomRoller) Roll(numDice int) []Face {
	r.lock.Lock()
	defer r.lock.Unlock()
	faces := make([]Face, numDice)
	for i := range faces {
		faces[i] = Faces[r.rng.Intn(len(Faces))]
	}
	return faces
}

// QueueRoller returns faces queued ahead of time. It is used by game scripts
// and tests to force outcomes. When the queue runs dry the Fallback roller is
// used, or Keep faces if there is none.
type QueueRoller struct {
	queue    []Face
	Fallback Roller
}

func NewQueueRoller(faces ...Face) *QueueRoller {
	return &QueueRoller{queue: append([]Face{}, faces...)}
}

func (q *QueueRoller) Push(faces ...Face) {
	q.queue = append(q.queue, faces...)
}

func (q *QueueRoller) Pending() int {
	return len(q.queue)
}

func (q *QueueRoller) Clear() {
	q.queue = nil
}

func (q *QueueRoller) Roll(numDice int) []Face {
	faces := make([]Face, 0, numDice)
	n := numDice
	if n > len(q.queue) {
		n = len(q.queue)
	}
	faces = append(faces, q.queue[:n]...)
	q.queue = q.queue[n:]
	if len(faces) < numDice {
		missing := numDice - len(faces)
		if q.Fallback != nil {
			faces = append(faces, q.Fallback.Roll(missing)...)
		} else {
			diceLogger.Warn().Msgf("Dice queue is empty, padding %d die(s) with %s", missing, FaceKeep)
			for i := 0; i < missing; i++ {
				faces = append(faces, FaceKeep)
			}
		}
	}
	return faces
}

// CountWilds returns the number of wild faces in a roll.
func CountWilds(faces []Face) int {
	n := 0
	for _, f := range faces {
		if f == FaceWild {
			n++
		}
	}
	return n
}

// DiceCount is the number of dice a seat holding chips rolls.
func DiceCount(chips int) int {
	if chips > MaxDice {
		return MaxDice
	}
	if chips < 0 {
		return 0
	}
	return chips
}
