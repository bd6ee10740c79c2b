package bot

import (
	"math/rand"

	"hubdice.com/server/game"
)

// Strategy picks wild choices for a bot. It is only consulted while the
// bot's seat has wild dice pending.
type Strategy interface {
	ChooseWild(state game.Snapshot, status game.WildStatus) game.WildChoice
}

// GreedyStrategy takes the pot when it is worth at least as much as the
// steals, otherwise robs the richest opponent.
type GreedyStrategy struct{}

func (GreedyStrategy) ChooseWild(state game.Snapshot, status game.WildStatus) game.WildChoice {
	if status.TakePotAllowed && (state.Pot >= status.StealsRemaining || len(status.Targets) == 0) {
		return game.TakePot()
	}
	target := richest(state, status.Targets)
	if !status.Triple {
		return game.Steal(target)
	}
	return game.StealN(target, stealAmount(state, status, target))
}

// RandomStrategy picks any legal choice.
type RandomStrategy struct {
	Rand *rand.Rand
}

func (r RandomStrategy) ChooseWild(state game.Snapshot, status game.WildStatus) game.WildChoice {
	if status.TakePotAllowed && (len(status.Targets) == 0 || r.Rand.Intn(2) == 0) {
		return game.TakePot()
	}
	target := status.Targets[r.Rand.Intn(len(status.Targets))]
	if !status.Triple {
		return game.Steal(target)
	}
	max := stealAmount(state, status, target)
	return game.StealN(target, 1+r.Rand.Intn(max))
}

func richest(state game.Snapshot, targets []int) int {
	best := targets[0]
	for _, seatNo := range targets {
		if state.Seats[seatNo].Chips > state.Seats[best].Chips {
			best = seatNo
		}
	}
	return best
}

func stealAmount(state game.Snapshot, status game.WildStatus, target int) int {
	amount := status.StealsRemaining
	if chips := state.Seats[target].Chips; chips < amount {
		amount = chips
	}
	return amount
}
