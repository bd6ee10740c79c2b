package simulation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/pkg/errors"
	"hubdice.com/server/bot"
	"hubdice.com/server/game"
)

// Stats aggregates the outcome of simulated games.
type Stats struct {
	Games         int
	WinsBySeat    [game.NumSeats]int
	TotalTurns    int
	LongestGame   int
	ShortestGame  int
	PotsWon       int
	TripleWilds   int
	Eliminations  int
	TurnHistogram map[int]int
}

// Run plays numGames bot games with seeds derived from seed and prints a
// summary to out.
func Run(numGames int, seed int64, out io.Writer) (*Stats, error) {
	if out == nil {
		out = os.Stdout
	}
	config := game.DefaultGameConfig()
	gm, err := game.NewGameManager(config, nil)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TurnHistogram: make(map[int]int)}
	for i := 0; i < numGames; i++ {
		if i > 0 && i%1000 == 0 {
			fmt.Fprintf(out, "Game %d\n", i)
		}
		config.Seed = seed + int64(i)
		g, err := gm.NewGameWithRoller(config, nil, nil)
		if err != nil {
			return nil, err
		}
		bots := []*bot.PlayerBot{
			bot.NewPlayerBot("greedy-1", bot.GreedyStrategy{}),
			bot.NewPlayerBot("random-1", bot.RandomStrategy{Rand: rand.New(rand.NewSource(config.Seed))}),
			bot.NewPlayerBot("greedy-2", bot.GreedyStrategy{}),
			bot.NewPlayerBot("random-2", bot.RandomStrategy{Rand: rand.New(rand.NewSource(config.Seed + 1))}),
		}
		outcome, err := bot.NewDriverBot(g, bots, 0).Run(context.Background())
		if err != nil {
			return nil, errors.Wrapf(err, "simulated game %d failed", i)
		}
		stats.add(outcome)
	}
	stats.Print(out)
	return stats, nil
}

func (s *Stats) add(outcome *bot.Outcome) {
	s.Games++
	s.WinsBySeat[outcome.Winner]++
	s.TotalTurns += outcome.Turns
	if outcome.Turns > s.LongestGame {
		s.LongestGame = outcome.Turns
	}
	if s.ShortestGame == 0 || outcome.Turns < s.ShortestGame {
		s.ShortestGame = outcome.Turns
	}
	// bucket by 10 turns
	s.TurnHistogram[outcome.Turns/10*10]++
	for _, seat := range outcome.Final.Seats {
		if seat.Eliminated {
			s.Eliminations++
		}
	}
	for _, h := range outcome.Final.History {
		if game.CountWilds(h.Faces) == game.TripleWild {
			s.TripleWilds++
		}
		for _, c := range h.Choices {
			if c.Type == game.ChoiceTakePot {
				s.PotsWon++
			}
		}
	}
}

func (s *Stats) Print(out io.Writer) {
	fmt.Fprintf(out, "Games: %d\n", s.Games)
	if s.Games == 0 {
		return
	}
	for seatNo, wins := range s.WinsBySeat {
		fmt.Fprintf(out, "Seat %d (%s) wins: %d (%.2f%%)\n", seatNo, game.PositionOf(seatNo), wins, float64(wins)*100/float64(s.Games))
	}
	fmt.Fprintf(out, "Average turns: %.1f  shortest: %d  longest: %d\n",
		float64(s.TotalTurns)/float64(s.Games), s.ShortestGame, s.LongestGame)
	fmt.Fprintf(out, "Triple wilds: %d  pots taken: %d  eliminations: %d\n", s.TripleWilds, s.PotsWon, s.Eliminations)

	buckets := make([]int, 0, len(s.TurnHistogram))
	for b := range s.TurnHistogram {
		buckets = append(buckets, b)
	}
	sort.Ints(buckets)
	for _, b := range buckets {
		fmt.Fprintf(out, "  %4d-%-4d turns: %d\n", b, b+9, s.TurnHistogram[b])
	}
}
