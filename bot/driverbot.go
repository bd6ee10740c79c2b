package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"hubdice.com/server/game"
	"hubdice.com/server/logging"
)

var driverBotLogger = log.With().Str("logger_name", "bot::driver").Logger()

// DefaultMaxTurns stops a runaway game.
const DefaultMaxTurns = 5000

// DriverBot seats a bot in every seat of a game and plays it to the end.
type DriverBot struct {
	game     *game.Game
	bots     []*PlayerBot
	pace     time.Duration
	maxTurns int
}

type Outcome struct {
	GameCode   string
	Winner     int
	WinnerName string
	Turns      int
	Final      game.Snapshot
}

func NewDriverBot(g *game.Game, bots []*PlayerBot, pace time.Duration) *DriverBot {
	return &DriverBot{
		game:     g,
		bots:     bots,
		pace:     pace,
		maxTurns: DefaultMaxTurns,
	}
}

func (b *DriverBot) SetMaxTurns(maxTurns int) {
	b.maxTurns = maxTurns
}

// Run joins the bots and plays until the game ends, the turn limit is hit or
// the context is cancelled.
func (b *DriverBot) Run(ctx context.Context) (*Outcome, error) {
	bySeat := make(map[int]*PlayerBot)
	for _, p := range b.bots {
		if err := p.joinGame(b.game); err != nil {
			return nil, err
		}
		bySeat[p.seatNo] = p
	}
	driverBotLogger.Info().
		Str(logging.GameCodeKey, b.game.GameCode()).
		Int("bots", len(b.bots)).
		Msg("Bots seated")

	for turns := 0; ; turns++ {
		state := b.game.State()
		if state.Phase == game.PhaseGameOver {
			return &Outcome{
				GameCode:   b.game.GameCode(),
				Winner:     state.Winner,
				WinnerName: state.Seats[state.Winner].Name,
				Turns:      state.Turn,
				Final:      state,
			}, nil
		}
		if turns >= b.maxTurns {
			return nil, fmt.Errorf("game %s did not finish in %d turns", b.game.GameCode(), b.maxTurns)
		}
		p, ok := bySeat[state.CurrentPlayer]
		if !ok {
			return nil, fmt.Errorf("no bot sits at seat %d in game %s", state.CurrentPlayer, b.game.GameCode())
		}
		if err := p.playTurn(b.game); err != nil {
			return nil, err
		}

		if b.pace > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.pace):
			}
		} else if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}
