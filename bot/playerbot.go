package bot

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"hubdice.com/server/game"
	"hubdice.com/server/logging"
)

var botPlayerLogger = log.With().Str("logger_name", "bot::player").Logger()

// PlayerBot plays one seat of a game.
type PlayerBot struct {
	botID    string
	name     string
	seatNo   int
	strategy Strategy
}

func NewPlayerBot(name string, strategy Strategy) *PlayerBot {
	if strategy == nil {
		strategy = GreedyStrategy{}
	}
	return &PlayerBot{
		botID:    uuid.New().String(),
		name:     name,
		seatNo:   game.NoSeat,
		strategy: strategy,
	}
}

func (p *PlayerBot) BotID() string {
	return p.botID
}

func (p *PlayerBot) Name() string {
	return p.name
}

func (p *PlayerBot) SeatNo() int {
	return p.seatNo
}

func (p *PlayerBot) joinGame(g *game.Game) error {
	seatNo, err := g.Join(p.name)
	if err != nil {
		return errors.Wrapf(err, "bot %s could not join game %s", p.name, g.GameCode())
	}
	p.seatNo = seatNo
	return nil
}

// playTurn rolls and resolves every pending wild die.
func (p *PlayerBot) playTurn(g *game.Game) error {
	result, err := g.RequestRoll(p.seatNo)
	if err != nil {
		return errors.Wrapf(err, "bot %s failed to roll", p.name)
	}
	botPlayerLogger.Debug().
		Str(logging.GameCodeKey, g.GameCode()).
		Int(logging.SeatNoKey, p.seatNo).
		Interface("faces", result.Faces).
		Bool("skipped", result.Skipped).
		Msg("Bot rolled")

	for {
		status := g.WildStatus()
		if status == nil {
			return nil
		}
		choice := p.strategy.ChooseWild(g.State(), *status)
		_, err := g.SubmitWildChoice(p.seatNo, choice)
		if err != nil {
			return errors.Wrapf(err, "bot %s made an illegal choice %s", p.name, choice)
		}
	}
}
