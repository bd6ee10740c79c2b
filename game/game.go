package game

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"hubdice.com/server/logging"
	"hubdice.com/server/util"
)

var gameLogger = log.With().Str("logger_name", "game::game").Logger()

// Game is a single table hosted by the manager. All operations are
// serialized by the game lock, and every accepted operation is followed by a
// checkpoint and the delivery of its events to the message receiver.
type Game struct {
	gameID    uint64
	gameCode  string
	manager   *Manager
	created   time.Time
	lock      sync.Mutex
	engine    *Engine
	receiver  MessageReceiver
	persist   PersistGameState
	messageID uint64
	ended     bool
	logger    zerolog.Logger
}

func newGame(manager *Manager, gameID uint64, gameCode string, config GameConfig, roller Roller, receiver MessageReceiver, persist PersistGameState) *Game {
	logger := logging.GameLogger(gameLogger, gameID, gameCode)
	engine := NewEngine(config, roller)
	engine.SetLogger(logging.GameLogger(engineLogger, gameID, gameCode))
	return &Game{
		gameID:   gameID,
		gameCode: gameCode,
		manager:  manager,
		created:  time.Now(),
		engine:   engine,
		receiver: receiver,
		persist:  persist,
		logger:   logger,
	}
}

func (g *Game) GameID() uint64 {
	return g.gameID
}

func (g *Game) GameCode() string {
	return g.gameCode
}

func (g *Game) Created() time.Time {
	return g.created
}

func (g *Game) Config() GameConfig {
	return g.engine.Config()
}

func (g *Game) Join(name string) (int, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	seatNo, events, err := g.engine.Join(name)
	if err != nil {
		return NoSeat, g.rejected(err)
	}
	g.accepted(events)
	return seatNo, nil
}

func (g *Game) JoinAt(seatNo int, name string) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	events, err := g.engine.JoinAt(seatNo, name)
	if err != nil {
		return g.rejected(err)
	}
	g.accepted(events)
	return nil
}

func (g *Game) RequestRoll(seatNo int) (*RollResult, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	result, err := g.engine.RequestRoll(seatNo)
	if err != nil {
		return nil, g.rejected(err)
	}
	g.accepted(result.Events)
	return result, nil
}

func (g *Game) SubmitWildChoice(seatNo int, choice WildChoice) ([]Event, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	events, err := g.engine.SubmitWildChoice(seatNo, choice)
	if err != nil {
		return nil, g.rejected(err)
	}
	g.accepted(events)
	return events, nil
}

func (g *Game) Reset() []Event {
	g.lock.Lock()
	defer g.lock.Unlock()
	events := g.engine.Reset()
	g.ended = false
	g.accepted(events)
	return events
}

func (g *Game) State() Snapshot {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.engine.State()
}

func (g *Game) History() []HistoryEntry {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.engine.History()
}

func (g *Game) WildStatus() *WildStatus {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.engine.WildStatus()
}

func (g *Game) PrintTable(w io.Writer) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.engine.PrintTable(w)
}

// Restore loads the last checkpoint saved for this game.
func (g *Game) Restore() error {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.persist == nil {
		return nil
	}
	state, err := g.persist.Load(g.gameCode)
	if err != nil {
		return err
	}
	return g.engine.Restore(*state)
}

// LoadSnapshot replaces the game state, used by game scripts to set up a
// table mid-game.
func (g *Game) LoadSnapshot(state Snapshot) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	if err := g.engine.Restore(state); err != nil {
		return err
	}
	g.saveCheckpoint()
	return nil
}

func (g *Game) rejected(err error) error {
	util.Metrics.Rejected(string(KindOf(err)))
	g.logger.Debug().Err(err).Msg("Operation rejected")
	return err
}

func (g *Game) accepted(events []Event) {
	for _, ev := range events {
		g.recordMetrics(ev)
		g.messageID++
		if g.receiver != nil {
			g.receiver.GameMessage(&GameMessage{
				Version:   MessageVersion,
				GameID:    g.gameID,
				GameCode:  g.gameCode,
				MessageID: g.messageID,
				Event:     ev,
			})
		}
	}
	g.saveCheckpoint()

	if g.engine.Phase() == PhaseGameOver && !g.ended {
		g.ended = true
		if g.manager != nil {
			g.manager.gameEnded(g)
		}
	}
}

func (g *Game) recordMetrics(ev Event) {
	switch ev.Kind {
	case EventRollPerformed:
		util.Metrics.DiceRolled()
		if ev.Wilds >= TripleWild {
			util.Metrics.TripleWild()
		}
	case EventTurnSkipped:
		util.Metrics.TurnSkipped()
	case EventSeatEliminated:
		util.Metrics.SeatEliminated()
	case EventGameOver:
		util.Metrics.GameEnded(ev.Amount)
	case EventDiagnostic:
		util.Metrics.ScanDiagnostic()
	}
}

func (g *Game) saveCheckpoint() {
	if g.persist == nil {
		return
	}
	state := g.engine.State()
	err := g.persist.Save(g.gameCode, &state)
	if err != nil {
		g.logger.Error().Err(err).Msg("Unable to save game state")
	}
}
