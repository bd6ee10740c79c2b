package game

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"hubdice.com/server/logging"
	"hubdice.com/server/util"
)

var managerLogger = log.With().Str("logger_name", "game::manager").Logger()

// FinishedGame is what the manager keeps of a game after it ends.
type FinishedGame struct {
	GameID     uint64         `json:"gameId"`
	GameCode   string         `json:"gameCode"`
	Title      string         `json:"title"`
	Winner     int            `json:"winner"`
	WinnerName string         `json:"winnerName"`
	Turns      int            `json:"turns"`
	Started    time.Time      `json:"started"`
	Ended      time.Time      `json:"ended"`
	Final      Snapshot       `json:"final"`
	History    []HistoryEntry `json:"history"`
}

// Manager hosts the active games of the server.
type Manager struct {
	config        GameConfig
	statePersist  PersistGameState
	activeGames   cmap.ConcurrentMap
	finishedGames *lru.Cache
	index         *gameIndex
	lastGameID    uint64
}

func NewGameManager(config GameConfig, statePersist PersistGameState) (*Manager, error) {
	if statePersist == nil {
		statePersist = NewMemoryStateTracker()
	}
	size := config.FinishedGamesCacheSize
	if size <= 0 {
		size = DefaultGameConfig().FinishedGamesCacheSize
	}
	finished, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize finished games cache")
	}
	index, err := newGameIndex(size)
	if err != nil {
		return nil, err
	}
	return &Manager{
		config:        config,
		statePersist:  statePersist,
		activeGames:   cmap.New(),
		finishedGames: finished,
		index:         index,
	}, nil
}

func (gm *Manager) Config() GameConfig {
	return gm.config
}

// NewGame creates a game with the manager's config and random dice.
func (gm *Manager) NewGame(receiver MessageReceiver) (*Game, error) {
	return gm.NewGameWithRoller(gm.config, nil, receiver)
}

// NewGameWithRoller creates a game with its own config and dice. A nil
// roller uses random dice seeded from the config.
func (gm *Manager) NewGameWithRoller(config GameConfig, roller Roller, receiver MessageReceiver) (*Game, error) {
	gameID := atomic.AddUint64(&gm.lastGameID, 1)
	gameCode := gm.newGameCode()
	game := newGame(gm, gameID, gameCode, config, roller, receiver, gm.statePersist)
	if !gm.activeGames.SetIfAbsent(gameCode, game) {
		return nil, fmt.Errorf("Game code %s is already in use", gameCode)
	}
	ref := GameRef{GameID: gameID, GameCode: gameCode, Title: config.Title, Created: game.created}
	if err := gm.index.register(ref); err != nil {
		gm.activeGames.Remove(gameCode)
		return nil, errors.Wrap(err, "Unable to register game code")
	}
	util.Metrics.GameCreated()
	util.Metrics.SetActiveGamesCount(gm.activeGames.Count())
	managerLogger.Info().
		Uint64(logging.GameIDKey, gameID).
		Str(logging.GameCodeKey, gameCode).
		Str("title", config.Title).
		Bool("strictStart", config.StrictStart).
		Msg("Game created")
	return game, nil
}

func (gm *Manager) newGameCode() string {
	for {
		code := "HD-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
		if !gm.activeGames.Has(code) {
			return code
		}
	}
}

func (gm *Manager) GetGame(gameCode string) (*Game, bool) {
	v, ok := gm.activeGames.Get(gameCode)
	if !ok {
		return nil, false
	}
	return v.(*Game), true
}

func (gm *Manager) GetGameByID(gameID uint64) (*Game, bool) {
	ref, ok := gm.index.forID(gameID)
	if !ok {
		return nil, false
	}
	return gm.GetGame(ref.GameCode)
}

// GameCodes returns the codes of the active games in sorted order.
func (gm *Manager) GameCodes() []string {
	codes := gm.activeGames.Keys()
	sort.Strings(codes)
	return codes
}

func (gm *Manager) ActiveGameCount() int {
	return gm.activeGames.Count()
}

// EndGame removes an active game, whether or not it has a winner.
func (gm *Manager) EndGame(gameCode string) error {
	game, ok := gm.GetGame(gameCode)
	if !ok {
		return fmt.Errorf("Game %s is not found", gameCode)
	}
	game.lock.Lock()
	defer game.lock.Unlock()
	game.ended = true
	gm.gameEnded(game)
	return nil
}

// gameEnded is called with the game lock held.
func (gm *Manager) gameEnded(game *Game) {
	state := game.engine.State()
	finished := &FinishedGame{
		GameID:   game.gameID,
		GameCode: game.gameCode,
		Title:    game.engine.Config().Title,
		Winner:   state.Winner,
		Turns:    state.Turn,
		Started:  game.created,
		Ended:    time.Now(),
		Final:    state,
		History:  state.History,
	}
	if validSeat(state.Winner) {
		finished.WinnerName = state.Seats[state.Winner].Name
	}
	gm.finishedGames.Add(game.gameCode, finished)
	gm.activeGames.Remove(game.gameCode)
	if err := gm.statePersist.Remove(game.gameCode); err != nil {
		managerLogger.Error().Err(err).Str(logging.GameCodeKey, game.gameCode).Msg("Unable to remove game state")
	}
	util.Metrics.SetActiveGamesCount(gm.activeGames.Count())
	managerLogger.Info().
		Uint64(logging.GameIDKey, game.gameID).
		Str(logging.GameCodeKey, game.gameCode).
		Int("winner", state.Winner).
		Msg("Game ended")
}

func (gm *Manager) FinishedGame(gameCode string) (*FinishedGame, bool) {
	v, ok := gm.finishedGames.Get(gameCode)
	if !ok {
		return nil, false
	}
	return v.(*FinishedGame), true
}

// FinishedGameCodes lists the retained finished games, oldest first.
func (gm *Manager) FinishedGameCodes() []string {
	keys := gm.finishedGames.Keys()
	codes := make([]string, 0, len(keys))
	for _, k := range keys {
		codes = append(codes, k.(string))
	}
	return codes
}

// LookupGame finds a game created by this manager by its code, whether it is
// still running or not.
func (gm *Manager) LookupGame(gameCode string) (GameRef, bool) {
	return gm.index.forCode(gameCode)
}
