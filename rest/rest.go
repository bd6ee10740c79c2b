package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"hubdice.com/server/game"
)

var restLogger = log.With().Str("logger_name", "game::rest").Logger()

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type gameSummary struct {
	GameID        uint64     `json:"gameId"`
	GameCode      string     `json:"gameCode"`
	Title         string     `json:"title"`
	Phase         game.Phase `json:"phase"`
	CurrentPlayer int        `json:"currentPlayer"`
	Pot           int        `json:"pot"`
	Turn          int        `json:"turn"`
	Players       int        `json:"players"`
}

type handlers struct {
	gameManager *game.Manager
}

// NewRouter builds the inspection endpoints. None of them changes game state.
func NewRouter(gameManager *game.Manager) *gin.Engine {
	h := &handlers{gameManager: gameManager}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ready", h.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/games", h.games)
	r.GET("/games/:code/state", h.gameState)
	r.GET("/games/:code/history", h.gameHistory)
	r.GET("/finished", h.finishedGames)
	r.GET("/finished/:code", h.finishedGame)
	return r
}

func RunRestServer(gameManager *game.Manager, port int) error {
	r := NewRouter(gameManager)
	return r.Run(fmt.Sprintf(":%d", port))
}

func (h *handlers) ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"activeGames": h.gameManager.ActiveGameCount(),
	})
}

func (h *handlers) games(c *gin.Context) {
	summaries := make([]gameSummary, 0)
	for _, code := range h.gameManager.GameCodes() {
		g, ok := h.gameManager.GetGame(code)
		if !ok {
			// ended while listing
			continue
		}
		state := g.State()
		players := 0
		for _, seat := range state.Seats {
			if seat.Occupied() {
				players++
			}
		}
		summaries = append(summaries, gameSummary{
			GameID:        g.GameID(),
			GameCode:      g.GameCode(),
			Title:         g.Config().Title,
			Phase:         state.Phase,
			CurrentPlayer: state.CurrentPlayer,
			Pot:           state.Pot,
			Turn:          state.Turn,
			Players:       players,
		})
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *handlers) gameState(c *gin.Context) {
	g, ok := h.findGame(c)
	if !ok {
		return
	}
	state := g.State()
	state.History = nil
	c.JSON(http.StatusOK, state)
}

func (h *handlers) gameHistory(c *gin.Context) {
	g, ok := h.findGame(c)
	if !ok {
		return
	}
	history := g.History()
	if history == nil {
		history = []game.HistoryEntry{}
	}
	c.JSON(http.StatusOK, history)
}

func (h *handlers) finishedGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.gameManager.FinishedGameCodes())
}

func (h *handlers) finishedGame(c *gin.Context) {
	code := c.Param("code")
	finished, ok := h.gameManager.FinishedGame(code)
	if !ok {
		notFound(c, fmt.Sprintf("Finished game %s is not found", code))
		return
	}
	c.JSON(http.StatusOK, finished)
}

func (h *handlers) findGame(c *gin.Context) (*game.Game, bool) {
	code := c.Param("code")
	g, ok := h.gameManager.GetGame(code)
	if !ok {
		if _, known := h.gameManager.LookupGame(code); known {
			notFound(c, fmt.Sprintf("Game %s has ended", code))
		} else {
			notFound(c, fmt.Sprintf("Game %s is not found", code))
		}
		return nil, false
	}
	return g, true
}

func notFound(c *gin.Context, msg string) {
	restLogger.Debug().Str("path", c.Request.URL.Path).Msg(msg)
	c.IndentedJSON(http.StatusNotFound, appError{
		Code:    http.StatusNotFound,
		Message: msg,
	})
}
