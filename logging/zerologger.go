package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"hubdice.com/server/util"
)

// Structured keys shared by every package.
const (
	GameIDKey     string = "gameID"
	GameCodeKey   string = "gameCode"
	SeatNoKey     string = "seatNo"
	PlayerNameKey string = "playerName"
	PhaseKey      string = "phase"
	TurnKey       string = "turn"
)

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	if out == nil {
		out = os.Stdout
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !util.Env.IsColorLogEnabled(),
		TimeFormat: time.RFC3339,
	}
}

// GetZeroLogger returns a console logger tagged with the given name.
func GetZeroLogger(name string, out io.Writer) *zerolog.Logger {
	logger := zerolog.New(consoleWriter(out)).With().Timestamp().Str("logger", name).Logger()
	return &logger
}

// SetupGlobalLogger sends the global zerolog logger to the console and
// applies the log level from the environment.
func SetupGlobalLogger(out io.Writer) zerolog.Level {
	level := util.Env.GetZeroLogLogLevel()
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(consoleWriter(out))
	return level
}

// GameLogger derives a logger that carries the game identity on every line.
func GameLogger(base zerolog.Logger, gameID uint64, gameCode string) zerolog.Logger {
	return base.With().Uint64(GameIDKey, gameID).Str(GameCodeKey, gameCode).Logger()
}
