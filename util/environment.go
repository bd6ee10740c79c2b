package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type environment struct {
	LogLevel               string
	ColorizeLog            string
	StrictStart            string
	RestPort               string
	FinishedGamesCacheSize string
}

// Env is a helper object for accessing environment variables.
var Env = &environment{
	LogLevel:               "LOG_LEVEL",
	ColorizeLog:            "COLORIZE_LOG",
	StrictStart:            "STRICT_START",
	RestPort:               "REST_PORT",
	FinishedGamesCacheSize: "FINISHED_GAMES_CACHE_SIZE",
}

func (e *environment) GetLogLevel() string {
	v := os.Getenv(e.LogLevel)
	if v == "" {
		return "info"
	}
	return strings.ToLower(v)
}

// IsColorLogEnabled defaults to colorized console output.
func (e *environment) IsColorLogEnabled() bool {
	v := os.Getenv(e.ColorizeLog)
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

func (e *environment) GetZeroLogLogLevel() zerolog.Level {
	switch e.GetLogLevel() {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	}
	environmentLogger.Warn().Msgf("Unknown %s value [%s], using info", e.LogLevel, e.GetLogLevel())
	return zerolog.InfoLevel
}

// GetStrictStart reports whether STRICT_START overrides the configured start rule.
// The second return value is false when the variable is not set.
func (e *environment) GetStrictStart() (bool, bool) {
	v := os.Getenv(e.StrictStart)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		environmentLogger.Warn().Msgf("Invalid %s value [%s]", e.StrictStart, v)
		return false, false
	}
	return b, true
}

func (e *environment) GetRestPort() int {
	return e.getInt(e.RestPort, 8080)
}

func (e *environment) GetFinishedGamesCacheSize() int {
	return e.getInt(e.FinishedGamesCacheSize, 0)
}

func (e *environment) getInt(name string, defaultValue int) int {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		environmentLogger.Warn().Msg(fmt.Sprintf("Invalid %s value [%s], using %d", name, v, defaultValue))
		return defaultValue
	}
	return n
}
