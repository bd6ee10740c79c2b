package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGameConfig(t *testing.T) {
	config, err := ParseGameConfig("testdata/game-config.yaml")
	require.NoError(t, err)
	assert.Equal(t, GameConfig{
		Title:                  "Friday Night Dice",
		StrictStart:            false,
		Seed:                   1234,
		FinishedGamesCacheSize: DefaultGameConfig().FinishedGamesCacheSize,
	}, config)
}

func TestParseGameConfigErrors(t *testing.T) {
	_, err := ParseGameConfig("testdata/missing.yaml")
	assert.Error(t, err)

	_, err = ParseGameConfig("testdata/bad-cache-size.yaml")
	assert.Error(t, err)
}
