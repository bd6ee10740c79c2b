package simulation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	stats, err := Run(25, 100, &out)
	require.NoError(t, err)
	assert.Equal(t, 25, stats.Games)

	wins := 0
	for _, w := range stats.WinsBySeat {
		wins += w
	}
	assert.Equal(t, 25, wins)
	assert.LessOrEqual(t, stats.ShortestGame, stats.LongestGame)
	assert.Contains(t, out.String(), "Games: 25")
	assert.Contains(t, out.String(), "Average turns")
}

func TestRunIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	first, err := Run(10, 7, &a)
	require.NoError(t, err)
	second, err := Run(10, 7, &b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, a.String(), b.String())
}
