package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	config := DefaultGameConfig()
	config.FinishedGamesCacheSize = 2
	gm, err := NewGameManager(config, nil)
	require.NoError(t, err)
	return gm
}

func TestManagerCreatesGames(t *testing.T) {
	gm := newTestManager(t)
	g1, err := gm.NewGame(nil)
	require.NoError(t, err)
	g2, err := gm.NewGame(nil)
	require.NoError(t, err)

	assert.NotEqual(t, g1.GameCode(), g2.GameCode())
	assert.True(t, strings.HasPrefix(g1.GameCode(), "HD-"))
	assert.Equal(t, uint64(1), g1.GameID())
	assert.Equal(t, uint64(2), g2.GameID())
	assert.Equal(t, 2, gm.ActiveGameCount())

	got, ok := gm.GetGame(g1.GameCode())
	require.True(t, ok)
	assert.Same(t, g1, got)
	got, ok = gm.GetGameByID(2)
	require.True(t, ok)
	assert.Same(t, g2, got)

	codes := gm.GameCodes()
	assert.ElementsMatch(t, []string{g1.GameCode(), g2.GameCode()}, codes)
}

func TestFinishedGameIsArchived(t *testing.T) {
	gm := newTestManager(t)
	config := gm.Config()
	config.StrictStart = false
	roller := NewQueueRoller(FaceRight, FaceRight, FaceRight)
	collector := &MessageCollector{}
	game, err := gm.NewGameWithRoller(config, roller, collector)
	require.NoError(t, err)

	_, err = game.Join("ann")
	require.NoError(t, err)
	_, err = game.Join("bob")
	require.NoError(t, err)

	// ann passes every chip to bob and loses heads-up
	_, err = game.RequestRoll(0)
	require.NoError(t, err)

	_, ok := gm.GetGame(game.GameCode())
	assert.False(t, ok, "finished games leave the active list")
	finished, ok := gm.FinishedGame(game.GameCode())
	require.True(t, ok)
	assert.Equal(t, 1, finished.Winner)
	assert.Equal(t, "bob", finished.WinnerName)
	assert.Equal(t, 6, finished.Final.Seats[1].Chips)
	assert.Len(t, finished.History, 1)

	ref, ok := gm.LookupGame(game.GameCode())
	require.True(t, ok)
	assert.Equal(t, game.GameID(), ref.GameID)
	assert.Equal(t, config.Title, ref.Title)

	kinds := collector.Kinds()
	assert.Equal(t, EventPlayerJoined, kinds[0])
	assert.Equal(t, EventGameOver, kinds[len(kinds)-1])
	for i, m := range collector.Messages {
		assert.Equal(t, uint64(i+1), m.MessageID)
		assert.Equal(t, game.GameCode(), m.GameCode)
	}
}

func TestEndGameAndFinishedCacheBound(t *testing.T) {
	gm := newTestManager(t)
	var codes []string
	for i := 0; i < 3; i++ {
		game, err := gm.NewGame(nil)
		require.NoError(t, err)
		codes = append(codes, game.GameCode())
		require.NoError(t, gm.EndGame(game.GameCode()))
	}
	assert.Equal(t, 0, gm.ActiveGameCount())
	assert.Error(t, gm.EndGame(codes[0]))

	_, ok := gm.FinishedGame(codes[0])
	assert.False(t, ok, "oldest finished game is evicted")
	assert.Equal(t, codes[1:], gm.FinishedGameCodes())

	finished, ok := gm.FinishedGame(codes[2])
	require.True(t, ok)
	assert.Equal(t, NoSeat, finished.Winner)
	assert.Empty(t, finished.WinnerName)
}

func TestGameCheckpointsAndRestore(t *testing.T) {
	tracker := NewMemoryStateTracker()
	gm, err := NewGameManager(DefaultGameConfig(), tracker)
	require.NoError(t, err)
	game, err := gm.NewGameWithRoller(gm.Config(), NewQueueRoller(FaceHub, FaceKeep, FaceKeep), nil)
	require.NoError(t, err)
	for _, name := range playerNames {
		_, err = game.Join(name)
		require.NoError(t, err)
	}
	_, err = game.RequestRoll(0)
	require.NoError(t, err)

	saved, err := tracker.Load(game.GameCode())
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Pot)
	assert.Equal(t, 1, saved.CurrentPlayer)

	game.Reset()
	assert.Equal(t, 0, game.State().Pot)
	require.NoError(t, game.Restore())
	assert.Equal(t, 0, game.State().Pot, "reset was checkpointed too")

	_, err = game.RequestRoll(0)
	assert.True(t, IsKind(err, InvalidTurn))
}

func TestEncodeMessage(t *testing.T) {
	message := &GameMessage{
		Version:   MessageVersion,
		GameID:    4,
		GameCode:  "HD-ABCDEF",
		MessageID: 9,
		Event: Event{
			Kind:   EventChipTransferred,
			Seat:   0,
			From:   0,
			To:     PotSeat,
			Amount: 1,
			Reason: ReasonHub,
			Pot:    1,
		},
	}
	data, err := EncodeMessage(message)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"chip-transferred"`)
	assert.Contains(t, string(data), `"reason":"hub"`)

	decoded, err := DecodeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, message, decoded)
}
