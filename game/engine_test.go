package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var playerNames = []string{"ann", "bob", "cat", "dan"}

func fourPlayerEngine(t *testing.T, faces ...Face) (*Engine, *QueueRoller) {
	t.Helper()
	roller := NewQueueRoller(faces...)
	e := NewEngine(DefaultGameConfig(), roller)
	for i, name := range playerNames {
		seatNo, _, err := e.Join(name)
		require.NoError(t, err)
		require.Equal(t, i, seatNo)
	}
	return e, roller
}

// engineAt builds an engine positioned at the start of a turn.
func engineAt(t *testing.T, seats [NumSeats]Seat, pot int, current int, faces ...Face) (*Engine, *QueueRoller) {
	t.Helper()
	roller := NewQueueRoller(faces...)
	e := NewEngine(DefaultGameConfig(), roller)
	err := e.Restore(Snapshot{
		Seats:         seats,
		Pot:           pot,
		CurrentPlayer: current,
		Phase:         PhaseAwaitingRoll,
		Started:       true,
		Winner:        NoSeat,
		RenderOrder:   identityOrder(),
	})
	require.NoError(t, err)
	return e, roller
}

func seatChips(e *Engine) []int {
	chips := make([]int, NumSeats)
	for i := range chips {
		chips[i] = e.Seat(i).Chips
	}
	return chips
}

func TestFourPlayersKeepAll(t *testing.T) {
	e, _ := fourPlayerEngine(t, FaceKeep, FaceKeep, FaceKeep)
	assert.Equal(t, 0, e.Pot())
	assert.Equal(t, 0, e.CurrentPlayer())

	result, err := e.RequestRoll(0)
	require.NoError(t, err)
	assert.Equal(t, []Face{FaceKeep, FaceKeep, FaceKeep}, result.Faces)
	assert.False(t, result.ResolutionRequired)
	assert.Equal(t, []int{3, 3, 3, 3}, seatChips(e))
	assert.Equal(t, 0, e.Pot())
	assert.Equal(t, 1, e.CurrentPlayer())
	assert.Equal(t, PhaseAwaitingRoll, e.Phase())
	assert.Equal(t, []EventKind{EventRollPerformed, EventTurnChanged}, EventKinds(result.Events))
}

func TestLastChipToHubGrantsGrace(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 1},
		{Name: "bob", Chips: 3},
		{Name: "cat", Chips: 3},
		{Name: "dan", Chips: 3},
	}
	e, _ := engineAt(t, seats, 2, 0, FaceHub)
	result, err := e.RequestRoll(0)
	require.NoError(t, err)
	assert.Equal(t, []Face{FaceHub}, result.Faces)

	ann := e.Seat(0)
	assert.Equal(t, 0, ann.Chips)
	assert.True(t, ann.Grace)
	assert.False(t, ann.Eliminated)
	assert.Equal(t, 3, e.Pot())
	assert.Equal(t, 1, e.CurrentPlayer())
	assert.Contains(t, EventKinds(result.Events), EventGraceGranted)
}

func TestHeadsUpEmptySeatLosesWithoutRolling(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 0, Grace: true},
		{Name: "bob", Chips: 5},
		{Name: "cat", Eliminated: true},
		{Name: "dan", Eliminated: true},
	}
	e, roller := engineAt(t, seats, 7, 0, FaceLeft)
	result, err := e.RequestRoll(0)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, result.Faces)
	assert.Equal(t, 1, roller.Pending(), "no dice may be thrown")

	assert.Equal(t, PhaseGameOver, e.Phase())
	assert.Equal(t, 1, e.Winner())
	assert.Equal(t, 12, e.Seat(1).Chips)
	assert.Equal(t, 0, e.Pot())

	last := result.Events[len(result.Events)-1]
	assert.Equal(t, EventGameOver, last.Kind)
	assert.Equal(t, 1, last.Seat)
	assert.Equal(t, 7, last.Amount)
}

func TestTripleWildTakePot(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 3},
		{Name: "bob", Chips: 2},
		{Name: "cat", Chips: 1},
		{Name: "dan", Chips: 1},
	}
	e, _ := engineAt(t, seats, 5, 0, FaceWild, FaceWild, FaceWild)
	result, err := e.RequestRoll(0)
	require.NoError(t, err)
	require.True(t, result.ResolutionRequired)
	require.Equal(t, PhaseResolvingWild, e.Phase())

	status := e.WildStatus()
	require.NotNil(t, status)
	assert.True(t, status.Triple)
	assert.True(t, status.TakePotAllowed)
	assert.Equal(t, 3, status.StealsRemaining)

	events, err := e.SubmitWildChoice(0, TakePot())
	require.NoError(t, err)
	assert.Equal(t, 8, e.Seat(0).Chips)
	assert.Equal(t, 0, e.Pot())
	assert.Nil(t, e.WildStatus())
	assert.Equal(t, PhaseAwaitingRoll, e.Phase())
	assert.Equal(t, 1, e.CurrentPlayer())
	assert.Equal(t, []EventKind{EventChipTransferred, EventWildResolved, EventTurnChanged}, EventKinds(events))

	_, err = e.SubmitWildChoice(0, TakePot())
	assert.True(t, IsKind(err, PhaseViolation))
}

func TestTripleWildSplitSteal(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 3},
		{Name: "bob", Chips: 2},
		{Name: "cat", Chips: 1},
		{Name: "dan", Chips: 0, Grace: true},
	}
	e, _ := engineAt(t, seats, 0, 0, FaceWild, FaceWild, FaceWild)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)

	_, err = e.SubmitWildChoice(0, StealN(1, 2))
	require.NoError(t, err)
	assert.Equal(t, PhaseResolvingWild, e.Phase(), "one chip still owed")
	assert.Equal(t, 1, e.WildStatus().StealsRemaining)
	assert.False(t, e.WildStatus().TakePotAllowed)

	_, err = e.SubmitWildChoice(0, TakePot())
	assert.True(t, IsKind(err, PhaseViolation), "take-pot after a steal")

	_, err = e.SubmitWildChoice(0, StealN(2, 1))
	require.NoError(t, err)

	bob, cat := e.Seat(1), e.Seat(2)
	assert.Equal(t, 0, bob.Chips)
	assert.True(t, bob.Grace)
	assert.Equal(t, 0, cat.Chips)
	assert.True(t, cat.Grace)
	assert.Equal(t, 6, e.Seat(0).Chips)
	assert.Nil(t, e.WildStatus())

	// bob was emptied this turn, so the scan hands bob a grace turn
	assert.Equal(t, 1, e.CurrentPlayer())
	assert.Equal(t, PhaseAwaitingRoll, e.Phase())
	assert.False(t, e.Seat(1).Eliminated)

	result, err := e.RequestRoll(1)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	// cat and dan are still empty with grace from earlier turns
	assert.True(t, e.Seat(2).Eliminated)
	assert.True(t, e.Seat(3).Eliminated)
	assert.Equal(t, 0, e.CurrentPlayer())
	assert.Equal(t, 2, e.ActiveSeatCount())
}

func TestTripleWildRejectsOverdraw(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 3},
		{Name: "bob", Chips: 2},
		{Name: "cat", Chips: 3},
		{Name: "dan", Chips: 3},
	}
	e, _ := engineAt(t, seats, 0, 0, FaceWild, FaceWild, FaceWild)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)
	before := e.State()

	_, err = e.SubmitWildChoice(0, StealN(1, 3))
	assert.True(t, IsKind(err, InvalidTarget), "bob holds only 2")
	_, err = e.SubmitWildChoice(0, StealN(2, 4))
	assert.True(t, IsKind(err, PhaseViolation))
	_, err = e.SubmitWildChoice(0, StealN(2, 0))
	assert.True(t, IsKind(err, PhaseViolation))
	_, err = e.SubmitWildChoice(0, Steal(2))
	assert.True(t, IsKind(err, PhaseViolation), "plain steal on a triple")
	_, err = e.SubmitWildChoice(0, StealN(0, 1))
	assert.True(t, IsKind(err, InvalidTarget), "self")
	_, err = e.SubmitWildChoice(1, StealN(2, 1))
	assert.True(t, IsKind(err, InvalidTurn))

	if diff := cmp.Diff(before, e.State()); diff != "" {
		t.Errorf("rejected choices changed the state (-want +got):\n%s", diff)
	}

	_, err = e.SubmitWildChoice(0, StealN(2, 2))
	require.NoError(t, err)
	_, err = e.SubmitWildChoice(0, StealN(3, 2))
	assert.True(t, IsKind(err, PhaseViolation), "only 1 left in the budget")
	_, err = e.SubmitWildChoice(0, StealN(3, 1))
	require.NoError(t, err)
	assert.Equal(t, 6, e.Seat(0).Chips)
}

func TestTripleWildBudgetLimitedByOpponentChips(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 3},
		{Name: "bob", Chips: 1},
		{Name: "cat", Chips: 0, Grace: true},
		{Name: "dan", Chips: 1},
	}
	e, _ := engineAt(t, seats, 4, 0, FaceWild, FaceWild, FaceWild)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)
	assert.Equal(t, 2, e.WildStatus().StealBudget)
	assert.Equal(t, []int{1, 3}, e.WildStatus().Targets)

	_, err = e.SubmitWildChoice(0, StealN(1, 1))
	require.NoError(t, err)
	_, err = e.SubmitWildChoice(0, StealN(3, 1))
	require.NoError(t, err)
	assert.Equal(t, 5, e.Seat(0).Chips)
	assert.Equal(t, 4, e.Pot())
	assert.NotEqual(t, PhaseResolvingWild, e.Phase())
}

func TestSingleWildSteal(t *testing.T) {
	e, _ := fourPlayerEngine(t, FaceWild, FaceLeft, FaceKeep)
	result, err := e.RequestRoll(0)
	require.NoError(t, err)
	require.True(t, result.ResolutionRequired)
	assert.Equal(t, []int{2, 4, 3, 3}, seatChips(e), "simple faces apply before wilds")

	status := e.WildStatus()
	assert.False(t, status.Triple)
	assert.Equal(t, 1, status.WildsRemaining)

	_, err = e.RequestRoll(0)
	assert.True(t, IsKind(err, PhaseViolation), "roll while wild pending")
	_, err = e.SubmitWildChoice(0, TakePot())
	assert.True(t, IsKind(err, PhaseViolation))

	_, err = e.SubmitWildChoice(0, Steal(2))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 2, 3}, seatChips(e))
	assert.Equal(t, 1, e.CurrentPlayer())

	history := e.History()
	require.Len(t, history, 1)
	assert.Equal(t, []WildChoice{Steal(2)}, history[0].Choices)
}

func TestDoubleWildSteals(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 2},
		{Name: "bob", Chips: 1},
		{Name: "cat", Chips: 4},
		{Name: "dan", Chips: 0, Grace: true},
	}
	e, _ := engineAt(t, seats, 0, 0, FaceWild, FaceWild)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)
	assert.Equal(t, 2, e.WildStatus().WildsRemaining)

	_, err = e.SubmitWildChoice(0, Steal(3))
	assert.True(t, IsKind(err, InvalidTarget), "dan has no chips")

	_, err = e.SubmitWildChoice(0, Steal(1))
	require.NoError(t, err)
	assert.True(t, e.Seat(1).Grace)
	_, err = e.SubmitWildChoice(0, Steal(1))
	assert.True(t, IsKind(err, InvalidTarget), "bob is now empty")
	_, err = e.SubmitWildChoice(0, Steal(2))
	require.NoError(t, err)
	assert.Equal(t, []int{4, 0, 3, 0}, seatChips(e))
}

func TestWildWithoutTargetsCompletesAtOnce(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 2},
		{Name: "bob", Chips: 0, Grace: true},
		{Name: "cat", Chips: 0, Grace: true},
		{Name: "dan", Chips: 0, Grace: true},
	}
	e, _ := engineAt(t, seats, 10, 0, FaceWild, FaceKeep)
	result, err := e.RequestRoll(0)
	require.NoError(t, err)
	assert.False(t, result.ResolutionRequired)
	assert.Contains(t, EventKinds(result.Events), EventWildResolved)

	// every other seat is eliminated by the scan, ann takes the pot
	assert.Equal(t, PhaseGameOver, e.Phase())
	assert.Equal(t, 0, e.Winner())
	assert.Equal(t, 12, e.Seat(0).Chips)
}

func TestRunOutOfChipsMidRoll(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 2},
		{Name: "bob", Chips: 3},
		{Name: "cat", Chips: 3},
		{Name: "dan", Chips: 3},
	}
	e, _ := engineAt(t, seats, 0, 0, FaceHub, FaceRight)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 3, 4}, seatChips(e))
	assert.Equal(t, 1, e.Pot())
	assert.True(t, e.Seat(0).Grace)
}

func TestGraceTurnThenElimination(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 1},
		{Name: "bob", Chips: 3},
		{Name: "cat", Chips: 3},
		{Name: "dan", Chips: 3},
	}
	e, _ := engineAt(t, seats, 0, 0,
		FaceHub,
		FaceKeep, FaceKeep, FaceKeep,
		FaceKeep, FaceKeep, FaceKeep,
		FaceKeep, FaceKeep, FaceKeep,
	)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)
	assert.True(t, e.Seat(0).Grace)
	assert.False(t, e.Seat(0).Eliminated, "never eliminated on the same pass")

	for _, seatNo := range []int{1, 2, 3} {
		_, err = e.RequestRoll(seatNo)
		require.NoError(t, err)
	}
	// the scan after dan finds ann still empty with grace set
	assert.True(t, e.Seat(0).Eliminated)
	assert.Equal(t, 1, e.CurrentPlayer())

	_, err = e.RequestRoll(0)
	assert.True(t, IsKind(err, InvalidTurn))
}

func TestZeroChipSeatWithoutGraceGetsSkipTurn(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 3},
		{Name: "bob", Chips: 0},
		{Name: "cat", Chips: 3},
		{Name: "dan", Chips: 3},
	}
	e, roller := engineAt(t, seats, 0, 0, FaceKeep, FaceKeep, FaceKeep)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)
	assert.Equal(t, 1, e.CurrentPlayer(), "grace pass still selects the seat")
	assert.True(t, e.Seat(1).Grace)

	result, err := e.RequestRoll(1)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, 0, roller.Pending())
	assert.Equal(t, 2, e.CurrentPlayer())
	assert.False(t, e.Seat(1).Eliminated)
}

func TestPassRestoresSeatFromGrace(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 3},
		{Name: "bob", Chips: 0, Grace: true},
		{Name: "cat", Chips: 3},
		{Name: "dan", Chips: 3},
	}
	e, _ := engineAt(t, seats, 0, 0, FaceLeft, FaceKeep, FaceKeep)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)
	bob := e.Seat(1)
	assert.Equal(t, 1, bob.Chips)
	assert.False(t, bob.Grace)
	assert.False(t, bob.Eliminated)
	assert.Equal(t, 1, e.CurrentPlayer())
}

func TestHeadsUpLastChipPassedLoses(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 1},
		{Eliminated: false},
		{Name: "cat", Chips: 2},
		{},
	}
	e, _ := engineAt(t, seats, 3, 0, FaceRight)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)
	assert.Equal(t, PhaseGameOver, e.Phase())
	assert.Equal(t, 2, e.Winner())
	assert.Equal(t, 6, e.Seat(2).Chips)
	assert.Equal(t, 0, e.Pot())
}

func TestRejectionsLeaveStateUntouched(t *testing.T) {
	e, _ := fourPlayerEngine(t, FaceLeft, FaceRight, FaceHub)
	before := e.State()

	_, err := e.RequestRoll(1)
	assert.True(t, IsKind(err, InvalidTurn))
	_, err = e.RequestRoll(7)
	assert.True(t, IsKind(err, InvalidTurn))
	_, err = e.SubmitWildChoice(0, Steal(1))
	assert.True(t, IsKind(err, PhaseViolation))
	_, _, err = e.Join("eve")
	assert.True(t, IsKind(err, TableFull))

	if diff := cmp.Diff(before, e.State()); diff != "" {
		t.Errorf("state changed (-want +got):\n%s", diff)
	}
}

func TestStrictStartNeedsFourPlayers(t *testing.T) {
	e := NewEngine(DefaultGameConfig(), NewQueueRoller(FaceKeep, FaceKeep, FaceKeep))
	_, _, err := e.Join("ann")
	require.NoError(t, err)
	_, err = e.RequestRoll(0)
	assert.True(t, IsKind(err, NotEnoughPlayers))
	assert.False(t, e.Started())

	for _, name := range []string{"bob", "cat", "dan"} {
		_, _, err = e.Join(name)
		require.NoError(t, err)
	}
	_, err = e.RequestRoll(0)
	assert.NoError(t, err)
}

func TestLenientStartSkipsEmptySeats(t *testing.T) {
	config := DefaultGameConfig()
	config.StrictStart = false
	e := NewEngine(config, NewQueueRoller(FaceLeft, FaceKeep, FaceKeep, FaceRight, FaceKeep, FaceKeep))
	require.NoError(t, mustEvents(e.JoinAt(3, "dan")))
	require.NoError(t, mustEvents(e.JoinAt(1, "bob")))
	assert.Equal(t, 1, e.CurrentPlayer(), "turn moves to the lowest occupied seat")

	_, err := e.RequestRoll(1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 0, 4}, seatChips(e))
	assert.Equal(t, 3, e.CurrentPlayer())

	_, err = e.RequestRoll(3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 0, 3}, seatChips(e))
	assert.Equal(t, 1, e.CurrentPlayer())
}

func mustEvents(_ []Event, err error) error {
	return err
}

func TestJoinValidation(t *testing.T) {
	e := NewEngine(DefaultGameConfig(), nil)
	_, _, err := e.Join("   ")
	assert.True(t, IsKind(err, InvalidName))

	seatNo, events, err := e.Join("  ann ")
	require.NoError(t, err)
	assert.Equal(t, 0, seatNo)
	assert.Equal(t, "ann", e.Seat(0).Name)
	assert.Equal(t, StartingChips, e.Seat(0).Chips)
	assert.Equal(t, []EventKind{EventPlayerJoined}, EventKinds(events))

	_, err = e.JoinAt(0, "bob")
	assert.True(t, IsKind(err, TableFull))
	_, err = e.JoinAt(4, "bob")
	assert.True(t, IsKind(err, InvalidTarget))
}

func TestJoinRejectedWhileResolvingWild(t *testing.T) {
	config := DefaultGameConfig()
	config.StrictStart = false
	e := NewEngine(config, NewQueueRoller(FaceWild, FaceKeep, FaceKeep))
	_, _, err := e.Join("ann")
	require.NoError(t, err)
	_, _, err = e.Join("bob")
	require.NoError(t, err)
	_, err = e.RequestRoll(0)
	require.NoError(t, err)

	_, _, err = e.Join("cat")
	assert.True(t, IsKind(err, PhaseViolation))
}

func TestResetClearsEverything(t *testing.T) {
	e, _ := fourPlayerEngine(t, FaceHub, FaceHub, FaceWild)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)
	require.Equal(t, PhaseResolvingWild, e.Phase())

	events := e.Reset()
	assert.Equal(t, []EventKind{EventGameReset}, EventKinds(events))
	assert.Equal(t, PhaseAwaitingRoll, e.Phase())
	assert.Equal(t, 0, e.Pot())
	assert.Equal(t, 0, e.ActiveSeatCount())
	assert.Nil(t, e.WildStatus())
	assert.Empty(t, e.History())
	assert.Equal(t, NoSeat, e.Winner())
}

func TestGameOverRejectsFurtherPlay(t *testing.T) {
	seats := [NumSeats]Seat{
		{Name: "ann", Chips: 0},
		{Name: "bob", Chips: 2},
	}
	e, _ := engineAt(t, seats, 0, 0)
	_, err := e.RequestRoll(0)
	require.NoError(t, err)
	require.Equal(t, PhaseGameOver, e.Phase())

	_, err = e.RequestRoll(1)
	assert.True(t, IsKind(err, PhaseViolation))
	_, _, err = e.Join("cat")
	assert.True(t, IsKind(err, PhaseViolation))
}

func TestRandomGamesKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		config := DefaultGameConfig()
		config.Seed = seed
		e := NewEngine(config, nil)
		for _, name := range playerNames {
			_, _, err := e.Join(name)
			require.NoError(t, err)
		}

		eliminated := map[int]bool{}
		for turn := 0; turn < 2000 && e.Phase() != PhaseGameOver; turn++ {
			seatNo := e.CurrentPlayer()
			result, err := e.RequestRoll(seatNo)
			require.NoError(t, err, "seed %d turn %d", seed, turn)
			if result.ResolutionRequired {
				for e.Phase() == PhaseResolvingWild {
					_, err := e.SubmitWildChoice(seatNo, greedyChoice(e))
					require.NoError(t, err, "seed %d turn %d", seed, turn)
				}
			}

			require.Equal(t, NumSeats*StartingChips, e.TotalChips(), "seed %d: chips must be conserved", seed)
			for i := 0; i < NumSeats; i++ {
				seat := e.Seat(i)
				require.GreaterOrEqual(t, seat.Chips, 0)
				if eliminated[i] {
					require.True(t, seat.Eliminated, "seed %d: seat %d came back", seed, i)
				}
				if seat.Eliminated {
					require.Equal(t, 0, seat.Chips)
					eliminated[i] = true
				}
			}
		}
		assert.Equal(t, PhaseGameOver, e.Phase(), "seed %d did not finish", seed)
		assert.Equal(t, 0, e.Pot())
	}
}

// greedyChoice takes the pot when it beats stealing, otherwise steals from
// the richest opponent.
func greedyChoice(e *Engine) WildChoice {
	status := e.WildStatus()
	if status.TakePotAllowed && e.Pot() >= status.StealsRemaining {
		return TakePot()
	}
	target := status.Targets[0]
	for _, s := range status.Targets {
		if e.Seat(s).Chips > e.Seat(target).Chips {
			target = s
		}
	}
	if !status.Triple {
		return Steal(target)
	}
	amount := status.StealsRemaining
	if chips := e.Seat(target).Chips; chips < amount {
		amount = chips
	}
	return StealN(target, amount)
}
