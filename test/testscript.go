package test

import (
	"fmt"

	mapset "github.com/deckarep/golang-set"
	"hubdice.com/server/game"
)

type TestGameScript struct {
	gameScript *GameScript
	game       *game.Game
	roller     *game.QueueRoller
	messages   *game.MessageCollector
	filename   string
	result     *ScriptTestResult
}

func (g *TestGameScript) run(t *TestDriver) error {
	err := g.configure(t)
	if err != nil {
		return err
	}

	for i := range g.gameScript.Turns {
		err = g.playTurn(i+1, &g.gameScript.Turns[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// configures the table with the configuration
func (g *TestGameScript) configure(t *TestDriver) error {
	config := game.DefaultGameConfig()
	if g.gameScript.GameConfig.Title != "" {
		config.Title = g.gameScript.GameConfig.Title
	}
	if g.gameScript.GameConfig.StrictStart != nil {
		config.StrictStart = *g.gameScript.GameConfig.StrictStart
	}

	g.roller = game.NewQueueRoller()
	g.messages = &game.MessageCollector{}
	var err error
	g.game, err = t.manager.NewGameWithRoller(config, g.roller, g.messages)
	if err != nil {
		return err
	}

	for _, player := range g.gameScript.Players {
		if player.Seat != nil {
			err = g.game.JoinAt(*player.Seat, player.Name)
		} else {
			_, err = g.game.Join(player.Name)
		}
		if e := g.checkError("players", player.ExpectError, err); e != nil {
			return e
		}
	}

	if g.gameScript.Setup != nil {
		return g.setup(g.gameScript.Setup)
	}
	return nil
}

func (g *TestGameScript) setup(setup *ScriptSetup) error {
	state := g.game.State()
	state.Pot = setup.Pot
	state.CurrentPlayer = setup.Current
	state.Started = true
	for _, s := range setup.Seats {
		if s.Seat < 0 || s.Seat >= game.NumSeats {
			return fmt.Errorf("[setup section] Invalid seat %d", s.Seat)
		}
		seat := &state.Seats[s.Seat]
		seat.Chips = s.Chips
		seat.Grace = s.Grace
		seat.Eliminated = s.Eliminated
	}
	err := g.game.LoadSnapshot(state)
	if err != nil {
		return fmt.Errorf("[setup section] %v", err)
	}
	return nil
}

func (g *TestGameScript) playTurn(turnNum int, turn *ScriptTurn) error {
	where := fmt.Sprintf("turn %d", turnNum)
	for _, d := range turn.Dice {
		face, err := game.ParseFace(d)
		if err != nil {
			return fmt.Errorf("[%s section] %v", where, err)
		}
		g.roller.Push(face)
	}

	firstMessage := len(g.messages.Messages)
	_, err := g.game.RequestRoll(turn.Seat)
	if e := g.checkError(where, turn.ExpectError, err); e != nil {
		return e
	}
	if err != nil {
		// unused dice must not leak into the next turn
		g.roller.Clear()
	}

	for i, c := range turn.WildChoices {
		seat := turn.Seat
		if c.Seat != nil {
			seat = *c.Seat
		}
		choice := game.WildChoice{
			Type:   game.WildChoiceType(c.Type),
			Target: c.Target,
			Amount: c.Amount,
		}
		if choice.Type == game.ChoiceSteal && choice.Amount == 0 {
			choice.Amount = 1
		}
		_, err := g.game.SubmitWildChoice(seat, choice)
		if e := g.checkError(fmt.Sprintf("%s choice %d", where, i+1), c.ExpectError, err); e != nil {
			return e
		}
	}

	if turn.Verify != nil {
		g.verify(where, turn.Verify, g.messages.Messages[firstMessage:])
	}
	return nil
}

// checkError compares an operation error with the expected error kind. A
// mismatch is returned as a script failure.
func (g *TestGameScript) checkError(where string, expected string, err error) error {
	if expected == "" {
		if err != nil {
			return fmt.Errorf("[%s section] Unexpected error: %v", where, err)
		}
		return nil
	}
	if err == nil {
		return fmt.Errorf("[%s section] Expected error %s, but the operation succeeded", where, expected)
	}
	if kind := game.KindOf(err); string(kind) != expected {
		return fmt.Errorf("[%s section] Expected error %s, actual: %v", where, expected, err)
	}
	return nil
}

func (g *TestGameScript) verify(where string, verify *ScriptVerify, messages []*game.GameMessage) {
	state := g.game.State()
	if verify.Phase != "" && string(state.Phase) != verify.Phase {
		g.result.addError(fmt.Errorf("[%s section] Expected phase %s, actual: %s", where, verify.Phase, state.Phase))
	}
	if verify.Current != nil && state.CurrentPlayer != *verify.Current {
		g.result.addError(fmt.Errorf("[%s section] Expected current seat %d, actual: %d", where, *verify.Current, state.CurrentPlayer))
	}
	if verify.Pot != nil && state.Pot != *verify.Pot {
		g.result.addError(fmt.Errorf("[%s section] Expected pot %d, actual: %d", where, *verify.Pot, state.Pot))
	}
	if verify.Winner != nil && state.Winner != *verify.Winner {
		g.result.addError(fmt.Errorf("[%s section] Expected winner %d, actual: %d", where, *verify.Winner, state.Winner))
	}

	for _, expected := range verify.Seats {
		if expected.Seat < 0 || expected.Seat >= game.NumSeats {
			g.result.addError(fmt.Errorf("[%s section] Invalid seat %d", where, expected.Seat))
			continue
		}
		actual := state.Seats[expected.Seat]
		if expected.Chips != nil && actual.Chips != *expected.Chips {
			g.result.addError(fmt.Errorf("[%s section] Seat %d chips do not match. Expected: %d, actual: %d",
				where, expected.Seat, *expected.Chips, actual.Chips))
		}
		if expected.Grace != nil && actual.Grace != *expected.Grace {
			g.result.addError(fmt.Errorf("[%s section] Seat %d grace does not match. Expected: %v, actual: %v",
				where, expected.Seat, *expected.Grace, actual.Grace))
		}
		if expected.Eliminated != nil && actual.Eliminated != *expected.Eliminated {
			g.result.addError(fmt.Errorf("[%s section] Seat %d eliminated does not match. Expected: %v, actual: %v",
				where, expected.Seat, *expected.Eliminated, actual.Eliminated))
		}
	}

	emitted := mapset.NewSet()
	for _, m := range messages {
		emitted.Add(string(m.Event.Kind))
	}
	expected := mapset.NewSet()
	for _, kind := range verify.Events {
		expected.Add(kind)
	}
	if !expected.IsSubset(emitted) {
		g.result.addError(fmt.Errorf("[%s section] Events %v were not emitted. Emitted: %v",
			where, expected.Difference(emitted), emitted))
	}
	unwanted := mapset.NewSet()
	for _, kind := range verify.NoEvents {
		unwanted.Add(kind)
	}
	if found := unwanted.Intersect(emitted); found.Cardinality() > 0 {
		g.result.addError(fmt.Errorf("[%s section] Events %v should not have been emitted", where, found))
	}
}
