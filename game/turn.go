package game

import (
	"hubdice.com/server/logging"
)

// endOfTurn decides whether the game is over and otherwise hands the turn to
// the next seat.
func (e *Engine) endOfTurn(seatNo int) {
	e.phase = PhaseTurnComplete

	active := e.table.ActiveSeatCount()
	if active == 2 && e.table.seats[seatNo].Active() && e.table.seats[seatNo].Chips == 0 {
		// heads-up and the roller just emptied out
		if other := e.table.OtherActiveSeat(seatNo); other != NoSeat {
			e.declareWinner(other)
			return
		}
	}
	if active == 1 {
		e.declareWinner(e.table.OtherActiveSeat(NoSeat))
		return
	}
	e.advanceTurn()
}

// advanceTurn scans clockwise from the current seat. A seat without chips
// whose grace predates this turn is eliminated; any other seat without chips
// is given grace and still takes the turn. The scan visits each seat at most
// once.
func (e *Engine) advanceTurn() {
	next := e.currentPlayer
	for probe := 0; probe < NumSeats; probe++ {
		next = (next + 1) % NumSeats
		seat := &e.table.seats[next]
		if !seat.Active() {
			continue
		}
		if seat.Chips == 0 {
			if seat.Grace && !e.newGrace[next] {
				e.eliminate(next)
				if e.table.ActiveSeatCount() == 1 {
					e.declareWinner(e.table.OtherActiveSeat(NoSeat))
					return
				}
				continue
			}
			e.markGrace(next)
		}
		e.selectSeat(next)
		return
	}

	// every seat was probed without finding one to play
	e.phase = PhaseAwaitingRoll
	ev := newEvent(EventDiagnostic, e.currentPlayer)
	ev.Msg = "no seat found to take the next turn"
	e.emit(ev)
	e.logger.Error().
		Int(logging.SeatNoKey, e.currentPlayer).
		Int("activeSeats", e.table.ActiveSeatCount()).
		Msg("Turn scan exhausted without selecting a seat")
}

func (e *Engine) selectSeat(seatNo int) {
	e.currentPlayer = seatNo
	e.phase = PhaseAwaitingRoll
	ev := newEvent(EventTurnChanged, seatNo)
	ev.Name = e.table.seats[seatNo].Name
	e.emit(ev)
}

func (e *Engine) eliminate(seatNo int) {
	seat := &e.table.seats[seatNo]
	seat.Eliminated = true
	seat.Grace = false
	ev := newEvent(EventSeatEliminated, seatNo)
	ev.Name = seat.Name
	e.emit(ev)
	e.logger.Info().
		Int(logging.SeatNoKey, seatNo).
		Str(logging.PlayerNameKey, seat.Name).
		Msg("Seat eliminated")
}

// declareWinner moves the pot to the winner and ends the game.
func (e *Engine) declareWinner(seatNo int) {
	amount := e.pot
	e.transfer(PotSeat, seatNo, amount, ReasonWinner)
	e.winner = seatNo
	e.currentPlayer = seatNo
	e.phase = PhaseGameOver
	e.wild = nil

	seat := e.table.seats[seatNo]
	ev := newEvent(EventGameOver, seatNo)
	ev.Name = seat.Name
	ev.Amount = amount
	e.emit(ev)
	e.logger.Info().
		Int(logging.SeatNoKey, seatNo).
		Str(logging.PlayerNameKey, seat.Name).
		Int("pot", amount).
		Msg("Game over")
}
