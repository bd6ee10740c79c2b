package game

import (
	"hubdice.com/server/logging"
)

// wildSession tracks the choices still owed by the roller after a roll with
// wild faces.
type wildSession struct {
	roller int
	wilds  int
	// one or two wilds: steals still to make
	remaining int
	// triple wild: chips that may still be stolen, fixed when the roll lands
	stealBudget     int
	stealsRemaining int
	choices         []WildChoice
}

func (w *wildSession) triple() bool {
	return w.wilds >= TripleWild
}

// WildStatus describes a pending wild resolution.
type WildStatus struct {
	Roller          int          `json:"roller"`
	Wilds           int          `json:"wilds"`
	Triple          bool         `json:"triple"`
	WildsRemaining  int          `json:"wildsRemaining"`
	StealBudget     int          `json:"stealBudget"`
	StealsRemaining int          `json:"stealsRemaining"`
	TakePotAllowed  bool         `json:"takePotAllowed"`
	Choices         []WildChoice `json:"choices,omitempty"`
	Targets         []int        `json:"targets"`
}

// WildStatus returns the pending wild resolution, or nil when none is pending.
func (e *Engine) WildStatus() *WildStatus {
	if e.wild == nil {
		return nil
	}
	w := e.wild
	status := &WildStatus{
		Roller:          w.roller,
		Wilds:           w.wilds,
		Triple:          w.triple(),
		WildsRemaining:  w.remaining,
		StealBudget:     w.stealBudget,
		StealsRemaining: w.stealsRemaining,
		TakePotAllowed:  w.triple() && len(w.choices) == 0,
		Choices:         append([]WildChoice(nil), w.choices...),
		Targets:         e.stealTargets(w.roller),
	}
	return status
}

// stealTargets lists the seats the roller may steal from.
func (e *Engine) stealTargets(roller int) []int {
	targets := make([]int, 0, NumSeats-1)
	for i := range e.table.seats {
		if e.checkTarget(roller, i) == nil {
			targets = append(targets, i)
		}
	}
	return targets
}

// resolveWild opens a wild session for the roll. It returns false when there
// is nothing left to resolve and the turn can end.
func (e *Engine) resolveWild(seatNo int, wilds int) bool {
	if wilds == 0 {
		return false
	}
	w := &wildSession{roller: seatNo, wilds: wilds}
	if w.triple() {
		w.stealBudget = e.table.OpponentChips(seatNo)
		if w.stealBudget > TripleWild {
			w.stealBudget = TripleWild
		}
		w.stealsRemaining = w.stealBudget
	} else {
		w.remaining = wilds
	}

	ev := newEvent(EventWildPending, seatNo)
	ev.Name = e.table.seats[seatNo].Name
	ev.Wilds = wilds
	e.emit(ev)

	if !w.triple() && e.table.OpponentChips(seatNo) == 0 {
		// no one to steal from
		ev := newEvent(EventWildResolved, seatNo)
		ev.Wilds = wilds
		ev.Msg = "no opponent holds chips"
		e.emit(ev)
		return false
	}

	e.wild = w
	e.phase = PhaseResolvingWild
	e.logger.Debug().
		Int(logging.SeatNoKey, seatNo).
		Int("wilds", wilds).
		Msg("Waiting for wild choices")
	return true
}

// SubmitWildChoice applies one choice of the roller while wild dice are
// pending. One or two wilds take one Steal choice each. A triple wild takes
// either a single TakePot or StealN choices until the steal budget is used.
func (e *Engine) SubmitWildChoice(seatNo int, choice WildChoice) ([]Event, error) {
	e.events = nil
	if e.phase != PhaseResolvingWild || e.wild == nil {
		return nil, e.reject(newGameError(PhaseViolation, "no wild choice is pending"))
	}
	w := e.wild
	if seatNo != w.roller {
		return nil, e.reject(newGameError(InvalidTurn, "seat %d is resolving wild dice, not seat %d", w.roller, seatNo))
	}

	var err error
	if w.triple() {
		err = e.applyTripleChoice(w, choice)
	} else {
		err = e.applyWildChoice(w, choice)
	}
	if err != nil {
		return nil, e.reject(err)
	}

	w.choices = append(w.choices, choice)
	if n := len(e.history); n > 0 {
		e.history[n-1].Choices = append(e.history[n-1].Choices, choice)
	}

	if w.remaining == 0 && w.stealsRemaining == 0 {
		e.completeWild("")
	} else if e.table.OpponentChips(w.roller) == 0 {
		e.completeWild("no opponent holds chips")
	}
	return e.flush(), nil
}

func (e *Engine) applyWildChoice(w *wildSession, choice WildChoice) error {
	if choice.Type != ChoiceSteal {
		return newGameError(PhaseViolation, "%s is not allowed with %d wild(s)", choice.Type, w.wilds)
	}
	if err := e.checkTarget(w.roller, choice.Target); err != nil {
		return err
	}
	e.transfer(choice.Target, w.roller, 1, ReasonSteal)
	w.remaining--
	return nil
}

func (e *Engine) applyTripleChoice(w *wildSession, choice WildChoice) error {
	switch choice.Type {
	case ChoiceTakePot:
		if len(w.choices) > 0 {
			return newGameError(PhaseViolation, "take-pot is not allowed after stealing")
		}
		// an empty pot still ends the resolution
		e.transfer(PotSeat, w.roller, e.pot, ReasonTakePot)
		w.stealsRemaining = 0
		return nil

	case ChoiceStealN:
		if choice.Amount < 1 || choice.Amount > TripleWild {
			return newGameError(PhaseViolation, "steal amount %d must be between 1 and %d", choice.Amount, TripleWild)
		}
		if choice.Amount > w.stealsRemaining {
			return newGameError(PhaseViolation, "steal amount %d exceeds the %d chip(s) left to steal", choice.Amount, w.stealsRemaining)
		}
		if err := e.checkTarget(w.roller, choice.Target); err != nil {
			return err
		}
		if choice.Amount > e.table.seats[choice.Target].Chips {
			return newGameError(InvalidTarget, "seat %d holds only %d chip(s)", choice.Target, e.table.seats[choice.Target].Chips)
		}
		e.transfer(choice.Target, w.roller, choice.Amount, ReasonSteal)
		w.stealsRemaining -= choice.Amount
		return nil
	}
	return newGameError(PhaseViolation, "%s is not allowed on a triple wild", choice.Type)
}

func (e *Engine) checkTarget(roller int, target int) error {
	if !validSeat(target) {
		return newGameError(InvalidTarget, "seat %d does not exist", target)
	}
	if target == roller {
		return newGameError(InvalidTarget, "seat %d cannot steal from itself", roller)
	}
	seat := &e.table.seats[target]
	if !seat.Occupied() {
		return newGameError(InvalidTarget, "seat %d is empty", target)
	}
	if seat.Eliminated {
		return newGameError(InvalidTarget, "seat %d is eliminated", target)
	}
	if seat.Chips == 0 {
		return newGameError(InvalidTarget, "seat %d has no chips", target)
	}
	return nil
}

func (e *Engine) completeWild(msg string) {
	w := e.wild
	ev := newEvent(EventWildResolved, w.roller)
	ev.Wilds = w.wilds
	ev.Msg = msg
	if len(w.choices) > 0 {
		last := w.choices[len(w.choices)-1]
		ev.Choice = &last
	}
	e.emit(ev)
	e.wild = nil
	e.endOfTurn(w.roller)
}
