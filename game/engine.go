package game

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"hubdice.com/server/logging"
)

var engineLogger = log.With().Str("logger_name", "game::engine").Logger()

// HistoryEntry records one roll or skipped turn.
type HistoryEntry struct {
	Turn    int          `json:"turn"`
	Seat    int          `json:"seat"`
	Name    string       `json:"name"`
	Faces   []Face       `json:"faces,omitempty"`
	Skipped bool         `json:"skipped,omitempty"`
	Choices []WildChoice `json:"choices,omitempty"`
}

// Engine is the turn and economy engine of a single table. It is not safe
// for concurrent use; Game serializes access to it.
//
// Every exported mutating method either applies completely and returns the
// events it produced, or returns a *GameError and leaves the state untouched.
type Engine struct {
	config        GameConfig
	table         *Table
	roller        Roller
	pot           int
	currentPlayer int
	phase         Phase
	started       bool
	winner        int
	turn          int
	wild          *wildSession
	history       []HistoryEntry
	// seats granted grace during the current turn; the scan that ends the
	// turn must not eliminate them
	newGrace [NumSeats]bool

	events []Event
	logger zerolog.Logger
}

func NewEngine(config GameConfig, roller Roller) *Engine {
	if roller == nil {
		roller = NewRandomRoller(config.Seed)
	}
	return &Engine{
		config: config,
		table:  NewTable(),
		roller: roller,
		phase:  PhaseAwaitingRoll,
		winner: NoSeat,
		logger: engineLogger,
	}
}

// SetLogger replaces the engine logger, typically with one carrying the game id.
func (e *Engine) SetLogger(logger zerolog.Logger) {
	e.logger = logger
}

func (e *Engine) Config() GameConfig {
	return e.config
}

func (e *Engine) Phase() Phase {
	return e.phase
}

func (e *Engine) CurrentPlayer() int {
	return e.currentPlayer
}

func (e *Engine) Pot() int {
	return e.pot
}

// Winner returns the winning seat once the game is over, NoSeat before.
func (e *Engine) Winner() int {
	return e.winner
}

func (e *Engine) Started() bool {
	return e.started
}

func (e *Engine) Table() *Table {
	return e.table
}

func (e *Engine) Seat(seatNo int) Seat {
	return e.table.Seat(seatNo)
}

func (e *Engine) LeftOf(seatNo int) int {
	return e.table.LeftOf(seatNo)
}

func (e *Engine) RightOf(seatNo int) int {
	return e.table.RightOf(seatNo)
}

func (e *Engine) ActiveSeatCount() int {
	return e.table.ActiveSeatCount()
}

// TotalChips counts chips in seats and in the pot.
func (e *Engine) TotalChips() int {
	return e.table.TotalChips() + e.pot
}

func (e *Engine) History() []HistoryEntry {
	out := make([]HistoryEntry, len(e.history))
	for i, h := range e.history {
		h.Faces = append([]Face(nil), h.Faces...)
		h.Choices = append([]WildChoice(nil), h.Choices...)
		out[i] = h
	}
	return out
}

// Join seats a player at the first empty seat.
func (e *Engine) Join(name string) (int, []Event, error) {
	e.events = nil
	if err := e.checkCanJoin(); err != nil {
		return NoSeat, nil, e.reject(err)
	}
	seatNo, err := e.table.Join(name)
	if err != nil {
		return NoSeat, nil, e.reject(err)
	}
	e.playerJoined(seatNo)
	return seatNo, e.flush(), nil
}

// JoinAt seats a player at a specific seat.
func (e *Engine) JoinAt(seatNo int, name string) ([]Event, error) {
	e.events = nil
	if err := e.checkCanJoin(); err != nil {
		return nil, e.reject(err)
	}
	if err := e.table.JoinAt(seatNo, name); err != nil {
		return nil, e.reject(err)
	}
	e.playerJoined(seatNo)
	return e.flush(), nil
}

func (e *Engine) checkCanJoin() error {
	if e.phase != PhaseAwaitingRoll {
		return newGameError(PhaseViolation, "cannot join while the game is in phase %s", e.phase)
	}
	return nil
}

func (e *Engine) playerJoined(seatNo int) {
	seat := e.table.Seat(seatNo)
	ev := newEvent(EventPlayerJoined, seatNo)
	ev.Name = seat.Name
	ev.Amount = seat.Chips
	e.emit(ev)
	if !e.started {
		e.currentPlayer = e.table.LowestOccupiedSeat()
	}
	e.logger.Info().
		Int(logging.SeatNoKey, seatNo).
		Str(logging.PlayerNameKey, seat.Name).
		Msg("Player joined")
}

// RequestRoll rolls the dice for the seat holding the turn. Non-wild faces
// are applied at once. If the roll has wild faces the engine stops in
// PhaseResolvingWild and waits for SubmitWildChoice.
func (e *Engine) RequestRoll(seatNo int) (*RollResult, error) {
	e.events = nil
	if err := e.checkCanRoll(seatNo); err != nil {
		return nil, e.reject(err)
	}
	e.started = true
	e.turn++
	e.newGrace = [NumSeats]bool{}

	seat := &e.table.seats[seatNo]
	if seat.Chips == 0 {
		e.skipTurn(seatNo)
		return &RollResult{Seat: seatNo, Skipped: true, Events: e.flush()}, nil
	}

	e.phase = PhaseRolling
	faces := e.roller.Roll(DiceCount(seat.Chips))
	ev := newEvent(EventRollPerformed, seatNo)
	ev.Name = seat.Name
	ev.Faces = append([]Face(nil), faces...)
	ev.Wilds = CountWilds(faces)
	e.emit(ev)
	e.history = append(e.history, HistoryEntry{
		Turn:  e.turn,
		Seat:  seatNo,
		Name:  seat.Name,
		Faces: append([]Face(nil), faces...),
	})
	e.logger.Debug().
		Int(logging.TurnKey, e.turn).
		Int(logging.SeatNoKey, seatNo).
		Interface("faces", faces).
		Msg("Dice rolled")

	e.phase = PhaseResolvingSimple
	wilds := e.resolveSimple(seatNo, faces)
	if !e.resolveWild(seatNo, wilds) {
		e.endOfTurn(seatNo)
	}

	return &RollResult{
		Seat:               seatNo,
		Faces:              faces,
		ResolutionRequired: e.phase == PhaseResolvingWild,
		Events:             e.flush(),
	}, nil
}

func (e *Engine) checkCanRoll(seatNo int) error {
	switch e.phase {
	case PhaseGameOver:
		return newGameError(PhaseViolation, "game is over")
	case PhaseResolvingWild:
		return newGameError(PhaseViolation, "seat %d must resolve wild dice first", e.wild.roller)
	}
	if !validSeat(seatNo) {
		return newGameError(InvalidTurn, "seat %d does not exist", seatNo)
	}
	active := e.table.ActiveSeatCount()
	if active == 0 {
		return newGameError(InvalidTurn, "no players at the table")
	}
	if e.config.StrictStart && !e.started && active < NumSeats {
		return newGameError(NotEnoughPlayers, "%d players are required to start the game, %d joined", NumSeats, active)
	}
	seat := e.table.Seat(seatNo)
	if !seat.Occupied() {
		return newGameError(InvalidTurn, "seat %d is empty", seatNo)
	}
	if seat.Eliminated {
		return newGameError(InvalidTurn, "seat %d is eliminated", seatNo)
	}
	if seatNo != e.currentPlayer {
		return newGameError(InvalidTurn, "it is seat %d's turn, not seat %d's", e.currentPlayer, seatNo)
	}
	return nil
}

// skipTurn handles a turn for a seat without chips: no dice are thrown.
func (e *Engine) skipTurn(seatNo int) {
	seat := e.table.Seat(seatNo)
	ev := newEvent(EventTurnSkipped, seatNo)
	ev.Name = seat.Name
	ev.Msg = "no chips"
	e.emit(ev)
	e.history = append(e.history, HistoryEntry{Turn: e.turn, Seat: seatNo, Name: seat.Name, Skipped: true})
	e.logger.Debug().Int(logging.SeatNoKey, seatNo).Msg("Turn skipped, no chips")

	if e.table.ActiveSeatCount() == 2 {
		other := e.table.OtherActiveSeat(seatNo)
		if other != NoSeat && e.table.seats[other].Chips > 0 {
			e.declareWinner(other)
			return
		}
	}
	e.markGrace(seatNo)
	e.endOfTurn(seatNo)
}

// resolveSimple applies non-wild faces in roll order and returns the number
// of wild faces.
func (e *Engine) resolveSimple(seatNo int, faces []Face) int {
	wilds := 0
	for _, face := range faces {
		if face == FaceWild {
			wilds++
			continue
		}
		if face == FaceKeep {
			continue
		}
		if e.table.seats[seatNo].Chips == 0 {
			// the roll ran out of chips; remaining faces have no effect
			continue
		}
		switch face {
		case FaceLeft:
			e.transfer(seatNo, e.table.LeftOf(seatNo), 1, ReasonLeft)
		case FaceRight:
			e.transfer(seatNo, e.table.RightOf(seatNo), 1, ReasonRight)
		case FaceHub:
			e.transfer(seatNo, PotSeat, 1, ReasonHub)
		}
	}
	return wilds
}

// transfer moves chips between seats or between a seat and the pot. A seat
// dropping to zero chips gets a grace flag; a seat receiving chips loses it.
func (e *Engine) transfer(from int, to int, amount int, reason TransferReason) {
	if from == to || amount <= 0 {
		return
	}
	if from == PotSeat {
		e.pot -= amount
	} else {
		e.table.seats[from].Chips -= amount
	}
	if to == PotSeat {
		e.pot += amount
	} else {
		e.table.seats[to].Chips += amount
		e.table.seats[to].Grace = false
		e.newGrace[to] = false
	}

	ev := newEvent(EventChipTransferred, from)
	ev.From = from
	ev.To = to
	ev.Amount = amount
	ev.Reason = reason
	ev.Pot = e.pot
	e.emit(ev)

	if from != PotSeat && e.table.seats[from].Chips == 0 {
		e.markGrace(from)
	}
}

func (e *Engine) markGrace(seatNo int) {
	seat := &e.table.seats[seatNo]
	if seat.Grace || seat.Eliminated {
		return
	}
	seat.Grace = true
	e.newGrace[seatNo] = true
	ev := newEvent(EventGraceGranted, seatNo)
	ev.Name = seat.Name
	e.emit(ev)
}

// Reset clears the table, the pot and the turn pointer.
func (e *Engine) Reset() []Event {
	e.events = nil
	e.table.Reset()
	e.pot = 0
	e.currentPlayer = 0
	e.phase = PhaseAwaitingRoll
	e.started = false
	e.winner = NoSeat
	e.turn = 0
	e.wild = nil
	e.history = nil
	e.newGrace = [NumSeats]bool{}
	e.emit(newEvent(EventGameReset, NoSeat))
	e.logger.Info().Msg("Game reset")
	return e.flush()
}

func (e *Engine) emit(ev Event) {
	if ev.Kind != EventChipTransferred {
		ev.Pot = e.pot
	}
	e.events = append(e.events, ev)
}

func (e *Engine) flush() []Event {
	events := e.events
	e.events = nil
	return events
}

func (e *Engine) reject(err error) error {
	e.events = nil
	e.logger.Debug().Str(logging.PhaseKey, string(e.phase)).Err(err).Msg("Operation rejected")
	return err
}
