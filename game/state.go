package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Snapshot is a copy of the engine state, suitable for persistence and for
// handing to presentation layers and bots.
type Snapshot struct {
	Seats         [NumSeats]Seat `json:"seats"`
	Pot           int            `json:"pot"`
	CurrentPlayer int            `json:"currentPlayer"`
	Phase         Phase          `json:"phase"`
	Started       bool           `json:"started"`
	Winner        int            `json:"winner"`
	Turn          int            `json:"turn"`
	Wild          *WildStatus    `json:"wild,omitempty"`
	RenderOrder   [NumSeats]int  `json:"renderOrder"`
	History       []HistoryEntry `json:"history,omitempty"`
	// NewGrace marks seats granted grace during the turn in progress.
	NewGrace [NumSeats]bool `json:"newGrace"`
}

func (e *Engine) State() Snapshot {
	return Snapshot{
		Seats:         e.table.Seats(),
		Pot:           e.pot,
		CurrentPlayer: e.currentPlayer,
		Phase:         e.phase,
		Started:       e.started,
		Winner:        e.winner,
		Turn:          e.turn,
		Wild:          e.WildStatus(),
		RenderOrder:   e.table.RenderOrder(),
		History:       e.History(),
		NewGrace:      e.newGrace,
	}
}

// Restore replaces the engine state with a snapshot. The snapshot is checked
// first and the engine is left untouched if it is inconsistent.
func (e *Engine) Restore(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := e.table.SetRenderOrder(s.RenderOrder); err != nil {
		return errors.Wrap(InvalidSnapshotError{Msg: err.Error()}, "restore")
	}
	e.table.seats = s.Seats
	e.pot = s.Pot
	e.currentPlayer = s.CurrentPlayer
	e.phase = s.Phase
	e.started = s.Started
	e.winner = s.Winner
	e.turn = s.Turn
	e.newGrace = s.NewGrace
	e.wild = nil
	if s.Wild != nil {
		e.wild = &wildSession{
			roller:          s.Wild.Roller,
			wilds:           s.Wild.Wilds,
			remaining:       s.Wild.WildsRemaining,
			stealBudget:     s.Wild.StealBudget,
			stealsRemaining: s.Wild.StealsRemaining,
			choices:         append([]WildChoice(nil), s.Wild.Choices...),
		}
	}
	e.history = nil
	for _, h := range s.History {
		h.Faces = append([]Face(nil), h.Faces...)
		h.Choices = append([]WildChoice(nil), h.Choices...)
		e.history = append(e.history, h)
	}
	e.events = nil
	return nil
}

// Validate checks the invariants a snapshot must hold.
func (s *Snapshot) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return errors.Wrap(InvalidSnapshotError{Msg: fmt.Sprintf(format, args...)}, "invalid snapshot")
	}
	if s.Pot < 0 {
		return invalid("pot is negative: %d", s.Pot)
	}
	if !validSeat(s.CurrentPlayer) {
		return invalid("current player %d is out of range", s.CurrentPlayer)
	}
	for i, seat := range s.Seats {
		if seat.Chips < 0 {
			return invalid("seat %d has negative chips: %d", i, seat.Chips)
		}
		if !seat.Occupied() && (seat.Chips != 0 || seat.Eliminated || seat.Grace) {
			return invalid("empty seat %d carries state", i)
		}
		if seat.Eliminated && seat.Chips != 0 {
			return invalid("eliminated seat %d holds %d chips", i, seat.Chips)
		}
		if s.NewGrace[i] && !seat.Grace {
			return invalid("seat %d is marked as newly granted grace without grace", i)
		}
	}

	switch s.Phase {
	case PhaseAwaitingRoll:
		if s.Wild != nil {
			return invalid("wild status present in phase %s", s.Phase)
		}
		if s.Started && !s.Seats[s.CurrentPlayer].Active() {
			return invalid("current player %d is not active", s.CurrentPlayer)
		}
	case PhaseResolvingWild:
		if s.Wild == nil {
			return invalid("phase %s without wild status", s.Phase)
		}
		if s.Wild.Roller != s.CurrentPlayer {
			return invalid("wild roller %d is not the current player %d", s.Wild.Roller, s.CurrentPlayer)
		}
		if s.Wild.Wilds < 1 || s.Wild.Wilds > MaxDice {
			return invalid("wild count %d is out of range", s.Wild.Wilds)
		}
	case PhaseGameOver:
		if !validSeat(s.Winner) || !s.Seats[s.Winner].Active() {
			return invalid("winner %d is not an active seat", s.Winner)
		}
	default:
		// rolling and resolving phases never outlive a single call
		return invalid("phase %q cannot be restored", s.Phase)
	}
	return nil
}

// PrintTable writes a human readable view of the table.
func (e *Engine) PrintTable(w io.Writer) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  phase: %s  pot: %d  turn: %d\n", e.config.Title, e.phase, e.pot, e.turn)
	for i, seat := range e.table.seats {
		marker := " "
		if i == e.currentPlayer && e.phase != PhaseGameOver {
			marker = "*"
		}
		if !seat.Occupied() {
			fmt.Fprintf(&b, "%s %d %-6s  <empty>\n", marker, i, PositionOf(i))
			continue
		}
		var flags []string
		if seat.Grace {
			flags = append(flags, "grace")
		}
		if seat.Eliminated {
			flags = append(flags, "eliminated")
		}
		if i == e.winner {
			flags = append(flags, "winner")
		}
		fmt.Fprintf(&b, "%s %d %-6s  %-12s chips: %d %s\n",
			marker, i, PositionOf(i), seat.Name, seat.Chips, strings.Join(flags, ","))
	}
	if e.wild != nil {
		fmt.Fprintf(&b, "  wild: seat %d rolled %d wild(s)\n", e.wild.roller, e.wild.wilds)
	}
	fmt.Fprint(w, b.String())
}
