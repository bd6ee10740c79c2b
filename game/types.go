package game

import (
	"fmt"
	"strings"
)

/**
NOTE: Seats are indexed from 0-3 around the table. Seat 0 is the top of the
table, seat 1 right, seat 2 bottom and seat 3 left.
**/

const (
	NumSeats      = 4
	StartingChips = 3
	MaxDice       = 3
	TripleWild    = 3

	// PotSeat is used as the source or destination of a chip transfer that
	// involves the center pot rather than a seat.
	PotSeat = -1
	// NoSeat marks an absent seat reference (no winner, no roller).
	NoSeat = -1
)

// Face is one side of a die.
type Face string

const (
	FaceLeft  Face = "Left"
	FaceRight Face = "Right"
	FaceHub   Face = "Hub"
	FaceKeep  Face = "Keep"
	FaceWild  Face = "Wild"
)

// Faces lists every side of the die in roll order.
var Faces = []Face{FaceLeft, FaceRight, FaceHub, FaceKeep, FaceWild}

// ParseFace accepts a face name in any case. "Dottt" is the name the table
// art uses for the keep face.
func ParseFace(s string) (Face, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return FaceLeft, nil
	case "right", "r":
		return FaceRight, nil
	case "hub", "h", "center":
		return FaceHub, nil
	case "keep", "k", "dottt", "dot":
		return FaceKeep, nil
	case "wild", "w":
		return FaceWild, nil
	}
	return "", fmt.Errorf("unknown die face [%s]", s)
}

// Phase is the state of the turn engine.
type Phase string

const (
	PhaseAwaitingRoll    Phase = "awaiting-roll"
	PhaseRolling         Phase = "rolling"
	PhaseResolvingSimple Phase = "resolving-simple"
	PhaseResolvingWild   Phase = "resolving-wild"
	PhaseTurnComplete    Phase = "turn-complete"
	PhaseGameOver        Phase = "game-over"
)

// SeatPosition names the logical seats the way the table is drawn.
type SeatPosition string

const (
	PositionTop    SeatPosition = "top"
	PositionRight  SeatPosition = "right"
	PositionBottom SeatPosition = "bottom"
	PositionLeft   SeatPosition = "left"
)

var seatPositions = [NumSeats]SeatPosition{PositionTop, PositionRight, PositionBottom, PositionLeft}

func PositionOf(seat int) SeatPosition {
	if !validSeat(seat) {
		return ""
	}
	return seatPositions[seat]
}

// Seat is one of the four table positions.
type Seat struct {
	Name       string `json:"name" yaml:"name"`
	Chips      int    `json:"chips" yaml:"chips"`
	Eliminated bool   `json:"eliminated" yaml:"eliminated"`
	Grace      bool   `json:"grace" yaml:"grace"`
}

func (s *Seat) Occupied() bool {
	return s.Name != ""
}

// Active reports whether the seat still takes part in the game.
func (s *Seat) Active() bool {
	return s.Occupied() && !s.Eliminated
}

// WildChoiceType is the kind of choice a roller makes while resolving wilds.
type WildChoiceType string

const (
	// ChoiceSteal takes one chip from a target; used for one or two wilds.
	ChoiceSteal WildChoiceType = "steal"
	// ChoiceTakePot takes the whole pot; triple wild only.
	ChoiceTakePot WildChoiceType = "take-pot"
	// ChoiceStealN takes 1-3 chips from a target; triple wild only.
	ChoiceStealN WildChoiceType = "steal-n"
)

// WildChoice is submitted by the roller while the engine is resolving wilds.
type WildChoice struct {
	Type   WildChoiceType `json:"type" yaml:"type"`
	Target int            `json:"target" yaml:"target"`
	Amount int            `json:"amount,omitempty" yaml:"amount"`
}

func (c WildChoice) String() string {
	switch c.Type {
	case ChoiceTakePot:
		return "take-pot"
	case ChoiceStealN:
		return fmt.Sprintf("steal %d from seat %d", c.Amount, c.Target)
	}
	return fmt.Sprintf("%s seat %d", c.Type, c.Target)
}

func Steal(target int) WildChoice {
	return WildChoice{Type: ChoiceSteal, Target: target, Amount: 1}
}

func StealN(target int, amount int) WildChoice {
	return WildChoice{Type: ChoiceStealN, Target: target, Amount: amount}
}

func TakePot() WildChoice {
	return WildChoice{Type: ChoiceTakePot, Target: NoSeat}
}

// RollResult is returned by RequestRoll.
type RollResult struct {
	Seat               int     `json:"seat"`
	Faces              []Face  `json:"faces"`
	Skipped            bool    `json:"skipped"`
	ResolutionRequired bool    `json:"resolutionRequired"`
	Events             []Event `json:"events"`
}

func validSeat(seat int) bool {
	return seat >= 0 && seat < NumSeats
}
