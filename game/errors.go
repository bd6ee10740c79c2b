package game

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a rejected operation. Rejections never mutate state.
type ErrorKind string

const (
	// InvalidTurn: acting out of turn or on an empty or eliminated seat.
	InvalidTurn ErrorKind = "invalid-turn"
	// InvalidTarget: steal target is the roller, empty, eliminated or has no chips.
	InvalidTarget ErrorKind = "invalid-target"
	// PhaseViolation: the operation is not allowed in the current phase.
	PhaseViolation ErrorKind = "phase-violation"
	// TableFull: no empty seat for a join.
	TableFull ErrorKind = "table-full"
	// InvalidName: join with an empty player name.
	InvalidName ErrorKind = "invalid-name"
	// NotEnoughPlayers: strict start requires every seat filled before the first roll.
	NotEnoughPlayers ErrorKind = "not-enough-players"
)

type GameError struct {
	Kind ErrorKind
	Msg  string
}

func (e *GameError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newGameError(kind ErrorKind, format string, args ...interface{}) *GameError {
	return &GameError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a (possibly wrapped) game error, or "" for
// any other error.
func KindOf(err error) ErrorKind {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

type InvalidSnapshotError struct {
	Msg string
}

func (e InvalidSnapshotError) Error() string {
	return e.Msg
}
