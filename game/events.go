package game

// EventKind identifies a state change emitted by the engine for the
// presentation layer and the history log.
type EventKind string

const (
	EventPlayerJoined    EventKind = "player-joined"
	EventRollPerformed   EventKind = "roll-performed"
	EventTurnSkipped     EventKind = "turn-skipped"
	EventChipTransferred EventKind = "chip-transferred"
	EventWildPending     EventKind = "wild-pending"
	EventWildResolved    EventKind = "wild-resolved"
	EventGraceGranted    EventKind = "grace-granted"
	EventSeatEliminated  EventKind = "seat-eliminated"
	EventTurnChanged     EventKind = "turn-changed"
	EventGameOver        EventKind = "game-over"
	EventGameReset       EventKind = "game-reset"
	EventDiagnostic      EventKind = "diagnostic"
)

// TransferReason tells why chips moved.
type TransferReason string

const (
	ReasonLeft    TransferReason = "left"
	ReasonRight   TransferReason = "right"
	ReasonHub     TransferReason = "hub"
	ReasonSteal   TransferReason = "steal"
	ReasonTakePot TransferReason = "take-pot"
	ReasonWinner  TransferReason = "winner"
)

// Event carries a single state change. Only the fields relevant to the
// kind are set; seat fields default to NoSeat.
type Event struct {
	Kind   EventKind      `json:"kind"`
	Seat   int            `json:"seat"`
	Name   string         `json:"name,omitempty"`
	Faces  []Face         `json:"faces,omitempty"`
	From   int            `json:"from"`
	To     int            `json:"to"`
	Amount int            `json:"amount,omitempty"`
	Reason TransferReason `json:"reason,omitempty"`
	Wilds  int            `json:"wilds,omitempty"`
	Choice *WildChoice    `json:"choice,omitempty"`
	Pot    int            `json:"pot"`
	Msg    string         `json:"msg,omitempty"`
}

func newEvent(kind EventKind, seat int) Event {
	return Event{Kind: kind, Seat: seat, From: NoSeat, To: NoSeat}
}

// EventKinds lists the kinds of the given events in order.
func EventKinds(events []Event) []EventKind {
	kinds := make([]EventKind, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}
