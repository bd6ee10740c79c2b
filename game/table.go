package game

import (
	"fmt"
	"strings"
)

// Table is the fixed four-seat circular table. It knows nothing about turns;
// the engine owns it and is the only writer.
type Table struct {
	seats [NumSeats]Seat
	// logical seat -> rendering slot
	renderOrder [NumSeats]int
}

func NewTable() *Table {
	t := &Table{}
	t.renderOrder = identityOrder()
	return t
}

func identityOrder() [NumSeats]int {
	var order [NumSeats]int
	for i := range order {
		order[i] = i
	}
	return order
}

// Join seats name at the first empty seat.
func (t *Table) Join(name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoSeat, newGameError(InvalidName, "player name is empty")
	}
	for i := range t.seats {
		if !t.seats[i].Occupied() {
			t.seat(i, name)
			return i, nil
		}
	}
	return NoSeat, newGameError(TableFull, "all %d seats are taken", NumSeats)
}

// JoinAt seats name at a caller-selected seat.
func (t *Table) JoinAt(seatNo int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return newGameError(InvalidName, "player name is empty")
	}
	if !validSeat(seatNo) {
		return newGameError(InvalidTarget, "seat %d does not exist", seatNo)
	}
	if t.seats[seatNo].Occupied() {
		return newGameError(TableFull, "seat %d is taken by %s", seatNo, t.seats[seatNo].Name)
	}
	t.seat(seatNo, name)
	return nil
}

func (t *Table) seat(seatNo int, name string) {
	t.seats[seatNo] = Seat{
		Name:  name,
		Chips: StartingChips,
	}
}

// LeftOf returns the nearest active seat walking clockwise from seatNo. With
// no other active seat it returns seatNo itself, and a pass to it is a no-op.
func (t *Table) LeftOf(seatNo int) int {
	return t.walk(seatNo, 1)
}

// RightOf returns the nearest active seat walking counter-clockwise.
func (t *Table) RightOf(seatNo int) int {
	return t.walk(seatNo, NumSeats-1)
}

func (t *Table) walk(seatNo int, step int) int {
	idx := seatNo
	for i := 0; i < NumSeats; i++ {
		idx = (idx + step) % NumSeats
		if idx == seatNo {
			break
		}
		if t.seats[idx].Active() {
			return idx
		}
	}
	return seatNo
}

// ActiveSeatCount counts occupied, non-eliminated seats.
func (t *Table) ActiveSeatCount() int {
	n := 0
	for i := range t.seats {
		if t.seats[i].Active() {
			n++
		}
	}
	return n
}

func (t *Table) OccupiedSeatCount() int {
	n := 0
	for i := range t.seats {
		if t.seats[i].Occupied() {
			n++
		}
	}
	return n
}

// OtherActiveSeat returns the highest active seat other than exclude, or
// NoSeat.
func (t *Table) OtherActiveSeat(exclude int) int {
	idx := NoSeat
	for i := range t.seats {
		if i != exclude && t.seats[i].Active() {
			idx = i
		}
	}
	return idx
}

func (t *Table) LowestOccupiedSeat() int {
	for i := range t.seats {
		if t.seats[i].Occupied() {
			return i
		}
	}
	return NoSeat
}

// TotalChips is the number of chips held in seats.
func (t *Table) TotalChips() int {
	total := 0
	for i := range t.seats {
		total += t.seats[i].Chips
	}
	return total
}

// OpponentChips is the number of chips held by active seats other than seatNo.
func (t *Table) OpponentChips(seatNo int) int {
	total := 0
	for i := range t.seats {
		if i != seatNo && t.seats[i].Active() {
			total += t.seats[i].Chips
		}
	}
	return total
}

// Seat returns a copy of the seat.
func (t *Table) Seat(seatNo int) Seat {
	if !validSeat(seatNo) {
		return Seat{}
	}
	return t.seats[seatNo]
}

func (t *Table) Seats() [NumSeats]Seat {
	return t.seats
}

func (t *Table) Reset() {
	t.seats = [NumSeats]Seat{}
}

// SetRenderOrder maps logical seats to the slots a presentation layer draws
// them in. order[logical] = slot and must be a permutation of 0..3.
func (t *Table) SetRenderOrder(order [NumSeats]int) error {
	var seen [NumSeats]bool
	for logical, slot := range order {
		if !validSeat(slot) || seen[slot] {
			return fmt.Errorf("invalid render order %v at logical seat %d", order, logical)
		}
		seen[slot] = true
	}
	t.renderOrder = order
	return nil
}

func (t *Table) RenderSlot(seatNo int) int {
	if !validSeat(seatNo) {
		return NoSeat
	}
	return t.renderOrder[seatNo]
}

func (t *Table) RenderOrder() [NumSeats]int {
	return t.renderOrder
}
