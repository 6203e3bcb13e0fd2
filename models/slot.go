package models

// Slot is a fixed doubles-pairing category within a match.
type Slot string

const (
	SlotMensDoubles   Slot = "MENS_DOUBLES"
	SlotWomensDoubles Slot = "WOMENS_DOUBLES"
	SlotMixed1        Slot = "MIXED_1"
	SlotMixed2        Slot = "MIXED_2"
	SlotTiebreaker    Slot = "TIEBREAKER"
)

// StandardSlots are the four slots every real match carries. The tiebreaker
// slot is materialized separately, either up front or lazily when a match
// ties 2-2 on equal points.
var StandardSlots = []Slot{SlotMensDoubles, SlotWomensDoubles, SlotMixed1, SlotMixed2}

func (s Slot) Valid() bool {
	switch s {
	case SlotMensDoubles, SlotWomensDoubles, SlotMixed1, SlotMixed2, SlotTiebreaker:
		return true
	}
	return false
}

func (s Slot) IsStandard() bool {
	return s.Valid() && s != SlotTiebreaker
}
