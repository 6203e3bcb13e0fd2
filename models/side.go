package models

// Side identifies one of the two teams in a match and is the frame of
// reference for a score submission.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}
