package models

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Player is the roster entry shape returned by the external roster service.
// Eligibility (membership, dues, waivers) is the roster service's problem;
// the engine only reads ids and gender tags.
type Player struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}
