package services

import "errors"

// Sentinel errors shared across services and the HTTP mapping. Grouped by the
// four-way taxonomy: validation, conflict, locked, not found. A score
// mismatch is deliberately absent: it is a legitimate outcome, not an error.
var (
	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrScoreInvalid        = errors.New("scores must be non-negative integers")
	ErrGameAlreadyComplete = errors.New("game is already complete")
	ErrSlotsInvalid        = errors.New("requested slots are empty, unknown, or duplicated")
	ErrLineupInvalid       = errors.New("lineup is invalid")
	ErrByeMatch            = errors.New("operation does not apply to a bye match")
	ErrNotEnoughTeams      = errors.New("bracket needs at least 2 teams to schedule")
	ErrUnsupportedFormat   = errors.New("bracket format has no pairing generator")
	ErrRosterUnavailable   = errors.New("roster service is unavailable")

	// Conflicts
	ErrAlreadyScheduled      = errors.New("schedule already exists for this scope")
	ErrDuplicateSubmission   = errors.New("side has already submitted a score for this game")
	ErrMatchAlreadyDecided   = errors.New("match already has a terminal result")
	ErrTiebreakerNotRequired = errors.New("match does not require a tiebreaker game")
	ErrGameNotMismatched     = errors.New("game has no mismatched submissions to resolve")

	// Locked
	ErrLineupLocked  = errors.New("lineup is locked for editing")
	ErrMatchFinished = errors.New("match is complete or forfeited and no longer accepts mutations")

	// Not found
	ErrStopNotFound    = errors.New("stop not found")
	ErrBracketNotFound = errors.New("bracket not found")
	ErrRoundNotFound   = errors.New("round not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrGameNotFound    = errors.New("game not found")
)
