package services

import (
	"context"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

// RosterProvider is the narrow interface to the external roster service. The
// lineup manager only needs the eligible players (with gender tags) for one
// team at one stop.
type RosterProvider interface {
	Roster(ctx context.Context, stopID, teamID int) ([]models.Player, error)
}
