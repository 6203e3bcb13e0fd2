package engine

import (
	"testing"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

func sub(side models.Side, my, opp int) *models.ScoreSubmission {
	return &models.ScoreSubmission{Side: side, MyScore: my, OpponentScore: opp}
}

func TestScoresMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b *models.ScoreSubmission
		want bool
	}{
		{"agreeing pair", sub(models.SideA, 11, 9), sub(models.SideB, 9, 11), true},
		{"disagreeing own score", sub(models.SideA, 11, 9), sub(models.SideB, 9, 10), false},
		{"disagreeing opponent score", sub(models.SideA, 11, 9), sub(models.SideB, 8, 11), false},
		{"identical reports disagree", sub(models.SideA, 11, 9), sub(models.SideB, 11, 9), false},
		{"zero zero agrees", sub(models.SideA, 0, 0), sub(models.SideB, 0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoresMatch(tt.a, tt.b); got != tt.want {
				t.Errorf("ScoresMatch() = %v, want %v", got, tt.want)
			}
			// The check must not depend on argument order.
			if got := ScoresMatch(tt.b, tt.a); got != tt.want {
				t.Errorf("ScoresMatch() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanonicalUsesSideAFrame(t *testing.T) {
	teamA, teamB := Canonical(sub(models.SideA, 11, 7))
	if teamA != 11 || teamB != 7 {
		t.Errorf("Canonical() = (%d, %d), want (11, 7)", teamA, teamB)
	}
}

func TestComputeOutcome(t *testing.T) {
	eleven, nine := 11, 9

	tests := []struct {
		name string
		game *models.Game
		subs []*models.ScoreSubmission
		want models.GameState
	}{
		{
			name: "no submissions",
			game: &models.Game{},
			want: models.GamePending,
		},
		{
			name: "side A only",
			game: &models.Game{},
			subs: []*models.ScoreSubmission{sub(models.SideA, 11, 9)},
			want: models.GameOneSided,
		},
		{
			name: "side B only",
			game: &models.Game{},
			subs: []*models.ScoreSubmission{sub(models.SideB, 9, 11)},
			want: models.GameOneSided,
		},
		{
			name: "agreeing pair confirmed",
			game: &models.Game{IsComplete: true, TeamAScore: &eleven, TeamBScore: &nine},
			subs: []*models.ScoreSubmission{sub(models.SideA, 11, 9), sub(models.SideB, 9, 11)},
			want: models.GameConfirmed,
		},
		{
			name: "disagreeing pair mismatched",
			game: &models.Game{},
			subs: []*models.ScoreSubmission{sub(models.SideA, 11, 9), sub(models.SideB, 9, 10)},
			want: models.GameMismatched,
		},
		{
			name: "admin override without agreeing pair",
			game: &models.Game{IsComplete: true, TeamAScore: &eleven, TeamBScore: &nine},
			subs: []*models.ScoreSubmission{sub(models.SideA, 11, 9), sub(models.SideB, 9, 10)},
			want: models.GameComplete,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ComputeOutcome(tt.game, tt.subs)
			if out.State != tt.want {
				t.Errorf("ComputeOutcome().State = %s, want %s", out.State, tt.want)
			}
		})
	}
}

func TestComputeOutcomeMismatchRetainsBothReports(t *testing.T) {
	subA := sub(models.SideA, 11, 9)
	subB := sub(models.SideB, 9, 10)
	out := ComputeOutcome(&models.Game{}, []*models.ScoreSubmission{subA, subB})

	if out.State != models.GameMismatched {
		t.Fatalf("State = %s, want %s", out.State, models.GameMismatched)
	}
	if out.SubmissionA != subA || out.SubmissionB != subB {
		t.Error("mismatched outcome must carry both original submissions")
	}
}

func TestOverridden(t *testing.T) {
	eleven, nine := 11, 9
	complete := &models.Game{IsComplete: true, TeamAScore: &eleven, TeamBScore: &nine}

	if Overridden(&models.Game{}, nil) {
		t.Error("incomplete game is never overridden")
	}
	if Overridden(complete, []*models.ScoreSubmission{sub(models.SideA, 11, 9), sub(models.SideB, 9, 11)}) {
		t.Error("complete game with an agreeing pair is confirmed, not overridden")
	}
	if !Overridden(complete, []*models.ScoreSubmission{sub(models.SideA, 11, 9), sub(models.SideB, 9, 10)}) {
		t.Error("complete game with disagreeing submissions is overridden")
	}
	if !Overridden(complete, []*models.ScoreSubmission{sub(models.SideA, 11, 9)}) {
		t.Error("complete game missing a submission is overridden")
	}
}
