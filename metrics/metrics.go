package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScoreSubmissions counts submitScore outcomes by result:
	// waiting, confirmed, mismatch, rejected.
	ScoreSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "score_submissions_total",
		Help: "Score submissions processed, labeled by reconciliation result.",
	}, []string{"result"})

	// ScheduleGenerations counts generate calls by result: created, conflict, error.
	ScheduleGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generations_total",
		Help: "Schedule generation attempts, labeled by result.",
	}, []string{"result"})

	// MatchesCompleted counts terminal matches by how they were decided:
	// wins, points, tiebreaker, forfeit.
	MatchesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matches_completed_total",
		Help: "Matches reaching a terminal state, labeled by decision path.",
	}, []string{"via"})
)
