package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markbrown88/pickleball-app-sub002/handlers"
	"github.com/markbrown88/pickleball-app-sub002/middleware"
)

// SetupRoutes wires every HTTP endpoint. Reads are public; captain actions
// and admin actions sit behind JWT role gates.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	scheduleHandler *handlers.ScheduleHandler,
	lineupHandler *handlers.LineupHandler,
	scoreHandler *handlers.ScoreHandler,
	matchHandler *handlers.MatchHandler,
	scoreboardHandler *handlers.ScoreboardHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Get("/ws/stops/{stopID}", scoreboardHandler.ServeWs)

	router.Route("/stops/{stopID}", func(r chi.Router) {
		r.Get("/schedule", scheduleHandler.GetSchedule)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(middleware.RoleAdmin))

			r.Post("/schedule", scheduleHandler.Generate)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/state", matchHandler.GetState)
		r.Get("/lineups", lineupHandler.GetLineups)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(middleware.RoleCaptain))

			r.Put("/lineups/{side}", lineupHandler.SubmitLineup)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(middleware.RoleAdmin))

			r.Post("/forfeit", matchHandler.Forfeit)
			r.Post("/tiebreaker", matchHandler.ScheduleTiebreaker)
		})
	})

	router.Route("/games/{gameID}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(middleware.RoleCaptain))

			r.Post("/score", scoreHandler.SubmitScore)
			r.Post("/start", scoreHandler.StartGame)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(middleware.RoleAdmin))

			r.Post("/resolve", scoreHandler.ResolveMismatch)
		})
	})
}
