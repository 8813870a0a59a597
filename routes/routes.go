package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fairwaycup/matchplay/handlers"
	"github.com/fairwaycup/matchplay/middleware"
	"github.com/fairwaycup/matchplay/services"
)

// Handlers collects everything the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Standings  *handlers.StandingsHandler
	Bracket    *handlers.BracketHandler
	Prediction *handlers.PredictionHandler
	Export     *handlers.ExportHandler
	Simulation *handlers.SimulationHandler
	WebSocket  *handlers.WebSocketHandler
}

// InitRoutes mounts the public read surface, the prediction intake,
// and the admin-gated mutation routes.
func InitRoutes(h Handlers, jwtSecret string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/login", h.Auth.LoginViewer)
	router.Post("/auth/admin/login", h.Auth.LoginAdmin)

	router.Get("/ws/{topic}", h.WebSocket.Subscribe)

	router.Route("/pods", func(r chi.Router) {
		r.Get("/", h.Standings.GetPods)
		r.Get("/standings", h.Standings.GetStandings)
		r.Get("/results", h.Standings.GetResultsLog)
		r.Get("/margins", h.Standings.GetMarginLabels)
		r.Get("/tiebreaks", h.Standings.GetTiebreaks)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(services.RoleAdmin))

			r.Put("/roster", h.Standings.ReplaceRoster)
			r.Post("/results", h.Standings.RecordResult)
			r.Delete("/results", h.Standings.DeleteResult)
			r.Post("/tiebreaks", h.Standings.SelectTiebreak)
			r.Delete("/tiebreaks", h.Standings.ClearTiebreaks)
		})
	})

	router.Route("/bracket", func(r chi.Router) {
		r.Get("/", h.Bracket.GetBracket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(services.RoleAdmin))

			r.Post("/finalize", h.Bracket.FinalizeField)
			r.Post("/matches", h.Bracket.DecideMatch)
			r.Post("/matches/unlock", h.Bracket.UnlockMatch)
			r.Post("/confirm", h.Bracket.ConfirmFinal)
		})
	})

	router.Route("/predictions", func(r chi.Router) {
		r.Post("/", h.Prediction.Submit)
		r.Get("/leaderboard", h.Prediction.GetLeaderboard)
		r.Get("/{name}", h.Prediction.GetPrediction)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(services.RoleAdmin))

			r.Post("/leaderboard/refresh", h.Prediction.RefreshLeaderboard)
		})
	})

	router.Route("/simulation", func(r chi.Router) {
		r.Get("/courses", h.Simulation.GetCourses)
		r.Post("/duel", h.Simulation.SimulateDuel)
	})

	router.Route("/exports", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.RequireRole(services.RoleAdmin))

		r.Get("/results", h.Export.DownloadResults)
		r.Get("/field", h.Export.DownloadField)
		r.Post("/{kind}/archive", h.Export.Archive)
	})

	return router
}
