package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk/internal/accounts"
	"github.com/crewdesk/crewdesk/internal/api/handlers"
	"github.com/crewdesk/crewdesk/internal/api/middleware"
	"github.com/crewdesk/crewdesk/internal/auth"
	"github.com/crewdesk/crewdesk/internal/projects"
	"github.com/crewdesk/crewdesk/internal/teams"
)

type RouterConfig struct {
	DB             *gorm.DB
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	AllowedOrigins []string
	RateLimitReqs  int
	RateLimitSecs  int
}

func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	accountsService := accounts.NewService(cfg.DB)
	teamService := teams.NewService(cfg.DB)
	projectService := projects.NewService(cfg.DB)

	authHandler := handlers.NewAuthHandler(cfg.AuthService, accountsService)
	userHandler := handlers.NewUserHandler(accountsService)
	companyHandler := handlers.NewCompanyHandler(accountsService)
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(projectService)
	healthHandler := handlers.NewHealthHandler(cfg.DB)

	r.Get("/health", healthHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		// Logout succeeds whether or not the token is valid.
		r.Post("/auth/logout", authHandler.Logout)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))
			r.Use(middleware.LoadActor(cfg.DB))

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Patch("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})

			r.Route("/company", func(r chi.Router) {
				r.Get("/", companyHandler.Get)
				r.Patch("/", companyHandler.Update)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", teamHandler.List)
				r.Post("/", teamHandler.Create)
				r.Get("/mine", teamHandler.Mine)
				r.Get("/{id}", teamHandler.Get)
				r.Patch("/{id}", teamHandler.Update)
				r.Delete("/{id}", teamHandler.Delete)
				r.Get("/{id}/members", teamHandler.Members)
				r.Post("/{id}/members", teamHandler.AddMember)
				r.Delete("/{id}/members", teamHandler.RemoveMember)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)
				r.Get("/mine", projectHandler.Mine)
				r.Get("/{id}", projectHandler.Get)
				r.Patch("/{id}", projectHandler.Update)
				r.Delete("/{id}", projectHandler.Delete)
				r.Get("/{id}/stats", projectHandler.Stats)
				r.Get("/{id}/members", projectHandler.Members)
				r.Post("/{id}/members", projectHandler.AddMember)
				r.Delete("/{id}/members", projectHandler.RemoveMember)
				r.Get("/{id}/tasks", projectHandler.Tasks)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.Create)
				r.Get("/mine", taskHandler.Mine)
				r.Get("/{id}", taskHandler.Get)
				r.Patch("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
				r.Get("/{id}/comments", taskHandler.Comments)
				r.Post("/{id}/comments", taskHandler.AddComment)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Patch("/{id}", taskHandler.UpdateComment)
				r.Delete("/{id}", taskHandler.DeleteComment)
			})
		})
	})

	return r
}
