package handlers

import (
	"Planzo/internal/config"
	"Planzo/internal/middleware"
	"Planzo/internal/notify"
	"Planzo/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	plannerService *service.PlannerService,
	hub *notify.Hub,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   config.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	plannerHandler := NewPlannerHandler(plannerService, hub, logger)

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/logout", userHandler.Logout)

	// всё ниже требует авторизации
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/api/user/me", userHandler.Me)

		r.Get("/api/board", plannerHandler.Board)

		r.Get("/api/columns", plannerHandler.ListColumns)
		r.Post("/api/columns", plannerHandler.CreateColumn)
		r.Patch("/api/columns/{id}/order", plannerHandler.UpdateColumnOrder)
		r.Delete("/api/columns/{id}", plannerHandler.DeleteColumn)

		r.Get("/api/items", plannerHandler.ListItems)
		r.Post("/api/items", plannerHandler.CreateItem)
		r.Patch("/api/items/{id}/status", plannerHandler.UpdateItemStatus)
		r.Patch("/api/items/{id}/saved", plannerHandler.UpdateItemSaved)
		r.Patch("/api/items/{id}/calendar", plannerHandler.ScheduleItem)

		r.Get("/api/ws", plannerHandler.Watch)
	})

	return &Handler{Router: r}
}
