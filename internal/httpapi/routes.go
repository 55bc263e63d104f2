package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/wordduel-backend/internal/hub"
	"github.com/DoyleJ11/wordduel-backend/internal/lobby"
	"github.com/DoyleJ11/wordduel-backend/internal/ws"
)

func SetupRoutes(lb *lobby.Lobby, h *hub.Hub, opts ws.Options, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/state", State(lb))
	r.Get("/ws", ws.Handler(lb, h, opts, logger))
	return r
}
