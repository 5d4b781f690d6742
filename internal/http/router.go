package http

import (
	"net/http"

	"github.com/minsu-lee/agenda-api/internal/http/handler"
	"github.com/minsu-lee/agenda-api/internal/notify"
	"github.com/minsu-lee/agenda-api/internal/service"
	"github.com/minsu-lee/agenda-api/internal/session"
)

type RouterConfig struct {
	Coordinator *session.Coordinator
	AuthService *service.AuthService
	Notifier    *notify.Notifier
	StaticDir   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for ALB health check compatibility
	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	// Agenda API
	agendaHandler := handler.NewAgendaHandler(cfg.Coordinator)
	mux.Handle("/api/v1/agendas", agendaHandler)
	mux.Handle("/api/v1/agendas/", agendaHandler)

	// Auth API; nil when Cognito isn't configured (local dev without a pool)
	if cfg.AuthService != nil {
		mux.Handle("/api/v1/auth/", handler.NewAuthHandler(cfg.AuthService))
	}

	// Current toast notification
	mux.Handle("/api/v1/notification", handler.NewNotificationHandler(cfg.Notifier))

	// Everything else is the SPA bundle with index.html fallback
	mux.Handle("/", handler.NewStaticHandler(cfg.StaticDir))

	return mux
}
