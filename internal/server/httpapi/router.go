// Package httpapi is the JSON-over-HTTP transport: routing, middleware,
// the session gate and request handlers.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type UserService interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.PublicUser, error)
	Login(ctx context.Context, email, password string) (*models.PublicUser, error)
	GetByID(ctx context.Context, id string) (*models.PublicUser, error)
	UpdateProfile(ctx context.Context, userID, profilePic string) (*models.PublicUser, error)
	ListForSidebar(ctx context.Context, userID string) ([]*models.PublicUser, error)
}

type MessageService interface {
	History(ctx context.Context, userID, otherID string) ([]*models.Message, error)
	Send(ctx context.Context, senderID, receiverID string, in services.SendInput) (*models.Message, error)
}

type Handler struct {
	users        UserService
	messages     MessageService
	sessions     *auth.Sessions
	log          logging.Logger
	metrics      *Metrics
	registry     *prometheus.Registry
	maxBodyBytes int64
}

type Options struct {
	Users        UserService
	Messages     MessageService
	Sessions     *auth.Sessions
	Logger       logging.Logger
	Registry     *prometheus.Registry
	MaxBodyBytes int64
}

func NewHandler(o Options) *Handler {
	if o.Logger == nil {
		o.Logger = logging.Nop{}
	}
	if o.Registry == nil {
		o.Registry = prometheus.NewRegistry()
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 10 << 20
	}
	return &Handler{
		users:        o.Users,
		messages:     o.Messages,
		sessions:     o.Sessions,
		log:          o.Logger.With("module", "http"),
		metrics:      NewMetrics(o.Registry),
		registry:     o.Registry,
		maxBodyBytes: o.MaxBodyBytes,
	}
}

// NewRouter mounts the API under apiPrefix plus /healthz and /metrics at the root.
func NewRouter(h *Handler, apiPrefix string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.loggingMiddleware)
	r.Use(h.recoverMiddleware)
	r.Use(h.metrics.middleware)

	r.Get("/healthz", h.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	if apiPrefix == "" {
		apiPrefix = "/"
	}

	r.Route(apiPrefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.signup)
			r.Post("/login", h.login)
			r.Post("/logout", h.logout)

			r.Group(func(r chi.Router) {
				r.Use(h.requireSession)
				r.Put("/update-profile", h.updateProfile)
				r.Get("/check", h.checkAuth)
			})
		})

		r.Route("/message", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.requireSession)
				r.Get("/users", h.listUsers)
				r.Get("/{id}", h.history)
				r.Post("/send/{id}", h.sendMessage)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
