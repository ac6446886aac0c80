package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/inkwell-hq/inkwell/internal/api/recovery"
	"github.com/inkwell-hq/inkwell/internal/auth"
	"github.com/inkwell-hq/inkwell/internal/config"
	"github.com/inkwell-hq/inkwell/internal/content"
	"github.com/inkwell-hq/inkwell/internal/revalidate"
	"github.com/inkwell-hq/inkwell/internal/services"
)

// NewRouter wires all HTTP routes: the cached public reads, the guarded
// admin surface, the webhook receiver and health.
func NewRouter(
	cfg *config.Config,
	fetcher content.Fetcher,
	svc *services.Content,
	rev *revalidate.Revalidator,
	isHealthy func() bool,
	log zerolog.Logger,
) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	// Public content
	public := NewPublicHandler(fetcher, cfg.SummaryRecentLimit, log)
	root.HandleFunc("/api/posts", public.ListPosts).Methods("GET")
	root.HandleFunc("/api/posts/{id}", public.GetPost).Methods("GET")
	root.HandleFunc("/api/thoughts", public.ListThoughts).Methods("GET")
	root.HandleFunc("/api/events", public.ListEvents).Methods("GET")
	root.HandleFunc("/api/summary", public.Summary).Methods("GET")

	// Admin surface behind session-token auth. Never mounted without a
	// secret: HS256 over an empty key is a valid key, so a verifier built
	// from "" would accept tokens anyone can mint.
	if cfg.AdminJWTSecret != "" {
		admin := root.PathPrefix("/api/admin").Subrouter()
		verifier := auth.NewVerifier(cfg.AdminJWTSecret)
		admin.Use(verifier.Middleware)
		NewAdminHandler(svc, log).Register(admin)
	} else {
		log.Warn().Msg("admin API disabled: no admin JWT secret configured")
	}

	// Backend change notifications. Registered only when a secret is
	// configured; an endpoint with no secret to check would accept nothing.
	if cfg.WebhookSecret != "" {
		webhook := NewWebhookHandler(cfg.WebhookSecret, rev, log)
		root.HandleFunc("/api/webhook", webhook.Handle).Methods("POST")
	}

	// Health
	root.HandleFunc("/api/health", NewHealthHandler(isHealthy).CheckHealth).Methods("GET")

	return root
}
