package server

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/csrf"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"orb-service/cmd/api/di"
	"orb-service/internal/adapter/gin/router"
	"orb-service/internal/config"
)

// Server wraps the HTTP server serving the pages and the JSON API.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New builds the gin engine from the container and wraps it in an
// http.Server. When CSRF protection is enabled the engine is wrapped in
// gorilla/csrf as the outermost handler so every mutating request must
// carry a token.
func New(cfg *config.Config, l *zap.Logger, c *di.Container) (*Server, error) {
	var rdb *redis.Client
	if c.RedisClient != nil {
		rdb = c.RedisClient.Client
	}

	engine, err := router.New(cfg, l, rdb, c.AuthUC, c.Handlers)
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	var handler http.Handler = engine
	if cfg.App.CSRFEnabled {
		protect := csrf.Protect(
			[]byte(cfg.App.SecretKey),
			csrf.Secure(cfg.App.SessionSecure),
			csrf.MaxAge(cfg.App.CSRFTimeoutSeconds),
			csrf.Path("/"),
			csrf.RequestHeader("X-CSRF-Token"),
			csrf.TrustedOrigins(trustedOrigins(cfg.App.CORSOrigins)),
		)
		// Every response carries the per-request token so API clients can
		// echo it back in X-CSRF-Token; the pages also embed it in a meta tag.
		issuing := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-CSRF-Token", csrf.Token(r))
			engine.ServeHTTP(w, r)
		}))
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Cookies are only marked Secure behind TLS; the same flag tells
			// the CSRF origin check which scheme this deployment serves.
			if !cfg.App.SessionSecure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			issuing.ServeHTTP(w, r)
		})
		l.Info("CSRF protection enabled",
			zap.Int("timeout_seconds", cfg.App.CSRFTimeoutSeconds),
		)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.HTTPPort,
		Handler:           http.MaxBytesHandler(handler, cfg.App.MaxUploadBytes),
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{Config: cfg, Logger: l, HTTP: srv}, nil
}

// trustedOrigins reduces the configured CORS origin URLs to the host form
// the CSRF origin check compares against.
func trustedOrigins(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))
	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
