// Package api exposes the file manager, accounts and service status over
// HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/Abdorithm/alx-files-manager/pkg/auth"
	"github.com/Abdorithm/alx-files-manager/pkg/files"
	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a health check function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Counter reports how many users and files are stored.
type Counter interface {
	CountUsers(ctx context.Context) (int64, error)
	CountFiles(ctx context.Context) (int64, error)
}

type Options struct {
	Files       *files.Manager
	Accounts    *auth.Accounts
	Resolver    files.Resolver
	Redis       Pinger
	Database    Pinger
	Counter     Counter
	Logger      log.LoggerService
	MaxBodySize int64
}

func NewRouter(opts Options) http.Handler {
	h := &handlers{
		files:    opts.Files,
		accounts: opts.Accounts,
		resolver: opts.Resolver,
		redis:    opts.Redis,
		database: opts.Database,
		counter:  opts.Counter,
		logger:   opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe(opts.Logger))
	r.Use(limitBody(opts.MaxBodySize))

	r.Get("/status", h.getStatus)
	r.Get("/stats", h.getStats)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/users", h.postUser)
	r.Get("/users/me", h.getMe)
	r.Get("/connect", h.getConnect)
	r.Get("/disconnect", h.getDisconnect)

	r.Route("/files", func(r chi.Router) {
		r.Post("/", h.postUpload)
		r.Get("/", h.getIndex)
		r.Get("/{id}", h.getShow)
		r.Put("/{id}/publish", h.putPublish)
		r.Put("/{id}/unpublish", h.putUnpublish)
		r.Get("/{id}/data", h.getFile)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	return r
}

type handlers struct {
	files    *files.Manager
	accounts *auth.Accounts
	resolver files.Resolver
	redis    Pinger
	database Pinger
	counter  Counter
	logger   log.LoggerService
}
