// Package api serves the studio state to browsers: JSON state, curve
// previews, a websocket feed and the static client.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/matt-g-everett/animstudio/logging"
)

const shutdownTimeout = 5 * time.Second

// Source provides what the API shows. Implementations must be safe for
// concurrent use.
type Source interface {
	State() ([]byte, error)
	Preview(control string) ([]byte, bool)
}

// Options configures the Api.
type Options struct {
	Listen string
	Static string
}

// Api is the HTTP front end.
type Api struct {
	options Options
	source  Source
	hub     *Hub
	logger  *logging.Logger
}

// NewApi creates an Api reading from source and streaming through hub.
func NewApi(options Options, source Source, hub *Hub, logger *logging.Logger) *Api {
	a := new(Api)
	a.options = options
	a.source = source
	a.hub = hub
	a.logger = logger.With("component", "api")
	return a
}

// Handler builds the router.
func (a *Api) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(a.recoveryMiddleware)

	r.Get("/state", a.handleState)
	r.Get("/preview/{control}", a.handlePreview)
	r.Get("/ws", a.hub.serve)

	if a.options.Static != "" {
		r.Handle("/*", http.FileServer(http.Dir(a.options.Static)))
	}

	return r
}

// Serve listens until ctx is done, then shuts down gracefully.
func (a *Api) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.options.Listen,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "address", a.options.Listen)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving API: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down API: %w", err)
	}
	return nil
}

func (a *Api) handleState(w http.ResponseWriter, _ *http.Request) {
	data, err := a.source.State()
	if err != nil {
		a.logger.Warn("encoding state failed", "error", err)
		http.Error(w, "state unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (a *Api) handlePreview(w http.ResponseWriter, r *http.Request) {
	data, ok := a.source.Preview(chi.URLParam(r, "control"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

// recoveryMiddleware turns a handler panic into a 500 response.
func (a *Api) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				a.logger.Error("panic recovered in HTTP handler", "error", err, "path", r.URL.Path)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
