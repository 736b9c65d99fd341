// Package httpapi serves the user listing as JSON for scripts and other tools.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"userdash/internal/query"
	"userdash/internal/users"
)

// MaxPageSize bounds pageSize on /api/users
const MaxPageSize = 500

// Options configures the router
type Options struct {
	Seed            string
	DefaultPageSize int
	// RateLimit is requests per minute per client IP; 0 disables limiting
	RateLimit int
	Logger    *zap.Logger
}

type usersHandler struct {
	fetcher         users.Fetcher
	seed            string
	defaultPageSize int
	logger          *zap.Logger
}

// NewRouter builds the HTTP handler
func NewRouter(fetcher users.Fetcher, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h := &usersHandler{
		fetcher:         fetcher,
		seed:            opts.Seed,
		defaultPageSize: opts.DefaultPageSize,
		logger:          logger,
	}
	router.Route("/api", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(RateLimit(opts.RateLimit))
		}
		r.Get("/users", h.list)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return router
}

func (h *usersHandler) list(w http.ResponseWriter, r *http.Request) {
	q := query.FromValues(r.URL.Query(), h.defaultPageSize)
	if q.PageSize > MaxPageSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("pageSize must be at most %d", MaxPageSize))
		return
	}

	result, err := h.fetcher.FetchUsers(r.Context(), users.Params{
		Page:       q.Page,
		Results:    q.PageSize,
		SearchTerm: q.Search,
		Seed:       h.seed,
	})
	if err != nil {
		h.logger.Warn("users request failed", zap.Stringer("key", q.Key()), zap.Error(err))
		writeError(w, http.StatusBadGateway, users.ErrFetchFailed.Error())
		return
	}
	writeJSON(w, http.StatusOK, NewUsersResponse(q, result))
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
