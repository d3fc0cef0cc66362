package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

type gameReader interface {
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)
}

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	games  gameReader
}

func New(logger *slog.Logger, games gameReader) *Server {
	server := &Server{
		logger: logger.With("component", "rest"),
		router: chi.NewRouter(),
		games:  games,
	}

	server.router.Use(chimw.RequestID)
	server.router.Use(chimw.Recoverer)
	server.router.Use(chimw.Timeout(writeTimeout))

	server.router.Get("/ping", server.handlePing)
	server.router.Get("/models", server.handleModels)
	server.router.Get("/games/{playerID}", server.handleGame)

	return server
}

// Router exposes the router for tests.
func (that *Server) Router() http.Handler {
	return that.router
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
