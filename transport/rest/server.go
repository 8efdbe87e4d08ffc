package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	logger   *slog.Logger
	handlers *handlers
}

func New(logger *slog.Logger, rooms roomCreator) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		handlers: newHandlers(logger, rooms),
	}
}

// Start - starts the auxiliary HTTP server. It only bootstraps room codes
// and answers health checks; gameplay never goes through it.
func (that *Server) Start(port string) error {
	router := chi.NewRouter()
	router.Get("/healthz", that.handlers.Healthz)
	router.Post("/rooms", that.handlers.CreateRoom)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
