package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/akolanti/GoDocQA/internal/adapter/utils"
	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/handlers"
	"github.com/akolanti/GoDocQA/internal/middleware"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

type Routes struct {
	Handler     *handlers.Handler
	Chain       *middleware.Chain
	MCP         http.Handler
	CORSOrigins []string
}

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

type Server struct {
	httpServer *http.Server
	logger     *logger_i.Logger
}

func NewRouter(routes Routes) http.Handler {
	r := utils.NewRouter(middleware.Cors(routes.CORSOrigins))
	wrap := routes.Chain.Wrap
	h := routes.Handler

	r.Post("/upload", wrap(h.UploadHandler))
	r.Delete("/delete", wrap(h.DeleteHandler))
	r.Post("/query", wrap(h.QueryHandler))
	r.Get("/files", wrap(h.ListFilesHandler))
	r.Get("/health", wrap(h.HealthHandler))
	if routes.MCP != nil {
		r.Handle("/mcp", wrap(routes.MCP.ServeHTTP))
	}
	return r
}

func CreateServer(listenAddr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         listenAddr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger_i.NewLogger("Server"),
	}
}

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	s.logger.Info("Server is listening at", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server crashed", "error", err.Error(), "addr", s.httpServer.Addr)
		return err
	}
	return nil
}

func (s *Server) ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	s.logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		s.httpServer.SetKeepAlivesEnabled(false)

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("Could not shutdown gracefully", "error", err)
		}

		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Gracefully shut down")
	case <-ctx.Done():
		s.logger.Error("Force shut down")
		os.Exit(1)
	}
}
