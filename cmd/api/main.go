// @title           Document QA API
// @version         1.0
// @description     Upload documents and ask questions answered from them.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/GoDocQA/internal/bootstrap"
	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/handlers"
	"github.com/akolanti/GoDocQA/internal/mcpServer"
	"github.com/akolanti/GoDocQA/internal/metrics"
	"github.com/akolanti/GoDocQA/internal/middleware"
	"github.com/akolanti/GoDocQA/internal/server"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

var (
	listenAddr string
	envFile    string
	reindex    bool
)

func main() {
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address (overrides LISTEN_ADDR)")
	flag.StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	flag.BoolVar(&reindex, "reindex", false, "index the files already in the upload directory on start")
	flag.Parse()

	cfg, err := config.Load(envFile)
	if err != nil {
		println("config:", err.Error())
		os.Exit(1)
	}
	logger_i.Init(cfg.LogLevel, cfg.LogFormat)
	var logger = logger_i.NewLogger("main")

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if listenAddr == "" {
		listenAddr = cfg.ListenAddr
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	app, err := bootstrap.Build(serviceContext, cfg)
	if err != nil {
		logger.Error("One or more services failed to initialize. Shutting down.", "error", err)
		return
	}

	if names, err := app.Files.List(); err == nil {
		metrics.SetUploadedFiles(len(names))
		if reindex && len(names) > 0 {
			if _, err := app.Index.RebuildFromDirectory(serviceContext, app.Files.Dir()); err != nil {
				logger.Warn("Could not index stored files, starting empty", "error", err)
			}
		}
	}

	handler := handlers.NewHandler(app.Answerer, app.Index, app.Files, cfg.MaxUploadBytes)
	router := server.NewRouter(server.Routes{
		Handler:     handler,
		Chain:       middleware.NewChain(middleware.NewIPRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)),
		MCP:         mcpServer.NewServer(app.Answerer, app.Index).Handler(),
		CORSOrigins: cfg.CORSAllowedOrigins,
	})
	srv := server.CreateServer(listenAddr, router)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go srv.ShutDownHandler(server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	})
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			gracefulShutdown <- syscall.SIGTERM
		}
	}()

	<-stopExecution
	logger.Info("Server stopped")
}
