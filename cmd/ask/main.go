// Command ask indexes a directory and answers one question from it without starting the server.
//
//	ask -dir ./uploaded_docs "What color is the sky?"
//	ask -mcp -dir ./uploaded_docs
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/akolanti/GoDocQA/internal/adapter"
	"github.com/akolanti/GoDocQA/internal/bootstrap"
	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/mcpServer"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

func main() {
	dir := flag.String("dir", "", "directory to index (defaults to UPLOAD_DIR)")
	envFile := flag.String("env-file", ".env", "optional dotenv file")
	serveMCP := flag.Bool("mcp", false, "serve the index over MCP on stdio instead of answering once")
	flag.Parse()

	if err := run(*dir, *envFile, *serveMCP, strings.Join(flag.Args(), " ")); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(dir string, envFile string, serveMCP bool, question string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	// stdout carries the answer or the MCP stream
	logger_i.InitWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dir != "" {
		cfg.UploadDir = dir
	}
	if !serveMCP && strings.TrimSpace(question) == "" {
		return fmt.Errorf("usage: ask [-dir path] question")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}
	if _, err := app.Index.RebuildFromDirectory(ctx, cfg.UploadDir); err != nil {
		return fmt.Errorf("indexing %s: %w", cfg.UploadDir, err)
	}

	if serveMCP {
		return mcpServer.NewServer(app.Answerer, app.Index).Run(ctx)
	}

	answer, err := app.Answerer.Answer(ctx, question, app.Index.Current())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(adapter.ToQueryResponse(answer))
}
