// cmd/server/main.go
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/sozercan/chart-mole/internal/analyzer"
	"github.com/sozercan/chart-mole/internal/config"
	"github.com/sozercan/chart-mole/internal/llm"
	"github.com/sozercan/chart-mole/internal/server"
)

func main() {
	configPath := pflag.String("config", "", "path to an optional config file (yaml, toml or json)")
	pflag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	config.SetupLogging(cfg.Log, os.Stderr)

	llmProvider, err := llm.New(&cfg.LLM)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	analyzer := analyzer.New(llmProvider, cfg)

	srv := server.New(*cfg, analyzer)
	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
