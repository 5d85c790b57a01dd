package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/empower-ran/enbagent/internal/agent"
	"github.com/empower-ran/enbagent/internal/config"
	"github.com/empower-ran/enbagent/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "enbagent: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "enbagent.toml", "path to the agent toml config")
	flag.Parse()

	cfg, err := config.LoadAgentConfig(*configPath)
	if err != nil {
		return err
	}
	logger := observability.InitLogger("enbagent", cfg.LogLevel)

	a, err := agent.New(cfg, logger.With().Str("component", "agent").Logger())
	if err != nil {
		return err
	}
	if err := a.Start(); err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		router := observability.MetricsRouter("enbagent", time.Now())
		go func() {
			if err := router.Run(cfg.MetricsAddr); err != nil {
				logger.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics endpoint failed")
			}
		}()
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics endpoint up")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
		logger.Info().Msg("shutting down")
		a.Stop()
	case <-a.Done():
		// The loop only exits on its own after an unrecovered panic.
		logger.Error().Msg("session loop exited")
	}
	return nil
}
