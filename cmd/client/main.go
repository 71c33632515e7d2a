package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pwalczak/flashdeck/internal/client"
	"github.com/pwalczak/flashdeck/internal/config"
	"github.com/pwalczak/flashdeck/internal/logger"
	"github.com/pwalczak/flashdeck/internal/query"
	"github.com/pwalczak/flashdeck/internal/ui"
)

func main() {
	cfg := config.Load()

	// The terminal owns stdout, so logs go to a file when requested.
	logOpts := []logger.Option{
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(false),
	}
	if path := os.Getenv("CLIENT_LOG_FILE"); path != "" {
		if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			defer f.Close()
			logOpts = append(logOpts, logger.WithOutput(f))
		}
	} else {
		logOpts = append(logOpts, logger.WithOutput(os.Stderr))
	}
	logger.SetDefault(logger.New(logOpts...))

	apiClient := client.New(cfg.APIBaseURL,
		client.WithTimeout(time.Duration(cfg.HTTPTimeout)*time.Second),
	)
	store := query.NewStore(apiClient)

	tui := ui.NewTUI(store, cfg.DefaultPageSize)
	if err := tui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "flashdeck client error: %v\n", err)
		os.Exit(1)
	}
}
