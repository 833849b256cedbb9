package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/abelbrown/briefing/internal/advisor"
	"github.com/abelbrown/briefing/internal/config"
	"github.com/abelbrown/briefing/internal/feeds"
	"github.com/abelbrown/briefing/internal/feeds/rss"
	"github.com/abelbrown/briefing/internal/history"
	"github.com/abelbrown/briefing/internal/logging"
	"github.com/abelbrown/briefing/internal/pipeline"
)

func main() {
	mode := flag.String("mode", "morning", "run mode label recorded in history")
	noHistory := flag.Bool("no-history", false, "skip the run history database")
	flag.Parse()

	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Ctrl-C truncates the set of advisor responses considered; the
	// engine finishes with whatever arrived.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var store *history.Store
	if !*noHistory {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "home directory: %v\n", err)
			os.Exit(1)
		}
		dataDir := filepath.Join(homeDir, ".briefing")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "data directory: %v\n", err)
			os.Exit(1)
		}
		store, err = history.Open(filepath.Join(dataDir, "briefing.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "history: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	var sources []feeds.Source
	for _, meta := range feeds.Registry() {
		sources = append(sources, rss.New(meta))
	}

	panel := advisor.NewPanel(advisor.FromConfig(cfg))
	p := pipeline.New(cfg, sources, panel, store)

	result, err := p.Run(ctx, *mode)
	if err != nil {
		logging.Error("run failed", "error", err)
		fmt.Fprintf(os.Stderr, "briefing: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(renderDigest(result))
}
