package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iburimskiy/glowfield/internal/config"
	"github.com/iburimskiy/glowfield/internal/inspect"
	game_log "github.com/iburimskiy/glowfield/internal/log"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(out io.Writer, cfg *config.Config) *game_log.Logger {
	level := game_log.LevelFromString(cfg.LogLevel)
	if verbose {
		level = game_log.LevelDebug
	}
	return game_log.New(out, level)
}

// inspector bundles the API server with the queue and feed the driver uses.
type inspector struct {
	server *inspect.Server
	queue  *inspect.Queue
	feed   *inspect.Feed
}

// startInspect launches the API in the background when enabled. A nil result
// means it is off.
func startInspect(cfg *config.Config, logger *game_log.Logger) *inspector {
	if !cfg.Inspect.Enabled {
		return nil
	}
	q := inspect.NewQueue(cfg.Inspect.QueueSize)
	feed := &inspect.Feed{}
	srv := inspect.New(cfg.Inspect, q, feed, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Errorf("%v", err)
		}
	}()
	return &inspector{server: srv, queue: q, feed: feed}
}

func (i *inspector) shutdown(logger *game_log.Logger) {
	if i == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := i.server.Shutdown(ctx); err != nil {
		logger.Warnf("inspect: shutdown: %v", err)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
