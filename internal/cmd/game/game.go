// Package game parses game command flags and starts the game server runtime.
package game

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/adriftworks/adrift/internal/engine/events"
	entrypoint "github.com/adriftworks/adrift/internal/platform/cmd"
	"github.com/adriftworks/adrift/internal/server"
	"github.com/adriftworks/adrift/internal/storage/sqlite"
)

// shutdownTimeout caps how long in-flight requests may run after the context
// ends.
const shutdownTimeout = 5 * time.Second

// Config holds game server configuration.
type Config struct {
	Port   int    `env:"ADRIFT_GAME_PORT" envDefault:"8080"`
	Addr   string `env:"ADRIFT_GAME_ADDR"`
	DBPath string `env:"ADRIFT_GAME_DB" envDefault:"adrift.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the snapshot database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game server and blocks until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open snapshot store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("game: close store: %v", err)
			}
		}()

		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}

		srv := server.New(store, events.NewScripted())
		httpServer := &http.Server{Handler: srv.Handler()}

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- httpServer.Serve(listener)
		}()
		log.Printf("game server listening at %v", listener.Addr())

		select {
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve http: %w", err)
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown http: %w", err)
			}
			return nil
		}
	})
}
