package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryan-buckman/rewind365/internal/api"
	"github.com/bryan-buckman/rewind365/internal/config"
	"github.com/bryan-buckman/rewind365/internal/server"
	"github.com/bryan-buckman/rewind365/internal/session"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	addr         string
	apiBaseURL   string
	sessionStore string
	sessionDSN   string
	strict       bool
	timezone     string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Teams tab",
	Long: `Serve the configuration, digest and about pages.

Settings come from the environment (and a .env file if present); flags
override them.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	f.StringVar(&serveFlags.apiBaseURL, "api-base-url", "", "Rewind365 API base URL (default "+api.DefaultBaseURL+")")
	f.StringVar(&serveFlags.sessionStore, "session-store", "", "session store: memory, sqlite or postgres")
	f.StringVar(&serveFlags.sessionDSN, "session-dsn", "", "SQLite path or PostgreSQL connection string")
	f.BoolVar(&serveFlags.strict, "strict", false, "show API failures instead of example data")
	f.StringVar(&serveFlags.timezone, "timezone", "", "IANA zone for digest times (default local)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Addr = serveFlags.addr
	}
	if f.Changed("api-base-url") {
		cfg.APIBaseURL = serveFlags.apiBaseURL
	}
	if f.Changed("session-store") {
		cfg.SessionStore = serveFlags.sessionStore
	}
	if f.Changed("session-dsn") {
		cfg.SessionDSN = serveFlags.sessionDSN
	}
	if f.Changed("strict") {
		cfg.Strict = serveFlags.strict
	}
	if f.Changed("timezone") {
		cfg.Timezone = serveFlags.timezone
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store, err := session.Open(cfg.SessionStore, cfg.SessionDSN)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	client := api.NewClient(cfg.APIBaseURL, api.WithFallback(!cfg.Strict))
	log.Printf("Using API at %s (fallback data: %t)", client.BaseURL(), client.FallbackEnabled())

	srv, err := server.New(server.Options{
		Source:   client,
		Sessions: store,
		Location: loc,
		Version:  Version,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.Addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
