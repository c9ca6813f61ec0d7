package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-admin-client/credentials"
	"github.com/jrsteele09/go-admin-client/gateway"
	"github.com/jrsteele09/go-admin-client/internal/config"
	"github.com/jrsteele09/go-admin-client/session"
)

// app wires the config, credential store, gateway client and session
// manager together for the lifetime of one CLI invocation.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	client   *gateway.Client
	sessions *session.Manager
}

func (a *app) init() error {
	_ = godotenv.Load() // optional .env, same convention as the backend repo

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	credsPath := cfg.CredentialsFile
	if credsPath == "" {
		credsPath, err = credentials.DefaultPath("admincli")
		if err != nil {
			return errors.Wrap(err, "resolve credentials path")
		}
	}
	store, err := credentials.NewFileStore(credsPath)
	if err != nil {
		return errors.Wrap(err, "open credential store")
	}

	client, err := gateway.New(cfg.BaseURL, store,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gateway.WithLogger(a.log),
	)
	if err != nil {
		return errors.Wrap(err, "create gateway client")
	}
	a.client = client

	mgr, err := session.NewManager(client.Auth(), store, session.WithLogger(a.log))
	if err != nil {
		return errors.Wrap(err, "create session manager")
	}
	mgr.Bind(client)
	a.sessions = mgr

	// The CLI's rendition of the forced return to the login entry point.
	client.OnSessionInvalidated(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Run 'admincli login' to sign in again.")
	})

	return nil
}

// requireSession restores the session from persisted credentials and fails
// the command when no admin session could be established.
func (a *app) requireSession(ctx context.Context) error {
	a.sessions.Restore(ctx)
	if _, ok := a.sessions.Current(); !ok {
		return errors.New("not logged in, run 'admincli login' first")
	}
	return nil
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
