// Package app provides the application context and dependency management
// for the campsync CLI. It centralizes configuration, logging, and the
// construction of the Campflow client and the Sheets store so commands
// share one wiring path.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/zeltlager-spelle/campsync/internal/campflow"
	"github.com/zeltlager-spelle/campsync/internal/sheets"
	"github.com/zeltlager-spelle/campsync/pkg/errors"
	"github.com/zeltlager-spelle/campsync/pkg/layout"
)

// App represents the campsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Campflow client (lazy-initialized, singleton)
	mu       sync.Mutex
	campflow *campflow.Client
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment that
// can be customized using functional options.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, &errors.ConfigError{Component: "app", Message: "load config", Err: err}
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Campflow returns the Campflow client, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Campflow() (*campflow.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.campflow != nil {
		return a.campflow, nil
	}

	client, err := campflow.New(campflow.Config{
		BaseURL: a.config.BaseURL,
		EventID: a.config.EventID,
		Token:   a.config.APIToken,
	})
	if err != nil {
		return nil, err
	}

	a.campflow = client
	return client, nil
}

// SheetsStore creates a Sheets-backed store from the app configuration.
// Unlike the Campflow client it is not cached; the sync command is the
// only consumer and creates it once.
func (a *App) SheetsStore() (*sheets.Store, error) {
	return sheets.New(sheets.Config{
		SpreadsheetID: a.config.SpreadsheetID,
		Worksheet:     a.config.Worksheet,
		Token:         a.config.SheetsToken,
		Layout:        a.Layout(),
	})
}

// Layout returns the sheet geometry from the configured reserved count.
func (a *App) Layout() layout.Layout {
	if a.config.Reserved > 0 {
		return layout.Layout{Reserved: a.config.Reserved}
	}
	return layout.Default()
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithCampflow sets a custom Campflow client (useful for testing).
func WithCampflow(client *campflow.Client) Option {
	return func(a *App) error {
		a.campflow = client
		return nil
	}
}
