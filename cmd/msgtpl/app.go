package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fbnoi.com/msgtemplate"
	"fbnoi.com/msgtemplate/store"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	configPath string
	dbPath     string
	name       string
	verbose    bool

	config *msgtemplate.Config
	logger *slog.Logger
	store  *store.Store
}

func (a *app) open(cmd *cobra.Command, _ []string) (err error) {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a.config = msgtemplate.DefaultConfig()
	if a.configPath != "" {
		if a.config, err = msgtemplate.LoadConfig(a.configPath); err != nil {
			return err
		}
	}
	if a.dbPath != "" {
		a.config.DBPath = a.dbPath
	}
	if a.name != "" {
		a.config.Template = a.name
	}
	if err = a.config.Validate(); err != nil {
		return err
	}

	a.store, err = store.Open(cmd.Context(), a.config.DBPath, store.WithLogger(a.logger))

	return err
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}

	return a.store.Close()
}

// load restores the configured template with the stored variable names.
func (a *app) load(ctx context.Context) (*msgtemplate.Tree, error) {
	varNames, err := a.store.VarNames(ctx)
	if err != nil {
		return nil, err
	}

	return a.store.LoadTemplate(ctx, a.config.Template, varNames)
}

func (a *app) save(ctx context.Context, t *msgtemplate.Tree) error {
	return a.store.SaveTemplate(ctx, a.config.Template, t)
}

// edit loads the template, applies fn and saves the result.
func (a *app) edit(ctx context.Context, fn func(*msgtemplate.Tree) error) (*msgtemplate.Tree, error) {
	t, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	if err = fn(t); err != nil {
		return nil, err
	}

	return t, a.save(ctx, t)
}
