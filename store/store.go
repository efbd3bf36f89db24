// Package store persists message templates and the variable name list in
// a SQLite database.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"fbnoi.com/msgtemplate"
)

//go:embed migrations/*.sql
var migrations embed.FS

var ErrNotFound = errors.New("template not found")

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

type Option func(*Store)

// WithLogger sets the logger used for storage events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open opens the database at path and applies pending migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}

	s := &Store{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	s.logger.Debug("database opened", "path", path)

	return s, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "failed to set dialect")
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Wrap(err, "migration up failed")
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTemplate stores the tree's snapshot under name. Saving a tree that is
// identical to the stored one does nothing.
func (s *Store) SaveTemplate(ctx context.Context, name string, t *msgtemplate.Tree) error {
	snapshot := t.Snapshot()
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}
	identity := snapshot.Identity()

	var stored string
	err = s.db.QueryRowContext(ctx, `SELECT identity FROM templates WHERE name = ?`, name).Scan(&stored)
	switch {
	case err == nil && stored == identity:
		s.logger.Debug("template unchanged", "name", name, "identity", identity)
		return nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return errors.Wrapf(err, "failed to read template %s", name)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO templates (name, snapshot, identity, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
  snapshot = excluded.snapshot,
  identity = excluded.identity,
  updated_at = excluded.updated_at`,
		name, string(data), identity, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrapf(err, "failed to save template %s", name)
	}
	s.logger.Info("template saved", "name", name, "identity", identity, "nodeCount", snapshot.NodeCount)

	return nil
}

// LoadTemplate restores the template stored under name. When nothing is
// stored a fresh empty template is returned.
func (s *Store) LoadTemplate(ctx context.Context, name string, varNames []string) (*msgtemplate.Tree, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM templates WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("template not stored, starting empty", "name", name)
		return msgtemplate.New(varNames), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load template %s", name)
	}

	snapshot, err := msgtemplate.ParseSnapshot([]byte(data))
	if err != nil {
		return nil, errors.Wrapf(err, "template %s", name)
	}
	t, err := msgtemplate.Restore(snapshot, varNames)
	if err != nil {
		return nil, errors.Wrapf(err, "template %s", name)
	}

	return t, nil
}

func (s *Store) DeleteTemplate(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE name = ?`, name)
	if err != nil {
		return errors.Wrapf(err, "failed to delete template %s", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to delete template")
	}
	if n == 0 {
		return errors.Wrap(ErrNotFound, name)
	}
	s.logger.Info("template deleted", "name", name)

	return nil
}

// ListTemplates returns the stored template names in order.
func (s *Store) ListTemplates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM templates ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list templates")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to list templates")
		}
		names = append(names, name)
	}

	return names, errors.Wrap(rows.Err(), "failed to list templates")
}

// SaveVarNames replaces the stored variable name list.
func (s *Store) SaveVarNames(ctx context.Context, names []string) error {
	if err := msgtemplate.ValidateVarNames(names); err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return errors.Wrap(err, "can't encode variable names")
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO var_names (id, names) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET names = excluded.names`, string(data))
	if err != nil {
		return errors.Wrap(err, "failed to save variable names")
	}
	s.logger.Info("variable names saved", "count", len(names))

	return nil
}

// VarNames returns the stored variable names, or DefaultVarNames when the
// list was never saved.
func (s *Store) VarNames(ctx context.Context) ([]string, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT names FROM var_names WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		names := make([]string, len(msgtemplate.DefaultVarNames))
		copy(names, msgtemplate.DefaultVarNames)
		return names, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load variable names")
	}

	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, errors.Wrap(err, "can't decode variable names")
	}

	return names, nil
}
