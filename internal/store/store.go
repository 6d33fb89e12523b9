// Package store handles SQLite persistence of the dataset snapshot and preferences.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/gtdash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrEmptySnapshot is returned when no dataset has been imported yet.
var ErrEmptySnapshot = errors.New("no dataset imported")

// Theme values.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	themeKey = "theme"
)

// Snapshot describes the last imported dataset.
type Snapshot struct {
	Source     string
	ImportedAt time.Time
	Rows       int
}

// Store wraps SQLite access for the incident snapshot.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS incidents (
			seq INTEGER PRIMARY KEY,
			eventid TEXT NOT NULL,
			iyear INTEGER NOT NULL,
			imonth INTEGER NOT NULL,
			country TEXT NOT NULL,
			region TEXT NOT NULL,
			success INTEGER,
			gname TEXT NOT NULL,
			nperps INTEGER NOT NULL,
			weaptype TEXT NOT NULL,
			weapsubtype TEXT NOT NULL,
			targtype TEXT NOT NULL,
			nkill INTEGER NOT NULL,
			nwound INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			source TEXT NOT NULL,
			imported_at TEXT NOT NULL,
			row_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_incidents_country ON incidents(country);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceIncidents swaps the stored snapshot for records in one transaction.
func (s *Store) ReplaceIncidents(ctx context.Context, source string, records []model.Incident) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM incidents`); err != nil {
		return fmt.Errorf("failed to clear incidents: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO incidents (seq, eventid, iyear, imonth, country, region, success, gname, nperps, weaptype, weapsubtype, targtype, nkill, nwound)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, rec := range records {
		var success any
		if rec.Success.Known() {
			success = rec.Success == model.SuccessSucceeded
		}
		if _, err = stmt.ExecContext(ctx, i+1, rec.EventID, rec.Year, rec.Month, rec.Country, rec.Region, success,
			rec.GroupName, rec.Perpetrators, rec.WeaponType, rec.WeaponSubtype, rec.TargetType, rec.Kills, rec.Wounded); err != nil {
			return fmt.Errorf("failed to insert incident %q: %w", rec.EventID, err)
		}
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot (id, source, imported_at, row_count) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET source = excluded.source, imported_at = excluded.imported_at, row_count = excluded.row_count`,
		source, time.Now().UTC().Format(time.RFC3339Nano), len(records)); err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}
	return tx.Commit()
}

// LoadIncidents returns the stored records in import order.
func (s *Store) LoadIncidents(ctx context.Context) ([]model.Incident, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT eventid, iyear, imonth, country, region, success, gname, nperps, weaptype, weapsubtype, targtype, nkill, nwound
		 FROM incidents ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.Incident
	for rows.Next() {
		var rec model.Incident
		var success sql.NullBool
		if err := rows.Scan(&rec.EventID, &rec.Year, &rec.Month, &rec.Country, &rec.Region, &success,
			&rec.GroupName, &rec.Perpetrators, &rec.WeaponType, &rec.WeaponSubtype, &rec.TargetType, &rec.Kills, &rec.Wounded); err != nil {
			return nil, err
		}
		switch {
		case !success.Valid:
			rec.Success = model.SuccessUnknown
		case success.Bool:
			rec.Success = model.SuccessSucceeded
		default:
			rec.Success = model.SuccessFailed
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptySnapshot
	}
	return records, nil
}

// CountIncidents returns the number of stored records.
func (s *Store) CountIncidents(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Snapshot returns metadata about the last import.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var importedAt string
	err := s.db.QueryRowContext(ctx, `SELECT source, imported_at, row_count FROM snapshot WHERE id = 1`).
		Scan(&snap.Source, &importedAt, &snap.Rows)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrEmptySnapshot
	}
	if err != nil {
		return Snapshot{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, importedAt)
	if err != nil {
		return Snapshot{}, err
	}
	snap.ImportedAt = parsed
	return snap, nil
}

// Theme returns the persisted theme, defaulting to dark.
func (s *Store) Theme(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, themeKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ThemeDark, nil
	}
	if err != nil {
		return "", err
	}
	theme, ok := ParseTheme(value)
	if !ok {
		return ThemeDark, nil
	}
	return theme, nil
}

// SetTheme persists the theme preference.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	parsed, ok := ParseTheme(theme)
	if !ok {
		return fmt.Errorf("unknown theme %q (want %s or %s)", theme, ThemeDark, ThemeLight)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, themeKey, parsed)
	return err
}

// ParseTheme normalizes a theme name.
func ParseTheme(theme string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case ThemeDark:
		return ThemeDark, true
	case ThemeLight:
		return ThemeLight, true
	default:
		return "", false
	}
}

// ToggleTheme returns the other theme.
func ToggleTheme(theme string) string {
	if theme == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
