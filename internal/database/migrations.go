package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history. Append only; never edit an
// applied entry.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_sessions",
		SQL: `
			CREATE TABLE IF NOT EXISTS sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				fps REAL NOT NULL DEFAULT 0,
				pixel_size_cm REAL NOT NULL DEFAULT 0,
				frame_count INTEGER NOT NULL DEFAULT 0,
				states_computed INTEGER NOT NULL DEFAULT 0,
				notes TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 2,
		Name:    "create_track_frames",
		SQL: `
			CREATE TABLE IF NOT EXISTS track_frames (
				session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
				frame_index INTEGER NOT NULL,
				pos_x REAL NOT NULL DEFAULT 0,
				pos_y REAL NOT NULL DEFAULT 0,
				state INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (session_id, frame_index)
			);
			CREATE INDEX IF NOT EXISTS idx_track_frames_session
				ON track_frames(session_id, frame_index);
		`,
	},
	{
		Version: 3,
		Name:    "create_burrow_samples",
		SQL: `
			CREATE TABLE IF NOT EXISTS burrow_samples (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
				burrow_id INTEGER NOT NULL,
				frame_index INTEGER NOT NULL,
				length_px REAL NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_burrow_samples_session
				ON burrow_samples(session_id, burrow_id, frame_index);
		`,
	},
	{
		Version: 4,
		Name:    "create_state_transitions",
		SQL: `
			CREATE TABLE IF NOT EXISTS state_transitions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
				from_state INTEGER NOT NULL,
				to_state INTEGER NOT NULL,
				duration_seconds REAL NOT NULL,
				frame_index INTEGER NOT NULL,
				algo_version TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_state_transitions_session
				ON state_transitions(session_id, from_state, to_state);
		`,
	},
	{
		Version: 5,
		Name:    "create_dwell_stats",
		SQL: `
			CREATE TABLE IF NOT EXISTS dwell_stats (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
				state INTEGER NOT NULL,
				category TEXT NOT NULL,
				total_seconds REAL NOT NULL DEFAULT 0,
				mean_seconds REAL NOT NULL DEFAULT 0,
				median_seconds REAL NOT NULL DEFAULT 0,
				run_count INTEGER NOT NULL DEFAULT 0,
				algo_version TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_dwell_stats_session
				ON dwell_stats(session_id, category);
		`,
	},
	{
		Version: 6,
		Name:    "create_analysis_tasks",
		SQL: `
			CREATE TABLE IF NOT EXISTS analysis_tasks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				skill_name TEXT NOT NULL,
				task_type TEXT NOT NULL,
				session_id INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT 'pending',
				progress_percent REAL NOT NULL DEFAULT 0,
				params_json TEXT NOT NULL DEFAULT '',
				total_frames INTEGER NOT NULL DEFAULT 0,
				processed_frames INTEGER NOT NULL DEFAULT 0,
				failed_frames INTEGER NOT NULL DEFAULT 0,
				result_summary TEXT NOT NULL DEFAULT '',
				error_message TEXT NOT NULL DEFAULT '',
				created_by TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				started_at TIMESTAMP,
				completed_at TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_analysis_tasks_status
				ON analysis_tasks(status, skill_name);
		`,
	},
}

// Migrate applies all pending migrations in version order.
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		log.Printf("[database] applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func applyMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return err
	}

	return tx.Commit()
}
