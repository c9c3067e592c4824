package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the sqlite database at path. The pool is pinned
// to a single connection: modernc sqlite serializes writers anyway and one
// connection keeps transactions simple.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}

	if version < 1 {
		stmts := []string{
			`CREATE TABLE IF NOT EXISTS jobs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				employer TEXT NOT NULL,
				role TEXT NOT NULL,
				location TEXT NOT NULL DEFAULT '',
				country TEXT NOT NULL DEFAULT 'USA',
				category TEXT NOT NULL DEFAULT '',
				company_link TEXT NOT NULL DEFAULT '',
				aggregator_link TEXT NOT NULL DEFAULT '',
				aggregator_name TEXT NOT NULL DEFAULT '',
				date_posted TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT '',
				flagged INTEGER NOT NULL DEFAULT 0,
				internship INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT 'pending',
				link TEXT NOT NULL DEFAULT '',
				source_id TEXT NOT NULL DEFAULT '',
				first_seen TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_link ON jobs(link) WHERE link != ''`,
			`CREATE INDEX IF NOT EXISTS idx_jobs_date_posted ON jobs(date_posted)`,
			`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
			`PRAGMA user_version = 1`,
		}
		for _, s := range stmts {
			if _, err := db.ExecContext(ctx, s); err != nil {
				return fmt.Errorf("migration v1: %w", err)
			}
		}
	}
	return nil
}
