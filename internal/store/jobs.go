package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jobradar-engine/internal/domain"
)

// Job is a stored posting plus engine bookkeeping.
type Job struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	SourceID  string `json:"sourceId"`
	FirstSeen string `json:"firstSeen"`
	domain.Posting
}

type SaveResult struct {
	Saved   int `json:"saved"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// SaveJobs upserts postings keyed by their identifying link (company link,
// else aggregator link). Postings without either link are skipped. Updates
// refresh the descriptive fields but never touch status, so triage done by
// downstream consumers survives re-polls.
func SaveJobs(ctx context.Context, db *sql.DB, postings []domain.Posting, sourceID string) (SaveResult, error) {
	var res SaveResult

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, p := range postings {
		link := p.Link()
		if link == "" {
			res.Skipped++
			continue
		}

		var id int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM jobs WHERE link = ?`, link).Scan(&id)
		switch {
		case err == sql.ErrNoRows:
			_, err = tx.ExecContext(ctx, `
				INSERT INTO jobs (employer, role, location, country, category,
					company_link, aggregator_link, aggregator_name, date_posted,
					notes, flagged, internship, status, link, source_id, first_seen)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?, ?, ?)`,
				p.Employer, p.Role, p.Location, p.Country, p.Category,
				p.CompanyLink, p.AggregatorLink, p.AggregatorName, p.DatePosted,
				p.Notes, boolInt(p.Flagged), boolInt(p.Internship), link, sourceID, now)
			if err != nil {
				return res, fmt.Errorf("insert %q: %w", link, err)
			}
			res.Saved++
		case err != nil:
			return res, err
		default:
			_, err = tx.ExecContext(ctx, `
				UPDATE jobs SET employer = ?, role = ?, location = ?, country = ?,
					category = ?, company_link = ?, aggregator_link = ?,
					aggregator_name = ?, date_posted = ?, notes = ?, flagged = ?,
					internship = ?, source_id = ?
				WHERE id = ?`,
				p.Employer, p.Role, p.Location, p.Country, p.Category,
				p.CompanyLink, p.AggregatorLink, p.AggregatorName, p.DatePosted,
				p.Notes, boolInt(p.Flagged), boolInt(p.Internship), sourceID, id)
			if err != nil {
				return res, fmt.Errorf("update %q: %w", link, err)
			}
			res.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	return res, nil
}

// ListOpts narrows and orders ListJobs output. Zero value lists everything,
// newest date first.
type ListOpts struct {
	Status   string
	Category string
	Country  string
	SourceID string
	Limit    int
	Offset   int
}

func ListJobs(ctx context.Context, db *sql.DB, opts ListOpts) ([]Job, error) {
	q := `SELECT id, employer, role, location, country, category,
		company_link, aggregator_link, aggregator_name, date_posted,
		notes, flagged, internship, status, source_id, first_seen
		FROM jobs WHERE 1=1`
	var args []any

	if opts.Status != "" {
		q += ` AND status = ?`
		args = append(args, opts.Status)
	}
	if opts.Category != "" {
		q += ` AND category = ?`
		args = append(args, opts.Category)
	}
	if opts.Country != "" {
		q += ` AND country = ?`
		args = append(args, opts.Country)
	}
	if opts.SourceID != "" {
		q += ` AND source_id = ?`
		args = append(args, opts.SourceID)
	}

	q += ` ORDER BY date_posted DESC, id DESC`

	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			q += ` OFFSET ?`
			args = append(args, opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJobs(rows)
}

// ListPending returns jobs that have not been triaged yet, oldest first so
// consumers drain the backlog in arrival order.
func ListPending(ctx context.Context, db *sql.DB, limit int) ([]Job, error) {
	q := `SELECT id, employer, role, location, country, category,
		company_link, aggregator_link, aggregator_name, date_posted,
		notes, flagged, internship, status, source_id, first_seen
		FROM jobs WHERE status = 'pending' ORDER BY id ASC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJobs(rows)
}

func SetStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	r, err := db.ExecContext(ctx, `UPDATE jobs SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteJob(ctx context.Context, db *sql.DB, id int64) error {
	r, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func CountJobs(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n)
	return n, err
}

func scanJobs(rows *sql.Rows) ([]Job, error) {
	var out []Job
	for rows.Next() {
		var j Job
		var flagged, internship int
		if err := rows.Scan(&j.ID, &j.Employer, &j.Role, &j.Location, &j.Country,
			&j.Category, &j.CompanyLink, &j.AggregatorLink, &j.AggregatorName,
			&j.DatePosted, &j.Notes, &flagged, &internship, &j.Status,
			&j.SourceID, &j.FirstSeen); err != nil {
			return nil, err
		}
		j.Flagged = flagged != 0
		j.Internship = internship != 0
		out = append(out, j)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
