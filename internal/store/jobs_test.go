package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func posting(employer, role, link string) domain.Posting {
	return domain.Posting{
		Employer:    employer,
		Role:        role,
		Location:    "Remote",
		Country:     "USA",
		Category:    "Software Engineering",
		CompanyLink: link,
		DatePosted:  "2024-12-27",
	}
}

func TestSaveJobsInsertAndUpdate(t *testing.T) {
	t.Parallel()
	db := testDB(t)
	ctx := context.Background()

	res, err := SaveJobs(ctx, db, []domain.Posting{
		posting("TestCo", "Engineer", "https://testco.example/jobs/1"),
		posting("Acme", "Backend Engineer", "https://acme.example/jobs/2"),
	}, "board-a")
	require.NoError(t, err)
	assert.Equal(t, SaveResult{Saved: 2}, res)

	// Same links again with changed fields: updates, not duplicates.
	p := posting("TestCo", "Senior Engineer", "https://testco.example/jobs/1")
	res, err = SaveJobs(ctx, db, []domain.Posting{p}, "board-a")
	require.NoError(t, err)
	assert.Equal(t, SaveResult{Updated: 1}, res)

	jobs, err := ListJobs(ctx, db, ListOpts{})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	n, err := CountJobs(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSaveJobsSkipsLinkless(t *testing.T) {
	t.Parallel()
	db := testDB(t)
	ctx := context.Background()

	p := posting("GhostCo", "Engineer", "")
	res, err := SaveJobs(ctx, db, []domain.Posting{p}, "board-a")
	require.NoError(t, err)
	assert.Equal(t, SaveResult{Skipped: 1}, res)

	n, err := CountJobs(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSaveJobsKeysOnAggregatorLinkWhenNoCompanyLink(t *testing.T) {
	t.Parallel()
	db := testDB(t)
	ctx := context.Background()

	p := posting("ListCo", "Engineer", "")
	p.AggregatorLink = "https://www.linkedin.com/jobs/view/123"
	p.AggregatorName = "LinkedIn"

	res, err := SaveJobs(ctx, db, []domain.Posting{p}, "board-a")
	require.NoError(t, err)
	assert.Equal(t, SaveResult{Saved: 1}, res)

	res, err = SaveJobs(ctx, db, []domain.Posting{p}, "board-b")
	require.NoError(t, err)
	assert.Equal(t, SaveResult{Updated: 1}, res)
}

func TestUpdatePreservesStatus(t *testing.T) {
	t.Parallel()
	db := testDB(t)
	ctx := context.Background()

	p := posting("TestCo", "Engineer", "https://testco.example/jobs/1")
	_, err := SaveJobs(ctx, db, []domain.Posting{p}, "board-a")
	require.NoError(t, err)

	jobs, err := ListPending(ctx, db, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.NoError(t, SetStatus(ctx, db, jobs[0].ID, "reviewed"))

	_, err = SaveJobs(ctx, db, []domain.Posting{p}, "board-a")
	require.NoError(t, err)

	jobs, err = ListJobs(ctx, db, ListOpts{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "reviewed", jobs[0].Status)

	pending, err := ListPending(ctx, db, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestListJobsFilters(t *testing.T) {
	t.Parallel()
	db := testDB(t)
	ctx := context.Background()

	a := posting("A", "Data Engineer", "https://a.example/1")
	a.Category = "Data"
	b := posting("B", "Engineer", "https://b.example/1")
	b.Country = "Canada"

	_, err := SaveJobs(ctx, db, []domain.Posting{a, b}, "board-a")
	require.NoError(t, err)

	got, err := ListJobs(ctx, db, ListOpts{Category: "Data"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Employer)

	got, err = ListJobs(ctx, db, ListOpts{Country: "Canada"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Employer)

	got, err = ListJobs(ctx, db, ListOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDeleteJob(t *testing.T) {
	t.Parallel()
	db := testDB(t)
	ctx := context.Background()

	_, err := SaveJobs(ctx, db, []domain.Posting{posting("TestCo", "Engineer", "https://testco.example/jobs/1")}, "board-a")
	require.NoError(t, err)

	jobs, err := ListJobs(ctx, db, ListOpts{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	require.NoError(t, DeleteJob(ctx, db, jobs[0].ID))
	assert.ErrorIs(t, DeleteJob(ctx, db, jobs[0].ID), sql.ErrNoRows)
}
