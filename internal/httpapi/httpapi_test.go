package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/poll"
	"jobradar-engine/internal/store"
)

func testDeps(t *testing.T) (Deps, string) {
	t.Helper()

	ctx := context.Background()
	dir := t.TempDir()
	db, err := store.Open(ctx, filepath.Join(dir, "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var cfg config.Config
	cfg.App.Port = 8790
	cfg.Polling.IntervalSeconds = 900
	cfg.Fetch.RequestsPerSecond = 1
	cfg.Sources = []config.Source{{Name: "board", URL: "https://example.com/README.md", Enabled: true}}

	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, config.SaveAtomic(cfgPath, cfg))

	cfgVal := &atomic.Value{}
	cfgVal.Store(cfg)

	p := &poll.Poller{DB: db}
	return Deps{
		DB:          db,
		Hub:         events.NewHub(),
		CfgVal:      cfgVal,
		UserCfgPath: cfgPath,
		LoadCfg:     func() (config.Config, error) { return config.Load(cfgPath) },
		PollStatus:  p.Status,
		RunPollOnce: p.RunOnce,
	}, cfgPath
}

func seedJob(t *testing.T, d Deps, employer, link string) store.Job {
	t.Helper()
	ctx := context.Background()
	_, err := store.SaveJobs(ctx, d.DB, []domain.Posting{{
		Employer:    employer,
		Role:        "Engineer",
		Location:    "Remote",
		Country:     "USA",
		Category:    "Software Engineering",
		CompanyLink: link,
		DatePosted:  "2024-12-27",
	}}, "board")
	require.NoError(t, err)

	jobs, err := store.ListJobs(ctx, d.DB, store.ListOpts{})
	require.NoError(t, err)
	for _, j := range jobs {
		if j.Employer == employer {
			return j
		}
	}
	t.Fatalf("seeded job %q not found", employer)
	return store.Job{}
}

func TestListJobs(t *testing.T) {
	t.Parallel()
	d, _ := testDeps(t)
	seedJob(t, d, "TestCo", "https://testco.example/jobs/1")
	mux := NewMux(d)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	require.Equal(t, 200, rec.Code)

	var jobs []store.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "TestCo", jobs[0].Employer)
	assert.Equal(t, "pending", jobs[0].Status)
}

func TestListJobsEmptyIsArray(t *testing.T) {
	t.Parallel()
	d, _ := testDeps(t)
	mux := NewMux(d)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestDeleteJob(t *testing.T) {
	t.Parallel()
	d, _ := testDeps(t)
	j := seedJob(t, d, "TestCo", "https://testco.example/jobs/1")
	mux := NewMux(d)

	sub := d.Hub.Subscribe()
	defer d.Hub.Unsubscribe(sub)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/jobs/"+intStr(j.ID), nil))
	require.Equal(t, 200, rec.Code)

	evt := <-sub
	assert.Contains(t, evt, "job_deleted")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/jobs/"+intStr(j.ID), nil))
	assert.Equal(t, 404, rec.Code)
}

func TestDeleteJobBadID(t *testing.T) {
	t.Parallel()
	d, _ := testDeps(t)
	mux := NewMux(d)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/jobs/zero", nil))
	assert.Equal(t, 400, rec.Code)
}

func TestPatchJobStatus(t *testing.T) {
	t.Parallel()
	d, _ := testDeps(t)
	j := seedJob(t, d, "TestCo", "https://testco.example/jobs/1")
	mux := NewMux(d)

	body := strings.NewReader(`{"status":"reviewed"}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/jobs/"+intStr(j.ID), body))
	require.Equal(t, 200, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/pending", nil))
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()
	d, _ := testDeps(t)
	mux := NewMux(d)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestConfigGetPut(t *testing.T) {
	t.Parallel()
	d, cfgPath := testDeps(t)
	mux := NewMux(d)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
	require.Equal(t, 200, rec.Code)

	var cfg config.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	cfg.Polling.IntervalSeconds = 1800

	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/config", strings.NewReader(string(b))))
	require.Equal(t, 200, rec.Code)

	// Atomic snapshot updated and file rewritten.
	cur := d.CfgVal.Load().(config.Config)
	assert.Equal(t, 1800, cur.Polling.IntervalSeconds)

	onDisk, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 1800, onDisk.Polling.IntervalSeconds)
}

func TestConfigPutRejectsInvalid(t *testing.T) {
	t.Parallel()
	d, _ := testDeps(t)
	mux := NewMux(d)

	cfg := d.CfgVal.Load().(config.Config)
	cfg.App.Port = -1
	b, err := json.Marshal(cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/config", strings.NewReader(string(b))))
	require.Equal(t, 400, rec.Code)

	var vr config.Validation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vr))
	assert.NotEmpty(t, vr.Errors)
}

func TestPollStatusAndHealth(t *testing.T) {
	t.Parallel()
	d, _ := testDeps(t)
	mux := NewMux(d)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/poll/status", nil))
	require.Equal(t, 200, rec.Code)

	var st poll.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.False(t, st.Running)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestSources(t *testing.T) {
	t.Parallel()
	d, _ := testDeps(t)
	mux := NewMux(d)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sources", nil))
	require.Equal(t, 200, rec.Code)

	var srcs []config.Source
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &srcs))
	require.Len(t, srcs, 1)
	assert.Equal(t, "board", srcs[0].Name)
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()
	d, _ := testDeps(t)
	h := Chain(NewMux(d), Recover, RequestID)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc123", rec.Header().Get("X-Request-ID"))
}

func intStr(id int64) string {
	return strconv.FormatInt(id, 10)
}
