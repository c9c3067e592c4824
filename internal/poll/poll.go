package poll

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/fetch"
	"jobradar-engine/internal/harmonize"
	"jobradar-engine/internal/store"
)

const perSourceTimeout = 2 * time.Minute

// Status is a snapshot of the most recent poll cycle, served over the API.
type Status struct {
	Running     bool   `json:"running"`
	LastRunAt   string `json:"lastRunAt,omitempty"`
	LastOkAt    string `json:"lastOkAt,omitempty"`
	LastError   string `json:"lastError,omitempty"`
	LastSaved   int    `json:"lastSaved"`
	LastUpdated int    `json:"lastUpdated"`
	LastSkipped int    `json:"lastSkipped"`
}

type Poller struct {
	DB  *sql.DB
	Hub *events.Hub

	mu     sync.Mutex
	status Status
}

func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) setStatus(mut func(*Status)) {
	p.mu.Lock()
	mut(&p.status)
	p.mu.Unlock()
}

// RunOnce polls every enabled source, harmonizes each document, and saves
// the postings. Per-source failures are logged and reflected in status but
// never abort the other sources.
func (p *Poller) RunOnce(ctx context.Context, cfg config.Config) error {
	started := time.Now().UTC()
	p.setStatus(func(s *Status) {
		s.Running = true
		s.LastRunAt = started.Format(time.RFC3339)
	})

	token, err := sourceToken(cfg)
	if err != nil {
		log.Debug().Err(err).Msg("no source token in keyring; fetching anonymously")
	}
	client := fetch.New(cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst, token)

	h := harmonize.Harmonizer{
		Dates:        harmonize.NewDateNormalizer(time.Time{}),
		KeepUnlinked: cfg.Harmonize.KeepUnlinked,
	}
	for _, a := range cfg.Harmonize.ExtraAggregators {
		h.Extra = append(h.Extra, harmonize.Aggregator{Domain: a.Domain, Name: a.Name})
	}

	var (
		mu      sync.Mutex
		total   store.SaveResult
		lastErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range cfg.Sources {
		if !src.Enabled {
			continue
		}
		g.Go(func() error {
			res, err := p.pollSource(gctx, client, h, src)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				lastErr = err
				log.Warn().Err(err).Str("source", src.Name).Msg("poll source failed")
				return nil
			}
			total.Saved += res.Saved
			total.Updated += res.Updated
			total.Skipped += res.Skipped
			return nil
		})
	}
	_ = g.Wait()

	p.setStatus(func(s *Status) {
		s.Running = false
		s.LastSaved = total.Saved
		s.LastUpdated = total.Updated
		s.LastSkipped = total.Skipped
		if lastErr != nil {
			s.LastError = lastErr.Error()
		} else {
			s.LastError = ""
			s.LastOkAt = time.Now().UTC().Format(time.RFC3339)
		}
	})

	if p.Hub != nil {
		p.Hub.Publish(events.MakeEvent("", events.TypePollFinished, 1, map[string]any{
			"saved":   total.Saved,
			"updated": total.Updated,
			"skipped": total.Skipped,
		}))
		if total.Saved > 0 {
			p.Hub.Publish(events.MakeEvent("", events.TypePostingsSaved, 1, map[string]any{
				"count": total.Saved,
			}))
		}
	}

	log.Info().
		Int("saved", total.Saved).
		Int("updated", total.Updated).
		Int("skipped", total.Skipped).
		Dur("took", time.Since(started)).
		Msg("poll cycle finished")
	return nil
}

func (p *Poller) pollSource(ctx context.Context, client *fetch.Client, h harmonize.Harmonizer, src config.Source) (store.SaveResult, error) {
	ctx, cancel := context.WithTimeout(ctx, perSourceTimeout)
	defer cancel()

	doc, err := client.Fetch(ctx, src.URL)
	if err != nil {
		return store.SaveResult{}, err
	}

	result, err := h.HarmonizeDocument(doc.Body, harmonize.PageMeta{Title: doc.Title, URL: doc.URL})
	if err != nil {
		return store.SaveResult{}, err
	}
	for _, w := range result.Warnings {
		log.Warn().Str("source", src.Name).Msg(w)
	}

	return store.SaveJobs(ctx, p.DB, result.Postings, src.Name)
}
