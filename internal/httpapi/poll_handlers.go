package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/poll"
)

type PollHandler struct {
	CfgVal      *atomic.Value // config.Config
	PollStatus  func() poll.Status
	RunPollOnce func(ctx context.Context, cfg config.Config) error
}

func (h PollHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.PollStatus())
}

func (h PollHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.PollStatus().Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	// Detach from the request context: the cycle should outlive the caller.
	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		if err := h.RunPollOnce(context.Background(), cfg); err != nil {
			log.Error().Err(err).Msg("manual poll failed")
		}
	}()

	writeJSON(w, map[string]any{"ok": true})
}
