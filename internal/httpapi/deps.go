package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/poll"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// CfgVal stores config.Config; handlers always read the latest copy.
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Poll entrypoints (injected for testability)
	PollStatus  func() poll.Status
	RunPollOnce func(ctx context.Context, cfg config.Config) error
}
