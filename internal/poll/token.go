package poll

import (
	"jobradar-engine/internal/config"
	"jobradar-engine/internal/secrets"
)

// sourceToken looks up the optional fetch credential. A missing account or
// empty keyring entry is not an error worth surfacing; polling just runs
// anonymously.
func sourceToken(cfg config.Config) (string, error) {
	if cfg.Fetch.TokenAccount == "" {
		return "", nil
	}
	return secrets.GetSourceToken(cfg.Fetch.TokenAccount)
}
