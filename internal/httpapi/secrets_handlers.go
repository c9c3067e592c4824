package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setTokenReq struct {
	Token string `json:"token"`
}

// SetToken stores the fetch credential in the OS keychain. The token never
// touches the config file or the database.
func (h SecretsHandler) SetToken(w http.ResponseWriter, r *http.Request) {
	var req setTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if cfg.Fetch.TokenAccount == "" {
		http.Error(w, "fetch.token_account is not configured", http.StatusBadRequest)
		return
	}
	if err := secrets.SetSourceToken(cfg.Fetch.TokenAccount, req.Token); err != nil {
		http.Error(w, "failed to store token: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	if cfg.Fetch.TokenAccount == "" {
		http.Error(w, "fetch.token_account is not configured", http.StatusBadRequest)
		return
	}
	if err := secrets.DeleteSourceToken(cfg.Fetch.TokenAccount); err != nil {
		http.Error(w, "failed to delete token: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
