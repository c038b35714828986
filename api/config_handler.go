// Configuration status endpoints.
package api

import (
	"net/http"

	"github.com/seenimoa/entitylens/internal/config"
)

// KeysResponse is returned by GET /api/v1/config/keys. Key values are masked.
type KeysResponse struct {
	Keys  []config.KeyStatus `json:"keys"`
	Cache string             `json:"cache_backend"`
	TTL   string             `json:"cache_ttl"`
}

// handleGetConfigKeys returns the status of the vendor API keys and the
// active cache settings.
func (s *Server) handleGetConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: KeysResponse{
			Keys:  config.CheckAPIKeys(s.cfg),
			Cache: s.cfg.Cache.Backend,
			TTL:   s.cfg.Cache.TTL.String(),
		},
	})
}
