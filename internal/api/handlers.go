// Handlers for the small informational endpoints.

package api

import (
	"net/http"
)

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"version": s.app.Version})
}

// handleGetConfig exposes the non-sensitive parts of the running
// configuration.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.app.Config()
	sites := make(map[string]interface{}, len(cfg.Sites))
	for id, sc := range cfg.Sites {
		sites[id] = map[string]interface{}{
			"mirrors":    sc.Mirrors,
			"rate_limit": sc.RateLimit,
		}
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"port":           cfg.Port,
		"probe_interval": cfg.ProbeInterval,
		"sites":          sites,
	})
}
