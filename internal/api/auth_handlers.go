// Handlers for per-site authentication.

package api

import (
	"encoding/json"
	"net/http"

	"github.com/fsclient/fsclient-go/internal/models"
)

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Auth == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider has no accounts")
		return
	}
	user := set.Auth.User(r.Context())
	if user == nil {
		RespondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	RespondWithJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Auth == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider has no accounts")
		return
	}
	var payload struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Login == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	result := set.Auth.Authorize(r.Context(), models.AuthModelForm, models.LoginCredentials{
		Login:    payload.Login,
		Password: payload.Password,
	})
	RespondWithOutcome(w, result.Outcome, result)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Auth == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider has no accounts")
		return
	}
	if err := set.Auth.Logout(r.Context()); err != nil {
		RespondWithError(w, http.StatusBadGateway, "Logout failed")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
