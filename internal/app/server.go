package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyperifyio/careerquiz/internal/acquire"
)

type playerResponse struct {
	Error  string  `json:"error,omitempty"`
	Player *Result `json:"player,omitempty"`
}

type suggestResponse struct {
	Suggestions []acquire.Suggestion `json:"suggestions"`
}

// Handler serves the JSON API and the metrics endpoint.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/player", a.handlePlayer)
	mux.HandleFunc("GET /api/suggest", a.handleSuggest)
	mux.Handle("GET /metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	return mux
}

func (a *App) handlePlayer(w http.ResponseWriter, r *http.Request) {
	res, err := a.Lookup(r.Context(), r.URL.Query().Get("name"))
	status, msg := statusFor(err)
	if status != http.StatusOK {
		a.log.Debug().Err(err).Int("status", status).Msg("player lookup failed")
	}
	writeJSON(w, status, playerResponse{Error: msg, Player: res})
}

func (a *App) handleSuggest(w http.ResponseWriter, r *http.Request) {
	out := a.Suggest(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: out})
}

// statusFor maps a Lookup error to an HTTP status and a user-facing message.
func statusFor(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrMissingQuery):
		return http.StatusBadRequest, "Player name is required"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "Player not found"
	case errors.Is(err, ErrOutOfDomain):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrFetchFailed):
		return http.StatusInternalServerError, "Failed to fetch player page"
	case errors.Is(err, ErrExtractionShortfall):
		return http.StatusInternalServerError, "Failed to extract career information"
	default:
		return http.StatusInternalServerError, "An unexpected error occurred"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
