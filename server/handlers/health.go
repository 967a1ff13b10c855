package handlers

import (
	"encoding/json"
	"net/http"
)

// LivenessMessage is the fixed plaintext body of the root liveness route.
const LivenessMessage = "Platewise meal analysis service is running"

// Liveness returns the unauthenticated liveness handler. It confirms the
// process is up without touching configuration or the AI backend.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(LivenessMessage))
	}
}

// Health returns the JSON health handler.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
		})
	}
}
