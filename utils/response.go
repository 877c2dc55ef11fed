package utils

import (
	"encoding/json"
	"net/http"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// MethodNotAllowed answers 405 with a JSON body instead of httprouter's plain text.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

type M map[string]interface{}
