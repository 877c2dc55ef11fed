package utils

import (
	"net/http"

	"lakecity/globals"
)

// GetSessionIDFromRequest returns the cart session set by the session middleware.
func GetSessionIDFromRequest(r *http.Request) string {
	sessionID, ok := r.Context().Value(globals.SessionIDKey).(string)
	if !ok {
		return ""
	}
	return sessionID
}
