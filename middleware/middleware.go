package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lakecity/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// SessionCookie holds the signed cart session token.
const SessionCookie = "lc_session"

// SessionClaims identify an anonymous cart session.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionIssuer hands every visitor a signed session cookie. There are no
// accounts: the token only proves the session id was issued by this server.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	secure bool
	log    *zap.Logger
}

func NewSessionIssuer(secret []byte, ttl time.Duration, secure bool, log *zap.Logger) *SessionIssuer {
	return &SessionIssuer{secret: secret, ttl: ttl, secure: secure, log: log}
}

// Issue signs a token for sessionID.
func (s *SessionIssuer) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate parses a token and returns its claims.
func (s *SessionIssuer) Validate(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("invalid session")
	}
	return claims, nil
}

// Session puts the session id in the request context, starting a new session
// when the cookie is missing, expired or forged.
func (s *SessionIssuer) Session(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sessionID := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			if claims, err := s.Validate(c.Value); err == nil {
				sessionID = claims.SessionID
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			token, err := s.Issue(sessionID)
			if err != nil {
				s.log.Error("session token signing failed", zap.Error(err))
				http.Error(w, "Failed to start session", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    token,
				Path:     "/",
				MaxAge:   int(s.ttl.Seconds()),
				HttpOnly: true,
				Secure:   s.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), globals.SessionIDKey, sessionID)
		next(w, r.WithContext(ctx), ps)
	}
}
