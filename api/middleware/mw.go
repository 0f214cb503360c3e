package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/choreboard/choreboard-services/internal/authn"
	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string
type tokenKey string

const UserKey contextKey = "user"
const TokenKey tokenKey = "token"

// UserLoader is the store lookup the auth middleware needs. *db.BoardDB
// satisfies it.
type UserLoader interface {
	GetUser(userID uuid.UUID) (*models.User, error)
}

// Auth validates the bearer token, loads the matching user and adds both
// to the request context. The presented token must equal the stored one so
// account deletion revokes outstanding tokens.
func Auth(store UserLoader, signingKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("handler", "AuthMiddleware").Logger()

				// Get the Authorization header
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					logger.Debug().Msg("authorization header missing")
					writeError(w, http.StatusUnauthorized, "authorization header missing")
					return
				}

				// Check the Authorization header format
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if token == authHeader {
					logger.Error().Msg("invalid token format")
					writeError(w, http.StatusUnauthorized, "invalid token format")
					return
				}

				// Verify the token signature
				claims, err := authn.ParseClaims(token, signingKey)
				if err != nil {
					logger.Error().Err(err).Msg("invalid bearer token")
					writeError(w, http.StatusUnauthorized, "invalid bearer token")
					return
				}

				// Resolve the user behind the token
				userID, _ := uuid.Parse(claims.Subject)
				user, err := store.GetUser(userID)
				if err != nil {
					logger.Error().Err(err).Msg("error loading user for token")
					writeError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				if user == nil || user.Token != token {
					logger.Debug().Str("user_id", claims.Subject).Msg("token does not match a known user")
					writeError(w, http.StatusUnauthorized, "invalid bearer token")
					return
				}

				// Add the token and user to the context
				ctx := context.WithValue(r.Context(), TokenKey, token)
				ctx = context.WithValue(ctx, UserKey, *user)

				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// writeError emits the standard {"error": <message>} body; every error
// response of the API shares this shape, including auth rejections.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			// Add the logger to the context
			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}
