package handlers

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/username/carteira/backend/src/logger"
	"github.com/username/carteira/backend/src/services"
	"github.com/username/carteira/backend/src/utils"
	"golang.org/x/time/rate"
)

// MsgSessionRequired sends the client back to the key-entry screen.
const MsgSessionRequired = "Sessão inválida ou expirada. Insira sua chave de API do Gemini para continuar."

type contextKey string

const (
	requestIDContextKey contextKey = "requestID"
	sessionIDContextKey contextKey = "sessionID"
)

// ContextualLoggerMiddleware attaches a logger carrying a fresh requestID to each request.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		ctxLogger := logger.L.With(slog.String("requestID", requestID))
		ctx := logger.ToContext(r.Context(), ctxLogger)
		ctx = context.WithValue(ctx, requestIDContextKey, requestID)

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ProxyHeadersMiddleware marks requests forwarded over https as TLS so cookies get the Secure flag.
func ProxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimitMiddleware rejects requests beyond the limiter's budget with 429.
func RateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.FromContext(r.Context()).Warn("Rate limit exceeded", "path", r.URL.Path)
				utils.SendJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return authHeader
}

// SessionMiddleware requires a live session token and puts the session id
// into the request context and logger.
func SessionMiddleware(sessions services.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxLogger := logger.FromContext(r.Context())

			token := bearerToken(r)
			if token == "" {
				ctxLogger.Debug("SessionMiddleware: Authorization header missing", "path", r.URL.Path)
				utils.SendJSONError(w, MsgSessionRequired, http.StatusUnauthorized)
				return
			}

			sessionID, err := sessions.Authenticate(r.Context(), token)
			if err != nil {
				ctxLogger.Warn("SessionMiddleware: session rejected", "path", r.URL.Path, "error", err)
				utils.SendJSONError(w, MsgSessionRequired, http.StatusUnauthorized)
				return
			}

			ctx := logger.ToContext(r.Context(), ctxLogger.With(slog.String("sessionID", sessionID)))
			ctx = context.WithValue(ctx, sessionIDContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionIDFromContext returns the session id set by SessionMiddleware.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDContextKey).(string)
	return sessionID, ok && sessionID != ""
}
