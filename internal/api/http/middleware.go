package http

import (
	"net/http"
	"strings"
	"time"

	"equiprent-backend/internal/config"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/security"

	"github.com/gorilla/mux"
)

// AuthMiddleware enforces the per-route security levels from the endpoint
// security table. Routes default to access-protected; only routes explicitly
// marked public skip token validation.
func AuthMiddleware(tokenManager security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			level := config.SecurityAccess
			if route := mux.CurrentRoute(r); route != nil {
				if template, err := route.GetPathTemplate(); err == nil {
					level = config.GetSecurityLevel(r.Method + " " + template)
				}
			}

			if level == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing_token", "authorization header is required")
				return
			}

			claims, err := tokenManager.ValidateToken(token)
			if err != nil {
				writeServiceError(w, err)
				return
			}

			if level == config.SecurityRefresh {
				if claims.Type != security.TokenTypeRefresh {
					writeError(w, http.StatusUnauthorized, "invalid_token", "refresh token required")
					return
				}
			} else if claims.Type != security.TokenTypeAccess {
				writeError(w, http.StatusUnauthorized, "invalid_token", "access token required")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), claims.UserID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// LoggingMiddleware logs each request with method, path, status and latency.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
