package middleware

import (
	"log/slog"
	"net/http"

	"scenes-server/internal/shared/errors"
	"scenes-server/internal/shared/response"
)

func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "admin",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing admin authorization")

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if !claims.IsAdmin() {
			logger.Warn("Non-admin user attempted to access admin endpoint",
				"user_id", claims.UserID,
				"username", claims.Username,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
			return
		}

		logger.Debug("Admin authorization successful",
			"user_id", claims.UserID,
			"username", claims.Username)

		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return JWTMiddleware(AdminMiddleware(next))
}
