package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/asdf-project/user-service/internal/auth"
	"github.com/asdf-project/user-service/internal/metrics"
)

// Identity returns middleware that requires a numeric X-User-Id header.
// A missing header is rejected with 401 and a non-integer one with 400.
// On success the ID is stored in the request context.
func Identity(logger *slog.Logger, recorder metrics.Recorder) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := auth.UserIDFromRequest(r)
			if err != nil {
				reason := metrics.IdentityInvalid
				if errors.Is(err, auth.ErrMissingIdentity) {
					reason = metrics.IdentityMissing
				}
				recorder.IncIdentityRejected(reason)

				logger.Warn("identity rejected",
					slog.String("reason", reason),
					slog.String("path", r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				if reason == metrics.IdentityMissing {
					writeError(w, http.StatusUnauthorized, "Authentication required", CodeUnauthorized)
				} else {
					writeError(w, http.StatusBadRequest, "Invalid user ID", CodeInvalidUserID)
				}
				return
			}

			recordUserID(r.Context(), userID)
			ctx := auth.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
