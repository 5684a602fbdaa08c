package middlewares

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/utils/auth"
)

const authFailed = `{"error":"authentication failed"}`

func unauthorized(w http.ResponseWriter) {
	w.Header().Set(model.HeaderContentType, "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(authFailed))
}

// Authentication accepts HS256 bearer tokens and puts the token's user_id
// into the request context as the account id.
func Authentication(secret []byte, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authFunc := func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := auth.TokenFromHeader(r.Header.Get(model.HeaderAuthorization))
			if err != nil {
				log.LogAttrs(r.Context(),
					slog.LevelWarn,
					"failed to find token in request",
					slog.Any(model.KeyLoggerError, err),
				)
				unauthorized(w)
				return
			}

			claims, err := auth.CheckToken(tokenStr, secret)
			if err != nil {
				log.LogAttrs(r.Context(),
					slog.LevelWarn,
					"authentication failed",
					slog.Any(model.KeyLoggerError, err),
				)
				unauthorized(w)
				return
			}

			idCtx := context.WithValue(
				r.Context(), model.KeyContextAccountID, claims.UserID)
			next.ServeHTTP(w, r.WithContext(idCtx))
		}
		return http.HandlerFunc(authFunc)
	}
}
