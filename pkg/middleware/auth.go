package middleware

import (
	"net/http"
	"strings"

	"crowdfunding/pkg/cache"
	"crowdfunding/pkg/token"
	"crowdfunding/pkg/utils"

	"go.uber.org/zap"
)

// AuthJWT validates the Bearer access token and puts the caller on the context.
// Tokens of a logged-out session are rejected through the revocation store.
func AuthJWT(codec *token.Codec, revocations cache.RevocationStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Authentication credentials were not provided.")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}
			raw := parts[1]

			claims, err := codec.Parse(raw, token.PurposeAccess)
			if err != nil {
				logger.Debug("Rejected access token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Given token not valid for any token type")
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), claims.SessionID)
				if err != nil {
					logger.Error("Failed to check session revocation",
						zap.String("session_id", claims.SessionID.String()),
						zap.Error(err))
					utils.ResponseInternalError(w, "Internal server error")
					return
				}
				if revoked {
					utils.ResponseUnauthorized(w, "Session has been logged out")
					return
				}
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.SessionID)
			ctx = token.WithClaims(ctx, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
