package wire

import (
	"time"

	"crowdfunding/internal/adaptor"
	"crowdfunding/pkg/cache"
	"crowdfunding/pkg/middleware"
	"crowdfunding/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	counter cache.Counter,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Every auth endpoint is public and throttled per client IP
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.RateLimit(counter, "auth", config.RateLimit.AuthPerMinute, time.Minute, log))

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)

		r.Get("/activate/{token}", authHandler.Activate)
		r.Post("/activate/resend", authHandler.ResendActivation)

		r.Post("/password-reset", authHandler.RequestPasswordReset)
		r.Post("/password-reset/{token}", authHandler.ResetPassword)
	})
}
