// internal/wire/wire.go
package wire

import (
	"net/http"

	"crowdfunding/internal/adaptor"
	"crowdfunding/internal/data/repository"
	"crowdfunding/internal/usecase"
	"crowdfunding/pkg/cache"
	"crowdfunding/pkg/mailer"
	"crowdfunding/pkg/middleware"
	"crowdfunding/pkg/token"
	"crowdfunding/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP application.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Deps are the infrastructure handles the application is built from.
// Revocations and Counter may be nil when Redis is unavailable.
type Deps struct {
	Repo        *repository.Repository
	Config      *utils.Config
	Codec       *token.Codec
	Notifier    mailer.Notifier
	Revocations cache.RevocationStore
	Counter     cache.Counter
	Clock       utils.Clock
}

// Wiring builds services, handlers and the router.
func Wiring(deps Deps, logger *zap.Logger) *App {
	service := usecase.NewService(deps.Repo, deps.Config, deps.Codec, deps.Notifier, deps.Revocations, deps.Clock, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, deps, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the chi router
func setupRouter(handler *adaptor.Handler, deps Deps, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	auth := middleware.AuthJWT(deps.Codec, deps.Revocations, logger)

	// Apply routes
	wireAuth(r, handler.Auth, deps.Counter, deps.Config, logger)
	wireUser(r, handler.User, auth)
	wireCampaign(r, handler.Campaign, auth)
	wireDonation(r, handler.Donation, auth)
	wireComment(r, handler.Comment, auth)
	wireRating(r, handler.Rating, auth)
	wireCategory(r, handler.Category, auth)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
