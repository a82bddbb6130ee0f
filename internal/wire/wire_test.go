package wire

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crowdfunding/internal/data/repository"
	"crowdfunding/pkg/cache"
	"crowdfunding/pkg/mailer"
	"crowdfunding/pkg/token"
	"crowdfunding/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, counter cache.Counter) *App {
	t.Helper()
	clock := &utils.FixedClock{T: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	config := &utils.Config{
		App:       utils.AppConfig{Name: "crowdfunding", FrontendURL: "http://front.test"},
		JWT:       utils.JWTConfig{Secret: "secret", AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour},
		Token:     utils.TokenConfig{ActivationTTL: time.Hour, ResetTTL: time.Hour},
		RateLimit: utils.RateLimitConfig{AuthPerMinute: 2},
	}
	return Wiring(Deps{
		Repo:     &repository.Repository{},
		Config:   config,
		Codec:    token.NewCodec(config.JWT.Secret, clock),
		Notifier: mailer.NewLogNotifier(zap.NewNop()),
		Counter:  counter,
		Clock:    clock,
	}, zap.NewNop())
}

func serve(app *App, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestRouter(t *testing.T) {
	app := newTestApp(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"profile needs auth", http.MethodGet, "/api/user/profile", http.StatusUnauthorized},
		{"create campaign needs auth", http.MethodPost, "/api/campaigns", http.StatusUnauthorized},
		{"cancel needs auth", http.MethodPost, "/api/campaigns/x/cancel", http.StatusUnauthorized},
		{"donations need auth", http.MethodGet, "/api/donations", http.StatusUnauthorized},
		{"comment needs auth", http.MethodPost, "/api/comments", http.StatusUnauthorized},
		{"rating needs auth", http.MethodDelete, "/api/ratings/x", http.StatusUnauthorized},
		{"category write needs auth", http.MethodPost, "/api/tags", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/movies", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, serve(app, tt.method, tt.path, "").Code)
		})
	}
}

func TestRouter_AuthRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app := newTestApp(t, cache.NewCounter(rdb))

	// malformed bodies are rejected before any service call
	assert.Equal(t, http.StatusBadRequest, serve(app, http.MethodPost, "/api/auth/login", "{").Code)
	assert.Equal(t, http.StatusBadRequest, serve(app, http.MethodPost, "/api/auth/login", "{").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(app, http.MethodPost, "/api/auth/login", "{").Code)

	// non-auth routes are not throttled
	assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/health", "").Code)
}
