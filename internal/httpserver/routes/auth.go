package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/httpserver/handlers"
	"github.com/ldrouet/marque/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:         d.AuthRateBurst,
		RefillPerMin:  d.AuthRatePerMin,
		SweepInterval: time.Minute,
		IdleTTL:       15 * time.Minute,
		TrustProxy:    d.TrustProxy,
	}))
	limited.Post("/api/auth/register", handlers.Register(d))
	limited.Post("/api/auth/login", handlers.Login(d))

	r.Post("/api/auth/logout", handlers.Logout(d))
	r.With(mw.RequireSession(d.Sessions, d.Logger)).Get("/api/auth/me", handlers.Me(d))
}
