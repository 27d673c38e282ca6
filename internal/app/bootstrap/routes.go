// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	healthfeature "github.com/mav910623/nunetwork/internal/app/features/health"
	referralsfeature "github.com/mav910623/nunetwork/internal/app/features/referrals"
	registerfeature "github.com/mav910623/nunetwork/internal/app/features/register"
	sessionfeature "github.com/mav910623/nunetwork/internal/app/features/session"
	userstore "github.com/mav910623/nunetwork/internal/app/store/users"
	"github.com/mav910623/nunetwork/internal/app/system/auth"
	"github.com/mav910623/nunetwork/internal/app/system/traverse"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app. WAFFLE calls this after configuration, DB connections, schema
// setup, and Startup have completed.
//
// The service is a pure JSON API: the session store and bearer token
// verifier feed the global caller middleware, and feature routers mount
// the health, session, registration, and referral tree endpoints.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	verifier := auth.NewTokenVerifier(appCfg.AuthJWTSecret)

	store := userstore.New(deps.MongoDatabase)
	engine := traverse.New(store, traverse.DefaultConfig(), logger)

	r := chi.NewRouter()

	// Global auth middleware: resolves bearer tokens and session cookies
	// into the request caller.
	r.Use(auth.LoadCaller(verifier, logger))

	healthfeature.Routes(r, healthfeature.NewHandler(logger, deps.MongoClient))

	r.Route("/api", func(r chi.Router) {
		sessionfeature.Routes(r, sessionfeature.NewHandler(logger, store))
		registerfeature.Routes(r, registerfeature.NewHandler(logger, store, userstore.IsDuplicateEmail))

		r.Route("/referrals", func(r chi.Router) {
			referralsfeature.Routes(r, referralsfeature.NewHandler(logger, engine))
		})
	})

	return r, nil
}
