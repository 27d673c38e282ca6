// internal/app/features/session/routes.go
package session

import (
	"github.com/go-chi/chi/v5"

	"github.com/mav910623/nunetwork/internal/app/system/auth"
)

// Routes mounts the session endpoints. Create requires a verified
// caller (the bearer token); Destroy works for anyone holding a cookie.
func Routes(r chi.Router, h *Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Post("/session", h.Create)
	})
	r.Delete("/session", h.Destroy)
}
