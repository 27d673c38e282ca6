// internal/app/features/register/routes.go
package register

import (
	"github.com/go-chi/chi/v5"

	"github.com/mav910623/nunetwork/internal/app/system/auth"
)

// Routes mounts registration and profile endpoints.
func Routes(r chi.Router, h *Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)

		r.Post("/register", h.Register)
		r.Get("/me", h.Me)
	})
}
