// internal/app/features/referrals/routes.go
package referrals

import (
	"github.com/go-chi/chi/v5"

	"github.com/mav910623/nunetwork/internal/app/system/auth"
)

// Routes mounts the referral tree endpoints under the given router.
func Routes(r chi.Router, h *Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)

		r.Get("/levels", h.Levels)
		r.Get("/tree", h.Tree)
		r.Get("/children", h.Children)
		r.Get("/search", h.Search)
	})
}
