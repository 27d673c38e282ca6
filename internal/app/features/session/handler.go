// internal/app/features/session/handler.go

// Package session exchanges a bearer token for a browser session
// cookie, and tears the session down on sign-out.
package session

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mav910623/nunetwork/internal/app/system/auth"
	"github.com/mav910623/nunetwork/internal/app/system/timeouts"
	"github.com/mav910623/nunetwork/internal/app/system/traverse"
	"github.com/mav910623/nunetwork/internal/app/system/webutil"
	"github.com/mav910623/nunetwork/internal/domain/models"
)

// Store is the single read the session needs: resolving a uid to its
// record so the cookie can carry display fields.
type Store interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// Handler serves session establishment and teardown.
type Handler struct {
	Log   *zap.Logger
	Store Store
}

// NewHandler builds the handler.
func NewHandler(logger *zap.Logger, store Store) *Handler {
	return &Handler{Log: logger, Store: store}
}

// Create handles POST /api/session. LoadCaller has already verified the
// bearer token; here we persist the identity into the cookie so
// subsequent requests need no Authorization header. A caller without a
// node yet still gets a session, marked unregistered.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CurrentCaller(r)
	if !ok {
		webutil.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c := auth.Caller{UID: caller.UID}
	registered := false
	if u, err := h.Store.Get(ctx, caller.UID); err == nil {
		c.Name = u.FullName
		c.Email = u.Email
		registered = true
	} else if !errors.Is(err, traverse.ErrNotFound) {
		h.Log.Error("session profile lookup failed",
			zap.String("uid", caller.UID), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	if err := auth.SignIn(w, r, c); err != nil {
		h.Log.Error("session save failed",
			zap.String("uid", caller.UID), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	webutil.JSON(w, http.StatusOK, map[string]any{
		"uid":        c.UID,
		"registered": registered,
	})
}

// Destroy handles DELETE /api/session.
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Error("session teardown failed", zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}
	webutil.JSON(w, http.StatusOK, map[string]any{"signedOut": true})
}
