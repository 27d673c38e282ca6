// internal/app/features/referrals/handler.go

// Package referrals exposes the downline API: per-level counts, the
// depth-bounded subtree, paginated direct children, and search with
// path reconstruction. Every endpoint requires a signed-in caller.
package referrals

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"

	"github.com/mav910623/nunetwork/internal/app/system/auth"
	"github.com/mav910623/nunetwork/internal/app/system/limits"
	"github.com/mav910623/nunetwork/internal/app/system/timeouts"
	"github.com/mav910623/nunetwork/internal/app/system/traverse"
	"github.com/mav910623/nunetwork/internal/app/system/webutil"
)

// Handler serves the referral tree endpoints.
type Handler struct {
	Log    *zap.Logger
	Engine *traverse.Engine
}

// NewHandler builds the handler.
func NewHandler(logger *zap.Logger, engine *traverse.Engine) *Handler {
	return &Handler{Log: logger, Engine: engine}
}

// Levels handles GET /api/referrals/levels: counts of the caller's
// downline per level 1..6, everything deeper folded into sixPlus.
func (h *Handler) Levels(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CurrentCaller(r)
	if !ok {
		webutil.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	counts, err := h.Engine.CountLevels(ctx, caller.UID)
	if err != nil {
		h.Log.Error("level aggregation failed",
			zap.String("uid", caller.UID), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	// Levels 1..6 are always present in the payload, zero or not.
	levels := make(map[string]int, limits.MaxDepth)
	for lvl := 1; lvl <= limits.MaxDepth; lvl++ {
		levels[strconv.Itoa(lvl)] = counts.Levels[lvl]
	}

	webutil.JSON(w, http.StatusOK, map[string]any{
		"levels":  levels,
		"sixPlus": counts.Overflow,
		"total":   counts.Total,
	})
}

// Tree handles GET /api/referrals/tree?uid=&depth=: the subtree rooted
// at uid (the caller when omitted), grouped by level. The caller must
// be the root itself or one of its ancestors.
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CurrentCaller(r)
	if !ok {
		webutil.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	target := query.Get(r, "uid")
	if target == "" {
		target = caller.UID
	}

	depth := limits.MaxDepth
	if raw := query.Get(r, "depth"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			depth = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tree, err := h.Engine.Subtree(ctx, caller.UID, target, depth)
	switch {
	case errors.Is(err, traverse.ErrForbidden):
		webutil.Error(w, http.StatusForbidden, "forbidden")
		return
	case errors.Is(err, traverse.ErrNotFound):
		webutil.Error(w, http.StatusNotFound, "not_found")
		return
	case err != nil:
		h.Log.Error("subtree materialization failed",
			zap.String("uid", caller.UID), zap.String("target", target), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	webutil.JSON(w, http.StatusOK, map[string]any{
		"rootUid": tree.RootUID,
		"depth":   tree.Depth,
		"total":   tree.Total,
		"levels":  tree.Levels,
	})
}

// Children handles GET /api/referrals/children?uid=&cursor=: one page
// of direct children, newest first.
func (h *Handler) Children(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CurrentCaller(r)
	if !ok {
		webutil.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	parent := query.Get(r, "uid")
	if parent == "" {
		parent = caller.UID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Engine.Children(ctx, parent, query.Get(r, "cursor"))
	switch {
	case errors.Is(err, traverse.ErrBadCursor):
		webutil.Error(w, http.StatusBadRequest, "bad_cursor")
		return
	case err != nil:
		h.Log.Error("child listing failed",
			zap.String("parent", parent), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	webutil.JSON(w, http.StatusOK, map[string]any{
		"items":      page.Items,
		"nextCursor": page.NextCursor,
		"hasMore":    page.HasMore,
	})
}

// Search handles GET /api/referrals/search?q=: matches by referral
// code, email, or name prefix, each hit carrying its root-relative
// ancestor path.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CurrentCaller(r)
	if !ok {
		webutil.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	hits, err := h.Engine.Search(ctx, caller.UID, query.Get(r, "q"))
	if err != nil {
		h.Log.Error("search failed",
			zap.String("uid", caller.UID), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	webutil.JSON(w, http.StatusOK, map[string]any{"results": hits})
}
