// internal/app/system/traverse/search.go
package traverse

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/mav910623/nunetwork/internal/domain/models"
	"go.uber.org/zap"
)

// SearchHit pairs a matched user with the ordered ids of its ancestors,
// program root (or the viewer's own position) first, the match itself
// excluded.
type SearchHit struct {
	User NodeView `json:"user"`
	Path []string `json:"path"`
}

// Search resolves a free-text query against identity fields and
// reconstructs each hit's root-relative path. Three match rules apply,
// unioned in order with first-match-wins dedup by id:
//
//  1. exact referral code (uppercased),
//  2. exact email (lowercased),
//  3. folded-name prefix, via an ordered range scan capped at SearchLimit.
//
// Queries with fewer than two meaningful characters return no results
// without touching the store.
func (e *Engine) Search(ctx context.Context, viewerID, query string) ([]SearchHit, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < 2 {
		return []SearchHit{}, nil
	}

	var hits []SearchHit
	seen := make(map[string]struct{}, e.cfg.SearchLimit+2)

	add := func(u models.User) error {
		if _, ok := seen[u.ID]; ok {
			return nil
		}
		seen[u.ID] = struct{}{}
		path, err := e.ancestorPath(ctx, &u, viewerID)
		if err != nil {
			return err
		}
		hits = append(hits, SearchHit{User: viewOf(u), Path: path})
		return nil
	}

	if u, err := e.store.ByReferralCode(ctx, strings.ToUpper(q)); err == nil {
		if err := add(*u); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if u, err := e.store.ByEmail(ctx, strings.ToLower(q)); err == nil {
		if err := add(*u); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	byName, err := e.store.NamePrefix(ctx, text.Fold(q), e.cfg.SearchLimit)
	if err != nil {
		return nil, err
	}
	for _, u := range byName {
		if err := add(u); err != nil {
			return nil, err
		}
	}

	return hits, nil
}

// ancestorPath collects node's upline chain, bounded by PathHops, and
// returns it top-down. The climb stops early at the viewer's own id,
// since there is no need to look past the viewer's root-relative
// position, and a dangling upline yields the partial path collected so
// far rather than an error.
func (e *Engine) ancestorPath(ctx context.Context, node *models.User, viewerID string) ([]string, error) {
	var up []string // bottom-up while climbing
	seen := map[string]struct{}{node.ID: {}}

	cur := node.Upline
	for hop := 0; cur != "" && hop < e.cfg.PathHops; hop++ {
		if _, ok := seen[cur]; ok {
			e.log.Warn("upline cycle detected during path reconstruction",
				zap.String("at", cur), zap.String("node", node.ID))
			break
		}
		seen[cur] = struct{}{}
		up = append(up, cur)
		if cur == viewerID {
			break
		}

		n, err := e.store.Get(ctx, cur)
		if errors.Is(err, ErrNotFound) {
			e.log.Warn("dangling upline reference during path reconstruction",
				zap.String("missing", cur), zap.String("node", node.ID))
			break
		}
		if err != nil {
			return nil, err
		}
		cur = n.Upline
	}

	// Reverse into root-first order.
	for i, j := 0, len(up)-1; i < j; i, j = i+1, j-1 {
		up[i], up[j] = up[j], up[i]
	}
	return up, nil
}
