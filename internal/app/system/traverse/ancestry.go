// internal/app/system/traverse/ancestry.go
package traverse

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// IsAncestor reports whether candidateID lies on the upline chain of
// targetID. A user is trivially an ancestor of itself.
//
// The walk is iterative with a hop ceiling and a visited guard, so a
// cycle or dangling upline in the data yields false instead of an
// endless loop; those conditions are logged but are not errors, since
// read availability must not depend on graph hygiene. A failed store
// round trip, by contrast, is returned to the caller.
func (e *Engine) IsAncestor(ctx context.Context, candidateID, targetID string) (bool, error) {
	if candidateID == "" || targetID == "" {
		return false, nil
	}
	if candidateID == targetID {
		return true, nil
	}

	seen := make(map[string]struct{}, 8)
	cur := targetID
	for hop := 0; hop < e.cfg.AncestryHops; hop++ {
		if _, ok := seen[cur]; ok {
			e.log.Warn("upline cycle detected during ancestry walk",
				zap.String("at", cur), zap.String("target", targetID))
			return false, nil
		}
		seen[cur] = struct{}{}

		node, err := e.store.Get(ctx, cur)
		if errors.Is(err, ErrNotFound) {
			e.log.Warn("dangling upline reference during ancestry walk",
				zap.String("missing", cur), zap.String("target", targetID))
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if node.Upline == "" {
			return false, nil // reached a root without a match
		}
		if node.Upline == candidateID {
			return true, nil
		}
		cur = node.Upline
	}

	e.log.Warn("ancestry walk hit hop ceiling",
		zap.String("target", targetID), zap.Int("ceiling", e.cfg.AncestryHops))
	return false, nil
}
