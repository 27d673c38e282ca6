// internal/app/system/traverse/subtree.go
package traverse

import (
	"context"
)

// Subtree is a depth-bounded materialization of a user's downline.
type Subtree struct {
	RootUID string         `json:"rootUid"`
	Depth   int            `json:"depth"`
	Total   int            `json:"total"`
	Levels  []SubtreeLevel `json:"levels"`
}

// SubtreeLevel holds the display records of one populated level.
type SubtreeLevel struct {
	Level int        `json:"level"`
	Users []NodeView `json:"users"`
}

// Subtree materializes targetID's downline to maxDepth levels
// (clamped to [1, MaxDepth]). A requester may view their own subtree or
// any descendant's; anything else fails with ErrForbidden.
//
// The expansion is the same batched breadth-first walk as CountLevels
// but retrieves full records and projects them to display views. Only
// populated levels appear in the result.
func (e *Engine) Subtree(ctx context.Context, requesterID, targetID string, maxDepth int) (*Subtree, error) {
	if maxDepth < 1 {
		maxDepth = 1
	}
	if maxDepth > e.cfg.MaxDepth {
		maxDepth = e.cfg.MaxDepth
	}

	if targetID != requesterID {
		ok, err := e.IsAncestor(ctx, requesterID, targetID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrForbidden
		}
	}

	out := &Subtree{RootUID: targetID, Depth: maxDepth}

	seen := map[string]struct{}{targetID: {}}
	frontier := []string{targetID}

	for level := 1; level <= maxDepth && len(frontier) > 0; level++ {
		var rows []NodeView
		var next []string
		for _, batch := range batchIDs(frontier, e.cfg.BatchFanIn) {
			users, err := e.store.ChildRecords(ctx, batch)
			if err != nil {
				return nil, err
			}
			for _, u := range users {
				if _, ok := seen[u.ID]; ok {
					continue
				}
				seen[u.ID] = struct{}{}
				rows = append(rows, viewOf(u))
				next = append(next, u.ID)
			}
		}

		if len(rows) == 0 {
			break
		}
		out.Levels = append(out.Levels, SubtreeLevel{Level: level, Users: rows})
		out.Total += len(rows)
		frontier = next
	}

	return out, nil
}
