// internal/app/system/traverse/levels.go
package traverse

import (
	"context"
)

// LevelCounts holds exact per-level downline population for levels
// 1..MaxDepth, an overflow bucket for everything deeper, and the grand
// total across all levels.
type LevelCounts struct {
	Levels   map[int]int
	Overflow int
	Total    int
}

// CountLevels walks the downline of rootID breadth-first and counts the
// population of each level. Each level's frontier is partitioned into
// membership-query batches of at most BatchFanIn parents; the next
// frontier is seeded only once every batch of the current level has
// completed. An empty level terminates the walk.
//
// Already-visited ids are dropped from new frontiers, so an accidental
// cycle in the data converges instead of looping. Any store failure
// aborts the whole aggregation; partial per-level counts would be
// silently wrong.
func (e *Engine) CountLevels(ctx context.Context, rootID string) (LevelCounts, error) {
	counts := LevelCounts{Levels: make(map[int]int, e.cfg.MaxDepth)}

	seen := map[string]struct{}{rootID: {}}
	frontier := []string{rootID}

	for level := 1; len(frontier) > 0; level++ {
		var next []string
		for _, batch := range batchIDs(frontier, e.cfg.BatchFanIn) {
			ids, err := e.store.ChildIDs(ctx, batch)
			if err != nil {
				return LevelCounts{}, err
			}
			for _, id := range ids {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				next = append(next, id)
			}
		}

		if len(next) == 0 {
			break
		}
		if level <= e.cfg.MaxDepth {
			counts.Levels[level] = len(next)
		} else {
			counts.Overflow += len(next)
		}
		counts.Total += len(next)
		frontier = next
	}

	return counts, nil
}
