// internal/app/system/traverse/children.go
package traverse

import (
	"context"

	"github.com/mav910623/nunetwork/internal/app/system/paging"
)

// ChildPage is one page of a parent's direct children, newest first.
type ChildPage struct {
	Items      []NodeView
	NextCursor string
	HasMore    bool
}

// Children lists the direct children of parentID ordered by creation
// time descending, resuming after cursor when one is given. HasMore is
// a continuation heuristic (true when the page came back full), not an
// exact count. A listing interleaved with concurrent registrations may
// skip or shift entries; the ordering key is creation time and the
// store offers no snapshot isolation across pages, which is an accepted
// tradeoff for this endpoint.
func (e *Engine) Children(ctx context.Context, parentID, cursor string) (*ChildPage, error) {
	var cur *paging.Cursor
	if cursor != "" {
		c, ok := paging.Decode(cursor)
		if !ok {
			return nil, ErrBadCursor
		}
		cur = &c
	}

	rows, err := e.store.ChildPage(ctx, parentID, cur, e.cfg.PageSize)
	if err != nil {
		return nil, err
	}

	page := &ChildPage{Items: make([]NodeView, 0, len(rows))}
	for _, u := range rows {
		page.Items = append(page.Items, viewOf(u))
	}

	if len(rows) == e.cfg.PageSize {
		last := rows[len(rows)-1]
		page.HasMore = true
		page.NextCursor = paging.Encode(paging.Cursor{
			CreatedAt: last.CreatedAt.UTC(),
			ID:        last.ID,
		})
	}

	return page, nil
}
