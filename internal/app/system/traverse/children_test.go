// internal/app/system/traverse/children_test.go
package traverse_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mav910623/nunetwork/internal/app/system/traverse"
	"github.com/mav910623/nunetwork/internal/testutil"
)

func TestChildrenPagination(t *testing.T) {
	// 120 children yield pages of 50, 50, 20. The final short page has
	// no continuation.
	store := testutil.NewFakeStore()
	store.Add(user("root", ""))
	for i := 0; i < 120; i++ {
		u := user(fmt.Sprintf("kid%03d", i), "root")
		u.CreatedAt = baseTime.Add(time.Duration(i) * time.Minute)
		store.Add(u)
	}
	e := newEngine(store)

	var all []string
	cursor := ""
	wantSizes := []int{50, 50, 20}
	for i, want := range wantSizes {
		page, err := e.Children(context.Background(), "root", cursor)
		if err != nil {
			t.Fatalf("page %d: %v", i+1, err)
		}
		if len(page.Items) != want {
			t.Fatalf("page %d size = %d, want %d", i+1, len(page.Items), want)
		}
		last := i == len(wantSizes)-1
		if page.HasMore == last {
			t.Errorf("page %d hasMore = %v", i+1, page.HasMore)
		}
		if last && page.NextCursor != "" {
			t.Errorf("final page carries a cursor: %q", page.NextCursor)
		}
		for _, v := range page.Items {
			all = append(all, v.ID)
		}
		cursor = page.NextCursor
	}

	// Newest first across the whole listing, no duplicates.
	seen := make(map[string]struct{})
	for i, id := range all {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate %q across pages", id)
		}
		seen[id] = struct{}{}
		want := fmt.Sprintf("kid%03d", 119-i)
		if id != want {
			t.Fatalf("position %d = %q, want %q", i, id, want)
		}
	}
}

func TestChildrenExactMultipleOfPageSize(t *testing.T) {
	// Exactly one full page: hasMore is true by the full-page heuristic,
	// and the follow-up page is empty.
	store := testutil.NewFakeStore()
	store.Add(user("root", ""))
	for i := 0; i < 50; i++ {
		u := user(fmt.Sprintf("kid%02d", i), "root")
		u.CreatedAt = baseTime.Add(time.Duration(i) * time.Second)
		store.Add(u)
	}
	e := newEngine(store)

	page, err := e.Children(context.Background(), "root", "")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if !page.HasMore || page.NextCursor == "" {
		t.Fatalf("full page must advertise a continuation")
	}

	next, err := e.Children(context.Background(), "root", page.NextCursor)
	if err != nil {
		t.Fatalf("follow-up page: %v", err)
	}
	if len(next.Items) != 0 || next.HasMore {
		t.Errorf("follow-up page = %d items, hasMore %v; want empty end", len(next.Items), next.HasMore)
	}
}

func TestChildrenTiebreakOnEqualTimestamps(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Add(user("root", ""))
	for i := 0; i < 55; i++ {
		store.Add(user(fmt.Sprintf("kid%02d", i), "root")) // all share baseTime
	}
	e := newEngine(store)

	first, err := e.Children(context.Background(), "root", "")
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	second, err := e.Children(context.Background(), "root", first.NextCursor)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if got := len(first.Items) + len(second.Items); got != 55 {
		t.Errorf("pages cover %d children, want 55", got)
	}
}

func TestChildrenBadCursor(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Add(user("root", ""))
	e := newEngine(store)

	_, err := e.Children(context.Background(), "root", "not-a-cursor")
	if !errors.Is(err, traverse.ErrBadCursor) {
		t.Errorf("err = %v, want ErrBadCursor", err)
	}
}

func TestChildrenEmpty(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Add(user("leaf", ""))
	e := newEngine(store)

	page, err := e.Children(context.Background(), "leaf", "")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(page.Items) != 0 || page.HasMore || page.NextCursor != "" {
		t.Errorf("empty listing = %+v, want no items and no continuation", page)
	}
}
