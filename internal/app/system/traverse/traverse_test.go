// internal/app/system/traverse/traverse_test.go
package traverse_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mav910623/nunetwork/internal/app/system/traverse"
	"github.com/mav910623/nunetwork/internal/domain/models"
	"github.com/mav910623/nunetwork/internal/testutil"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func user(id, upline string) models.User {
	return models.User{
		ID:           id,
		Upline:       upline,
		ReferralCode: "NU" + strings.ToUpper(id),
		FullName:     "User " + id,
		FullNameCI:   "user " + id,
		Email:        id + "@example.com",
		CreatedAt:    baseTime,
	}
}

func newEngine(store *testutil.FakeStore) *traverse.Engine {
	return traverse.New(store, traverse.DefaultConfig(), nil)
}

// chainStore builds root -> c1 -> c2 -> ... -> cN.
func chainStore(n int) (*testutil.FakeStore, []string) {
	store := testutil.NewFakeStore()
	ids := []string{"root"}
	store.Add(user("root", ""))
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("c%d", i)
		store.Add(user(id, ids[len(ids)-1]))
		ids = append(ids, id)
	}
	return store, ids
}

func TestIsAncestor(t *testing.T) {
	store, _ := chainStore(4)
	store.Add(user("stranger", ""))
	e := newEngine(store)

	tests := []struct {
		name      string
		candidate string
		target    string
		want      bool
	}{
		{"self", "c2", "c2", true},
		{"direct parent", "c1", "c2", true},
		{"distant ancestor", "root", "c4", true},
		{"descendant is not ancestor", "c3", "c1", false},
		{"unrelated", "stranger", "c4", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.IsAncestor(context.Background(), tt.candidate, tt.target)
			if err != nil {
				t.Fatalf("IsAncestor: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsAncestor(%s, %s) = %v, want %v", tt.candidate, tt.target, got, tt.want)
			}
		})
	}
}

func TestIsAncestorDanglingUpline(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Add(user("orphan", "ghost")) // upline record does not exist
	e := newEngine(store)

	got, err := e.IsAncestor(context.Background(), "root", "orphan")
	if err != nil {
		t.Fatalf("IsAncestor: %v", err)
	}
	if got {
		t.Error("dangling upline must resolve to not-an-ancestor, got true")
	}
}

func TestIsAncestorCycleTerminates(t *testing.T) {
	store := testutil.NewFakeStore()
	a := user("a", "b")
	b := user("b", "a")
	store.Add(a)
	store.Add(b)
	e := newEngine(store)

	got, err := e.IsAncestor(context.Background(), "outsider", "a")
	if err != nil {
		t.Fatalf("IsAncestor: %v", err)
	}
	if got {
		t.Error("cyclic upline chain must resolve to false")
	}
}

func TestIsAncestorStoreErrorPropagates(t *testing.T) {
	store, _ := chainStore(2)
	e := newEngine(store)
	store.Err = errors.New("connection reset")

	if _, err := e.IsAncestor(context.Background(), "root", "c2"); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestCountLevels(t *testing.T) {
	// root with 2 children, 3 grandchildren under the first child.
	store := testutil.NewFakeStore()
	store.Add(user("root", ""))
	store.Add(user("a", "root"))
	store.Add(user("b", "root"))
	store.Add(user("a1", "a"))
	store.Add(user("a2", "a"))
	store.Add(user("a3", "a"))
	e := newEngine(store)

	counts, err := e.CountLevels(context.Background(), "root")
	if err != nil {
		t.Fatalf("CountLevels: %v", err)
	}
	if counts.Levels[1] != 2 {
		t.Errorf("level 1 = %d, want 2", counts.Levels[1])
	}
	if counts.Levels[2] != 3 {
		t.Errorf("level 2 = %d, want 3", counts.Levels[2])
	}
	if counts.Overflow != 0 {
		t.Errorf("overflow = %d, want 0", counts.Overflow)
	}
	if counts.Total != 5 {
		t.Errorf("total = %d, want 5", counts.Total)
	}
}

func TestCountLevelsOverflowBucket(t *testing.T) {
	// A chain 8 deep: levels 1..6 hold one each, levels 7 and 8 overflow.
	store, _ := chainStore(8)
	e := newEngine(store)

	counts, err := e.CountLevels(context.Background(), "root")
	if err != nil {
		t.Fatalf("CountLevels: %v", err)
	}
	for lvl := 1; lvl <= 6; lvl++ {
		if counts.Levels[lvl] != 1 {
			t.Errorf("level %d = %d, want 1", lvl, counts.Levels[lvl])
		}
	}
	if counts.Overflow != 2 {
		t.Errorf("overflow = %d, want 2", counts.Overflow)
	}
	if counts.Total != 8 {
		t.Errorf("total = %d, want 8", counts.Total)
	}
}

func TestCountLevelsLeafProbesOnce(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Add(user("leaf", ""))
	e := newEngine(store)

	counts, err := e.CountLevels(context.Background(), "leaf")
	if err != nil {
		t.Fatalf("CountLevels: %v", err)
	}
	if counts.Total != 0 {
		t.Errorf("total = %d, want 0", counts.Total)
	}
	if store.ChildIDCalls != 1 {
		t.Errorf("membership queries = %d, want exactly 1 for a leaf", store.ChildIDCalls)
	}
}

func TestCountLevelsBatchesWideFrontier(t *testing.T) {
	// 75 level-1 children force ceil(75/30) = 3 membership queries for
	// level 2 plus the single level-1 query.
	store := testutil.NewFakeStore()
	store.Add(user("root", ""))
	for i := 0; i < 75; i++ {
		store.Add(user(fmt.Sprintf("kid%02d", i), "root"))
	}
	e := newEngine(store)

	counts, err := e.CountLevels(context.Background(), "root")
	if err != nil {
		t.Fatalf("CountLevels: %v", err)
	}
	if counts.Levels[1] != 75 {
		t.Errorf("level 1 = %d, want 75", counts.Levels[1])
	}
	if store.ChildIDCalls != 4 {
		t.Errorf("membership queries = %d, want 4 (1 + 3 batches)", store.ChildIDCalls)
	}
}

func TestCountLevelsStoreErrorAborts(t *testing.T) {
	store, _ := chainStore(3)
	e := newEngine(store)
	store.Err = errors.New("primary stepped down")

	counts, err := e.CountLevels(context.Background(), "root")
	if err == nil {
		t.Fatal("expected aggregation to abort on store error")
	}
	if counts.Total != 0 || len(counts.Levels) != 0 {
		t.Errorf("partial counts leaked on error: %+v", counts)
	}
}

func TestCountLevelsCycleConverges(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Add(user("root", ""))
	store.Add(user("a", "root"))
	// Malformed: root claims a as upline, closing a loop.
	r := user("root", "a")
	store.Add(r)
	e := newEngine(store)

	counts, err := e.CountLevels(context.Background(), "root")
	if err != nil {
		t.Fatalf("CountLevels: %v", err)
	}
	if counts.Total != 1 {
		t.Errorf("total = %d, want 1 (cycle members counted once)", counts.Total)
	}
}
