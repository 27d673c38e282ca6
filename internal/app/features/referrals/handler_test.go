// internal/app/features/referrals/handler_test.go
package referrals_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mav910623/nunetwork/internal/app/features/referrals"
	"github.com/mav910623/nunetwork/internal/app/system/auth"
	"github.com/mav910623/nunetwork/internal/app/system/traverse"
	"github.com/mav910623/nunetwork/internal/domain/models"
	"github.com/mav910623/nunetwork/internal/testutil"
)

func seedTree(store *testutil.FakeStore) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	add := func(id, upline string) {
		store.Add(models.User{
			ID:           id,
			Upline:       upline,
			ReferralCode: "NU" + id,
			FullName:     "User " + id,
			FullNameCI:   "user " + id,
			Email:        id + "@example.com",
			CreatedAt:    created,
		})
		created = created.Add(time.Minute)
	}
	add("ROOT", "")
	add("A", "ROOT")
	add("B", "ROOT")
	add("A1", "A")
}

func newHandler(store *testutil.FakeStore) *referrals.Handler {
	engine := traverse.New(store, traverse.DefaultConfig(), zap.NewNop())
	return referrals.NewHandler(zap.NewNop(), engine)
}

func asCaller(r *http.Request, uid string) *http.Request {
	return auth.WithTestCaller(r, &auth.Caller{UID: uid})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestEndpointsRequireCaller(t *testing.T) {
	h := newHandler(testutil.NewFakeStore())

	endpoints := map[string]http.HandlerFunc{
		"/levels":   h.Levels,
		"/tree":     h.Tree,
		"/children": h.Children,
		"/search":   h.Search,
	}
	for path, fn := range endpoints {
		rec := httptest.NewRecorder()
		fn(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s status = %d, want 401", path, rec.Code)
		}
	}
}

func TestLevels(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTree(store)
	h := newHandler(store)

	rec := httptest.NewRecorder()
	h.Levels(rec, asCaller(httptest.NewRequest(http.MethodGet, "/levels", nil), "ROOT"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)

	levels, ok := body["levels"].(map[string]any)
	if !ok {
		t.Fatalf("levels missing: %v", body)
	}
	// All six level keys are always present.
	for _, key := range []string{"1", "2", "3", "4", "5", "6"} {
		if _, ok := levels[key]; !ok {
			t.Errorf("level key %q missing", key)
		}
	}
	if levels["1"].(float64) != 2 || levels["2"].(float64) != 1 {
		t.Errorf("levels = %v, want 1:2 2:1", levels)
	}
	if body["total"].(float64) != 3 {
		t.Errorf("total = %v, want 3", body["total"])
	}
	if body["sixPlus"].(float64) != 0 {
		t.Errorf("sixPlus = %v, want 0", body["sixPlus"])
	}
}

func TestLevelsStoreFailure(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTree(store)
	h := newHandler(store)
	store.Err = errors.New("no reachable servers")

	rec := httptest.NewRecorder()
	h.Levels(rec, asCaller(httptest.NewRequest(http.MethodGet, "/levels", nil), "ROOT"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "internal" {
		t.Errorf("error = %v, want internal", body["error"])
	}
}

func TestTreeDefaultsToCaller(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTree(store)
	h := newHandler(store)

	rec := httptest.NewRecorder()
	h.Tree(rec, asCaller(httptest.NewRequest(http.MethodGet, "/tree", nil), "A"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["rootUid"] != "A" {
		t.Errorf("rootUid = %v, want A", body["rootUid"])
	}
	if body["total"].(float64) != 1 {
		t.Errorf("total = %v, want 1", body["total"])
	}
}

func TestTreeForbiddenForNonAncestor(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTree(store)
	h := newHandler(store)

	rec := httptest.NewRecorder()
	h.Tree(rec, asCaller(httptest.NewRequest(http.MethodGet, "/tree?uid=A1", nil), "B"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "forbidden" {
		t.Errorf("error = %v, want forbidden", body["error"])
	}
}

func TestTreeAncestorAllowed(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTree(store)
	h := newHandler(store)

	rec := httptest.NewRecorder()
	h.Tree(rec, asCaller(httptest.NewRequest(http.MethodGet, "/tree?uid=A&depth=2", nil), "ROOT"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["rootUid"] != "A" || body["depth"].(float64) != 2 {
		t.Errorf("body = %v, want rootUid A depth 2", body)
	}
}

func TestChildrenBadCursor(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTree(store)
	h := newHandler(store)

	rec := httptest.NewRecorder()
	h.Children(rec, asCaller(httptest.NewRequest(http.MethodGet, "/children?cursor=garbage", nil), "ROOT"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "bad_cursor" {
		t.Errorf("error = %v, want bad_cursor", body["error"])
	}
}

func TestChildrenListsNewestFirst(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTree(store)
	h := newHandler(store)

	rec := httptest.NewRecorder()
	h.Children(rec, asCaller(httptest.NewRequest(http.MethodGet, "/children", nil), "ROOT"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	items := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	first := items[0].(map[string]any)
	if first["id"] != "B" {
		t.Errorf("first item = %v, want newest child B", first["id"])
	}
	if body["hasMore"].(bool) {
		t.Error("hasMore = true for a short page")
	}
}

func TestSearchReturnsHitWithPath(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTree(store)
	h := newHandler(store)

	rec := httptest.NewRecorder()
	h.Search(rec, asCaller(httptest.NewRequest(http.MethodGet, "/search?q=NUA1", nil), "ROOT"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	results := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	hit := results[0].(map[string]any)
	if hit["user"].(map[string]any)["id"] != "A1" {
		t.Errorf("hit = %v, want A1", hit["user"])
	}
	path := hit["path"].([]any)
	if len(path) != 2 || path[0] != "ROOT" || path[1] != "A" {
		t.Errorf("path = %v, want [ROOT A]", path)
	}
}
