// internal/testutil/fakestore.go

// Package testutil holds in-memory test doubles shared by handler and
// engine tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mav910623/nunetwork/internal/app/store/users"
	"github.com/mav910623/nunetwork/internal/app/system/paging"
	"github.com/mav910623/nunetwork/internal/app/system/traverse"
	"github.com/mav910623/nunetwork/internal/domain/models"
)

// FakeStore is an in-memory record store. It implements the read slice
// the traversal engine needs and the write slice registration needs,
// with the same ordering and sentinel-error contracts as the mongo
// store.
//
// Err, when set, makes every subsequent call fail with that error.
// ChildIDCalls counts membership queries so tests can assert how many
// round trips a traversal made.
type FakeStore struct {
	mu    sync.Mutex
	users map[string]models.User

	Err          error
	ChildIDCalls int
}

// NewFakeStore builds an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{users: make(map[string]models.User)}
}

// Add inserts or replaces a record directly, bypassing Create's checks.
func (f *FakeStore) Add(u models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

// Remove deletes a record directly, useful for simulating dangling
// upline references.
func (f *FakeStore) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

// Len returns the number of stored records.
func (f *FakeStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *FakeStore) Get(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, traverse.ErrNotFound
	}
	return &u, nil
}

func (f *FakeStore) ChildIDs(ctx context.Context, parents []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ChildIDCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	var ids []string
	for _, u := range f.childrenOf(parents) {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (f *FakeStore) ChildRecords(ctx context.Context, parents []string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.childrenOf(parents), nil
}

func (f *FakeStore) ChildPage(ctx context.Context, parent string, cur *paging.Cursor, limit int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	rows := f.childrenOf([]string{parent})
	// Newest first, id descending as tiebreak, same as the mongo sort.
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})

	if cur != nil {
		kept := rows[:0]
		for _, u := range rows {
			if u.CreatedAt.Before(cur.CreatedAt) ||
				(u.CreatedAt.Equal(cur.CreatedAt) && u.ID < cur.ID) {
				kept = append(kept, u)
			}
		}
		rows = kept
	}

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *FakeStore) ByReferralCode(ctx context.Context, code string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, u := range f.users {
		if u.ReferralCode == code {
			v := u
			return &v, nil
		}
	}
	return nil, traverse.ErrNotFound
}

func (f *FakeStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, u := range f.users {
		if u.Email == email {
			v := u
			return &v, nil
		}
	}
	return nil, traverse.ErrNotFound
}

func (f *FakeStore) NamePrefix(ctx context.Context, prefix string, limit int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if prefix == "" {
		return nil, nil
	}

	var out []models.User
	for _, u := range f.users {
		if strings.HasPrefix(u.FullNameCI, prefix) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FullNameCI != out[j].FullNameCI {
			return out[i].FullNameCI < out[j].FullNameCI
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeStore) CodeInUse(ctx context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	for _, u := range f.users {
		if u.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeStore) Create(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return users.ErrDuplicateEmail
		}
	}
	f.users[u.ID] = *u
	if u.Upline != "" {
		if p, ok := f.users[u.Upline]; ok {
			p.Referrals = append(p.Referrals, u.ID)
			f.users[u.Upline] = p
		}
	}
	return nil
}

// childrenOf returns copies of the records whose upline is in parents.
// Callers hold f.mu.
func (f *FakeStore) childrenOf(parents []string) []models.User {
	set := make(map[string]struct{}, len(parents))
	for _, p := range parents {
		set[p] = struct{}{}
	}
	var out []models.User
	for _, u := range f.users {
		if _, ok := set[u.Upline]; ok {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
