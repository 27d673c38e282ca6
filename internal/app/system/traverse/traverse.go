// Package traverse implements the level-bounded traversal engine for the
// referral tree: ancestry verification, per-level downline counts,
// depth-bounded subtree materialization, paginated child listings, and
// search with root-relative path reconstruction.
//
// The tree exists only as a parent pointer (upline) on each user record;
// there are no adjacency lists or materialized paths. Every operation is
// a breadth-first or upward walk over point lookups and membership
// queries, bounded by the ceilings in the limits package so malformed
// data (cycles, dangling uplines) can never hang a request.
package traverse

import (
	"context"
	"errors"
	"time"

	"github.com/mav910623/nunetwork/internal/app/system/limits"
	"github.com/mav910623/nunetwork/internal/app/system/paging"
	"github.com/mav910623/nunetwork/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by Store implementations when no record
	// matches a point lookup.
	ErrNotFound = errors.New("user not found")

	// ErrForbidden is returned by Subtree when the requester is neither
	// the target nor one of its ancestors.
	ErrForbidden = errors.New("not an ancestor of the requested user")

	// ErrBadCursor is returned by Children for a token that was not
	// produced by a previous page.
	ErrBadCursor = errors.New("malformed page cursor")
)

// Store is the slice of the record store the engine needs. The mongo
// implementation lives in internal/app/store/users; tests use the fake
// in internal/testutil.
type Store interface {
	// Get returns the user with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.User, error)

	// ChildIDs returns the ids of users whose upline is any of parents.
	// len(parents) never exceeds the configured fan-in limit.
	ChildIDs(ctx context.Context, parents []string) ([]string, error)

	// ChildRecords is ChildIDs but returns full records.
	ChildRecords(ctx context.Context, parents []string) ([]models.User, error)

	// ChildPage returns up to limit children of parent ordered by
	// created_at descending (id descending as tiebreak), starting after
	// the cursor position when cur is non-nil.
	ChildPage(ctx context.Context, parent string, cur *paging.Cursor, limit int) ([]models.User, error)

	// ByReferralCode returns the user holding the (uppercased) code, or
	// ErrNotFound.
	ByReferralCode(ctx context.Context, code string) (*models.User, error)

	// ByEmail returns the user with the (lowercased) email, or ErrNotFound.
	ByEmail(ctx context.Context, email string) (*models.User, error)

	// NamePrefix returns up to limit users whose folded name starts with
	// prefix, in folded-name order.
	NamePrefix(ctx context.Context, prefix string, limit int) ([]models.User, error)
}

// Config carries the traversal bounds. The fan-in limit is a property of
// the underlying store; the rest are safety ceilings and page sizes.
type Config struct {
	MaxDepth     int
	BatchFanIn   int
	AncestryHops int
	PathHops     int
	SearchLimit  int
	PageSize     int
}

// DefaultConfig returns the production bounds from the limits package.
func DefaultConfig() Config {
	return Config{
		MaxDepth:     limits.MaxDepth,
		BatchFanIn:   limits.BatchFanIn,
		AncestryHops: limits.AncestryHops,
		PathHops:     limits.PathHops,
		SearchLimit:  limits.SearchLimit,
		PageSize:     limits.ChildPageSize,
	}
}

// Engine runs traversal operations against a Store. It holds no mutable
// state; every invocation rebuilds its frontier from the store, so one
// engine is shared safely across concurrent requests.
type Engine struct {
	store Store
	cfg   Config
	log   *zap.Logger
}

// New builds an Engine. A nil logger is replaced with a no-op logger.
func New(store Store, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, cfg: cfg, log: logger}
}

// NodeView is the display projection of a user record returned by tree
// and search operations. UID mirrors ID for older clients; ReferralID is
// the shareable referral code.
type NodeView struct {
	ID         string `json:"id"`
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ReferralID string `json:"referralId"`
	CreatedAt  string `json:"createdAt"`
}

func viewOf(u models.User) NodeView {
	return NodeView{
		ID:         u.ID,
		UID:        u.ID,
		Name:       u.FullName,
		Email:      u.Email,
		ReferralID: u.ReferralCode,
		CreatedAt:  u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// batchIDs splits ids into slices of at most size elements.
func batchIDs(ids []string, size int) [][]string {
	if size <= 0 {
		return [][]string{ids}
	}
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
