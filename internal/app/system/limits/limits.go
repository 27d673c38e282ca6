// internal/app/system/limits/limits.go
package limits

// Traversal and query bounds for the referral tree.
// These mirror the underlying store's constraints and keep every walk
// over the parent-pointer graph finite even against malformed data.
const (
	// MaxDepth is the deepest level tracked individually in downline
	// aggregations. Anything deeper lands in the overflow bucket.
	MaxDepth = 6

	// BatchFanIn is the maximum number of upline ids per membership
	// ("in") query. This is a store limit, not a tuning knob.
	BatchFanIn = 30

	// AncestryHops bounds the upward walk when verifying an
	// ancestor/descendant relationship.
	AncestryHops = 100

	// PathHops bounds the upward walk when reconstructing a search
	// hit's root-relative path.
	PathHops = 20

	// SearchLimit caps name-prefix search results.
	SearchLimit = 20

	// ChildPageSize is the fixed page size for child listings.
	ChildPageSize = 50

	// MaxRegisterBodySize is the maximum size for registration request bodies.
	MaxRegisterBodySize = 1 << 16 // 64 KB
)
