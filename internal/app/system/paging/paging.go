// internal/app/system/paging/paging.go
package paging

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// Cursor marks a position in a child listing ordered by creation time
// descending with the document id as tiebreak. It is serialized into an
// opaque token so clients can resume a listing without knowing the
// ordering key.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Encode serializes a cursor into an opaque URL-safe token.
func Encode(c Cursor) string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a token produced by Encode. The second return is false
// for anything that is not a well-formed cursor.
func Decode(token string) (Cursor, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, false
	}
	ts, id, found := strings.Cut(string(raw), "|")
	if !found || id == "" {
		return Cursor{}, false
	}
	nanos, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return Cursor{}, false
	}
	return Cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: id}, true
}
