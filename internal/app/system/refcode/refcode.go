// internal/app/system/refcode/refcode.go

// Package refcode generates the shareable referral codes handed to new
// members. Codes are "NU" plus six characters. The first candidate is
// derived deterministically from the member's id so regenerating for
// the same id is stable; collisions fall back to random candidates and
// finally to a timestamp-derived code.
package refcode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	prefix    = "NU"
	bodyLen   = 6
	maxRandom = 5 // random candidates tried after the deterministic one
)

// FromID returns the deterministic candidate for an id: the first six
// alphanumeric characters of the id, uppercased, behind the NU prefix.
// Short ids are padded from a random source.
func FromID(id string) string {
	body := take(strings.ToUpper(id), bodyLen)
	if len(body) < bodyLen {
		body += take(randomBody(), bodyLen-len(body))
	}
	return prefix + body
}

// Random returns a candidate with a random six-character body.
func Random() string {
	return prefix + take(randomBody(), bodyLen)
}

// FromTime returns the last-resort candidate derived from a timestamp.
func FromTime(t time.Time) string {
	body := fmt.Sprintf("%X", t.UnixNano())
	return prefix + body[len(body)-bodyLen:]
}

// Generate produces a referral code for id that inUse reports as free.
// It tries the deterministic candidate, then a bounded number of random
// candidates, then the timestamp fallback, which is returned without a
// further check; at that point the caller's unique index is the
// backstop.
func Generate(ctx context.Context, id string, inUse func(context.Context, string) (bool, error)) (string, error) {
	candidates := make([]string, 0, maxRandom+1)
	candidates = append(candidates, FromID(id))
	for i := 0; i < maxRandom; i++ {
		candidates = append(candidates, Random())
	}

	for _, code := range candidates {
		taken, err := inUse(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return FromTime(time.Now()), nil
}

// take keeps the first n alphanumeric characters of s.
func take(s string, n int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() == n {
			break
		}
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func randomBody() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
