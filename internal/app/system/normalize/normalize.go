// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name without touching its case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Phone strips everything but digits from a phone number, keeping a
// leading "+".
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ReferralCode uppercases and trims a referral code so lookups are
// case-insensitive.
func ReferralCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims surrounding whitespace from a free-text query value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
