// internal/domain/models/user.go
package models

import (
	"time"
)

// User is one registered participant in the referral network.
//
// The document id is the opaque uid issued by the external identity
// provider at sign-up; it is also the join key for the parent pointer.
//
// NOTE:
//   - Upline is the single source of truth for tree structure. The
//     Referrals array is an advisory forward list kept for older
//     collaborators; traversal code must never read it.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Upline       string    `bson:"upline,omitempty" json:"upline,omitempty"` // empty only for program roots
	ReferralCode string    `bson:"referral_code" json:"referral_code"`
	FullName     string    `bson:"full_name" json:"full_name"`
	FullNameCI   string    `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Referrals    []string  `bson:"referrals,omitempty" json:"referrals,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
