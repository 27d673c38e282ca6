// internal/app/store/users/userstore.go

// Package users is the MongoDB record store for user nodes. It backs
// both the traversal engine (read paths) and registration (writes).
package users

import (
	"context"
	"errors"
	"fmt"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mav910623/nunetwork/internal/app/system/paging"
	"github.com/mav910623/nunetwork/internal/app/system/traverse"
	"github.com/mav910623/nunetwork/internal/app/system/txn"
	"github.com/mav910623/nunetwork/internal/domain/models"
)

// ErrDuplicateEmail is returned by Create when the email already has an
// account.
var ErrDuplicateEmail = errors.New("email already registered")

// IsDuplicateEmail reports whether err marks an email collision from
// Create.
func IsDuplicateEmail(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}

// Store wraps the users collection.
type Store struct {
	c      *mongo.Collection
	client *mongo.Client
}

// New builds a Store bound to db's "users" collection.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users"), client: db.Client()}
}

// Get returns the user with the given id.
func (s *Store) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, traverse.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

// ChildIDs returns the ids of users whose upline is any of parents.
func (s *Store) ChildIDs(ctx context.Context, parents []string) ([]string, error) {
	if len(parents) == 0 {
		return nil, nil
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"upline": bson.M{"$in": parents}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find child ids: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode child id: %w", err)
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// ChildRecords returns the full records of users whose upline is any of
// parents.
func (s *Store) ChildRecords(ctx context.Context, parents []string) ([]models.User, error) {
	if len(parents) == 0 {
		return nil, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"upline": bson.M{"$in": parents}})
	if err != nil {
		return nil, fmt.Errorf("find children: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode children: %w", err)
	}
	return out, nil
}

// ChildPage returns up to limit children of parent, newest first, id
// descending as tiebreak, resuming after cur when non-nil. The keyset
// window matches the (upline, created_at, _id) index.
func (s *Store) ChildPage(ctx context.Context, parent string, cur *paging.Cursor, limit int) ([]models.User, error) {
	filter := bson.M{"upline": parent}
	if cur != nil {
		filter = bson.M{
			"upline": parent,
			"$or": bson.A{
				bson.M{"created_at": bson.M{"$lt": cur.CreatedAt}},
				bson.M{"created_at": cur.CreatedAt, "_id": bson.M{"$lt": cur.ID}},
			},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	c, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find child page: %w", err)
	}
	defer c.Close(ctx)

	var out []models.User
	if err := c.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode child page: %w", err)
	}
	return out, nil
}

// ByReferralCode returns the holder of code.
func (s *Store) ByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"referral_code": code}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, traverse.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by referral code: %w", err)
	}
	return &u, nil
}

// ByEmail returns the account registered under email.
func (s *Store) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, traverse.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// NamePrefix returns up to limit users whose folded name starts with
// prefix, in folded-name order. The upper bound uses the conventional
// high Unicode sentinel so the scan stays a single index range.
func (s *Store) NamePrefix(ctx context.Context, prefix string, limit int) ([]models.User, error) {
	if prefix == "" {
		return nil, nil
	}

	filter := bson.M{"full_name_ci": bson.M{
		"$gte": prefix,
		"$lt":  prefix + "",
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find by name prefix: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode name prefix results: %w", err)
	}
	return out, nil
}

// CodeInUse reports whether a referral code is already assigned.
func (s *Store) CodeInUse(ctx context.Context, code string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"referral_code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check referral code: %w", err)
	}
	return n > 0, nil
}

// Create inserts u and, when u.Upline is set, appends u.ID to the
// sponsor's advisory referrals list in the same transaction. On a
// standalone mongod the two writes are applied without a transaction;
// the unique indexes still hold, and the referrals list is advisory
// only, so a torn pair is tolerable there.
func (s *Store) Create(ctx context.Context, u *models.User) error {
	err := txn.WithTransaction(ctx, s.client, func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, u); err != nil {
			return err
		}
		if u.Upline == "" {
			return nil
		}
		_, err := s.c.UpdateOne(ctx,
			bson.M{"_id": u.Upline},
			bson.M{"$push": bson.M{"referrals": u.ID}})
		return err
	})
	if wafflemongo.IsDup(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
