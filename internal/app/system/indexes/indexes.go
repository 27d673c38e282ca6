// internal/app/system/indexes/indexes.go

// Package indexes creates the MongoDB indexes the service relies on.
// EnsureAll runs at startup and is idempotent.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll creates every index set. Each entry is applied with
// CreateMany, which no-ops for indexes that already exist.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if err := ensureUsers(ctx, db, logger); err != nil {
		return err
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "referral_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_referral_code"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			// Child listing: newest first under a parent, keyset paging on
			// (created_at, _id).
			Keys: bson.D{
				{Key: "upline", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("children_by_created"),
		},
		{
			// Name-prefix range scans over the folded name.
			Keys: bson.D{
				{Key: "full_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("name_prefix"),
		},
	}

	if _, err := db.Collection("users").Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}
	logger.Info("indexes ensured", zap.String("collection", "users"))
	return nil
}
