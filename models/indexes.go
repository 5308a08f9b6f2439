package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates the unique/compound indexes the handlers rely on.
// Safe to call on every startup; CreateMany is a no-op for existing indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "fullName", Value: 1}}},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	subIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("subscriptions").Indexes().CreateOne(ctx, subIndex); err != nil {
		return fmt.Errorf("subscriptions index: %w", err)
	}

	likeIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "likedBy", Value: 1}, {Key: "video", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "likedBy", Value: 1}, {Key: "comment", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}
	if _, err := db.Collection("likes").Indexes().CreateMany(ctx, likeIndexes); err != nil {
		return fmt.Errorf("likes indexes: %w", err)
	}

	videoIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := db.Collection("videos").Indexes().CreateMany(ctx, videoIndexes); err != nil {
		return fmt.Errorf("videos indexes: %w", err)
	}

	return nil
}
