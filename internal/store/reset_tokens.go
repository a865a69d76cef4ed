package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sportmania/sportmania-backend/internal/common"
	"github.com/sportmania/sportmania-backend/internal/models"
)

// ResetTokenStore is the sole writer of the reset_tokens collection.
type ResetTokenStore struct {
	col *mongo.Collection
}

func NewResetTokenStore(db *mongo.Database) *ResetTokenStore {
	return &ResetTokenStore{col: db.Collection("reset_tokens")}
}

// Replace deletes any existing token for the user and stores a new one,
// so at most one live token per user exists. A prior emailed value stops
// resolving the moment this returns.
func (s *ResetTokenStore) Replace(ctx context.Context, userID primitive.ObjectID, tokenHash string, expiresAt time.Time) error {
	if _, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return err
	}

	_, err := s.col.InsertOne(ctx, models.ResetToken{
		UserID:    userID,
		TokenHash: tokenHash,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	})
	return err
}

// FindLive looks up a token by hash whose expiry is still in the
// future. Returns common.ErrInvalidToken otherwise.
func (s *ResetTokenStore) FindLive(ctx context.Context, tokenHash string, now time.Time) (*models.ResetToken, error) {
	var t models.ResetToken
	err := s.col.FindOne(ctx, bson.M{
		"token":      tokenHash,
		"expires_at": bson.M{"$gt": now.UTC()},
	}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	return &t, nil
}

// DeleteByUser removes all tokens belonging to a user. ResetPassword
// deliberately does not call this (consumed tokens are left to expire,
// matching the original behavior); it exists so that decision is one
// call away.
func (s *ResetTokenStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
