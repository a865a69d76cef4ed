package database

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is the process-wide database handle. It is constructed once at
// startup and injected into the stores rather than accessed ambiently.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(mongoURI string) (*Mongo, error) {
	// Longer timeout so Atlas server selection doesn't give up early
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	log.Println("✅ Connected to MongoDB")
	return &Mongo{
		Client: client,
		DB:     client.Database(databaseName(mongoURI)),
	}, nil
}

// databaseName extracts the database name from the connection string,
// falling back to "sportmania".
func databaseName(mongoURI string) string {
	name := "sportmania"
	parts := strings.Split(mongoURI, "/")
	if len(parts) > 3 {
		dbPart := strings.Split(parts[len(parts)-1], "?")[0]
		if dbPart != "" {
			name = dbPart
		}
	}
	return name
}

// EnsureIndexes configures indexes for the users and reset_tokens
// collections. Called on startup after Mongo has connected.
//
// The unique index on users.email is the authoritative uniqueness
// guard; the read-then-write check in the auth service only exists for
// a friendlier error message. Likewise reset_tokens.user_id is unique
// so at most one live token per user survives concurrent requests.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	users := m.DB.Collection("users")
	userModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_users_email").SetUnique(true),
		},
	}
	for _, im := range userModels {
		if _, err := users.Indexes().CreateOne(ctx, im); err != nil {
			return err
		}
	}

	tokens := m.DB.Collection("reset_tokens")
	tokenModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_reset_tokens_user_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetName("idx_reset_tokens_token"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_reset_tokens_expires_at"),
		},
	}
	for _, im := range tokenModels {
		if _, err := tokens.Indexes().CreateOne(ctx, im); err != nil {
			return err
		}
	}

	return nil
}

// Disconnect closes the MongoDB connection.
func (m *Mongo) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}
