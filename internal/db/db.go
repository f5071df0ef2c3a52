// Package db manages the MongoDB connection and collections.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Client wraps mongo.Client and exposes the collections the API uses.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB, verifies the connection with a ping, and returns
// a Client bound to the named database.
func New(ctx context.Context, mongoURI, database string) (*Client, error) {
	opts := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{client: client, db: client.Database(database)}, nil
}

// UsersCollection returns the users collection.
func (c *Client) UsersCollection() *mongo.Collection {
	return c.db.Collection("users")
}

// ChatsCollection returns the chats collection.
func (c *Client) ChatsCollection() *mongo.Collection {
	return c.db.Collection("chats")
}

// MessagesCollection returns the messages collection.
func (c *Client) MessagesCollection() *mongo.Collection {
	return c.db.Collection("messages")
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// CreateIndexes creates the indexes the stores rely on. It is safe to call
// on every startup; existing indexes are left alone.
func (c *Client) CreateIndexes(ctx context.Context) error {
	// users: email and username are both unique. Registration maps the
	// duplicate-key error to an ALREADY_EXISTS application error.
	userIndexes := []mongo.IndexModel{
		{
			Keys:    map[string]int{"email": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    map[string]int{"username": 1},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := c.UsersCollection().Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	// chats: participants_key is the canonical unordered participant pair.
	// The unique index makes the find-or-create upsert in ChatsStore safe
	// under concurrent calls for the same pair.
	chatIndex := mongo.IndexModel{
		Keys:    map[string]int{"participants_key": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := c.ChatsCollection().Indexes().CreateOne(ctx, chatIndex); err != nil {
		return fmt.Errorf("failed to create chats index: %w", err)
	}

	// messages: the messages query sorts newest-first; sender feeds the
	// per-user filter.
	messageIndexes := []mongo.IndexModel{
		{Keys: map[string]int{"created_at": -1}},
		// compound index: key order is significant, so bson.D not a map
		{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := c.MessagesCollection().Indexes().CreateMany(ctx, messageIndexes); err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}

	return nil
}
