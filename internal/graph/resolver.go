// Package graph implements the GraphQL resolver layer: authorization
// gating, relationship maintenance and idempotent chat creation over the
// document stores.
package graph

import (
	"context"
	"log/slog"
	"time"

	"github.com/chatterbox-im/chatterbox/internal/auth"
	"github.com/chatterbox-im/chatterbox/internal/data"
	"github.com/chatterbox-im/chatterbox/internal/errs"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserStore is the subset of the users store the resolvers need.
type UserStore interface {
	Create(ctx context.Context, username, email, password string) (*data.User, error)
	GetByEmail(ctx context.Context, email string) (*data.User, error)
	GetByUsername(ctx context.Context, username string) (*data.User, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*data.User, error)
	All(ctx context.Context) ([]*data.User, error)
	Search(ctx context.Context, fragment string) ([]*data.User, error)
	ManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]*data.User, error)
	AddFriend(ctx context.Context, userID, friendID bson.ObjectID) (*data.User, error)
	PushMessage(ctx context.Context, userID, messageID bson.ObjectID) error
}

// ChatStore is the subset of the chats store the resolvers need.
type ChatStore interface {
	FindOrCreate(ctx context.Context, chatName string, users []bson.ObjectID, key string) (*data.Chat, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*data.Chat, error)
	All(ctx context.Context) ([]*data.Chat, error)
	PushMessage(ctx context.Context, chatID, messageID bson.ObjectID) error
	PullMessage(ctx context.Context, chatID, messageID bson.ObjectID) error
}

// MessageStore is the subset of the messages store the resolvers need.
type MessageStore interface {
	Create(ctx context.Context, messageText string, sender, chat bson.ObjectID) (*data.Message, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*data.Message, error)
	Find(ctx context.Context, sender *bson.ObjectID) ([]*data.Message, error)
	ManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]*data.Message, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// TokenIssuer issues a session credential for a user identity.
type TokenIssuer interface {
	IssueToken(userID bson.ObjectID, username, email string) (string, time.Time, error)
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	users UserStore
	chats ChatStore
	msgs  MessageStore
	creds TokenIssuer
	log   *slog.Logger
}

// NewResolver wires a root resolver with its stores and credential issuer.
func NewResolver(users UserStore, chats ChatStore, msgs MessageStore, creds TokenIssuer, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{users: users, chats: chats, msgs: msgs, creds: creds, log: log}
}

// requireUser is the access gate: every auth-requiring operation calls it
// before doing anything else. It performs no I/O.
func (r *Resolver) requireUser(ctx context.Context) (*auth.Claims, bson.ObjectID, error) {
	claims, ok := auth.FromContext(ctx)
	if !ok {
		return nil, bson.ObjectID{}, errs.ErrUnauthenticated
	}
	id, err := claims.SubjectID()
	if err != nil {
		return nil, bson.ObjectID{}, errs.ErrUnauthenticated
	}
	return claims, id, nil
}
