// Package data provides the MongoDB models and stores.
package data

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/chatterbox-im/chatterbox/internal/auth"
	"github.com/chatterbox-im/chatterbox/internal/normalize"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrNotFound is returned by single-document lookups when no document
// matches. Callers decide whether that is an error or a null result.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate document")

// UsersStore performs user collection operations.
type UsersStore struct {
	coll *mongo.Collection
}

// NewUsersStore returns a UsersStore using the provided collection.
func NewUsersStore(coll *mongo.Collection) *UsersStore {
	return &UsersStore{coll: coll}
}

// Create inserts a new user. The plaintext password is hashed here, on the
// way into the store, so no caller ever handles a stored hash.
func (s *UsersStore) Create(ctx context.Context, username, email, password string) (*User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &User{
		Username:  normalize.Username(username),
		Email:     normalize.Email(email),
		Password:  hashed,
		Friends:   []bson.ObjectID{},
		Messages:  []bson.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	user.ID = result.InsertedID.(bson.ObjectID)
	return user, nil
}

// GetByEmail finds a user by normalized email.
func (s *UsersStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.getOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetByUsername finds a user by exact username match.
func (s *UsersStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.getOne(ctx, bson.M{"username": username})
}

// GetByID finds a user by ObjectID.
func (s *UsersStore) GetByID(ctx context.Context, id bson.ObjectID) (*User, error) {
	return s.getOne(ctx, bson.M{"_id": id})
}

func (s *UsersStore) getOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// All returns every user.
func (s *UsersStore) All(ctx context.Context) ([]*User, error) {
	return s.find(ctx, bson.M{})
}

// Search returns users whose username or email contains the fragment,
// case-insensitively. An empty fragment matches everyone.
func (s *UsersStore) Search(ctx context.Context, fragment string) ([]*User, error) {
	if fragment == "" {
		return s.All(ctx)
	}

	// literal substring match; the fragment is not a caller-supplied regex
	pattern := regexp.QuoteMeta(fragment)
	filter := bson.M{
		"$or": bson.A{
			bson.M{"username": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": pattern, "$options": "i"}},
		},
	}
	return s.find(ctx, filter)
}

// ManyByIDs returns the users for the given ids in one query. Missing ids
// are silently absent from the result.
func (s *UsersStore) ManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]*User, error) {
	if len(ids) == 0 {
		return []*User{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *UsersStore) find(ctx context.Context, filter bson.M) ([]*User, error) {
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []*User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddFriend adds friendID to the user's friends set and returns the updated
// user. $addToSet makes repeated adds a no-op.
func (s *UsersStore) AddFriend(ctx context.Context, userID, friendID bson.ObjectID) (*User, error) {
	update := bson.M{
		"$addToSet": bson.M{"friends": friendID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// PushMessage appends a message id to the user's authored-messages list.
func (s *UsersStore) PushMessage(ctx context.Context, userID, messageID bson.ObjectID) error {
	update := bson.M{
		"$push": bson.M{"messages": messageID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := s.coll.UpdateByID(ctx, userID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
