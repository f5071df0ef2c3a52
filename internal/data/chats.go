package data

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ChatsStore performs chat collection operations.
type ChatsStore struct {
	coll *mongo.Collection
}

// NewChatsStore returns a ChatsStore using the provided collection.
func NewChatsStore(coll *mongo.Collection) *ChatsStore {
	return &ChatsStore{coll: coll}
}

// ParticipantsKey returns the canonical key for an unordered participant
// pair: the two hex ids sorted and joined with ":". The same two users
// always produce the same key regardless of argument order.
func ParticipantsKey(a, b bson.ObjectID) string {
	ids := []string{a.Hex(), b.Hex()}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}

// FindOrCreate returns the chat for the participant pair, creating it if
// none exists. The lookup and the insert are one FindOneAndUpdate upsert
// keyed on participants_key, so two concurrent calls for the same pair
// converge on a single document; the unique index backs this up. chatName
// and the participant order are only applied on insert — an existing chat
// comes back unmodified.
func (s *ChatsStore) FindOrCreate(ctx context.Context, chatName string, users []bson.ObjectID, key string) (*Chat, error) {
	update := bson.M{
		"$setOnInsert": bson.M{
			"chat_name":        chatName,
			"users":            users,
			"participants_key": key,
			"chat_messages":    []bson.ObjectID{},
			"created_at":       time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var chat Chat
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"participants_key": key}, update, opts).Decode(&chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetByID finds a chat by ObjectID.
func (s *ChatsStore) GetByID(ctx context.Context, id bson.ObjectID) (*Chat, error) {
	var chat Chat
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// All returns every chat.
func (s *ChatsStore) All(ctx context.Context) ([]*Chat, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	chats := []*Chat{}
	if err = cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// PushMessage appends a message id to the chat's message list. Returns
// ErrNotFound when the chat does not exist.
func (s *ChatsStore) PushMessage(ctx context.Context, chatID, messageID bson.ObjectID) error {
	result, err := s.coll.UpdateByID(ctx, chatID, bson.M{"$push": bson.M{"chat_messages": messageID}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullMessage removes a message id from the chat's message list. Used only
// to compensate a failed multi-write in addMessage.
func (s *ChatsStore) PullMessage(ctx context.Context, chatID, messageID bson.ObjectID) error {
	_, err := s.coll.UpdateByID(ctx, chatID, bson.M{"$pull": bson.M{"chat_messages": messageID}})
	return err
}
