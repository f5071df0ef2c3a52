package data

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MessagesStore performs message collection operations.
type MessagesStore struct {
	coll *mongo.Collection
}

// NewMessagesStore returns a MessagesStore using the provided collection.
func NewMessagesStore(coll *mongo.Collection) *MessagesStore {
	return &MessagesStore{coll: coll}
}

// Create inserts a message document. CreatedAt is server-assigned and the
// document is immutable afterwards.
func (s *MessagesStore) Create(ctx context.Context, messageText string, sender, chat bson.ObjectID) (*Message, error) {
	msg := &Message{
		MessageText: messageText,
		Sender:      sender,
		Chat:        chat,
		CreatedAt:   time.Now().UTC(),
	}

	result, err := s.coll.InsertOne(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg.ID = result.InsertedID.(bson.ObjectID)
	return msg, nil
}

// GetByID finds a message by ObjectID.
func (s *MessagesStore) GetByID(ctx context.Context, id bson.ObjectID) (*Message, error) {
	var msg Message
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// Find returns messages newest-first. A nil sender returns all messages;
// otherwise only messages authored by that sender.
func (s *MessagesStore) Find(ctx context.Context, sender *bson.ObjectID) ([]*Message, error) {
	filter := bson.M{}
	if sender != nil {
		filter["sender"] = *sender
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	msgs := []*Message{}
	if err = cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// ManyByIDs returns the messages for the given ids in one query, ordered
// oldest-first so chat histories read top to bottom.
func (s *MessagesStore) ManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]*Message, error) {
	if len(ids) == 0 {
		return []*Message{}, nil
	}

	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	msgs := []*Message{}
	if err = cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Delete removes a message. Used only to compensate a failed multi-write
// in addMessage.
func (s *MessagesStore) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
