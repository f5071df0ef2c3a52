package data

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestParticipantsKeyIsOrderIndependent(t *testing.T) {
	a := bson.NewObjectID()
	b := bson.NewObjectID()

	if ParticipantsKey(a, b) != ParticipantsKey(b, a) {
		t.Fatal("key must not depend on argument order")
	}
	if ParticipantsKey(a, b) == ParticipantsKey(a, a) {
		t.Fatal("different pairs must produce different keys")
	}
}

func TestChatsFindOrCreate(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	chats := NewChatsStore(c.ChatsCollection())
	ctx := context.Background()

	alice := bson.NewObjectID()
	bob := bson.NewObjectID()
	key := ParticipantsKey(alice, bob)

	created, err := chats.FindOrCreate(ctx, "our chat", []bson.ObjectID{bob, alice}, key)
	if err != nil {
		t.Fatalf("FindOrCreate failed: %v", err)
	}
	if created.ChatName != "our chat" {
		t.Fatalf("chat name not applied on insert: %q", created.ChatName)
	}
	if len(created.Users) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(created.Users))
	}

	// same pair again, reversed order and different name: same document back
	again, err := chats.FindOrCreate(ctx, "renamed", []bson.ObjectID{alice, bob}, ParticipantsKey(bob, alice))
	if err != nil {
		t.Fatalf("FindOrCreate (repeat) failed: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("expected the existing chat, got a new one")
	}
	if again.ChatName != "our chat" {
		t.Fatalf("chat name must be ignored on the existing-match path, got %q", again.ChatName)
	}

	all, err := chats.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("exactly one chat must exist for the pair, got %d", len(all))
	}
}

func TestChatsPushAndPullMessage(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	chats := NewChatsStore(c.ChatsCollection())
	ctx := context.Background()

	a, b := bson.NewObjectID(), bson.NewObjectID()
	chat, err := chats.FindOrCreate(ctx, "", []bson.ObjectID{a, b}, ParticipantsKey(a, b))
	if err != nil {
		t.Fatalf("FindOrCreate failed: %v", err)
	}

	msgID := bson.NewObjectID()
	if err := chats.PushMessage(ctx, chat.ID, msgID); err != nil {
		t.Fatalf("PushMessage failed: %v", err)
	}

	got, err := chats.GetByID(ctx, chat.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.ChatMessages) != 1 || got.ChatMessages[0] != msgID {
		t.Fatalf("unexpected chat messages: %v", got.ChatMessages)
	}

	if err := chats.PullMessage(ctx, chat.ID, msgID); err != nil {
		t.Fatalf("PullMessage failed: %v", err)
	}
	got, err = chats.GetByID(ctx, chat.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.ChatMessages) != 0 {
		t.Fatalf("message not pulled: %v", got.ChatMessages)
	}

	// pushing into a missing chat reports ErrNotFound
	if err := chats.PushMessage(ctx, bson.NewObjectID(), msgID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := chats.GetByID(ctx, bson.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
