package graph

import (
	"context"
	"strings"
	"time"

	"github.com/chatterbox-im/chatterbox/internal/auth"
	"github.com/chatterbox-im/chatterbox/internal/data"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory store fakes implementing the subset interfaces the resolvers
// depend on. Write counters let tests assert that gated operations touch
// nothing when unauthenticated.

type fakeUsers struct {
	users   map[bson.ObjectID]*data.User
	pushErr error
	writes  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[bson.ObjectID]*data.User{}}
}

func (f *fakeUsers) add(username, email, password string) *data.User {
	hash, _ := auth.HashPassword(password)
	u := &data.User{
		ID:       bson.NewObjectID(),
		Username: username,
		Email:    strings.ToLower(email),
		Password: hash,
		Friends:  []bson.ObjectID{},
		Messages: []bson.ObjectID{},
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUsers) Create(ctx context.Context, username, email, password string) (*data.User, error) {
	f.writes++
	for _, u := range f.users {
		if u.Username == username || u.Email == strings.ToLower(email) {
			return nil, data.ErrDuplicate
		}
	}
	return f.add(username, email, password), nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*data.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return nil, data.ErrNotFound
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*data.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, data.ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id bson.ObjectID) (*data.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, data.ErrNotFound
}

func (f *fakeUsers) All(ctx context.Context) ([]*data.User, error) {
	out := []*data.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Search(ctx context.Context, fragment string) ([]*data.User, error) {
	if fragment == "" {
		return f.All(ctx)
	}
	needle := strings.ToLower(fragment)
	out := []*data.User{}
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Username), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) ManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]*data.User, error) {
	out := []*data.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) AddFriend(ctx context.Context, userID, friendID bson.ObjectID) (*data.User, error) {
	f.writes++
	u, ok := f.users[userID]
	if !ok {
		return nil, data.ErrNotFound
	}
	for _, id := range u.Friends {
		if id == friendID {
			return u, nil
		}
	}
	u.Friends = append(u.Friends, friendID)
	return u, nil
}

func (f *fakeUsers) PushMessage(ctx context.Context, userID, messageID bson.ObjectID) error {
	f.writes++
	if f.pushErr != nil {
		return f.pushErr
	}
	u, ok := f.users[userID]
	if !ok {
		return data.ErrNotFound
	}
	u.Messages = append(u.Messages, messageID)
	return nil
}

type fakeChats struct {
	chats  map[bson.ObjectID]*data.Chat
	byKey  map[bson.ObjectID]string
	writes int
}

func newFakeChats() *fakeChats {
	return &fakeChats{chats: map[bson.ObjectID]*data.Chat{}, byKey: map[bson.ObjectID]string{}}
}

func (f *fakeChats) FindOrCreate(ctx context.Context, chatName string, users []bson.ObjectID, key string) (*data.Chat, error) {
	f.writes++
	for id, k := range f.byKey {
		if k == key {
			return f.chats[id], nil
		}
	}
	c := &data.Chat{
		ID:              bson.NewObjectID(),
		ChatName:        chatName,
		Users:           users,
		ParticipantsKey: key,
		ChatMessages:    []bson.ObjectID{},
		CreatedAt:       time.Now(),
	}
	f.chats[c.ID] = c
	f.byKey[c.ID] = key
	return c, nil
}

func (f *fakeChats) GetByID(ctx context.Context, id bson.ObjectID) (*data.Chat, error) {
	if c, ok := f.chats[id]; ok {
		return c, nil
	}
	return nil, data.ErrNotFound
}

func (f *fakeChats) All(ctx context.Context) ([]*data.Chat, error) {
	out := []*data.Chat{}
	for _, c := range f.chats {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeChats) PushMessage(ctx context.Context, chatID, messageID bson.ObjectID) error {
	f.writes++
	c, ok := f.chats[chatID]
	if !ok {
		return data.ErrNotFound
	}
	c.ChatMessages = append(c.ChatMessages, messageID)
	return nil
}

func (f *fakeChats) PullMessage(ctx context.Context, chatID, messageID bson.ObjectID) error {
	c, ok := f.chats[chatID]
	if !ok {
		return nil
	}
	kept := c.ChatMessages[:0]
	for _, id := range c.ChatMessages {
		if id != messageID {
			kept = append(kept, id)
		}
	}
	c.ChatMessages = kept
	return nil
}

type fakeMsgs struct {
	msgs   map[bson.ObjectID]*data.Message
	writes int
}

func newFakeMsgs() *fakeMsgs {
	return &fakeMsgs{msgs: map[bson.ObjectID]*data.Message{}}
}

func (f *fakeMsgs) Create(ctx context.Context, messageText string, sender, chat bson.ObjectID) (*data.Message, error) {
	f.writes++
	m := &data.Message{
		ID:          bson.NewObjectID(),
		MessageText: messageText,
		Sender:      sender,
		Chat:        chat,
		CreatedAt:   time.Now(),
	}
	f.msgs[m.ID] = m
	return m, nil
}

func (f *fakeMsgs) GetByID(ctx context.Context, id bson.ObjectID) (*data.Message, error) {
	if m, ok := f.msgs[id]; ok {
		return m, nil
	}
	return nil, data.ErrNotFound
}

func (f *fakeMsgs) Find(ctx context.Context, sender *bson.ObjectID) ([]*data.Message, error) {
	out := []*data.Message{}
	for _, m := range f.msgs {
		if sender == nil || m.Sender == *sender {
			out = append(out, m)
		}
	}
	// newest first, matching the store contract
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeMsgs) ManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]*data.Message, error) {
	out := []*data.Message{}
	for _, id := range ids {
		if m, ok := f.msgs[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMsgs) Delete(ctx context.Context, id bson.ObjectID) error {
	delete(f.msgs, id)
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) IssueToken(userID bson.ObjectID, username, email string) (string, time.Time, error) {
	return "token-" + username, time.Now().Add(time.Hour), nil
}

// testEnv bundles a resolver with its fakes.
type testEnv struct {
	users *fakeUsers
	chats *fakeChats
	msgs  *fakeMsgs
	r     *Resolver
}

func newTestEnv() *testEnv {
	users := newFakeUsers()
	chats := newFakeChats()
	msgs := newFakeMsgs()
	return &testEnv{
		users: users,
		chats: chats,
		msgs:  msgs,
		r:     NewResolver(users, chats, msgs, fakeIssuer{}, nil),
	}
}

// identityCtx seeds a context with the identity of the given user, the way
// the HTTP middleware does for real requests.
func identityCtx(u *data.User) context.Context {
	claims := &auth.Claims{UserID: u.ID.Hex(), Username: u.Username, Email: u.Email}
	return auth.WithIdentity(context.Background(), claims)
}

func (e *testEnv) totalWrites() int {
	return e.users.writes + e.chats.writes + e.msgs.writes
}
