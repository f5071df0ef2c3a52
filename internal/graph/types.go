package graph

import (
	"context"
	"errors"

	"github.com/chatterbox-im/chatterbox/internal/data"

	"github.com/graph-gophers/graphql-go"
)

// UserResolver resolves the User type. The stored password hash lives on
// data.User but no field here exposes it.
type UserResolver struct {
	r *Resolver
	u *data.User
}

func (x *UserResolver) ID() graphql.ID   { return graphql.ID(x.u.ID.Hex()) }
func (x *UserResolver) Username() string { return x.u.Username }
func (x *UserResolver) Email() string    { return x.u.Email }
func (x *UserResolver) FriendCount() int32 {
	return int32(len(x.u.Friends))
}

// Friends expands the stored friend references in a single batch query.
func (x *UserResolver) Friends(ctx context.Context) ([]*UserResolver, error) {
	friends, err := x.r.users.ManyByIDs(ctx, x.u.Friends)
	if err != nil {
		return nil, err
	}
	return x.r.userResolvers(friends), nil
}

// Messages expands the user's authored messages, oldest first.
func (x *UserResolver) Messages(ctx context.Context) ([]*MessageResolver, error) {
	msgs, err := x.r.msgs.ManyByIDs(ctx, x.u.Messages)
	if err != nil {
		return nil, err
	}
	return x.r.messageResolvers(msgs), nil
}

// ChatResolver resolves the Chat type.
type ChatResolver struct {
	r *Resolver
	c *data.Chat
}

func (x *ChatResolver) ID() graphql.ID { return graphql.ID(x.c.ID.Hex()) }

func (x *ChatResolver) ChatName() *string {
	if x.c.ChatName == "" {
		return nil
	}
	name := x.c.ChatName
	return &name
}

// Users expands the participant pair.
func (x *ChatResolver) Users(ctx context.Context) ([]*UserResolver, error) {
	users, err := x.r.users.ManyByIDs(ctx, x.c.Users)
	if err != nil {
		return nil, err
	}
	return x.r.userResolvers(users), nil
}

// ChatMessages expands the chat history, oldest first.
func (x *ChatResolver) ChatMessages(ctx context.Context) ([]*MessageResolver, error) {
	msgs, err := x.r.msgs.ManyByIDs(ctx, x.c.ChatMessages)
	if err != nil {
		return nil, err
	}
	return x.r.messageResolvers(msgs), nil
}

// MessageResolver resolves the Message type.
type MessageResolver struct {
	r *Resolver
	m *data.Message
}

func (x *MessageResolver) ID() graphql.ID          { return graphql.ID(x.m.ID.Hex()) }
func (x *MessageResolver) MessageText() string     { return x.m.MessageText }
func (x *MessageResolver) CreatedAt() graphql.Time { return graphql.Time{Time: x.m.CreatedAt} }

// Sender expands the authoring user. A dangling reference resolves to null
// rather than failing the whole query.
func (x *MessageResolver) Sender(ctx context.Context) (*UserResolver, error) {
	user, err := x.r.users.GetByID(ctx, x.m.Sender)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &UserResolver{r: x.r, u: user}, nil
}

// Chat expands the owning chat.
func (x *MessageResolver) Chat(ctx context.Context) (*ChatResolver, error) {
	chat, err := x.r.chats.GetByID(ctx, x.m.Chat)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ChatResolver{r: x.r, c: chat}, nil
}

// AuthResolver resolves the Auth payload returned by addUser and login.
type AuthResolver struct {
	r     *Resolver
	token string
	user  *data.User
}

func (x *AuthResolver) Token() string       { return x.token }
func (x *AuthResolver) User() *UserResolver { return &UserResolver{r: x.r, u: x.user} }

func (r *Resolver) userResolvers(users []*data.User) []*UserResolver {
	out := make([]*UserResolver, 0, len(users))
	for _, u := range users {
		out = append(out, &UserResolver{r: r, u: u})
	}
	return out
}

func (r *Resolver) chatResolvers(chats []*data.Chat) []*ChatResolver {
	out := make([]*ChatResolver, 0, len(chats))
	for _, c := range chats {
		out = append(out, &ChatResolver{r: r, c: c})
	}
	return out
}

func (r *Resolver) messageResolvers(msgs []*data.Message) []*MessageResolver {
	out := make([]*MessageResolver, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &MessageResolver{r: r, m: m})
	}
	return out
}
