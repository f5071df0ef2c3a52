package graph

import (
	"context"
	"errors"

	"github.com/chatterbox-im/chatterbox/internal/data"
	"github.com/chatterbox-im/chatterbox/internal/errs"

	"github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Me returns the caller's own profile. The only query behind the access
// gate.
func (r *Resolver) Me(ctx context.Context) (*UserResolver, error) {
	_, callerID, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := r.users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, errs.NotFound("user not found")
		}
		return nil, err
	}
	return &UserResolver{r: r, u: user}, nil
}

// Search matches users whose username or email contains the fragment,
// case-insensitively. No fragment returns all users; the caller is not
// excluded from the results.
func (r *Resolver) Search(ctx context.Context, args struct{ Username *string }) ([]*UserResolver, error) {
	fragment := ""
	if args.Username != nil {
		fragment = *args.Username
	}

	users, err := r.users.Search(ctx, fragment)
	if err != nil {
		return nil, err
	}
	return r.userResolvers(users), nil
}

// Users returns all users.
func (r *Resolver) Users(ctx context.Context) ([]*UserResolver, error) {
	users, err := r.users.All(ctx)
	if err != nil {
		return nil, err
	}
	return r.userResolvers(users), nil
}

// User returns one user by exact username match, or null.
func (r *Resolver) User(ctx context.Context, args struct{ Username string }) (*UserResolver, error) {
	user, err := r.users.GetByUsername(ctx, args.Username)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &UserResolver{r: r, u: user}, nil
}

// Chats returns all chats.
func (r *Resolver) Chats(ctx context.Context) ([]*ChatResolver, error) {
	chats, err := r.chats.All(ctx)
	if err != nil {
		return nil, err
	}
	return r.chatResolvers(chats), nil
}

// Chat returns one chat by id, or null.
func (r *Resolver) Chat(ctx context.Context, args struct{ ID graphql.ID }) (*ChatResolver, error) {
	chatID, err := bson.ObjectIDFromHex(string(args.ID))
	if err != nil {
		return nil, nil
	}

	chat, err := r.chats.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ChatResolver{r: r, c: chat}, nil
}

// Messages returns messages newest-first, optionally filtered to those
// authored by the named user. An unknown username yields an empty list.
func (r *Resolver) Messages(ctx context.Context, args struct{ Username *string }) ([]*MessageResolver, error) {
	var sender *bson.ObjectID
	if args.Username != nil && *args.Username != "" {
		user, err := r.users.GetByUsername(ctx, *args.Username)
		if err != nil {
			if errors.Is(err, data.ErrNotFound) {
				return []*MessageResolver{}, nil
			}
			return nil, err
		}
		sender = &user.ID
	}

	msgs, err := r.msgs.Find(ctx, sender)
	if err != nil {
		return nil, err
	}
	return r.messageResolvers(msgs), nil
}

// Message returns one message by id, or null.
func (r *Resolver) Message(ctx context.Context, args struct{ ID graphql.ID }) (*MessageResolver, error) {
	msgID, err := bson.ObjectIDFromHex(string(args.ID))
	if err != nil {
		return nil, nil
	}

	msg, err := r.msgs.GetByID(ctx, msgID)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &MessageResolver{r: r, m: msg}, nil
}
