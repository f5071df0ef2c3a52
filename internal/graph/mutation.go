package graph

import (
	"context"
	"errors"

	"github.com/chatterbox-im/chatterbox/internal/auth"
	"github.com/chatterbox-im/chatterbox/internal/data"
	"github.com/chatterbox-im/chatterbox/internal/errs"

	"github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// AddUser registers a new user and logs them straight in.
func (r *Resolver) AddUser(ctx context.Context, args struct {
	Username string
	Email    string
	Password string
}) (*AuthResolver, error) {
	user, err := r.users.Create(ctx, args.Username, args.Email, args.Password)
	if err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return nil, errs.AlreadyExists("username or email already taken")
		}
		r.log.Error("create user failed", "err", err)
		return nil, errs.Internal("failed to create user")
	}

	token, _, err := r.creds.IssueToken(user.ID, user.Username, user.Email)
	if err != nil {
		r.log.Error("issue token failed", "err", err)
		return nil, errs.Internal("failed to issue token")
	}
	return &AuthResolver{r: r, token: token, user: user}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*AuthResolver, error) {
	user, err := r.users.GetByEmail(ctx, args.Email)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.Password, args.Password); err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	token, _, err := r.creds.IssueToken(user.ID, user.Username, user.Email)
	if err != nil {
		r.log.Error("issue token failed", "err", err)
		return nil, errs.Internal("failed to issue token")
	}
	return &AuthResolver{r: r, token: token, user: user}, nil
}

// AddMessage creates a message and links it from both the target chat and
// the sender. The three writes are not transactional; if either append
// fails the earlier writes are compensated so no half-linked message
// survives.
func (r *Resolver) AddMessage(ctx context.Context, args struct {
	MessageText string
	ChatID      graphql.ID
}) (*MessageResolver, error) {
	_, callerID, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	chatID, err := bson.ObjectIDFromHex(string(args.ChatID))
	if err != nil {
		return nil, errs.NotFound("chat not found")
	}

	msg, err := r.msgs.Create(ctx, args.MessageText, callerID, chatID)
	if err != nil {
		r.log.Error("create message failed", "err", err)
		return nil, errs.Internal("failed to create message")
	}

	if err := r.chats.PushMessage(ctx, chatID, msg.ID); err != nil {
		r.compensate(ctx, msg.ID, bson.ObjectID{}, false)
		if errors.Is(err, data.ErrNotFound) {
			return nil, errs.NotFound("chat not found")
		}
		r.log.Error("append message to chat failed", "chat", chatID.Hex(), "err", err)
		return nil, errs.Internal("failed to append message to chat")
	}

	if err := r.users.PushMessage(ctx, callerID, msg.ID); err != nil {
		r.compensate(ctx, msg.ID, chatID, true)
		r.log.Error("append message to sender failed", "sender", callerID.Hex(), "err", err)
		return nil, errs.Internal("failed to append message to sender")
	}

	return &MessageResolver{r: r, m: msg}, nil
}

// compensate unwinds a partially applied addMessage. Cleanup failures are
// logged and swallowed; the message row is already unreachable through the
// API once its links are gone.
func (r *Resolver) compensate(ctx context.Context, msgID, chatID bson.ObjectID, pullChat bool) {
	if pullChat {
		if err := r.chats.PullMessage(ctx, chatID, msgID); err != nil {
			r.log.Error("compensation: pull message from chat failed", "chat", chatID.Hex(), "err", err)
		}
	}
	if err := r.msgs.Delete(ctx, msgID); err != nil {
		r.log.Error("compensation: delete message failed", "message", msgID.Hex(), "err", err)
	}
}

// AddFriend adds the given user to the caller's friends set. Set
// semantics: adding twice is a no-op. The write is one-directional — the
// caller does not appear in the friend's set.
func (r *Resolver) AddFriend(ctx context.Context, args struct{ FriendID graphql.ID }) (*UserResolver, error) {
	_, callerID, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	friendID, err := bson.ObjectIDFromHex(string(args.FriendID))
	if err != nil {
		return nil, errs.NotFound("user not found")
	}

	user, err := r.users.AddFriend(ctx, callerID, friendID)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, errs.NotFound("user not found")
		}
		return nil, err
	}
	return &UserResolver{r: r, u: user}, nil
}

// AddChat returns the chat between the caller and the given user, creating
// it when the pair has none. The pair match is order-independent and the
// find-or-create is atomic, so repeated or concurrent calls yield the same
// chat. chatName only applies when a chat is actually created.
func (r *Resolver) AddChat(ctx context.Context, args struct {
	ChatName *string
	UserID   graphql.ID
}) (*ChatResolver, error) {
	_, callerID, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	otherID, err := bson.ObjectIDFromHex(string(args.UserID))
	if err != nil {
		return nil, errs.NotFound("user not found")
	}

	name := ""
	if args.ChatName != nil {
		name = *args.ChatName
	}

	key := data.ParticipantsKey(callerID, otherID)
	chat, err := r.chats.FindOrCreate(ctx, name, []bson.ObjectID{otherID, callerID}, key)
	if err != nil {
		r.log.Error("find-or-create chat failed", "key", key, "err", err)
		return nil, errs.Internal("failed to create chat")
	}
	return &ChatResolver{r: r, c: chat}, nil
}
