package data

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User maps to the users collection. Password holds the bcrypt hash and is
// never serialized out of the data layer.
type User struct {
	ID        bson.ObjectID   `bson:"_id,omitempty"`
	Username  string          `bson:"username"`
	Email     string          `bson:"email"`
	Password  string          `bson:"password"`
	Friends   []bson.ObjectID `bson:"friends"`
	Messages  []bson.ObjectID `bson:"messages"`
	CreatedAt time.Time       `bson:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

// Chat maps to the chats collection. Users holds the participant pair;
// ParticipantsKey is its canonical unordered form (sorted hex ids joined
// with ":") and carries a unique index. ChatMessages is append-only.
type Chat struct {
	ID              bson.ObjectID   `bson:"_id,omitempty"`
	ChatName        string          `bson:"chat_name,omitempty"`
	Users           []bson.ObjectID `bson:"users"`
	ParticipantsKey string          `bson:"participants_key"`
	ChatMessages    []bson.ObjectID `bson:"chat_messages"`
	CreatedAt       time.Time       `bson:"created_at"`
}

// Message maps to the messages collection. Immutable after creation.
type Message struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	MessageText string        `bson:"message_text"`
	Sender      bson.ObjectID `bson:"sender"`
	Chat        bson.ObjectID `bson:"chat"`
	CreatedAt   time.Time     `bson:"created_at"`
}
