package graph

// Schema is the GraphQL SDL served by the API. Resolver methods in this
// package must stay in sync with it; graphql.MustParseSchema enforces the
// pairing at startup (and in tests).
const Schema = `
	scalar Time

	schema {
		query: Query
		mutation: Mutation
	}

	type Query {
		me: User!
		search(username: String): [User!]!
		users: [User!]!
		user(username: String!): User
		chats: [Chat!]!
		chat(id: ID!): Chat
		messages(username: String): [Message!]!
		message(id: ID!): Message
	}

	type Mutation {
		addUser(username: String!, email: String!, password: String!): Auth!
		login(email: String!, password: String!): Auth!
		addMessage(messageText: String!, chatId: ID!): Message!
		addFriend(friendId: ID!): User!
		addChat(chatName: String, userId: ID!): Chat!
	}

	type User {
		id: ID!
		username: String!
		email: String!
		friendCount: Int!
		friends: [User!]!
		messages: [Message!]!
	}

	type Chat {
		id: ID!
		chatName: String
		users: [User!]!
		chatMessages: [Message!]!
	}

	type Message {
		id: ID!
		messageText: String!
		createdAt: Time!
		sender: User
		chat: Chat
	}

	type Auth {
		token: String!
		user: User!
	}
`
