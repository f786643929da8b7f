package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Conversation holds the structure for the conversations collection in mongo.
// A conversation is a two-party thread; the id is a generated uuid so it can
// double as a realtime topic name.
type Conversation struct {
	ID        string             `json:"_id" bson:"_id"`
	CreatedBy string             `json:"createdBy" bson:"createdBy"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// Participant holds the structure for the participants collection in mongo,
// mapping user ids to conversation ids
type Participant struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	ConversationID string             `json:"conversationId" bson:"conversationId"`
	UserID         string             `json:"userId" bson:"userId"`
	JoinedAt       primitive.DateTime `json:"joinedAt" bson:"joinedAt"`
}

// ConversationEntry is one row of the conversation listing: a conversation id
// paired with the other participant's profile fragment
type ConversationEntry struct {
	ConversationID string         `json:"conversationId" bson:"conversationId"`
	Other          ProfileSummary `json:"other" bson:"profile"`
}
