package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Message holds the structure for the messages collection in mongo. Every
// message belongs to exactly one conversation.
type Message struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	ConversationID string             `json:"conversationId" bson:"conversationId"`
	SenderID       string             `json:"senderId" bson:"senderId"`
	Content        string             `json:"content" bson:"content"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
