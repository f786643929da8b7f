package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Reply holds the structure for the replies collection in mongo. Replies are
// immutable once created; the only mutation is deletion by the author or an
// admin.
type Reply struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details ReplyDetails       `json:"reply" bson:"reply"`
}

// ReplyDetails holds the structure for the inner reply structure as defined in
// the replies collection in mongo
type ReplyDetails struct {
	CaseID     string             `json:"caseId" bson:"caseId"`
	AuthorID   string             `json:"authorId" bson:"authorId"`
	AuthorName string             `json:"authorName" bson:"authorName"`
	Content    string             `json:"content" bson:"content"`
	CreatedAt  primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
