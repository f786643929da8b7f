package databases

// go generate: mockery --name ConversationDatabase
// go generate: mockery --name ParticipantDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbridge/lawbridge-api/models"
)

const (
	conversationName = "conversations"
	participantName  = "participants"
)

// ConversationDatabase contains the methods to use with the conversation database
type ConversationDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Conversation, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type conversationDatabase struct {
	db DatabaseHelper
}

// NewConversationDatabase initializes a new instance of conversation database with the provided db connection
func NewConversationDatabase(db DatabaseHelper) ConversationDatabase {
	return &conversationDatabase{
		db: db,
	}
}

func (c *conversationDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Conversation, error) {
	conversation := &models.Conversation{}
	err := c.db.Collection(conversationName).FindOne(ctx, filter, opts...).Decode(&conversation)
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

func (c *conversationDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(conversationName).InsertOne(ctx, document, opts...)
}

// ParticipantDatabase contains the methods to use with the participant database
type ParticipantDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Participant, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	FindOtherParticipants(ctx context.Context, conversationIDs []string, excludeUserID string) ([]models.ConversationEntry, error)
}

type participantDatabase struct {
	db DatabaseHelper
}

// NewParticipantDatabase initializes a new instance of participant database with the provided db connection
func NewParticipantDatabase(db DatabaseHelper) ParticipantDatabase {
	return &participantDatabase{
		db: db,
	}
}

func (p *participantDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Participant, error) {
	var participants []models.Participant
	cr, err := p.db.Collection(participantName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&participants)
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (p *participantDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return p.db.Collection(participantName).InsertOne(ctx, document, opts...)
}

// FindOtherParticipants resolves, for each of the given conversations, the
// participant row that is not the excluded user, joined with that user's
// profile. Conversations whose other participant cannot be resolved yield no
// row and drop out of the result.
func (p *participantDatabase) FindOtherParticipants(ctx context.Context, conversationIDs []string, excludeUserID string) ([]models.ConversationEntry, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"conversationId": bson.M{"$in": conversationIDs},
			"userId":         bson.M{"$ne": excludeUserID},
		}},
		{"$addFields": bson.M{"profileObjectId": bson.M{"$toObjectId": "$userId"}}},
		{"$lookup": bson.M{
			"from":         profileName,
			"localField":   "profileObjectId",
			"foreignField": "_id",
			"as":           "profileDocs",
		}},
		{"$unwind": "$profileDocs"},
		{"$project": bson.M{
			"conversationId": 1,
			"profile": bson.M{
				"userId":    "$userId",
				"name":      "$profileDocs.profile.name",
				"role":      "$profileDocs.profile.role",
				"avatarUrl": "$profileDocs.profile.avatarUrl",
			},
		}},
	}

	cr, err := p.db.Collection(participantName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var entries []models.ConversationEntry
	err = cr.Decode(&entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
