package databases

// go generate: mockery --name ReplyDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbridge/lawbridge-api/models"
)

const replyName = "replies"

// ReplyDatabase contains the methods to use with the reply database
type ReplyDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Reply, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Reply, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type replyDatabase struct {
	db DatabaseHelper
}

// NewReplyDatabase initializes a new instance of reply database with the provided db connection
func NewReplyDatabase(db DatabaseHelper) ReplyDatabase {
	return &replyDatabase{
		db: db,
	}
}

func (r *replyDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Reply, error) {
	reply := &models.Reply{}
	err := r.db.Collection(replyName).FindOne(ctx, filter, opts...).Decode(&reply)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (r *replyDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Reply, error) {
	var replies []models.Reply
	cr, err := r.db.Collection(replyName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&replies)
	if err != nil {
		return nil, err
	}
	return replies, nil
}

func (r *replyDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return r.db.Collection(replyName).InsertOne(ctx, document, opts...)
}

func (r *replyDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return r.db.Collection(replyName).DeleteOne(ctx, filter, opts...)
}
