package databases

// go generate: mockery --name LegalCaseDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbridge/lawbridge-api/models"
)

const legalCaseName = "legal_cases"

// LegalCaseDatabase contains the methods to use with the legal case database.
// UpdateOne exposes the driver's update result so callers can run conditional
// updates (the accept path relies on the matched count).
type LegalCaseDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.LegalCase, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LegalCase, error)
	FindPaginated(ctx context.Context, filter interface{}, limit, page int) ([]models.LegalCase, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type legalCaseDatabase struct {
	db DatabaseHelper
}

// NewLegalCaseDatabase initializes a new instance of legal case database with the provided db connection
func NewLegalCaseDatabase(db DatabaseHelper) LegalCaseDatabase {
	return &legalCaseDatabase{
		db: db,
	}
}

func (c *legalCaseDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.LegalCase, error) {
	legalCase := &models.LegalCase{}
	err := c.db.Collection(legalCaseName).FindOne(ctx, filter, opts...).Decode(&legalCase)
	if err != nil {
		return nil, err
	}
	return legalCase, nil
}

func (c *legalCaseDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LegalCase, error) {
	var cases []models.LegalCase
	cr, err := c.db.Collection(legalCaseName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&cases)
	if err != nil {
		return nil, err
	}
	return cases, nil
}

// FindPaginated lists cases newest-first with limit/page windowing
func (c *legalCaseDatabase) FindPaginated(ctx context.Context, filter interface{}, limit, page int) ([]models.LegalCase, error) {
	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	opts.SetSort(bson.M{"case.createdAt": -1})
	return c.Find(ctx, filter, opts)
}

func (c *legalCaseDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(legalCaseName).InsertOne(ctx, document, opts...)
}

func (c *legalCaseDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(legalCaseName).UpdateOne(ctx, filter, update, opts...)
}

func (c *legalCaseDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(legalCaseName).DeleteOne(ctx, filter, opts...)
}
