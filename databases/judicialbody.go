package databases

// go generate: mockery --name JudicialBodyDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbridge/lawbridge-api/models"
)

const judicialBodyName = "judicial_bodies"

// JudicialBodyDatabase contains the methods to use with the judicial body database
type JudicialBodyDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.JudicialBody, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.JudicialBody, error)
}

type judicialBodyDatabase struct {
	db DatabaseHelper
}

// NewJudicialBodyDatabase initializes a new instance of judicial body database with the provided db connection
func NewJudicialBodyDatabase(db DatabaseHelper) JudicialBodyDatabase {
	return &judicialBodyDatabase{
		db: db,
	}
}

func (j *judicialBodyDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.JudicialBody, error) {
	body := &models.JudicialBody{}
	err := j.db.Collection(judicialBodyName).FindOne(ctx, filter, opts...).Decode(&body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (j *judicialBodyDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.JudicialBody, error) {
	var bodies []models.JudicialBody
	cr, err := j.db.Collection(judicialBodyName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&bodies)
	if err != nil {
		return nil, err
	}
	return bodies, nil
}
