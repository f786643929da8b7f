package databases

// go generate: mockery --name ProfileDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbridge/lawbridge-api/models"
)

const profileName = "profiles"

// ProfileDatabase contains the methods to use with the profile database
type ProfileDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Profile, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Profile, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type profileDatabase struct {
	db DatabaseHelper
}

// NewProfileDatabase initializes a new instance of profile database with the provided db connection
func NewProfileDatabase(db DatabaseHelper) ProfileDatabase {
	return &profileDatabase{
		db: db,
	}
}

func (p *profileDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Profile, error) {
	profile := &models.Profile{}
	err := p.db.Collection(profileName).FindOne(ctx, filter, opts...).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (p *profileDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Profile, error) {
	var profiles []models.Profile
	cr, err := p.db.Collection(profileName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&profiles)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (p *profileDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return p.db.Collection(profileName).InsertOne(ctx, document, opts...)
}

func (p *profileDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := p.db.Collection(profileName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (p *profileDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return p.db.Collection(profileName).CountDocuments(ctx, filter, opts...)
}
