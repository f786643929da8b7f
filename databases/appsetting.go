package databases

// go generate: mockery --name AppSettingDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbridge/lawbridge-api/models"
)

const appSettingName = "app_settings"

// AppSettingDatabase contains the methods to use with the app settings database
type AppSettingDatabase interface {
	Get(ctx context.Context, key string) (*models.AppSetting, error)
	Upsert(ctx context.Context, key, value, updatedBy string) error
}

type appSettingDatabase struct {
	db DatabaseHelper
}

// NewAppSettingDatabase initializes a new instance of app setting database with the provided db connection
func NewAppSettingDatabase(db DatabaseHelper) AppSettingDatabase {
	return &appSettingDatabase{
		db: db,
	}
}

func (a *appSettingDatabase) Get(ctx context.Context, key string) (*models.AppSetting, error) {
	setting := &models.AppSetting{}
	err := a.db.Collection(appSettingName).FindOne(ctx, bson.M{"_id": key}).Decode(&setting)
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (a *appSettingDatabase) Upsert(ctx context.Context, key, value, updatedBy string) error {
	upsert := true
	_, err := a.db.Collection(appSettingName).UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{
			"value":     value,
			"updatedBy": updatedBy,
			"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		}},
		&options.UpdateOptions{Upsert: &upsert},
	)
	return err
}
