package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Well-known app setting keys
const (
	SettingMaintenanceMode = "maintenance_mode"
	SettingDesignerAvatar  = "designer_avatar_url"
)

// AppSetting holds the structure for the app_settings collection in mongo: a
// process-wide key/value row, read-mostly, upserted by admin actions. The key
// is the document id.
type AppSetting struct {
	Key       string             `json:"key" bson:"_id"`
	Value     string             `json:"value" bson:"value"`
	UpdatedBy string             `json:"updatedBy" bson:"updatedBy"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
