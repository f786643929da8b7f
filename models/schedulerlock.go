package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SchedulerLock holds the structure for the scheduler_locks collection in
// mongo, used so cron jobs run on a single instance at a time
type SchedulerLock struct {
	Name      string             `json:"name" bson:"_id"`
	Owner     string             `json:"owner" bson:"owner"`
	ExpiresAt primitive.DateTime `json:"expiresAt" bson:"expiresAt"`
}
