package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Profile roles
const (
	RoleAdmin  = "admin"
	RoleLawyer = "lawyer"
)

// Profile statuses
const (
	ProfileStatusPending  = "pending"
	ProfileStatusActive   = "active"
	ProfileStatusRejected = "rejected"
	ProfileStatusDisabled = "disabled"
)

// Profile holds the structure for the profiles collection in mongo
type Profile struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details ProfileDetails     `json:"profile" bson:"profile"`
}

// ProfileDetails holds the structure for the inner profile structure as defined
// in the profiles collection in mongo
type ProfileDetails struct {
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	Password        string             `json:"password,omitempty" bson:"password"`
	Phone           string             `json:"phone" bson:"phone"`
	Role            string             `json:"role" bson:"role"`
	Status          string             `json:"status" bson:"status"`
	Specialties     []string           `json:"specialties" bson:"specialties"`
	ExperienceYears int                `json:"experienceYears" bson:"experienceYears"`
	Languages       []string           `json:"languages" bson:"languages"`
	AvatarURL       string             `json:"avatarUrl" bson:"avatarUrl"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// ProfileSummary is the slim profile fragment attached to conversation listings
// and live chat events
type ProfileSummary struct {
	UserID    string `json:"userId" bson:"userId"`
	Name      string `json:"name" bson:"name"`
	Role      string `json:"role" bson:"role"`
	AvatarURL string `json:"avatarUrl" bson:"avatarUrl"`
}

// NextProfileStatuses maps a profile status to the statuses an admin may move it to
var NextProfileStatuses = map[string][]string{
	ProfileStatusPending:  {ProfileStatusActive, ProfileStatusRejected},
	ProfileStatusActive:   {ProfileStatusDisabled},
	ProfileStatusDisabled: {ProfileStatusActive},
}

// CanTransitionProfileStatus reports whether an admin may move a profile from one
// status to another
func CanTransitionProfileStatus(from, to string) bool {
	for _, allowed := range NextProfileStatuses[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
