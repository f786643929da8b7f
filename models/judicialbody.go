package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Judicial body kinds
const (
	JudicialBodyCourt   = "court"
	JudicialBodyCouncil = "council"
)

// JudicialBody holds the structure for the judicial_bodies collection in
// mongo: the courts and councils a case may be filed against. The collection
// is seeded out of band and read-only through the API.
type JudicialBody struct {
	ID      primitive.ObjectID  `json:"_id" bson:"_id"`
	Details JudicialBodyDetails `json:"body" bson:"body"`
}

// JudicialBodyDetails holds the inner judicial body structure
type JudicialBodyDetails struct {
	Name string `json:"name" bson:"name"`
	Kind string `json:"kind" bson:"kind"`
	City string `json:"city" bson:"city"`
}
