package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Legal case request types
const (
	RequestTypeRepresentation = "representation"
	RequestTypeInformation    = "information"
)

// Legal case statuses
const (
	CaseStatusOpen      = "open"
	CaseStatusAssigned  = "assigned"
	CaseStatusCompleted = "completed"
)

// LegalCase holds the structure for the legal_cases collection in mongo.
// It models both representation and information requests with a single
// status enum.
type LegalCase struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details LegalCaseDetails   `json:"case" bson:"case"`
}

// LegalCaseDetails holds the structure for the inner case structure as defined
// in the legal_cases collection in mongo
type LegalCaseDetails struct {
	Title       string             `json:"title" bson:"title"`
	CaseNumber  string             `json:"caseNumber" bson:"caseNumber"`
	RequestType string             `json:"requestType" bson:"requestType"`
	CourtID     string             `json:"courtId" bson:"courtId"`
	CouncilID   string             `json:"councilId" bson:"councilId"`
	Status      string             `json:"status" bson:"status"`
	Description string             `json:"description" bson:"description"`
	CreatorID   string             `json:"creatorId" bson:"creatorId"`
	LawyerID    string             `json:"lawyerId" bson:"lawyerId"`
	SessionDate primitive.DateTime `json:"sessionDate" bson:"sessionDate"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Validate enforces the judicial body invariant: exactly one of courtId and
// councilId is set, except that an information request may name neither.
func (d LegalCaseDetails) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	switch d.RequestType {
	case RequestTypeRepresentation, RequestTypeInformation:
	default:
		return fmt.Errorf("unknown request type %q", d.RequestType)
	}
	if d.CourtID != "" && d.CouncilID != "" {
		return fmt.Errorf("a case may reference a court or a council, not both")
	}
	if d.CourtID == "" && d.CouncilID == "" && d.RequestType != RequestTypeInformation {
		return fmt.Errorf("a representation request must reference a court or a council")
	}
	return nil
}
