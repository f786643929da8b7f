package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/config"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/models"
)

// LegalCase exported for testing purposes
type LegalCase struct {
	DB  databases.LegalCaseDatabase
	PDB databases.ProfileDatabase
}

// requesterProfile resolves the authenticated principal's profile row
func requesterProfile(ctx context.Context, r *http.Request, pdb databases.ProfileDatabase) (*models.Profile, error) {
	email := api.AuthEmailFromContext(r.Context())
	if email == "" {
		return nil, fmt.Errorf("no authenticated user on request")
	}
	return pdb.FindOne(ctx, bson.M{"profile.email": email})
}

// CreateLegalCaseHandler posts a new representation or information request
func (lc LegalCase) CreateLegalCaseHandler(w http.ResponseWriter, r *http.Request) {
	var details models.LegalCaseDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := details.Validate(); err != nil {
		config.ErrorStatus("invalid case", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	creator, err := requesterProfile(ctx, r, lc.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	details.Status = models.CaseStatusOpen
	details.CreatorID = creator.ID.Hex()
	details.LawyerID = ""
	details.CreatedAt = now
	details.UpdatedAt = now

	legalCase := models.LegalCase{ID: primitive.NewObjectID(), Details: details}
	_, err = lc.DB.InsertOne(ctx, legalCase)
	if err != nil {
		config.ErrorStatus("failed to create case", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"id":     legalCase.ID.Hex(),
		"status": legalCase.Details.Status,
	})
}

// LegalCasesHandler lists cases with optional status, request type, judicial
// body and creator filters
func (lc LegalCase) LegalCasesHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		zap.S().Debugf("limit not set, using default of 25, err: %v", err)
		limit = 25
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	filter := bson.M{}
	if v := r.URL.Query().Get("status"); v != "" {
		filter["case.status"] = v
	}
	if v := r.URL.Query().Get("requestType"); v != "" {
		filter["case.requestType"] = v
	}
	if v := r.URL.Query().Get("courtId"); v != "" {
		filter["case.courtId"] = v
	}
	if v := r.URL.Query().Get("councilId"); v != "" {
		filter["case.councilId"] = v
	}
	if v := r.URL.Query().Get("creatorId"); v != "" {
		filter["case.creatorId"] = v
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := lc.DB.FindPaginated(ctx, filter, limit, page)
	if err != nil {
		config.ErrorStatus("failed to get cases", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.LegalCase{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LegalCaseByIDHandler returns a case by ID
func (lc LegalCase) LegalCaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := lc.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AcceptLegalCaseHandler lets an eligible lawyer take an open case. The
// update is conditional on the case still being open, so when two lawyers
// accept near-simultaneously the first write wins and the second receives a
// conflict.
func (lc LegalCase) AcceptLegalCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lawyer, err := requesterProfile(ctx, r, lc.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}
	if lawyer.Details.Status != models.ProfileStatusActive {
		config.ErrorStatus("only active lawyers may accept cases", http.StatusForbidden, w, fmt.Errorf("profile is %s", lawyer.Details.Status))
		return
	}

	existing, err := lc.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}
	if existing.Details.CreatorID == lawyer.ID.Hex() {
		config.ErrorStatus("creator cannot accept their own case", http.StatusForbidden, w, fmt.Errorf("requester created this case"))
		return
	}

	res, err := lc.DB.UpdateOne(ctx,
		bson.M{"_id": cID, "case.status": models.CaseStatusOpen},
		bson.M{"$set": bson.M{
			"case.status":    models.CaseStatusAssigned,
			"case.lawyerId":  lawyer.ID.Hex(),
			"case.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		}},
	)
	if err != nil {
		config.ErrorStatus("failed to accept case", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("case is no longer open", http.StatusConflict, w, fmt.Errorf("case already accepted or closed"))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"id":       caseID,
		"status":   models.CaseStatusAssigned,
		"lawyerId": lawyer.ID.Hex(),
	})
}

// CompleteLegalCaseHandler closes an assigned case. Only the assignee or an
// admin may complete.
func (lc LegalCase) CompleteLegalCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	requester, err := requesterProfile(ctx, r, lc.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}

	existing, err := lc.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}
	if requester.Details.Role != models.RoleAdmin && existing.Details.LawyerID != requester.ID.Hex() {
		config.ErrorStatus("only the assigned lawyer or an admin may complete a case", http.StatusForbidden, w, fmt.Errorf("forbidden"))
		return
	}

	res, err := lc.DB.UpdateOne(ctx,
		bson.M{"_id": cID, "case.status": models.CaseStatusAssigned},
		bson.M{"$set": bson.M{
			"case.status":    models.CaseStatusCompleted,
			"case.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		}},
	)
	if err != nil {
		config.ErrorStatus("failed to complete case", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("case is not assigned", http.StatusConflict, w, fmt.Errorf("case must be assigned before completion"))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"id": caseID, "status": models.CaseStatusCompleted})
}

// UpdateLegalCaseHandler edits a case. The owner may edit while the case is
// still open; an admin may force-edit any field at any state.
func (lc LegalCase) UpdateLegalCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var details models.LegalCaseDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	requester, err := requesterProfile(ctx, r, lc.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}

	existing, err := lc.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}

	isAdmin := requester.Details.Role == models.RoleAdmin
	isOwner := existing.Details.CreatorID == requester.ID.Hex()
	if !isAdmin && !(isOwner && existing.Details.Status == models.CaseStatusOpen) {
		config.ErrorStatus("only the owner of an open case or an admin may edit", http.StatusForbidden, w, fmt.Errorf("forbidden"))
		return
	}

	set := bson.M{
		"case.title":       details.Title,
		"case.caseNumber":  details.CaseNumber,
		"case.description": details.Description,
		"case.courtId":     details.CourtID,
		"case.councilId":   details.CouncilID,
		"case.sessionDate": details.SessionDate,
		"case.updatedAt":   primitive.NewDateTimeFromTime(time.Now()),
	}
	if isAdmin {
		// admins may force status and assignee
		if details.Status != "" {
			set["case.status"] = details.Status
		}
		set["case.lawyerId"] = details.LawyerID
	}

	// validate the judicial body invariant against the edited shape
	merged := existing.Details
	merged.Title = details.Title
	merged.CourtID = details.CourtID
	merged.CouncilID = details.CouncilID
	if err := merged.Validate(); err != nil {
		config.ErrorStatus("invalid case", http.StatusBadRequest, w, err)
		return
	}

	if _, err = lc.DB.UpdateOne(ctx, bson.M{"_id": cID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update case", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"updated": caseID})
}

// DeleteLegalCaseHandler removes a case; the owner or an admin may delete at
// any state
func (lc LegalCase) DeleteLegalCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	requester, err := requesterProfile(ctx, r, lc.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}

	existing, err := lc.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}
	if requester.Details.Role != models.RoleAdmin && existing.Details.CreatorID != requester.ID.Hex() {
		config.ErrorStatus("only the owner or an admin may delete a case", http.StatusForbidden, w, fmt.Errorf("forbidden"))
		return
	}

	if err := lc.DB.DeleteOne(ctx, bson.M{"_id": cID}); err != nil {
		config.ErrorStatus("failed to delete case", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"deleted": caseID})
}
