package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/config"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/models"
)

// Reply exported for testing purposes
type Reply struct {
	DB  databases.ReplyDatabase
	CDB databases.LegalCaseDatabase
	PDB databases.ProfileDatabase
}

// CreateReplyHandler posts a comment under a case
func (rp Reply) CreateReplyHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		config.ErrorStatus("reply content must not be empty", http.StatusBadRequest, w, fmt.Errorf("blank content"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := rp.CDB.FindOne(ctx, bson.M{"_id": cID}); err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}

	author, err := requesterProfile(ctx, r, rp.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}

	reply := models.Reply{
		ID: primitive.NewObjectID(),
		Details: models.ReplyDetails{
			CaseID:     caseID,
			AuthorID:   author.ID.Hex(),
			AuthorName: author.Details.Name,
			Content:    body.Content,
			CreatedAt:  primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	if _, err := rp.DB.InsertOne(ctx, reply); err != nil {
		config.ErrorStatus("failed to create reply", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": reply.ID.Hex()})
}

// RepliesByCaseIDHandler lists a case's replies oldest first
func (rp Reply) RepliesByCaseIDHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.M{"reply.createdAt": 1})
	dbResp, err := rp.DB.Find(ctx, bson.M{"reply.caseId": caseID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get replies", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Reply{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteReplyHandler removes a reply; the author or an admin may delete
func (rp Reply) DeleteReplyHandler(w http.ResponseWriter, r *http.Request) {
	replyID := mux.Vars(r)["reply_id"]

	rID, err := primitive.ObjectIDFromHex(replyID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	requester, err := requesterProfile(ctx, r, rp.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}

	existing, err := rp.DB.FindOne(ctx, bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to get reply by ID", http.StatusNotFound, w, err)
		return
	}
	if requester.Details.Role != models.RoleAdmin && existing.Details.AuthorID != requester.ID.Hex() {
		config.ErrorStatus("only the author or an admin may delete a reply", http.StatusForbidden, w, fmt.Errorf("forbidden"))
		return
	}

	if err := rp.DB.DeleteOne(ctx, bson.M{"_id": rID}); err != nil {
		config.ErrorStatus("failed to delete reply", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"deleted": replyID})
}
