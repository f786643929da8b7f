package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/config"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/models"
)

// JudicialBody exported for testing purposes
type JudicialBody struct {
	DB databases.JudicialBodyDatabase
}

// JudicialBodiesHandler lists courts and councils, optionally filtered by
// kind or city
func (j JudicialBody) JudicialBodiesHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if v := r.URL.Query().Get("kind"); v != "" {
		filter["body.kind"] = v
	}
	if v := r.URL.Query().Get("city"); v != "" {
		filter["body.city"] = v
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := j.DB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get judicial bodies", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.JudicialBody{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// JudicialBodyByIDHandler returns a court or council by ID
func (j JudicialBody) JudicialBodyByIDHandler(w http.ResponseWriter, r *http.Request) {
	bodyID := mux.Vars(r)["body_id"]

	bID, err := primitive.ObjectIDFromHex(bodyID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := j.DB.FindOne(ctx, bson.M{"_id": bID})
	if err != nil {
		config.ErrorStatus("failed to get judicial body by ID", http.StatusNotFound, w, err)
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
