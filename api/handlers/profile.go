package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/config"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/models"
)

// Profile exported for testing purposes
type Profile struct {
	DB databases.ProfileDatabase
}

// ProfileCreateHandler registers a lawyer. New accounts always start in
// pending status and stay locked out of authenticated routes until an admin
// approves them.
func (p Profile) ProfileCreateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var details models.ProfileDetails
	err := json.NewDecoder(r.Body).Decode(&details)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	if details.Email == "" || details.Password == "" || details.Name == "" {
		config.ErrorStatus("name, email and password are required", http.StatusBadRequest, w, fmt.Errorf("missing required fields"))
		return
	}

	// check if the profile already exists
	existing, _ := p.DB.FindOne(context.Background(), bson.M{"profile.email": details.Email})
	if existing != nil {
		config.ErrorStatus("email already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	// hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(details.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}
	details.Password = string(hashedPassword)
	details.Role = models.RoleLawyer
	details.Status = models.ProfileStatusPending
	now := primitive.NewDateTimeFromTime(time.Now())
	details.CreatedAt = now
	details.UpdatedAt = now

	profile := models.Profile{ID: primitive.NewObjectID(), Details: details}
	_, err = p.DB.InsertOne(context.Background(), profile)
	if err != nil {
		config.ErrorStatus("failed to insert profile", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"_id":    profile.ID.Hex(),
		"status": profile.Details.Status,
	})
}

// ProfileCheckEmailHandler checks if an email exists using POST
func (p Profile) ProfileCheckEmailHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	count, err := p.DB.CountDocuments(ctx, bson.M{"profile.email": body.Email})
	if err != nil {
		config.ErrorStatus("failed to check email", http.StatusInternalServerError, w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]bool{"exists": count > 0})
}

// ProfileByIDHandler returns a profile by ID
func (p Profile) ProfileByIDHandler(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profile_id"]

	pID, err := primitive.ObjectIDFromHex(profileID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := p.DB.FindOne(ctx, bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatus("failed to get profile by ID", http.StatusNotFound, w, err)
		return
	}
	dbResp.Details.Password = ""

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateProfileHandler lets a lawyer edit their own contact and practice
// fields. Role and status never move through this path.
func (p Profile) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profile_id"]

	pID, err := primitive.ObjectIDFromHex(profileID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var body struct {
		Name            string   `json:"name"`
		Phone           string   `json:"phone"`
		Specialties     []string `json:"specialties"`
		ExperienceYears int      `json:"experienceYears"`
		Languages       []string `json:"languages"`
		AvatarURL       string   `json:"avatarUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// only the owner may edit their profile
	owner, err := p.DB.FindOne(ctx, bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatus("failed to get profile by ID", http.StatusNotFound, w, err)
		return
	}
	if owner.Details.Email != api.AuthEmailFromContext(r.Context()) {
		config.ErrorStatus("profile does not belong to requester", http.StatusForbidden, w, fmt.Errorf("forbidden"))
		return
	}

	err = p.DB.UpdateOne(ctx, bson.M{"_id": pID}, bson.M{"$set": bson.M{
		"profile.name":            body.Name,
		"profile.phone":           body.Phone,
		"profile.specialties":     body.Specialties,
		"profile.experienceYears": body.ExperienceYears,
		"profile.languages":       body.Languages,
		"profile.avatarUrl":       body.AvatarURL,
		"profile.updatedAt":       primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("failed to update profile", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"updated": profileID})
}
