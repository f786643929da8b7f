package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/config"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/models"
	templates "github.com/lawbridge/lawbridge-api/templates/html"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
	Admin struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"admin"`
}

// Admin represents the admin handler
type Admin struct {
	PDB databases.ProfileDatabase
	CDB databases.LegalCaseDatabase
	SDB databases.AppSettingDatabase
}

// AdminLoginHandler handles admin login via email/password and returns a JWT
func (h Admin) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid request"})
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "email and password required"})
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := h.PDB.FindOne(ctx, bson.M{"profile.email": email, "profile.role": models.RoleAdmin})
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Details.Password), []byte(req.Password)); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
		return
	}

	secret := adminSecret()
	if len(secret) == 0 {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "server misconfigured"})
		return
	}

	claims := jwt.MapClaims{
		"sub":   profile.ID.Hex(),
		"email": profile.Details.Email,
		"scope": "admin",
		"typ":   "access",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "token generation failed"})
		return
	}

	var resp adminLoginResponse
	resp.Token = signed
	resp.Admin.ID = profile.ID.Hex()
	resp.Admin.Email = profile.Details.Email
	resp.Admin.Name = profile.Details.Name

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// RequireAdmin guards a route behind a valid admin session token
func (h Admin) RequireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		reqToken := r.Header.Get("Authorization")
		splitToken := strings.Split(reqToken, "Bearer ")
		if len(splitToken) < 2 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "missing bearer token"}`))
			return
		}

		token, err := jwt.Parse(splitToken[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return adminSecret(), nil
		})
		if err != nil || !token.Valid {
			zap.S().Errorw("invalid admin token", "url", r.URL, "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["scope"] != "admin" {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "admin scope required"}`))
			return
		}

		if email, ok := claims["email"].(string); ok {
			r = r.WithContext(api.WithAuthEmail(r.Context(), email))
		}
		next.ServeHTTP(w, r)
	})
}

// AdminProfilesHandler lists profiles for the moderation queue, optionally
// filtered by status
func (h Admin) AdminProfilesHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if v := r.URL.Query().Get("status"); v != "" {
		filter["profile.status"] = v
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := h.PDB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get profiles", http.StatusNotFound, w, err)
		return
	}

	for i := range dbResp {
		dbResp[i].Details.Password = ""
	}
	if len(dbResp) == 0 {
		dbResp = []models.Profile{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AdminCasesHandler lists every case regardless of state
func (h Admin) AdminCasesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := h.CDB.Find(ctx, bson.M{})
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

// UpdateProfileStatusHandler moves a profile through the moderation
// lifecycle. Illegal transitions are rejected; approval and rejection notify
// the applicant by email.
func (h Admin) UpdateProfileStatusHandler(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profile_id"]

	pID, err := primitive.ObjectIDFromHex(profileID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := h.PDB.FindOne(ctx, bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatus("failed to get profile by ID", http.StatusNotFound, w, err)
		return
	}

	if !models.CanTransitionProfileStatus(profile.Details.Status, body.Status) {
		config.ErrorStatus("illegal status transition", http.StatusBadRequest, w,
			fmt.Errorf("cannot move profile from %s to %s", profile.Details.Status, body.Status))
		return
	}

	err = h.PDB.UpdateOne(ctx, bson.M{"_id": pID}, bson.M{"$set": bson.M{
		"profile.status":    body.Status,
		"profile.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("failed to update profile status", http.StatusInternalServerError, w, err)
		return
	}

	switch body.Status {
	case models.ProfileStatusActive:
		go sendStatusEmail(profile.Details.Email, "Your LawBridge profile was approved",
			fmt.Sprintf("Hello %s,\n\nYour lawyer profile has been reviewed and approved. You can now sign in and start taking cases.", profile.Details.Name))
	case models.ProfileStatusRejected:
		go sendStatusEmail(profile.Details.Email, "Your LawBridge profile was not approved",
			fmt.Sprintf("Hello %s,\n\nAfter review we were unable to approve your lawyer profile. Reply to this email if you believe this is a mistake.", profile.Details.Name))
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"id": profileID, "status": body.Status})
}

// GetSettingHandler returns one application setting
func (h Admin) GetSettingHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	setting, err := h.SDB.Get(ctx, key)
	if err != nil {
		config.ErrorStatus("failed to get setting", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(setting)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpsertSettingHandler creates or updates one application setting, e.g.
// flipping maintenance mode
func (h Admin) UpsertSettingHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	updatedBy := api.AuthEmailFromContext(r.Context())
	if err := h.SDB.Upsert(ctx, key, body.Value, updatedBy); err != nil {
		config.ErrorStatus("failed to upsert setting", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"key": key, "value": body.Value})
}

// sendStatusEmail notifies an applicant about a moderation decision
func sendStatusEmail(toEmail, subject, body string) {
	from := mail.NewEmail("LawBridge", "no-reply@lawbridge.app")
	to := mail.NewEmail("", toEmail)
	html := templates.RenderGenericEmail(subject, body)
	msg := mail.NewSingleEmail(from, subject, to, body, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	resp, err := client.Send(msg)
	if err != nil {
		zap.S().Errorw("failed to send status email", "to", toEmail, "error", err)
		return
	}
	zap.S().Infow("sent status email", "to", toEmail, "statusCode", resp.StatusCode)
}
