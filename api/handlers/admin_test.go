package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/lawbridge/lawbridge-api/api/handlers"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/databases/mocks"
	"github.com/lawbridge/lawbridge-api/models"
)

func TestAdmin_AdminLoginHandlerWrongPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}

	body := bytes.NewBufferString(`{"email": "admin@example.com", "password": "wrong-password"}`)
	req, err := http.NewRequest("POST", "/api/v1/admin/login", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Profile)
		(*arg).ID = primitive.NewObjectID()
		(*arg).Details.Email = "admin@example.com"
		(*arg).Details.Password = string(hashed)
		(*arg).Details.Role = models.RoleAdmin
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "profiles").Return(conn)

	h := handlers.Admin{PDB: databases.NewProfileDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid credentials")
}

func TestAdmin_AdminLoginHandlerMissingFields(t *testing.T) {
	body := bytes.NewBufferString(`{"email": "admin@example.com"}`)
	req, err := http.NewRequest("POST", "/api/v1/admin/login", body)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Admin{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "email and password required")
}

func TestAdmin_UpdateProfileStatusHandlerIllegalTransition(t *testing.T) {
	profileID := primitive.NewObjectID()

	body := bytes.NewBufferString(`{"status": "pending"}`)
	req, err := http.NewRequest("PUT", "/api/v1/admin/profiles/"+profileID.Hex()+"/status", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"profile_id": profileID.Hex()})

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Profile)
		(*arg).ID = profileID
		(*arg).Details.Status = models.ProfileStatusActive
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "profiles").Return(conn)

	h := handlers.Admin{PDB: databases.NewProfileDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.UpdateProfileStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "illegal status transition")
	conn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmin_UpdateProfileStatusHandlerInvalidID(t *testing.T) {
	body := bytes.NewBufferString(`{"status": "active"}`)
	req, err := http.NewRequest("PUT", "/api/v1/admin/profiles/1234/status", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"profile_id": "1234"})

	h := handlers.Admin{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.UpdateProfileStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get objectID from Hex")
}

func TestAdmin_RequireAdminRejectsGarbageToken(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/admin/profiles", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	h := handlers.Admin{}
	called := false
	guarded := h.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { called = true })

	rr := httptest.NewRecorder()
	guarded.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, called)
}
