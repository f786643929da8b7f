package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/lawbridge/lawbridge-api/databases/mocks"
	"github.com/lawbridge/lawbridge-api/models"
)

var a App

func executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func TestUnknownRoute(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/asdf", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)

	if !strings.Contains(response.Body.String(), "alive") {
		t.Errorf("Expected 'alive' in the reponse. Got '%s'", response.Body.String())
	}
}

func TestApp_CasesHandlerUnauthorized(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/v1/cases", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_ConversationsHandlerUnauthorized(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/v1/conversations", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_AdminProfilesMissingToken(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/v1/admin/profiles", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_ConversationSocketUnauthorized(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/ws/conversation/abc", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_OnlineUsersSocketUnauthorized(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/ws/online-users", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

// tokenApp builds an app over a profile store holding one active account
// with the given bcrypt password
func tokenApp(t *testing.T, email, password string) *App {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	db := &mocks.DatabaseHelper{}
	profConn := &mocks.CollectionHelper{}
	sr := &mocks.SingleResultHelper{}

	sr.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Profile)
		(*arg).ID = primitive.NewObjectID()
		(*arg).Details.Email = email
		(*arg).Details.Password = string(hash)
		(*arg).Details.Status = models.ProfileStatusActive
	})
	profConn.On("FindOne", mock.Anything, mock.Anything).Return(sr)
	db.On("Collection", "profiles").Return(profConn)

	app := &App{dbHelper: db}
	app.Router = app.New()
	return app
}

func TestApp_CreateTokenWrongPasswordUnauthorized(t *testing.T) {
	app := tokenApp(t, "victim@example.com", "right-password")

	req, _ := http.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth("victim@example.com", "totally-wrong-password")
	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, req)

	checkResponseCode(t, http.StatusUnauthorized, rr.Code)
	if strings.Contains(rr.Body.String(), "token\":") {
		t.Errorf("expected no token in the response. Got '%s'", rr.Body.String())
	}
}

func TestApp_CreateTokenValidCredentials(t *testing.T) {
	app := tokenApp(t, "lawyer@example.com", "right-password")

	req, _ := http.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth("lawyer@example.com", "right-password")
	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, req)

	checkResponseCode(t, http.StatusOK, rr.Code)
	if !strings.Contains(rr.Body.String(), "token") {
		t.Errorf("expected a token in the response. Got '%s'", rr.Body.String())
	}
}
