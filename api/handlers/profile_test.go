package handlers_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lawbridge/lawbridge-api/api/handlers"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/databases/mocks"
)

type MockDatabaseHelper struct {
	mock.Mock
}

// Client provides a mock function.
func (_m *MockDatabaseHelper) Client() databases.ClientHelper {
	ret := _m.Called()

	var r0 databases.ClientHelper
	if rf, ok := ret.Get(0).(func() databases.ClientHelper); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.ClientHelper)
		}
	}

	return r0
}

// Collection provides a mock function.
func (_m *MockDatabaseHelper) Collection(name string) databases.CollectionHelper {
	ret := _m.Called(name)

	var r0 databases.CollectionHelper
	if rf, ok := ret.Get(0).(func(string) databases.CollectionHelper); ok {
		r0 = rf(name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.CollectionHelper)
		}
	}

	return r0
}

func TestProfile_ProfileByIDHandlerInvalidID(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/profile/1234", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"profile_id": "1234"})

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	db.On("Collection", "profiles").Return(conn)

	p := handlers.Profile{DB: databases.NewProfileDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.ProfileByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get objectID from Hex")
}

func TestProfile_ProfileCreateHandlerDuplicateEmail(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Jane Doe", "email": "jane@example.com", "password": "hunter22"}`)
	req, err := http.NewRequest("POST", "/api/v1/profile/create", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	// decoding succeeds, so a profile with this email already exists
	singleResultHelper.On("Decode", mock.Anything).Return(nil)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "profiles").Return(conn)

	p := handlers.Profile{DB: databases.NewProfileDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.ProfileCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "email already exists")
	conn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestProfile_ProfileCreateHandlerMissingFields(t *testing.T) {
	body := bytes.NewBufferString(`{"email": "jane@example.com"}`)
	req, err := http.NewRequest("POST", "/api/v1/profile/create", body)
	if err != nil {
		t.Fatal(err)
	}

	p := handlers.Profile{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.ProfileCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "name, email and password are required")
}

func TestProfile_ProfileCheckEmailHandler(t *testing.T) {
	body := bytes.NewBufferString(`{"email": "jane@example.com"}`)
	req, err := http.NewRequest("POST", "/api/v1/profile/check-email", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)
	db.On("Collection", "profiles").Return(conn)

	p := handlers.Profile{DB: databases.NewProfileDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.ProfileCheckEmailHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"exists":true`)
}

func TestProfile_ProfileCheckEmailHandlerError(t *testing.T) {
	body := bytes.NewBufferString(`{"email": "jane@example.com"}`)
	req, err := http.NewRequest("POST", "/api/v1/profile/check-email", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), errors.New("mocked-error"))
	db.On("Collection", "profiles").Return(conn)

	p := handlers.Profile{DB: databases.NewProfileDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.ProfileCheckEmailHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to check email")
}
