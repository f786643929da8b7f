package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/databases/mocks"
	"github.com/lawbridge/lawbridge-api/models"
)

func maintenanceGate(t *testing.T, settingValue string, settingErr error, profileRole string) (http.Handler, *bool) {
	t.Helper()

	db := &mocks.DatabaseHelper{}
	settingConn := &mocks.CollectionHelper{}
	settingSR := &mocks.SingleResultHelper{}
	profConn := &mocks.CollectionHelper{}
	profSR := &mocks.SingleResultHelper{}

	if settingErr != nil {
		settingSR.On("Decode", mock.Anything).Return(settingErr)
	} else {
		settingSR.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			arg := args.Get(0).(**models.AppSetting)
			(*arg).Key = models.SettingMaintenanceMode
			(*arg).Value = settingValue
		})
	}
	settingConn.On("FindOne", mock.Anything, mock.Anything).Return(settingSR)
	db.On("Collection", "app_settings").Return(settingConn)

	profSR.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Profile)
		(*arg).Details.Email = "someone@example.com"
		(*arg).Details.Role = profileRole
	})
	profConn.On("FindOne", mock.Anything, mock.Anything).Return(profSR)
	db.On("Collection", "profiles").Return(profConn)

	m := api.MaintenanceDB{
		Settings: databases.NewAppSettingDatabase(db),
		Profiles: databases.NewProfileDatabase(db),
	}

	reached := false
	gate := m.Gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))
	return gate, &reached
}

func TestGatePassesWhenSettingMissing(t *testing.T) {
	gate, reached := maintenanceGate(t, "", errors.New("mongo: no documents in result"), "")

	req := httptest.NewRequest("GET", "/api/v1/cases", nil)
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	assert.True(t, *reached)
}

func TestGatePassesWhenSettingOff(t *testing.T) {
	gate, reached := maintenanceGate(t, "false", nil, "")

	req := httptest.NewRequest("GET", "/api/v1/cases", nil)
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	assert.True(t, *reached)
}

func TestGateBlocksNonAdmin(t *testing.T) {
	gate, reached := maintenanceGate(t, "true", nil, models.RoleLawyer)

	req := httptest.NewRequest("GET", "/api/v1/cases", nil)
	req = req.WithContext(api.WithAuthEmail(req.Context(), "someone@example.com"))
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	assert.False(t, *reached)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "the service is down for maintenance")
}

func TestGateLetsAdminsThrough(t *testing.T) {
	gate, reached := maintenanceGate(t, "true", nil, models.RoleAdmin)

	req := httptest.NewRequest("GET", "/api/v1/cases", nil)
	req = req.WithContext(api.WithAuthEmail(req.Context(), "someone@example.com"))
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	assert.True(t, *reached)
}

func TestGateBlocksAnonymousDuringMaintenance(t *testing.T) {
	gate, reached := maintenanceGate(t, "true", nil, models.RoleLawyer)

	req := httptest.NewRequest("GET", "/api/v1/cases", nil)
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	assert.False(t, *reached)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
