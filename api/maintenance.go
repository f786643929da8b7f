package api

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/models"
)

// MaintenanceDB holds what the maintenance gate needs: the settings row and
// the requester's profile for the role check
type MaintenanceDB struct {
	Settings databases.AppSettingDatabase
	Profiles databases.ProfileDatabase
}

// Gate blocks non-admin traffic while maintenance mode is set. Routes that
// are not wrapped (health, sign-up, token minting, admin login) stay
// reachable regardless of the flag. A missing setting row means maintenance
// mode is off.
func (m MaintenanceDB) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := WithQueryTimeout(r.Context())
		defer cancel()

		setting, err := m.Settings.Get(ctx, models.SettingMaintenanceMode)
		if err != nil || setting.Value != "true" {
			next.ServeHTTP(w, r)
			return
		}

		email := AuthEmailFromContext(r.Context())
		if email != "" {
			profile, err := m.Profiles.FindOne(ctx, bson.M{"profile.email": email})
			if err == nil && profile.Details.Role == models.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
		}

		zap.S().Infow("request blocked by maintenance mode", "url", r.URL, "user", email)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "the service is down for maintenance"}`))
	})
}
