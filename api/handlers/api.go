package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lawbridge/lawbridge-api/ai"
	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/api/scheduler"
	"github.com/lawbridge/lawbridge-api/config"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/models"
	"github.com/lawbridge/lawbridge-api/ratelimit"
	"github.com/lawbridge/lawbridge-api/realtime"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Hub       *realtime.Hub
	Scheduler *scheduler.Scheduler
	Limiter   *ratelimit.FixedWindowLimiter
	Generator ai.TextGenerator
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewProfileDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	maint := api.MaintenanceDB{
		Settings: databases.NewAppSettingDatabase(a.dbHelper),
		Profiles: databases.NewProfileDatabase(a.dbHelper),
	}

	if a.Hub == nil {
		a.Hub = realtime.NewHub()
	}

	r := mux.NewRouter()

	p := Profile{DB: databases.NewProfileDatabase(a.dbHelper)}
	lc := LegalCase{DB: databases.NewLegalCaseDatabase(a.dbHelper), PDB: databases.NewProfileDatabase(a.dbHelper)}
	rep := Reply{DB: databases.NewReplyDatabase(a.dbHelper), CDB: databases.NewLegalCaseDatabase(a.dbHelper), PDB: databases.NewProfileDatabase(a.dbHelper)}
	jb := JudicialBody{DB: databases.NewJudicialBodyDatabase(a.dbHelper)}
	conv := Conversation{
		DB:     databases.NewConversationDatabase(a.dbHelper),
		PartDB: databases.NewParticipantDatabase(a.dbHelper),
		PDB:    databases.NewProfileDatabase(a.dbHelper),
	}
	chat := Chat{
		MDB:    databases.NewMessageDatabase(a.dbHelper),
		PartDB: databases.NewParticipantDatabase(a.dbHelper),
		PDB:    databases.NewProfileDatabase(a.dbHelper),
		Hub:    a.Hub,
	}
	presence := Presence{Hub: a.Hub}
	admin := Admin{
		PDB: databases.NewProfileDatabase(a.dbHelper),
		CDB: databases.NewLegalCaseDatabase(a.dbHelper),
		SDB: databases.NewAppSettingDatabase(a.dbHelper),
	}
	assistant := Assistant{Limiter: a.Limiter, Generator: a.Generator}
	avatarHandler := AvatarHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	// gated wraps a protected route: authenticate, then apply the
	// maintenance-mode gate
	gated := func(h http.HandlerFunc) http.Handler {
		return api.Middleware(maint.Gate(h))
	}

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/profile/create", http.HandlerFunc(p.ProfileCreateHandler)).Methods("POST")
	apiCreate.Handle("/profile/check-email", http.HandlerFunc(p.ProfileCheckEmailHandler)).Methods("POST")
	apiCreate.Handle("/profile/{profile_id}", gated(p.ProfileByIDHandler)).Methods("GET")
	apiCreate.Handle("/profile/{profile_id}", gated(p.UpdateProfileHandler)).Methods("PUT")

	apiCreate.Handle("/judicial-bodies", gated(jb.JudicialBodiesHandler)).Methods("GET")
	apiCreate.Handle("/judicial-body/{body_id}", gated(jb.JudicialBodyByIDHandler)).Methods("GET")

	apiCreate.Handle("/case", gated(lc.CreateLegalCaseHandler)).Methods("POST")
	apiCreate.Handle("/cases", gated(lc.LegalCasesHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}", gated(lc.LegalCaseByIDHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}", gated(lc.UpdateLegalCaseHandler)).Methods("PUT")
	apiCreate.Handle("/case/{case_id}", gated(lc.DeleteLegalCaseHandler)).Methods("DELETE")
	apiCreate.Handle("/case/{case_id}/accept", gated(lc.AcceptLegalCaseHandler)).Methods("POST")
	apiCreate.Handle("/case/{case_id}/complete", gated(lc.CompleteLegalCaseHandler)).Methods("POST")

	apiCreate.Handle("/case/{case_id}/replies", gated(rep.RepliesByCaseIDHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}/replies", gated(rep.CreateReplyHandler)).Methods("POST")
	apiCreate.Handle("/reply/{reply_id}", gated(rep.DeleteReplyHandler)).Methods("DELETE")

	apiCreate.Handle("/conversations", gated(conv.CreateConversationHandler)).Methods("POST")
	apiCreate.Handle("/conversations", gated(conv.ConversationsHandler)).Methods("GET")
	apiCreate.Handle("/conversation/{conversation_id}/messages", gated(chat.MessagesByConversationIDHandler)).Methods("GET")
	apiCreate.Handle("/conversation/{conversation_id}/messages", gated(chat.SendMessageHandler)).Methods("POST")

	apiCreate.Handle("/online-users", gated(presence.OnlineUsersHandler)).Methods("GET")

	apiCreate.Handle("/assistant/chat", gated(assistant.AssistantChatHandler)).Methods("POST")

	apiCreate.Handle("/generate-signature", gated(avatarHandler.GenerateSignature)).Methods("POST")

	apiCreate.Handle("/admin/login", http.HandlerFunc(admin.AdminLoginHandler)).Methods("POST")
	apiCreate.Handle("/admin/profiles", admin.RequireAdmin(admin.AdminProfilesHandler)).Methods("GET")
	apiCreate.Handle("/admin/profiles/{profile_id}/status", admin.RequireAdmin(admin.UpdateProfileStatusHandler)).Methods("PUT")
	apiCreate.Handle("/admin/cases", admin.RequireAdmin(admin.AdminCasesHandler)).Methods("GET")
	apiCreate.Handle("/admin/settings/{key}", admin.RequireAdmin(admin.GetSettingHandler)).Methods("GET")
	apiCreate.Handle("/admin/settings/{key}", admin.RequireAdmin(admin.UpsertSettingHandler)).Methods("PUT")

	// browsers cannot set an Authorization header on a websocket dial, so
	// the socket middleware accepts the bearer token as a query param
	r.Handle("/ws/online-users", api.SocketMiddleware(http.HandlerFunc(presence.OnlineUsersSocketHandler)))
	r.Handle("/ws/conversation/{conversation_id}", api.SocketMiddleware(http.HandlerFunc(chat.StreamHandler)))

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("lawbridge-api has connected to the database")

	a.Hub = realtime.NewHub()

	if a.Config.RedisAddr != "" {
		limiter, err := ratelimit.NewFixedWindowLimiter(
			redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr, Password: a.Config.RedisPassword}),
			"lawbridge:ratelimit", 20, time.Minute,
		)
		if err != nil {
			zap.S().With(err).Error("failed to create rate limiter")
			return err
		}
		a.Limiter = limiter
	}

	a.Generator = ai.NewGeneratorFromEnv()

	a.Scheduler = scheduler.NewScheduler(
		databases.NewLegalCaseDatabase(a.dbHelper),
		databases.NewProfileDatabase(a.dbHelper),
		databases.NewSchedulerLockDatabase(a.dbHelper),
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

// adminSecret returns the HMAC key used to sign admin session tokens
func adminSecret() []byte {
	return []byte(os.Getenv("SECRET_KEY"))
}
