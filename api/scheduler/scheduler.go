package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/models"
	templates "github.com/lawbridge/lawbridge-api/templates/html"
)

// Scheduler handles periodic background jobs for the case lifecycle
type Scheduler struct {
	cron       *cron.Cron
	CDB        databases.LegalCaseDatabase
	PDB        databases.ProfileDatabase
	LockDB     databases.SchedulerLockDatabase
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	cDB databases.LegalCaseDatabase,
	pDB databases.ProfileDatabase,
	lockDB databases.SchedulerLockDatabase,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		CDB:        cDB,
		PDB:        pDB,
		LockDB:     lockDB,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Close out assigned cases whose session date has passed, daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.completeStaleCases)
	if err != nil {
		zap.S().Errorw("failed to register stale case job", "error", err)
	}

	// Remind lawyers about sessions happening in the next 24 hours, daily at 7 AM UTC
	_, err = s.cron.AddFunc("0 7 * * *", s.sendSessionReminders)
	if err != nil {
		zap.S().Errorw("failed to register session reminder job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Case lifecycle scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Case lifecycle scheduler stopped")
}

// completeStaleCases moves assigned cases whose session date is in the past
// to completed
func (s *Scheduler) completeStaleCases() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, "stale_case_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for stale case job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Stale case job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "stale_case_job", s.instanceID)

	now := time.Now()
	zap.S().Infow("Running stale case job", "instance", s.instanceID)

	staleFilter := bson.M{
		"case.status":      models.CaseStatusAssigned,
		"case.sessionDate": bson.M{"$lt": primitive.NewDateTimeFromTime(now)},
	}
	staleCases, err := s.CDB.Find(ctx, staleFilter)
	if err != nil {
		zap.S().Errorw("failed to find stale cases", "error", err)
		return
	}

	completed := 0
	for _, c := range staleCases {
		_, err := s.CDB.UpdateOne(ctx,
			bson.M{"_id": c.ID, "case.status": models.CaseStatusAssigned},
			bson.M{"$set": bson.M{
				"case.status":    models.CaseStatusCompleted,
				"case.updatedAt": primitive.NewDateTimeFromTime(now),
			}},
		)
		if err != nil {
			zap.S().Errorw("failed to complete stale case", "caseId", c.ID.Hex(), "error", err)
			continue
		}
		completed++
	}

	zap.S().Infow("Stale case job complete", "found", len(staleCases), "completed", completed)
}

// sendSessionReminders emails the assigned lawyer for every session happening
// within the next 24 hours
func (s *Scheduler) sendSessionReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "session_reminder_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for session reminder job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Session reminder job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "session_reminder_job", s.instanceID)

	now := time.Now()
	oneDayFromNow := now.Add(24 * time.Hour)

	zap.S().Infow("Running session reminder job", "instance", s.instanceID)

	reminderFilter := bson.M{
		"case.status": models.CaseStatusAssigned,
		"case.sessionDate": bson.M{
			"$gt": primitive.NewDateTimeFromTime(now),
			"$lt": primitive.NewDateTimeFromTime(oneDayFromNow),
		},
	}
	upcoming, err := s.CDB.Find(ctx, reminderFilter)
	if err != nil {
		zap.S().Errorw("failed to find upcoming sessions", "error", err)
		return
	}

	sent := 0
	for _, c := range upcoming {
		if s.remindLawyer(ctx, c) {
			sent++
		}
	}

	zap.S().Infow("Session reminder job complete", "found", len(upcoming), "sent", sent)
}

func (s *Scheduler) remindLawyer(ctx context.Context, c models.LegalCase) bool {
	if c.Details.LawyerID == "" {
		return false
	}
	pID, err := primitive.ObjectIDFromHex(c.Details.LawyerID)
	if err != nil {
		zap.S().Warnw("skipping reminder for malformed lawyer id", "caseId", c.ID.Hex(), "lawyerId", c.Details.LawyerID)
		return false
	}
	lawyer, err := s.PDB.FindOne(ctx, bson.M{"_id": pID})
	if err != nil {
		zap.S().Warnw("skipping reminder, lawyer profile not found", "caseId", c.ID.Hex(), "lawyerId", c.Details.LawyerID)
		return false
	}

	sessionDate := c.Details.SessionDate.Time().Format("Monday, 2 January 2006 at 15:04 MST")
	subject := "Upcoming court session"
	plain := fmt.Sprintf("Hello %s,\n\nThis is a reminder that the session for the case %q is scheduled for %s.",
		lawyer.Details.Name, c.Details.Title, sessionDate)
	html := templates.RenderSessionReminder(lawyer.Details.Name, c.Details.Title, sessionDate)

	from := mail.NewEmail("LawBridge", "no-reply@lawbridge.app")
	to := mail.NewEmail(lawyer.Details.Name, lawyer.Details.Email)
	msg := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	resp, err := client.Send(msg)
	if err != nil {
		zap.S().Errorw("failed to send session reminder", "caseId", c.ID.Hex(), "to", lawyer.Details.Email, "error", err)
		return false
	}
	zap.S().Infow("sent session reminder", "caseId", c.ID.Hex(), "to", lawyer.Details.Email, "statusCode", resp.StatusCode)
	return true
}
