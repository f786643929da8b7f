package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lawbridge/lawbridge-api/models"
)

func testParticipants() map[string]models.ProfileSummary {
	return map[string]models.ProfileSummary{
		"user-a": {UserID: "user-a", Name: "Amira Haddad", Role: models.RoleLawyer},
		"user-b": {UserID: "user-b", Name: "Bassem Odeh", Role: models.RoleLawyer},
	}
}

func testMessage(sender, content string, at time.Time) models.Message {
	return models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: "conv-1",
		SenderID:       sender,
		Content:        content,
		CreatedAt:      primitive.NewDateTimeFromTime(at),
	}
}

func TestConversationStream_SeedThenLiveInsertKeepsOrder(t *testing.T) {
	s := NewConversationStream("conv-1", testParticipants())
	assert.False(t, s.Ready())

	base := time.Now().Add(-time.Hour)
	history := []models.Message{
		testMessage("user-a", "first", base),
		testMessage("user-b", "second", base.Add(time.Minute)),
		testMessage("user-a", "third", base.Add(2*time.Minute)),
	}
	seeded := s.Seed(history)
	assert.True(t, s.Ready())
	assert.Len(t, seeded, 3)

	live := testMessage("user-b", "fourth", base.Add(3*time.Minute))
	rendered, ok := s.Apply(live)
	assert.True(t, ok)
	assert.Equal(t, "fourth", rendered.Content)
	assert.Equal(t, "Bassem Odeh", rendered.Sender.Name)

	all := s.Rendered()
	assert.Len(t, all, 4)
	for i, want := range []string{"first", "second", "third", "fourth"} {
		assert.Equal(t, want, all[i].Content)
	}
}

func TestConversationStream_UnknownSenderIsDropped(t *testing.T) {
	s := NewConversationStream("conv-1", testParticipants())
	s.Seed(nil)

	_, ok := s.Apply(testMessage("intruder", "hello?", time.Now()))
	assert.False(t, ok)
	assert.Empty(t, s.Rendered())
}

func TestConversationStream_LiveEventsRenderInArrivalOrder(t *testing.T) {
	s := NewConversationStream("conv-1", testParticipants())
	s.Seed(nil)

	now := time.Now()
	// the second event carries an earlier timestamp; arrival order still wins
	s.Apply(testMessage("user-a", "arrived first", now))
	s.Apply(testMessage("user-b", "arrived second", now.Add(-time.Minute)))

	all := s.Rendered()
	assert.Len(t, all, 2)
	assert.Equal(t, "arrived first", all[0].Content)
	assert.Equal(t, "arrived second", all[1].Content)
}

func TestConversationStream_NilLookupDropsEverything(t *testing.T) {
	s := NewConversationStream("conv-1", nil)
	s.Seed([]models.Message{testMessage("user-a", "hi", time.Now())})

	assert.Empty(t, s.Rendered())
}
