package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/api/handlers"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/databases/mocks"
	"github.com/lawbridge/lawbridge-api/models"
)

func TestConversation_ConversationsHandlerNoConversations(t *testing.T) {
	userID := primitive.NewObjectID()

	req, err := http.NewRequest("GET", "/api/v1/conversations", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = req.WithContext(api.WithAuthEmail(req.Context(), "lawyer@example.com"))

	db := &MockDatabaseHelper{}
	profConn := &mocks.CollectionHelper{}
	partConn := &mocks.CollectionHelper{}
	profSR := &mocks.SingleResultHelper{}
	partCursor := &mocks.CursorHelper{}

	profSR.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Profile)
		(*arg).ID = userID
		(*arg).Details.Email = "lawyer@example.com"
	})
	profConn.On("FindOne", mock.Anything, mock.Anything).Return(profSR)
	db.On("Collection", "profiles").Return(profConn)

	partCursor.On("Decode", mock.Anything).Return(nil)
	partConn.On("Find", mock.Anything, mock.Anything).Return(partCursor, nil)
	db.On("Collection", "participants").Return(partConn)

	conv := handlers.Conversation{
		DB:     databases.NewConversationDatabase(db),
		PartDB: databases.NewParticipantDatabase(db),
		PDB:    databases.NewProfileDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(conv.ConversationsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
	partConn.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything)
}

func TestConversation_ConversationsHandlerResolvesPartners(t *testing.T) {
	userID := primitive.NewObjectID()

	req, err := http.NewRequest("GET", "/api/v1/conversations", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = req.WithContext(api.WithAuthEmail(req.Context(), "lawyer@example.com"))

	db := &MockDatabaseHelper{}
	profConn := &mocks.CollectionHelper{}
	partConn := &mocks.CollectionHelper{}
	profSR := &mocks.SingleResultHelper{}
	partCursor := &mocks.CursorHelper{}
	aggCursor := &mocks.CursorHelper{}

	profSR.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Profile)
		(*arg).ID = userID
		(*arg).Details.Email = "lawyer@example.com"
	})
	profConn.On("FindOne", mock.Anything, mock.Anything).Return(profSR)
	db.On("Collection", "profiles").Return(profConn)

	partCursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Participant)
		*arg = []models.Participant{
			{ConversationID: "conv-1", UserID: userID.Hex()},
			{ConversationID: "conv-2", UserID: userID.Hex()},
		}
	})
	partConn.On("Find", mock.Anything, mock.Anything).Return(partCursor, nil)

	// conv-2's partner profile is gone, so only conv-1 survives the lookup
	aggCursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.ConversationEntry)
		*arg = []models.ConversationEntry{
			{ConversationID: "conv-1", Other: models.ProfileSummary{UserID: "u2", Name: "Amina K", Role: models.RoleLawyer}},
		}
	})
	partConn.On("Aggregate", mock.Anything, mock.Anything).Return(aggCursor, nil)
	db.On("Collection", "participants").Return(partConn)

	conv := handlers.Conversation{
		DB:     databases.NewConversationDatabase(db),
		PartDB: databases.NewParticipantDatabase(db),
		PDB:    databases.NewProfileDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(conv.ConversationsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "conv-1")
	assert.Contains(t, rr.Body.String(), "Amina K")
	assert.NotContains(t, rr.Body.String(), "conv-2")
}

func TestConversation_CreateConversationHandlerSelf(t *testing.T) {
	userID := primitive.NewObjectID()

	body := bytes.NewBufferString(`{"userId": "` + userID.Hex() + `"}`)
	req, err := http.NewRequest("POST", "/api/v1/conversations", body)
	if err != nil {
		t.Fatal(err)
	}
	req = req.WithContext(api.WithAuthEmail(req.Context(), "lawyer@example.com"))

	db := &MockDatabaseHelper{}
	profConn := &mocks.CollectionHelper{}
	profSR := &mocks.SingleResultHelper{}

	profSR.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Profile)
		(*arg).ID = userID
		(*arg).Details.Email = "lawyer@example.com"
	})
	profConn.On("FindOne", mock.Anything, mock.Anything).Return(profSR)
	db.On("Collection", "profiles").Return(profConn)

	conv := handlers.Conversation{
		DB:     databases.NewConversationDatabase(db),
		PartDB: databases.NewParticipantDatabase(db),
		PDB:    databases.NewProfileDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(conv.CreateConversationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "cannot open a conversation with yourself")
}
