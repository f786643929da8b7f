package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/config"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/models"
)

// Conversation exported for testing purposes
type Conversation struct {
	DB     databases.ConversationDatabase
	PartDB databases.ParticipantDatabase
	PDB    databases.ProfileDatabase
}

// conversationIDs extracts the distinct conversation ids from participant rows
func conversationIDs(rows []models.Participant) []string {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ConversationID]; ok {
			continue
		}
		seen[row.ConversationID] = struct{}{}
		ids = append(ids, row.ConversationID)
	}
	return ids
}

// CreateConversationHandler opens (or reuses) the two-party conversation
// between the requester and the given user
func (c Conversation) CreateConversationHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	otherID, err := primitive.ObjectIDFromHex(body.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	requester, err := requesterProfile(ctx, r, c.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}
	if requester.ID.Hex() == body.UserID {
		config.ErrorStatus("cannot open a conversation with yourself", http.StatusBadRequest, w, fmt.Errorf("both participants are %s", body.UserID))
		return
	}

	if _, err := c.PDB.FindOne(ctx, bson.M{"_id": otherID}); err != nil {
		config.ErrorStatus("failed to get profile by ID", http.StatusNotFound, w, err)
		return
	}

	// reuse an existing thread when the two users already share one
	mine, err := c.PartDB.Find(ctx, bson.M{"userId": requester.ID.Hex()})
	if err != nil {
		config.ErrorStatus("failed to get participants", http.StatusInternalServerError, w, err)
		return
	}
	if ids := conversationIDs(mine); len(ids) > 0 {
		shared, err := c.PartDB.Find(ctx, bson.M{
			"userId":         body.UserID,
			"conversationId": bson.M{"$in": ids},
		})
		if err != nil {
			config.ErrorStatus("failed to get participants", http.StatusInternalServerError, w, err)
			return
		}
		if len(shared) > 0 {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"conversationId": shared[0].ConversationID})
			return
		}
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	conversation := models.Conversation{
		ID:        uuid.NewString(),
		CreatedBy: requester.ID.Hex(),
		CreatedAt: now,
	}
	if _, err := c.DB.InsertOne(ctx, conversation); err != nil {
		config.ErrorStatus("failed to create conversation", http.StatusInternalServerError, w, err)
		return
	}
	for _, userID := range []string{requester.ID.Hex(), body.UserID} {
		participant := models.Participant{
			ID:             primitive.NewObjectID(),
			ConversationID: conversation.ID,
			UserID:         userID,
			JoinedAt:       now,
		}
		if _, err := c.PartDB.InsertOne(ctx, participant); err != nil {
			config.ErrorStatus("failed to create participant", http.StatusInternalServerError, w, err)
			return
		}
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"conversationId": conversation.ID})
}

// ConversationsHandler lists the requester's conversations, each paired with
// the other participant's profile fragment
func (c Conversation) ConversationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	requester, err := requesterProfile(ctx, r, c.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}

	mine, err := c.PartDB.Find(ctx, bson.M{"userId": requester.ID.Hex()})
	if err != nil {
		config.ErrorStatus("failed to get participants", http.StatusInternalServerError, w, err)
		return
	}

	entries := []models.ConversationEntry{}
	if ids := conversationIDs(mine); len(ids) > 0 {
		entries, err = c.PartDB.FindOtherParticipants(ctx, ids, requester.ID.Hex())
		if err != nil {
			config.ErrorStatus("failed to resolve conversation partners", http.StatusInternalServerError, w, err)
			return
		}
		if entries == nil {
			entries = []models.ConversationEntry{}
		}
	}

	b, err := json.Marshal(entries)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
