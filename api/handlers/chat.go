package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/config"
	"github.com/lawbridge/lawbridge-api/databases"
	"github.com/lawbridge/lawbridge-api/models"
	"github.com/lawbridge/lawbridge-api/realtime"
)

// Chat exported for testing purposes
type Chat struct {
	MDB    databases.MessageDatabase
	PartDB databases.ParticipantDatabase
	PDB    databases.ProfileDatabase
	Hub    *realtime.Hub
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// conversationTopic names the hub topic carrying one conversation's inserts
func conversationTopic(conversationID string) string {
	return "conversation:" + conversationID
}

// MessagesByConversationIDHandler returns a conversation's messages oldest
// first
func (c Chat) MessagesByConversationIDHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversation_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	requester, err := requesterProfile(ctx, r, c.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}
	if err := c.requireParticipant(ctx, conversationID, requester.ID.Hex()); err != nil {
		config.ErrorStatus("not a participant of this conversation", http.StatusForbidden, w, err)
		return
	}

	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	dbResp, err := c.MDB.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get messages", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Message{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SendMessageHandler inserts a chat message and publishes it to the
// conversation's realtime topic. Whitespace-only messages are rejected
// before anything is written.
func (c Chat) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversation_id"]

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		config.ErrorStatus("message content must not be empty", http.StatusBadRequest, w, fmt.Errorf("blank content"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sender, err := requesterProfile(ctx, r, c.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}
	if err := c.requireParticipant(ctx, conversationID, sender.ID.Hex()); err != nil {
		config.ErrorStatus("not a participant of this conversation", http.StatusForbidden, w, err)
		return
	}

	msg := models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: conversationID,
		SenderID:       sender.ID.Hex(),
		Content:        body.Content,
		CreatedAt:      primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := c.MDB.InsertOne(ctx, msg); err != nil {
		config.ErrorStatus("failed to create message", http.StatusInternalServerError, w, err)
		return
	}

	c.Hub.Publish(conversationTopic(conversationID), realtime.Event{
		Event:   realtime.EventInsert,
		Key:     msg.SenderID,
		Payload: msg,
	})

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": msg.ID.Hex()})
}

// StreamHandler upgrades to a websocket and streams one conversation: the
// rendered history first, then live inserts as they are published. Only a
// participant of the conversation may attach; messages from senders missing
// in the participant lookup never reach the client.
func (c Chat) StreamHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversation_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	requester, err := requesterProfile(ctx, r, c.PDB)
	if err != nil {
		config.ErrorStatus("failed to resolve requester profile", http.StatusUnauthorized, w, err)
		return
	}
	if err := c.requireParticipant(ctx, conversationID, requester.ID.Hex()); err != nil {
		config.ErrorStatus("not a participant of this conversation", http.StatusForbidden, w, err)
		return
	}

	lookup, err := c.participantLookup(ctx, conversationID)
	if err != nil {
		config.ErrorStatus("failed to get participants", http.StatusNotFound, w, err)
		return
	}

	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	history, err := c.MDB.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get messages", http.StatusNotFound, w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("failed to upgrade websocket", "conversationId", conversationID, "error", err)
		return
	}
	defer conn.Close()

	topic := conversationTopic(conversationID)
	stream := realtime.NewConversationStream(conversationID, lookup)
	rendered := stream.Seed(history)

	// subscribe before sending the snapshot so no insert between the two is lost
	sub := c.Hub.Subscribe(topic)

	err = conn.WriteJSON(realtime.Event{Event: realtime.EventSync, Topic: topic, Payload: rendered})
	if err != nil {
		zap.S().Errorw("failed to send conversation history", "conversationId", conversationID, "error", err)
		c.Hub.Unsubscribe(sub)
		return
	}

	// the read loop exists to notice the peer going away; any read error
	// tears the subscription down, which ends the write loop below
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				c.Hub.Unsubscribe(sub)
				return
			}
		}
	}()

	for ev := range sub.C {
		msg, ok := ev.Payload.(models.Message)
		if !ok {
			continue
		}
		rm, ok := stream.Apply(msg)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(realtime.Event{Event: realtime.EventInsert, Topic: topic, Key: ev.Key, Payload: rm}); err != nil {
			zap.S().Warnw("dropping dead conversation connection", "conversationId", conversationID, "error", err)
			c.Hub.Unsubscribe(sub)
			break
		}
	}
}

// requireParticipant errors unless the user has a participant row in the
// conversation
func (c Chat) requireParticipant(ctx context.Context, conversationID, userID string) error {
	rows, err := c.PartDB.Find(ctx, bson.M{"conversationId": conversationID, "userId": userID})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("user %s is not in conversation %s", userID, conversationID)
	}
	return nil
}

// participantLookup builds the sender lookup for a conversation. Participant
// rows whose profile cannot be resolved are skipped; their messages will be
// dropped downstream.
func (c Chat) participantLookup(ctx context.Context, conversationID string) (map[string]models.ProfileSummary, error) {
	rows, err := c.PartDB.Find(ctx, bson.M{"conversationId": conversationID})
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]models.ProfileSummary, len(rows))
	for _, row := range rows {
		pID, err := primitive.ObjectIDFromHex(row.UserID)
		if err != nil {
			zap.S().Warnw("skipping participant with malformed user id",
				"conversationId", conversationID, "userId", row.UserID)
			continue
		}
		profile, err := c.PDB.FindOne(ctx, bson.M{"_id": pID})
		if err != nil {
			zap.S().Warnw("skipping participant with no profile",
				"conversationId", conversationID, "userId", row.UserID)
			continue
		}
		lookup[row.UserID] = models.ProfileSummary{
			UserID:    row.UserID,
			Name:      profile.Details.Name,
			Role:      profile.Details.Role,
			AvatarURL: profile.Details.AvatarURL,
		}
	}
	return lookup, nil
}
