package realtime

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lawbridge/lawbridge-api/models"
)

// RenderedMessage is a chat message with its sender resolved from the
// participant lookup
type RenderedMessage struct {
	ID             string                `json:"id"`
	ConversationID string                `json:"conversationId"`
	Sender         models.ProfileSummary `json:"sender"`
	Content        string                `json:"content"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// ConversationStream merges the historical messages of one conversation with
// live-inserted messages. Senders are resolved against a pre-supplied
// participant lookup; a message whose sender is absent from the lookup is
// dropped with a diagnostic log rather than rendered with an unknown author.
// Live messages are appended in arrival order — no reordering against the
// timestamped history is attempted.
type ConversationStream struct {
	conversationID string

	mu           sync.Mutex
	participants map[string]models.ProfileSummary
	rendered     []RenderedMessage
	ready        bool
}

// NewConversationStream builds a stream for one conversation with the given
// sender lookup (user id to profile fragment)
func NewConversationStream(conversationID string, participants map[string]models.ProfileSummary) *ConversationStream {
	if participants == nil {
		participants = make(map[string]models.ProfileSummary)
	}
	return &ConversationStream{
		conversationID: conversationID,
		participants:   participants,
	}
}

// Seed loads the historical messages, assumed already ordered by creation
// time ascending, and moves the stream from loading to ready. Seeded
// messages go through the same sender lookup as live ones.
func (s *ConversationStream) Seed(history []models.Message) []RenderedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range history {
		if rm, ok := s.render(msg); ok {
			s.rendered = append(s.rendered, rm)
		}
	}
	s.ready = true
	return append([]RenderedMessage(nil), s.rendered...)
}

// Apply appends one live-inserted message. It returns the rendered message
// and true when the sender resolved, or false when the event was dropped.
func (s *ConversationStream) Apply(msg models.Message) (RenderedMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rm, ok := s.render(msg)
	if !ok {
		return RenderedMessage{}, false
	}
	s.rendered = append(s.rendered, rm)
	return rm, true
}

func (s *ConversationStream) render(msg models.Message) (RenderedMessage, bool) {
	sender, ok := s.participants[msg.SenderID]
	if !ok {
		zap.S().Warnw("dropping message from sender missing in participant lookup",
			"conversationId", s.conversationID,
			"senderId", msg.SenderID,
			"messageId", msg.ID.Hex(),
		)
		return RenderedMessage{}, false
	}
	return RenderedMessage{
		ID:             msg.ID.Hex(),
		ConversationID: msg.ConversationID,
		Sender:         sender,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt.Time(),
	}, true
}

// Ready reports whether the history has been seeded
func (s *ConversationStream) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Rendered returns a copy of the rendered message list
func (s *ConversationStream) Rendered() []RenderedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RenderedMessage(nil), s.rendered...)
}
