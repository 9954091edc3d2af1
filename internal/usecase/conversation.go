package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mfc-voice-agent/internal/domain"
	"mfc-voice-agent/internal/repository"
)

// TurnResult is what the voice platform speaks back after one caller turn.
type TurnResult struct {
	Reply     string
	Intent    string
	LeadScore int
	Topics    []string
}

// EndResult reports the final state and whether a lead was auto-created.
type EndResult struct {
	Conversation domain.Conversation
	LeadCreated  bool
	LeadID       string
}

// RanchData is optional structured caller metadata captured mid-call.
type RanchData struct {
	CallerName string
	RanchName  string
	County     string
	HerdSize   int
}

// ConversationService owns the conversation lifecycle: active on start, still
// active after every turn, completed only on an explicit end.
type ConversationService struct {
	store     repository.ConversationStore
	leads     *LeadService
	cutoff    int
	logger    *slog.Logger
	now       func() time.Time
	newConvID func() string
}

// NewConversationService creates a ConversationService. cutoff is the lead
// score at or above which ending a conversation auto-creates a lead.
func NewConversationService(store repository.ConversationStore, leads *LeadService, cutoff int, logger *slog.Logger) (*ConversationService, error) {
	if store == nil {
		return nil, errors.New("usecase: conversation store must not be nil")
	}
	if leads == nil {
		return nil, errors.New("usecase: lead service must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationService{
		store:     store,
		leads:     leads,
		cutoff:    cutoff,
		logger:    logger,
		now:       time.Now,
		newConvID: uuid.NewString,
	}, nil
}

// Start opens a new active conversation.
func (s *ConversationService) Start(ctx context.Context, channel, phone string) (domain.Conversation, error) {
	if strings.TrimSpace(channel) == "" {
		channel = "voice"
	}
	now := s.now().UTC().Format(time.RFC3339)
	conv := domain.Conversation{
		ID:          s.newConvID(),
		Channel:     channel,
		PhoneNumber: strings.TrimSpace(phone),
		Status:      domain.ConversationActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.PutConversation(ctx, conv); err != nil {
		return domain.Conversation{}, newError(ErrorUpstream, "conversation_write_error", err)
	}
	return conv, nil
}

// Turn appends the caller's message and the agent's canned reply to the
// transcript, adds the matched intent's score, and merges its topics. The
// conversation stays active.
func (s *ConversationService) Turn(ctx context.Context, conversationID, message string) (TurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return TurnResult{}, newError(ErrorInvalidInput, "message_required", nil)
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return TurnResult{}, newError(ErrorNotFound, "conversation_not_found", err)
		}
		return TurnResult{}, newError(ErrorUpstream, "conversation_read_error", err)
	}
	if conv.Status != domain.ConversationActive {
		return TurnResult{}, newError(ErrorInvalidInput, "conversation_not_active", nil)
	}

	res := RespondToMessage(message, s.contextFor(conv))

	now := s.now().UTC().Format(time.RFC3339)
	conv.Transcript = append(conv.Transcript,
		domain.TranscriptEntry{Speaker: "caller", Message: message, Timestamp: now},
		domain.TranscriptEntry{Speaker: "agent", Message: res.Reply, Timestamp: now},
	)
	conv.LeadScore += res.Score
	conv.Topics = mergeTopics(conv.Topics, res.Topics)
	conv.UpdatedAt = now

	if err := s.store.PutConversation(ctx, conv); err != nil {
		return TurnResult{}, newError(ErrorUpstream, "conversation_write_error", err)
	}

	return TurnResult{
		Reply:     res.Reply,
		Intent:    res.Intent,
		LeadScore: conv.LeadScore,
		Topics:    conv.Topics,
	}, nil
}

// End completes an active conversation. When the accumulated lead score meets
// the cutoff, exactly one lead is auto-created referencing the conversation;
// a second End on the same conversation is rejected before it can create
// another.
func (s *ConversationService) End(ctx context.Context, conversationID string) (EndResult, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return EndResult{}, newError(ErrorNotFound, "conversation_not_found", err)
		}
		return EndResult{}, newError(ErrorUpstream, "conversation_read_error", err)
	}
	if conv.Status != domain.ConversationActive {
		return EndResult{}, newError(ErrorInvalidInput, "conversation_not_active", nil)
	}

	conv.Status = domain.ConversationCompleted
	conv.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.store.PutConversation(ctx, conv); err != nil {
		return EndResult{}, newError(ErrorUpstream, "conversation_write_error", err)
	}

	out := EndResult{Conversation: conv}
	if conv.LeadScore >= s.cutoff {
		name := conv.CallerName
		if strings.TrimSpace(name) == "" {
			name = "Unidentified Caller"
		}
		lead, err := s.leads.CreateLead(ctx, LeadInput{
			Name:            name,
			Phone:           conv.PhoneNumber,
			RanchName:       conv.RanchName,
			County:          conv.County,
			HerdSize:        conv.HerdSize,
			PrimaryInterest: strings.Join(conv.Topics, ", "),
			Source:          "conversation",
			ConversationID:  conv.ID,
			Score:           conv.LeadScore,
		})
		if err != nil {
			// The conversation is already completed; a failed auto-lead is
			// logged rather than unwinding the state transition.
			s.logger.Error("auto-lead creation failed", "conversation", conv.ID, "err", err)
		} else {
			out.LeadCreated = true
			out.LeadID = lead.Lead.ID
		}
	}
	return out, nil
}

// SaveRanchData attaches structured caller metadata to an active conversation.
func (s *ConversationService) SaveRanchData(ctx context.Context, conversationID string, data RanchData) error {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return newError(ErrorNotFound, "conversation_not_found", err)
		}
		return newError(ErrorUpstream, "conversation_read_error", err)
	}

	if v := strings.TrimSpace(data.CallerName); v != "" {
		conv.CallerName = v
	}
	if v := strings.TrimSpace(data.RanchName); v != "" {
		conv.RanchName = v
	}
	if v := strings.TrimSpace(data.County); v != "" {
		conv.County = v
	}
	if data.HerdSize > 0 {
		conv.HerdSize = data.HerdSize
	}
	conv.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	if err := s.store.PutConversation(ctx, conv); err != nil {
		return newError(ErrorUpstream, "conversation_write_error", err)
	}
	return nil
}

// CallerContext builds a returning-caller greeting context from the most
// recent completed conversation for a phone number. Unknown numbers get the
// new-caller prompt.
func (s *ConversationService) CallerContext(ctx context.Context, phone string) (string, bool, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", false, newError(ErrorInvalidInput, "phone_required", nil)
	}

	conv, err := s.store.LatestCompletedByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return "This is a new caller. Be welcoming and friendly, and ask about their operation: herd size, location, and what they need help with today.", true, nil
		}
		return "", false, newError(ErrorUpstream, "conversation_read_error", err)
	}

	var parts []string
	if conv.CallerName != "" {
		parts = append(parts, fmt.Sprintf("The caller's name is %s.", conv.CallerName))
	}
	if conv.RanchName != "" {
		parts = append(parts, fmt.Sprintf("They run %s.", conv.RanchName))
	}
	if conv.County != "" {
		parts = append(parts, fmt.Sprintf("They're in %s County.", conv.County))
	}
	if conv.HerdSize > 0 {
		parts = append(parts, fmt.Sprintf("They run about %d head.", conv.HerdSize))
	}
	if len(conv.Topics) > 0 {
		parts = append(parts, fmt.Sprintf("Last call they asked about %s.", JoinForSpeech(conv.Topics)))
	}
	if len(parts) == 0 {
		return "Returning caller; welcome them back, but no previous conversation details are available.", false, nil
	}
	return "Returning caller. " + strings.Join(parts, " "), false, nil
}

func (s *ConversationService) contextFor(conv domain.Conversation) domain.CustomerContext {
	return domain.CustomerContext{
		Name:     conv.CallerName,
		County:   conv.County,
		HerdSize: conv.HerdSize,
	}
}

func mergeTopics(existing, added []string) []string {
	for _, t := range added {
		if !containsString(existing, t) {
			existing = append(existing, t)
		}
	}
	return existing
}
