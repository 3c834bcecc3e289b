package app

import (
	"context"
	"log"
	"strings"
	"time"

	"askdata/internal/assistant"
	"askdata/internal/model"
	"askdata/internal/repository"
)

// ChatService answers a posted question with a synthesized assistant reply.
type ChatService struct {
	ledger         *Ledger
	conversations  repository.ConversationStore
	contents       repository.DataContentStore
	synthesizer    assistant.Synthesizer
	requestTimeout time.Duration
}

type PostMessageInput struct {
	ConversationID uint
	IsUser         bool
	Content        string
}

type PostMessageResult struct {
	UserMessage *model.Message      `json:"userMessage"`
	AIMessage   *model.Message      `json:"aiMessage"`
	ChartData   []map[string]any    `json:"chartData,omitempty"`
	ChartType   assistant.ChartType `json:"chartType,omitempty"`
}

func NewChatService(
	ledger *Ledger,
	conversations repository.ConversationStore,
	contents repository.DataContentStore,
	synthesizer assistant.Synthesizer,
	requestTimeout time.Duration,
) *ChatService {
	return &ChatService{
		ledger:         ledger,
		conversations:  conversations,
		contents:       contents,
		synthesizer:    synthesizer,
		requestTimeout: requestTimeout,
	}
}

// PostMessage checks the conversation first so an unknown id persists
// nothing.
func (s *ChatService) PostMessage(ctx context.Context, input PostMessageInput) (*PostMessageResult, error) {
	content := strings.TrimSpace(input.Content)
	if input.ConversationID == 0 || content == "" {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversations.GetByID(input.ConversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	userMessage, err := s.ledger.AppendMessage(ctx, conversation.ID, input.IsUser, content)
	if err != nil {
		return nil, err
	}

	var rows []model.Row
	dataContent, err := s.contents.GetByDatasetID(conversation.DatasetID)
	if err != nil {
		return nil, err
	}
	if dataContent != nil {
		rows = dataContent.Content
	}

	topic := assistant.Classify(content)
	synthCtx := ctx
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		synthCtx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}
	result := s.synthesizer.Synthesize(synthCtx, assistant.Request{Query: content, Topic: topic, Rows: rows})
	log.Printf("conversation %d: topic=%s chart=%v", conversation.ID, topic, result.Chart != nil)

	aiMessage, err := s.ledger.AppendMessage(ctx, conversation.ID, false, result.Narrative)
	if err != nil {
		return nil, err
	}

	out := &PostMessageResult{UserMessage: userMessage, AIMessage: aiMessage}
	if result.Chart != nil {
		out.ChartData = result.Chart.Data
		out.ChartType = result.Chart.Type
	}
	return out, nil
}
