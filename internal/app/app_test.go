package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"askdata/internal/analysis"
	"askdata/internal/assistant"
	"askdata/internal/ingest"
	"askdata/internal/model"
	"askdata/internal/repository"
	"askdata/internal/repository/memory"
)

type fixture struct {
	stores   repository.Stores
	demo     *model.User
	analysis *analysis.Service
	auth     *AuthService
	datasets *DatasetService
	ledger   *Ledger
	chat     *ChatService
	market   *MarketplaceService
	stats    *StatsService
}

func newFixture(t *testing.T, cache MessageCache) *fixture {
	t.Helper()
	stores := memory.NewStore().Stores()
	demo, err := repository.SeedDemoData(stores)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	analysisSvc := analysis.NewService(stores.Datasets, stores.DataContents, analysis.LocalAnalyzer{})
	ledger := NewLedger(stores.Conversations, stores.Messages, stores.Datasets, cache)
	return &fixture{
		stores:   stores,
		demo:     demo,
		analysis: analysisSvc,
		auth:     NewAuthService(stores.Users, "test-secret", time.Hour),
		datasets: NewDatasetService(stores.Datasets, stores.DataContents, analysis.NewInlineDispatcher(analysisSvc, time.Second)),
		ledger:   ledger,
		chat:     NewChatService(ledger, stores.Conversations, stores.DataContents, assistant.NewFixtureSynthesizer(), time.Second),
		market:   NewMarketplaceService(stores.Marketplace, stores.Datasets),
		stats:    NewStatsService(stores.Datasets, stores.Conversations, stores.Messages),
	}
}

func (f *fixture) upload(t *testing.T, content string) *model.Dataset {
	t.Helper()
	dataset, err := f.datasets.Upload(context.Background(), UploadInput{
		UserID:      f.demo.ID,
		Name:        "Sales",
		FileType:    "CSV",
		FileContent: content,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return dataset
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.auth.Login(LoginInput{Username: repository.DemoUsername, Password: repository.DemoPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.ID != f.demo.ID || result.Token == "" {
		t.Errorf("unexpected result %+v", result)
	}

	if _, err := f.auth.Login(LoginInput{Username: "demo", Password: "wrong"}); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential, got %v", err)
	}
	if _, err := f.auth.Login(LoginInput{Username: "ghost", Password: "password"}); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential for unknown user, got %v", err)
	}
	if _, err := f.auth.Login(LoginInput{Username: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.auth.Login(LoginInput{Username: "demo", Password: repository.DemoPassword + " "}); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected padded password to be rejected, got %v", err)
	}
}

func TestAuthService_GetUserByID(t *testing.T) {
	f := newFixture(t, nil)

	user, err := f.auth.GetUserByID(f.demo.ID)
	if err != nil || user == nil || user.Username != repository.DemoUsername {
		t.Fatalf("expected demo user, got %+v %v", user, err)
	}
	for _, id := range []uint{0, 999} {
		if user, err := f.auth.GetUserByID(id); err != nil || user != nil {
			t.Errorf("id %d: expected (nil, nil), got %+v %v", id, user, err)
		}
	}
}

func TestDatasetService_UploadIsProcessingThenProcessed(t *testing.T) {
	f := newFixture(t, nil)

	dataset := f.upload(t, "month,revenue\nJan,100\nFeb,200")
	if dataset.Status != model.DatasetStatusProcessing {
		t.Errorf("expected processing, got %s", dataset.Status)
	}
	if dataset.RowCount != 2 || dataset.FileType != "csv" {
		t.Errorf("unexpected dataset %+v", dataset)
	}
	if strings.Join(dataset.Columns, ",") != "month,revenue" {
		t.Errorf("unexpected columns %v", dataset.Columns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done, err := f.analysis.Wait(ctx, dataset.ID)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if done.Status != model.DatasetStatusProcessed {
		t.Errorf("expected processed, got %s", done.Status)
	}

	listed, err := f.datasets.List(f.demo.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("expected 2 seeded + 1 uploaded datasets, got %d", len(listed))
	}
}

func TestDatasetService_UploadKeyLessObjectsHasEmptyColumns(t *testing.T) {
	f := newFixture(t, nil)

	dataset, err := f.datasets.Upload(context.Background(), UploadInput{UserID: f.demo.ID, Name: "objects", FileType: "json", FileContent: "[{}]"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if dataset.Columns == nil || len(dataset.Columns) != 0 {
		t.Errorf("expected empty non-nil columns, got %#v", dataset.Columns)
	}
	if dataset.RowCount != 1 {
		t.Errorf("expected one row, got %d", dataset.RowCount)
	}
}

func TestDatasetService_UploadRejects(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.datasets.Upload(context.Background(), UploadInput{UserID: f.demo.ID, Name: "bad", FileType: "json", FileContent: "{"})
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, ingest.ErrParse) {
		t.Errorf("expected invalid input wrapping parse error, got %v", err)
	}
	if _, err := f.datasets.Upload(context.Background(), UploadInput{UserID: f.demo.ID, FileType: "csv"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing name, got %v", err)
	}
	for _, content := range []string{"", "  \n\t"} {
		_, err := f.datasets.Upload(context.Background(), UploadInput{UserID: f.demo.ID, Name: "blank", FileType: "csv", FileContent: content})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("content %q: expected ErrInvalidInput, got %v", content, err)
		}
	}
	if _, err := f.datasets.Get(999); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("expected ErrDatasetNotFound, got %v", err)
	}
}

func TestLedger_CreateAndAppend(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.ledger.CreateConversation(CreateConversationInput{UserID: f.demo.ID, DatasetID: 999}); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("expected ErrDatasetNotFound, got %v", err)
	}

	conv, err := f.ledger.CreateConversation(CreateConversationInput{UserID: f.demo.ID, DatasetID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if conv.Title != "New Conversation" {
		t.Errorf("expected default title, got %q", conv.Title)
	}

	for _, text := range []string{"one", "two", "three"} {
		if _, err := f.ledger.AppendMessage(ctx, conv.ID, true, text); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	messages, err := f.ledger.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != 3 || messages[0].Content != "one" || messages[2].Content != "three" {
		t.Errorf("unexpected order %+v", messages)
	}
	for i := 1; i < len(messages); i++ {
		if messages[i].ID <= messages[i-1].ID || messages[i].Timestamp.Before(messages[i-1].Timestamp) {
			t.Errorf("messages out of order at %d", i)
		}
	}

	if _, err := f.ledger.AppendMessage(ctx, 999, true, "lost"); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}

	byDataset, _ := f.ledger.ListConversations(f.demo.ID, 1)
	byOther, _ := f.ledger.ListConversations(f.demo.ID, 2)
	if len(byDataset) != 1 || len(byOther) != 0 {
		t.Errorf("unexpected dataset filter: %d %d", len(byDataset), len(byOther))
	}

	detail, err := f.ledger.GetConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.ID != conv.ID || len(detail.Messages) != 3 {
		t.Errorf("unexpected detail %+v", detail)
	}
	if _, err := f.ledger.GetConversation(ctx, 999); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestLedger_ConcurrentAppends(t *testing.T) {
	f := newFixture(t, nil)
	conv, err := f.ledger.CreateConversation(CreateConversationInput{UserID: f.demo.ID, DatasetID: 1, Title: "load"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.ledger.AppendMessage(context.Background(), conv.ID, true, "hi"); err != nil {
				t.Errorf("append: %v", err)
			}
		}()
	}
	wg.Wait()

	messages, _ := f.ledger.ListMessages(context.Background(), conv.ID)
	if len(messages) != 50 {
		t.Fatalf("expected 50 messages, got %d", len(messages))
	}
	seen := make(map[uint]bool)
	for _, m := range messages {
		if seen[m.ID] {
			t.Fatalf("duplicate id %d", m.ID)
		}
		seen[m.ID] = true
	}
}

type memoryCache struct {
	mu            sync.Mutex
	lists         map[uint][]model.Message
	dirty         map[uint]bool
	hits          int
	invalidations int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{lists: map[uint][]model.Message{}, dirty: map[uint]bool{}}
}

func (c *memoryCache) Load(_ context.Context, id uint) ([]model.Message, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirty[id] {
		return nil, false, nil
	}
	list, ok := c.lists[id]
	if ok {
		c.hits++
	}
	return list, ok, nil
}

func (c *memoryCache) StoreIfClean(_ context.Context, id uint, messages []model.Message) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirty[id] {
		return false, nil
	}
	c.lists[id] = messages
	return true, nil
}

func (c *memoryCache) Invalidate(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty[id] = true
	delete(c.lists, id)
	c.invalidations++
	return nil
}

func (c *memoryCache) expire(id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.dirty, id)
}

func TestLedger_Cache(t *testing.T) {
	cache := newMemoryCache()
	f := newFixture(t, cache)
	ctx := context.Background()
	conv, _ := f.ledger.CreateConversation(CreateConversationInput{UserID: f.demo.ID, DatasetID: 1})

	if _, err := f.ledger.AppendMessage(ctx, conv.ID, true, "first"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if !cache.dirty[conv.ID] || cache.invalidations != 1 {
		t.Fatalf("append should invalidate, dirty=%v invalidations=%d", cache.dirty[conv.ID], cache.invalidations)
	}

	// dirty lists are read from the store and not cached
	if _, err := f.ledger.ListMessages(ctx, conv.ID); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, ok := cache.lists[conv.ID]; ok {
		t.Error("dirty list should not be cached")
	}

	cache.expire(conv.ID)
	if _, err := f.ledger.ListMessages(ctx, conv.ID); err != nil {
		t.Fatalf("list: %v", err)
	}
	cached, err := f.ledger.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if cache.hits != 1 || len(cached) != 1 || cached[0].Content != "first" {
		t.Errorf("expected cached read, hits=%d list=%+v", cache.hits, cached)
	}

	if _, err := f.ledger.AppendMessage(ctx, conv.ID, false, "second"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, ok := cache.lists[conv.ID]; ok || cache.invalidations != 2 {
		t.Errorf("second append should evict the cached list, invalidations=%d", cache.invalidations)
	}
	cache.expire(conv.ID)
	fresh, _ := f.ledger.ListMessages(ctx, conv.ID)
	if len(fresh) != 2 {
		t.Errorf("expected fresh list of 2, got %d", len(fresh))
	}
}

func TestChatService_PostMessageRevenue(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	dataset := f.upload(t, "month,revenue\nJan,100\nFeb,200")
	conv, err := f.ledger.CreateConversation(CreateConversationInput{UserID: f.demo.ID, DatasetID: dataset.ID, Title: "Revenue"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := f.chat.PostMessage(ctx, PostMessageInput{ConversationID: conv.ID, IsUser: true, Content: "Show me revenue by month"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if !result.UserMessage.IsUser || result.AIMessage.IsUser {
		t.Errorf("unexpected roles %+v %+v", result.UserMessage, result.AIMessage)
	}
	if !strings.HasPrefix(result.AIMessage.Content, "Here is your monthly revenue trend") {
		t.Errorf("unexpected narrative %q", result.AIMessage.Content)
	}
	if result.ChartType != assistant.ChartLine || len(result.ChartData) != 12 {
		t.Errorf("unexpected chart %s with %d points", result.ChartType, len(result.ChartData))
	}

	messages, _ := f.ledger.ListMessages(ctx, conv.ID)
	if len(messages) != 2 || messages[0].ID != result.UserMessage.ID || messages[1].ID != result.AIMessage.ID {
		t.Errorf("unexpected ledger %+v", messages)
	}
}

func TestChatService_UnknownConversationPersistsNothing(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.chat.PostMessage(context.Background(), PostMessageInput{ConversationID: 42, IsUser: true, Content: "hello"})
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	messages, _ := f.stores.Messages.ListByConversationID(42)
	if len(messages) != 0 {
		t.Errorf("expected nothing persisted, got %d", len(messages))
	}
	count, _ := f.stores.Messages.CountAssistantByConversationIDs([]uint{42})
	if count != 0 {
		t.Errorf("expected no assistant messages, got %d", count)
	}
}

func TestChatService_EmptyContent(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.chat.PostMessage(context.Background(), PostMessageInput{ConversationID: 1, Content: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStatsService(t *testing.T) {
	f := newFixture(t, nil)

	stats, err := f.stats.ForUser(f.demo.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Datasets != 2 || stats.Conversations != 0 || stats.Insights != demoInsights {
		t.Errorf("unexpected initial stats %+v", stats)
	}

	conv, _ := f.ledger.CreateConversation(CreateConversationInput{UserID: f.demo.ID, DatasetID: 1})
	if _, err := f.chat.PostMessage(context.Background(), PostMessageInput{ConversationID: conv.ID, IsUser: true, Content: "top performers"}); err != nil {
		t.Fatalf("post: %v", err)
	}
	stats, _ = f.stats.ForUser(f.demo.ID)
	if stats.Conversations != 1 || stats.Insights != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestMarketplaceService(t *testing.T) {
	f := newFixture(t, nil)

	items, err := f.market.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 4 {
		t.Errorf("expected 4 seeded items, got %d", len(items))
	}

	item, err := f.market.Create(CreateListingInput{UserID: f.demo.ID, DatasetID: 1, Title: "Sales", Description: "Q2 sales", Price: "R$ 100"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := f.market.Get(item.ID)
	if err != nil || got.Title != "Sales" {
		t.Errorf("unexpected get %+v %v", got, err)
	}

	if _, err := f.market.Create(CreateListingInput{UserID: f.demo.ID, DatasetID: 999, Title: "x", Description: "y", Price: "1"}); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("expected ErrDatasetNotFound, got %v", err)
	}
	if _, err := f.market.Create(CreateListingInput{UserID: f.demo.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.market.Get(999); !errors.Is(err, ErrMarketplaceItemNotFound) {
		t.Errorf("expected ErrMarketplaceItemNotFound, got %v", err)
	}
}
