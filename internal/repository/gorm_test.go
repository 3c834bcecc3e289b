package repository

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"askdata/internal/model"
)

func openSQLite(t *testing.T) Stores {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGormStores(db)
}

func TestGorm_UserUniqueUsername(t *testing.T) {
	stores := openSQLite(t)

	first := &model.User{Username: "alice", PasswordHash: "x"}
	if err := stores.Users.Create(first); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := stores.Users.Create(&model.User{Username: "alice", PasswordHash: "y"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	got, err := stores.Users.GetByID(first.ID)
	if err != nil || got == nil || got.Username != "alice" {
		t.Errorf("unexpected lookup %+v %v", got, err)
	}
	if missing, err := stores.Users.GetByUsername("bob"); err != nil || missing != nil {
		t.Errorf("expected (nil, nil) for unknown user, got %+v %v", missing, err)
	}
}

func TestGorm_DatasetRoundTrip(t *testing.T) {
	stores := openSQLite(t)

	dataset := &model.Dataset{Name: "sales", UserID: 1, FileType: "csv", Status: model.DatasetStatusProcessing, RowCount: 2, Columns: []string{"month", "revenue"}}
	if err := stores.Datasets.Create(dataset); err != nil {
		t.Fatalf("create: %v", err)
	}
	rows := []model.Row{{"month": "Jan", "revenue": "100"}, {"month": "Feb", "revenue": "200"}}
	if err := stores.DataContents.Create(&model.DataContent{DatasetID: dataset.ID, Content: rows}); err != nil {
		t.Fatalf("create content: %v", err)
	}

	got, err := stores.Datasets.GetByID(dataset.ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if len(got.Columns) != 2 || got.Columns[0] != "month" {
		t.Errorf("columns not preserved: %v", got.Columns)
	}
	content, err := stores.DataContents.GetByDatasetID(dataset.ID)
	if err != nil || content == nil {
		t.Fatalf("get content: %v %v", content, err)
	}
	if len(content.Content) != 2 || content.Content[1]["revenue"] != "200" {
		t.Errorf("rows not preserved: %v", content.Content)
	}

	updated, err := stores.Datasets.UpdateStatus(dataset.ID, model.DatasetStatusProcessed, "two rows")
	if err != nil || updated.Status != model.DatasetStatusProcessed || updated.Summary != "two rows" {
		t.Errorf("update: %+v %v", updated, err)
	}
	if _, err := stores.Datasets.UpdateStatus(999, model.DatasetStatusError, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if missing, err := stores.Datasets.GetByID(999); missing != nil || err != nil {
		t.Errorf("expected (nil, nil) lookup, got %v %v", missing, err)
	}
}

func TestGorm_MessageAppend(t *testing.T) {
	stores := openSQLite(t)

	conv := &model.Conversation{UserID: 1, DatasetID: 1, Title: "c"}
	if err := stores.Conversations.Create(conv); err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	for i, content := range []string{"q1", "a1", "q2"} {
		if err := stores.Messages.Append(&model.Message{ConversationID: conv.ID, IsUser: i%2 == 0, Content: content}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := stores.Messages.ListByConversationID(conv.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Content != "q1" || list[2].Content != "q2" {
		t.Errorf("unexpected order %+v", list)
	}

	if err := stores.Messages.Append(&model.Message{ConversationID: 999, Content: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	count, err := stores.Messages.CountAssistantByConversationIDs([]uint{conv.ID, 999})
	if err != nil || count != 1 {
		t.Errorf("expected 1 assistant message, got %d %v", count, err)
	}
}

func TestGorm_Seed(t *testing.T) {
	stores := openSQLite(t)

	user, err := SeedDemoData(stores)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	again, err := SeedDemoData(stores)
	if err != nil || again.ID != user.ID {
		t.Fatalf("reseed: %v %v", again, err)
	}
	datasets, _ := stores.Datasets.ListByUserID(user.ID)
	items, _ := stores.Marketplace.List()
	if len(datasets) != 2 || len(items) != 4 {
		t.Errorf("expected 2 datasets and 4 items, got %d and %d", len(datasets), len(items))
	}
}
