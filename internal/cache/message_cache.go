package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"askdata/internal/model"
)

// MessageCache keeps a conversation's message list in redis. Invalidate sets
// a short lived dirty marker and drops the list in one transaction; while the
// marker lives, Load misses and StoreIfClean refuses to write, so a reader
// racing an append never caches the older list.
type MessageCache struct {
	client   *redisv9.Client
	listTTL  time.Duration
	dirtyTTL time.Duration
}

func NewMessageCache(client *redisv9.Client, listTTL, dirtyTTL time.Duration) *MessageCache {
	if listTTL <= 0 {
		listTTL = 60 * time.Second
	}
	if dirtyTTL <= 0 {
		dirtyTTL = 5 * time.Second
	}
	return &MessageCache{
		client:   client,
		listTTL:  listTTL,
		dirtyTTL: dirtyTTL,
	}
}

// Load returns the cached list. A dirty conversation is always a miss.
func (c *MessageCache) Load(ctx context.Context, conversationID uint) ([]model.Message, bool, error) {
	var (
		dirty *redisv9.IntCmd
		list  *redisv9.StringCmd
	)
	_, err := c.client.Pipelined(ctx, func(pipe redisv9.Pipeliner) error {
		dirty = pipe.Exists(ctx, dirtyKey(conversationID))
		list = pipe.Get(ctx, messagesKey(conversationID))
		return nil
	})
	if err != nil && !errors.Is(err, redisv9.Nil) {
		return nil, false, fmt.Errorf("redis load messages failed: %w", err)
	}
	if dirty.Val() > 0 {
		return nil, false, nil
	}

	raw, err := list.Result()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get messages failed: %w", err)
	}

	var messages []model.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached messages failed: %w", err)
	}
	return messages, true, nil
}

// StoreIfClean caches messages unless an append invalidated the
// conversation after they were read. It reports whether the list was stored.
func (c *MessageCache) StoreIfClean(ctx context.Context, conversationID uint, messages []model.Message) (bool, error) {
	dirty, err := c.client.Exists(ctx, dirtyKey(conversationID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	if dirty > 0 {
		return false, nil
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return false, fmt.Errorf("marshal messages cache failed: %w", err)
	}
	if err := c.client.Set(ctx, messagesKey(conversationID), payload, c.listTTL).Err(); err != nil {
		return false, fmt.Errorf("redis set messages failed: %w", err)
	}
	return true, nil
}

// Invalidate marks the conversation dirty and evicts its cached list.
func (c *MessageCache) Invalidate(ctx context.Context, conversationID uint) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		pipe.Set(ctx, dirtyKey(conversationID), "1", c.dirtyTTL)
		pipe.Del(ctx, messagesKey(conversationID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate messages failed: %w", err)
	}
	return nil
}

func messagesKey(conversationID uint) string {
	return fmt.Sprintf("askdata:conversation:%d:messages", conversationID)
}

func dirtyKey(conversationID uint) string {
	return fmt.Sprintf("askdata:conversation:%d:dirty", conversationID)
}
