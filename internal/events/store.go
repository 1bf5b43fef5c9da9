package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	eventsKey = "auth:events"
)

// Store は認証イベントを Redis のリストに保存します。
type Store struct {
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int64
}

// NewStore は Store を作成します。rdb の所有権は Store に移り、Close で閉じられます。
func NewStore(rdb *redis.Client, ttl time.Duration, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &Store{
		rdb:        rdb,
		ttl:        ttl,
		maxEntries: int64(maxEntries),
	}
}

// Close は Redis クライアントを閉じます。
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Append はイベントを先頭に追加し、上限件数を超えた古いものを切り捨てます。
func (s *Store) Append(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("event is nil")
	}
	if event.ID == "" {
		return errors.New("event.ID is required")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	tx := s.rdb.TxPipeline()
	tx.LPush(ctx, eventsKey, payload)
	tx.LTrim(ctx, eventsKey, 0, s.maxEntries-1)
	if s.ttl > 0 {
		tx.Expire(ctx, eventsKey, s.ttl)
	}
	if _, err := tx.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append event %s: %w", event.ID, err)
	}
	return nil
}

// Recent は新しい順に最大 limit 件のイベントを返します。
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || int64(limit) > s.maxEntries {
		limit = int(s.maxEntries)
	}

	raw, err := s.rdb.LRange(ctx, eventsKey, 0, int64(limit)-1).Result()
	if err != nil {
		if err == redis.Nil {
			return []Event{}, nil
		}
		return nil, err
	}

	out := make([]Event, 0, len(raw))
	for _, item := range raw {
		var event Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, nil
}
