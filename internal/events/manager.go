package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

const (
	taskTypeAuthEvent = "auth:event"
	queueName         = "auth"
)

// Manager はイベントの投入と記録ワーカーを管理します。
type Manager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
	store  *Store
	logger *log.Logger
}

// NewManager は Manager を初期化します。
func NewManager(redisURL string, store *Store, logger *log.Logger) (*Manager, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := asynq.NewClient(opt)
	server := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				queueName: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	manager := &Manager{
		client: client,
		server: server,
		mux:    mux,
		store:  store,
		logger: logger,
	}
	mux.HandleFunc(taskTypeAuthEvent, manager.handleEventTask)
	return manager, nil
}

// StartWorkers は Asynq サーバーをバックグラウンドで起動します。
func (m *Manager) StartWorkers() {
	go func() {
		if err := m.server.Run(m.mux); err != nil && err != asynq.ErrServerClosed {
			m.logf("asynq server stopped with error: %v", err)
		}
	}()
}

// Shutdown はワーカーを停止し、キューとストアの接続を閉じます。
// ワーカーの停止が ctx の期限までに終わらない場合は ctx のエラーを返します。
func (m *Manager) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.server.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(ctx.Err(), m.closeConnections())
	}
	return m.closeConnections()
}

func (m *Manager) closeConnections() error {
	return errors.Join(m.client.Close(), m.store.Close())
}

// Publish はイベントをキューに投入します。
func (m *Manager) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		return fmt.Errorf("event.ID is required")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	task := asynq.NewTask(taskTypeAuthEvent, body, asynq.Queue(queueName))
	if _, err := m.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return err
	}
	return nil
}

// Recent は記録済みのイベントを新しい順に返します。
func (m *Manager) Recent(ctx context.Context, limit int) ([]Event, error) {
	return m.store.Recent(ctx, limit)
}

func (m *Manager) handleEventTask(ctx context.Context, task *asynq.Task) error {
	var event Event
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		// 壊れたペイロードは再試行しても直らない
		return fmt.Errorf("invalid event payload: %v: %w", err, asynq.SkipRetry)
	}
	if event.ID == "" {
		return fmt.Errorf("missing id in payload: %w", asynq.SkipRetry)
	}
	return m.store.Append(ctx, &event)
}

func (m *Manager) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
