package events

import (
	"time"

	"github.com/google/uuid"
)

// Kind は認証イベントの種別を表します。
type Kind string

const (
	KindLoginSucceeded Kind = "login_succeeded"
	KindLoginFailed    Kind = "login_failed"
	KindLogout         Kind = "logout"
)

// Event は認証フローで発生した出来事を表します。パスワードは含みません。
type Event struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Username   string    `json:"username,omitempty"`
	ClientIP   string    `json:"clientIp,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New は ID と発生時刻を埋めた Event を作成します。
func New(kind Kind, username, clientIP string) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		Username:   username,
		ClientIP:   clientIP,
		OccurredAt: time.Now().UTC(),
	}
}
