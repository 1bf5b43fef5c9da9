package auth

import "github.com/yourusername/todo-list/internal/config"

// Credential はプロセス起動時に固定される唯一のログイン資格情報です。
type Credential struct {
	username string
	password string
}

// NewCredential は Credential を作成します。
func NewCredential(username, password string) Credential {
	return Credential{username: username, password: password}
}

// CredentialFromConfig は設定から Credential を作成します。
func CredentialFromConfig(cfg *config.Config) Credential {
	return NewCredential(cfg.AppUsername, cfg.AppPassword)
}

// Username は照合対象のユーザー名を返します。
func (c Credential) Username() string {
	return c.username
}

// Matches は大文字小文字を区別した完全一致で照合します。
// 空の資格情報は何とも一致しません。
func (c Credential) Matches(username, password string) bool {
	if c.username == "" || c.password == "" {
		return false
	}
	return username == c.username && password == c.password
}
