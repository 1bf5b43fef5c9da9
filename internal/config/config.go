// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Session ストアの種別
const (
	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

// devSessionSecret は debug/test モードで SESSION_SECRET 未設定時に使う署名鍵です。
const devSessionSecret = "todo-list-dev-session-secret"

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// 認証設定（プロセス起動時に固定される資格情報）
	AppUsername string // ログイン用ユーザー名
	AppPassword string // ログイン用パスワード（平文）

	// セッション設定
	SessionSecret   string // セッション署名用の秘密鍵
	SessionStore    string // cookie または redis
	SessionRedisURL string // SessionStore=redis のときの接続URL

	// サーバー設定
	Port    string // HTTPサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// 認証イベント設定（空の場合は無効）
	EventsRedisURL         string // Asynq/イベントストア用Redis接続URL
	EventsRetentionMinutes int    // イベントの保持期間（分）
	EventsMaxEntries       int    // 保持するイベントの最大件数
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		AppUsername: getEnv("APP_USERNAME", "admin"),
		AppPassword: getEnv("APP_PASSWORD", "1234"),

		SessionSecret:   getEnv("SESSION_SECRET", ""),
		SessionStore:    getEnv("SESSION_STORE", SessionStoreCookie),
		SessionRedisURL: getEnv("SESSION_REDIS_URL", "redis://127.0.0.1:6379/1"),

		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		EventsRedisURL:         getEnv("EVENTS_REDIS_URL", ""),
		EventsRetentionMinutes: getEnvAsInt("EVENTS_RETENTION_MINUTES", 1440),
		EventsMaxEntries:       getEnvAsInt("EVENTS_MAX_ENTRIES", 100),
	}

	// 開発時は固定の署名鍵で起動できるようにする
	if config.SessionSecret == "" && config.GinMode != "release" {
		config.SessionSecret = devSessionSecret
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	// 空の資格情報は未入力のフォームと一致してしまうため常に拒否する
	if c.AppUsername == "" {
		return fmt.Errorf("APP_USERNAME must not be empty")
	}
	if c.AppPassword == "" {
		return fmt.Errorf("APP_PASSWORD must not be empty")
	}

	switch c.SessionStore {
	case SessionStoreCookie:
	case SessionStoreRedis:
		if c.SessionRedisURL == "" {
			return fmt.Errorf("SESSION_REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE: %q", c.SessionStore)
	}

	// release 以外では Load が開発用の署名鍵を補う
	if c.GinMode == "release" && c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required in release mode")
	}

	if c.EventsRedisURL != "" && c.EventsMaxEntries <= 0 {
		return fmt.Errorf("EVENTS_MAX_ENTRIES must be positive")
	}

	return nil
}

// EventsEnabled は認証イベントの送出が有効かどうかを返します。
func (c *Config) EventsEnabled() bool {
	return c.EventsRedisURL != ""
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
