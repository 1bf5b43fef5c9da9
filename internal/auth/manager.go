package auth

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/todo-list/internal/events"
	"github.com/yourusername/todo-list/internal/flash"
	"github.com/yourusername/todo-list/internal/view"
)

const (
	SessionCookieName = "todo_session"
	sessionKeyUser    = "user"

	// LoginPath はログインフォームのパスです。
	LoginPath = "/login"
	// TasksPath はログイン成功後の遷移先（タスク一覧）のパスです。
	TasksPath = "/tasks"
)

// フラッシュメッセージ
const (
	msgLoginSucceeded = "Login successful"
	msgLoginFailed    = "Invalid username or password"
	msgLoggedOut      = "Logged out successfully!"
)

var (
	maxSessionLifetime = 12 * time.Hour
	// イベント送出がログイン/ログアウトの応答を待たせる上限
	publishTimeout = 500 * time.Millisecond
)

// SessionMaxAgeSeconds はクッキーの MaxAge に利用する秒数を返します。
func SessionMaxAgeSeconds() int {
	return int(maxSessionLifetime.Seconds())
}

// ContextUserKey は、ハンドラー間でログイン済みユーザー名を共有するためのキーです。
const ContextUserKey = "auth.user"

// Session はハンドラーが読み書きするセッションの最小限の操作です。
// sessions.Session はこれを満たします。
type Session interface {
	flash.Queue
	Get(key interface{}) interface{}
	Set(key interface{}, val interface{})
	Delete(key interface{})
}

// EventPublisher は認証イベントを外部へ引き渡します。
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Outcome はログイン試行の結果です。
type Outcome struct {
	Authenticated bool
	RedirectTo    string
}

// Manager は認証処理をまとめた構造体です。
type Manager struct {
	cred      Credential
	publisher EventPublisher
	logger    *log.Logger
}

// NewManager は認証マネージャーを作成します。publisher は nil でも構いません。
func NewManager(cred Credential, publisher EventPublisher, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		cred:      cred,
		publisher: publisher,
		logger:    logger,
	}
}

// Attempt は資格情報を照合し、成功時のみセッションにユーザーを設定します。
// どちらの場合もフラッシュを1件積みます。
func (m *Manager) Attempt(sess Session, username, password string) Outcome {
	if !m.cred.Matches(username, password) {
		flash.Add(sess, flash.CategoryDanger, msgLoginFailed)
		return Outcome{RedirectTo: LoginPath}
	}

	sess.Set(sessionKeyUser, username)
	flash.Add(sess, flash.CategorySuccess, msgLoginSucceeded)
	return Outcome{Authenticated: true, RedirectTo: TasksPath}
}

// SignOut はセッションからユーザーを取り除きます。未ログインでも同じ結果になります。
func SignOut(sess Session) string {
	sess.Delete(sessionKeyUser)
	flash.Add(sess, flash.CategoryInfo, msgLoggedOut)
	return LoginPath
}

// CurrentUser はログイン中のユーザー名を返します。
func CurrentUser(sess Session) (string, bool) {
	user, ok := sess.Get(sessionKeyUser).(string)
	if !ok || user == "" {
		return "", false
	}
	return user, true
}

// LoginForm は GET /login のハンドラーです。
func (m *Manager) LoginForm(c *gin.Context) {
	session := sessions.Default(c)
	user, _ := CurrentUser(session)
	m.Render(c, view.PageLogin, view.PageData{Title: "Login", User: user})
}

// Login は POST /login のハンドラーです。
func (m *Manager) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	session := sessions.Default(c)
	outcome := m.Attempt(session, username, password)

	if err := session.Save(); err != nil {
		m.logger.Printf("failed to save session on login: %v", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	kind := events.KindLoginFailed
	if outcome.Authenticated {
		kind = events.KindLoginSucceeded
	}
	m.publish(c, events.New(kind, username, c.ClientIP()))

	c.Redirect(http.StatusFound, outcome.RedirectTo)
}

// Logout は GET /logout のハンドラーです。
func (m *Manager) Logout(c *gin.Context) {
	session := sessions.Default(c)
	user, _ := CurrentUser(session)
	target := SignOut(session)

	if err := session.Save(); err != nil {
		m.logger.Printf("failed to save session on logout: %v", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	m.publish(c, events.New(events.KindLogout, user, c.ClientIP()))
	c.Redirect(http.StatusFound, target)
}

// Render はフラッシュを取り出してページを描画します。
func (m *Manager) Render(c *gin.Context, page string, data view.PageData) {
	session := sessions.Default(c)
	data.Flashes = flash.Pop(session)
	if len(data.Flashes) > 0 {
		if err := session.Save(); err != nil {
			m.logger.Printf("failed to save session after reading flashes: %v", err)
			c.String(http.StatusInternalServerError, "internal server error")
			return
		}
	}
	c.HTML(http.StatusOK, page, data)
}

func (m *Manager) publish(c *gin.Context, event events.Event) {
	if m.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), publishTimeout)
	defer cancel()
	if err := m.publisher.Publish(ctx, event); err != nil {
		m.logger.Printf("failed to publish auth event kind=%s: %v", event.Kind, err)
	}
}
