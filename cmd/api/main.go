// Package main はWebサーバーのエントリーポイントです。
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisstore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	redigo "github.com/gomodule/redigo/redis"

	"github.com/yourusername/todo-list/internal/auth"
	"github.com/yourusername/todo-list/internal/config"
	"github.com/yourusername/todo-list/internal/events"
	"github.com/yourusername/todo-list/internal/view"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.SetHTMLTemplate(view.MustTemplates())

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// 認証イベント（任意）
	var eventsManager *events.Manager
	if cfg.EventsEnabled() {
		eventsManager, err = setupEvents(cfg, log.Default())
		if err != nil {
			log.Fatalf("Failed to set up auth events: %v", err)
		}
		eventsManager.StartWorkers()
	}

	var publisher auth.EventPublisher
	var lister eventLister
	if eventsManager != nil {
		publisher = eventsManager
		lister = eventsManager
	}
	authManager := auth.NewManager(auth.CredentialFromConfig(cfg), publisher, log.Default())

	setupRoutes(router, authManager, lister)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	shutdownError := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		log.Printf("Shutting down server (signal: %s)", s)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if eventsManager != nil {
			if shutdownErr := eventsManager.Shutdown(ctx); shutdownErr != nil && err == nil {
				err = shutdownErr
			}
		}
		shutdownError <- err
	}()

	log.Printf("Starting server on %s (mode: %s, session store: %s)", srv.Addr, cfg.GinMode, cfg.SessionStore)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	if err := <-shutdownError; err != nil {
		log.Fatalf("Failed to shut down cleanly: %v", err)
	}
	log.Printf("Server stopped")
}

// newSessionStore は設定に応じたセッションストアを返します。
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		pool := &redigo.Pool{
			MaxIdle:     10,
			IdleTimeout: 240 * time.Second,
			Dial: func() (redigo.Conn, error) {
				return redigo.DialURL(cfg.SessionRedisURL)
			},
		}
		rs, err := redisstore.NewStoreWithPool(pool, []byte(cfg.SessionSecret))
		if err != nil {
			return nil, err
		}
		store = rs
	default:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   auth.SessionMaxAgeSeconds(),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		// ログイン後のリダイレクトでもクッキーが送られるよう Lax にする
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "todo-list",
		"version": "0.1.0",
	})
}

// setupRoutes はページと認証周りの配線を行います。
func setupRoutes(router *gin.Engine, authManager *auth.Manager, lister eventLister) {
	router.GET("/health", handleHealth)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, auth.TasksPath)
	})

	router.GET(auth.LoginPath, authManager.LoginForm)
	router.POST(auth.LoginPath, authManager.Login)
	router.GET("/logout", authManager.Logout)

	router.GET(auth.TasksPath, authManager.RequireLogin(), tasksHandler(authManager))

	api := router.Group("/api")
	api.Use(authManager.RequireLoginJSON())
	{
		api.GET("/auth/events", authEventsHandler(lister))
	}
}
