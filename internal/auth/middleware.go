package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireLogin は未ログインのリクエストをログインフォームへリダイレクトするミドルウェアです。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(sessions.Default(c))
		if !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireLoginJSON は API 向けに 401 を返すミドルウェアです。
func (m *Manager) RequireLoginJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(sessions.Default(c))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "login required",
			})
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}
