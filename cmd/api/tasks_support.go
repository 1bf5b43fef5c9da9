package main

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/todo-list/internal/auth"
	"github.com/yourusername/todo-list/internal/view"
)

// tasksHandler はログイン後の遷移先となるタスク一覧ページです。
// TODO: タスクの一覧と登録は tasks パッケージ側で実装する
func tasksHandler(authManager *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authManager.Render(c, view.PageTasks, view.PageData{
			Title: "Tasks",
			User:  c.GetString(auth.ContextUserKey),
		})
	}
}
