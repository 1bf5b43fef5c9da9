// Package view は HTML ページのテンプレートと描画用データを提供します。
package view

import (
	"embed"
	"html/template"

	"github.com/yourusername/todo-list/internal/flash"
)

// ページテンプレート名
const (
	PageLogin = "login.html"
	PageTasks = "tasks.html"
)

//go:embed templates/*.html
var files embed.FS

// PageData は全ページ共通の描画データです。
type PageData struct {
	Title   string
	User    string
	Flashes []flash.Flash
}

// Templates は埋め込みテンプレートをパースして返します。
// gin.Engine.SetHTMLTemplate にそのまま渡せます。
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}

// MustTemplates は Templates のパニック版です。
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
