// Package flash はセッションに積まれる一度きりの通知メッセージを扱います。
package flash

import "encoding/gob"

// Category は通知の重要度を表します。
type Category string

const (
	CategorySuccess Category = "success"
	CategoryDanger  Category = "danger"
	CategoryInfo    Category = "info"
)

// Flash は次に描画されるページで一度だけ表示される通知です。
type Flash struct {
	Category Category
	Message  string
}

// Queue はフラッシュを保持できるセッションが実装します。
// gin-contrib/sessions の sessions.Session はこれを満たします。
type Queue interface {
	AddFlash(value interface{}, vars ...string)
	Flashes(vars ...string) []interface{}
}

func init() {
	// cookie/redis どちらのストアも gob でシリアライズする
	gob.Register(Flash{})
}

// Add はフラッシュを末尾に追加します。
func Add(q Queue, category Category, message string) {
	q.AddFlash(Flash{Category: category, Message: message})
}

// Pop は溜まっているフラッシュを追加順に取り出し、キューを空にします。
// 呼び出し側はセッションを保存する必要があります。
func Pop(q Queue) []Flash {
	raw := q.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		switch f := v.(type) {
		case Flash:
			out = append(out, f)
		case *Flash:
			if f != nil {
				out = append(out, *f)
			}
		case string:
			out = append(out, Flash{Category: CategoryInfo, Message: f})
		}
	}
	return out
}
