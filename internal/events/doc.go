// Package events は認証イベントの非同期記録機能を提供します。
//
// ハンドラーは Manager.Publish でイベントを Asynq に投入し、
// ワーカーが Redis のリストへ新しい順に追記します。
//
// 使用ライブラリ:
// - github.com/hibiken/asynq: イベントキュー
// - github.com/redis/go-redis/v9: イベントの保存
package events
