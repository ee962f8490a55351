// Package model はドメインモデルを定義する。
package model

import "time"

// Step はメタに属するチェックリスト項目を表す。
// 所有者情報は持たず、親メタを経由してのみ到達できる。
type Step struct {
	ID          string
	MetaID      string
	Description string
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
