// Package model はドメインモデルを定義する。
package model

import "time"

// Meta はユーザーが追跡する目標を表す。
type Meta struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	Status      MetaStatus
	DateTarget  *time.Time // 日付のみ（時刻成分は持たない）
	Favorite    bool
	CompletedAt *time.Time // completedへの遷移時に一度だけ設定される
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MetaStatus はメタの進捗状態を表す。
type MetaStatus string

const (
	// StatusToDo は未着手の状態。
	StatusToDo MetaStatus = "to_do"
	// StatusInProgress は進行中の状態。
	StatusInProgress MetaStatus = "in_progress"
	// StatusCompleted は完了した状態。
	StatusCompleted MetaStatus = "completed"
)

// ValidMetaStatus はstatusが定義済みの3値のいずれかであるかを返す。
func ValidMetaStatus(s MetaStatus) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
