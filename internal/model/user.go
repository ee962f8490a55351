// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	ProfilePhotoURL *string
	Role            UserRole
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserRole はユーザーの権限種別を表す。
type UserRole string

const (
	// RoleCommon は一般ユーザー。
	RoleCommon UserRole = "common"
	// RoleAdmin は管理者ユーザー。
	RoleAdmin UserRole = "admin"
)
