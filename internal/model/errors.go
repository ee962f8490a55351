// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, meta, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMetaNotFound       = "META_NOT_FOUND"
	ErrCodeStepNotFound       = "STEP_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

// NewMetaNotFoundError はメタ未検出エラーを生成する。
// 他ユーザー所有のメタも同一のエラーとして扱い、存在有無を漏らさない。
func NewMetaNotFoundError(metaID string) *APIError {
	return &APIError{
		Code:     ErrCodeMetaNotFound,
		Message:  fmt.Sprintf("指定されたメタが見つかりません: %s", metaID),
		Category: "meta",
		Action:   "メタIDを確認してください。",
	}
}

// NewStepNotFoundError はステップ未検出エラーを生成する。
func NewStepNotFoundError(stepID string) *APIError {
	return &APIError{
		Code:     ErrCodeStepNotFound,
		Message:  fmt.Sprintf("指定されたステップが見つかりません: %s", stepID),
		Category: "meta",
		Action:   "ステップIDと親メタIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewEmailTakenError はメールアドレスが既に登録済みの場合のエラーを生成する。
func NewEmailTakenError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報が不正な場合のエラーを生成する。
// メールアドレス未登録とパスワード不一致は区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewStorageUnavailableError は画像ストレージが未設定の場合のエラーを生成する。
func NewStorageUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeStorageUnavailable,
		Message:  "画像ストレージが利用できません。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// FieldError は単一フィールドのバリデーションエラーを表す。
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError はフィールド単位のバリデーションエラーの集合を表す。
// 1件でも含まれる場合、書き込みは永続化層に到達する前に中断される。
type ValidationError struct {
	Fields []FieldError
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("[%s] validation failed: %s", ErrCodeValidationFailed, strings.Join(names, ", "))
}

// Add はフィールドエラーを追加する。
func (e *ValidationError) Add(field, rule, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Rule: rule, Message: message})
}

// HasErrors はエラーが1件以上存在するかを返す。
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}
