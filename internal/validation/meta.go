// Package validation は入力ペイロードの検証と正規化を提供する。
// 各関数は正規化済みの入力か、フィールド単位のエラーリストを返す。
// エラーが1件でもあれば呼び出し側は永続化前に処理を中断する。
package validation

import (
	"strings"
	"time"

	"github.com/hitoshi/mymetas/internal/model"
)

// dateLayout はdate_targetの受理フォーマット（時刻成分なし）。
const dateLayout = "2006-01-02"

// MetaPayload はメタ作成・更新リクエストの未検証ボディ。
// 省略されたフィールドとnullはいずれもnilになる。
type MetaPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DateTarget  *string `json:"date_target"`
	Status      *string `json:"status"`
	Favorite    *bool   `json:"favorite"`
}

// MetaCreateInput は検証済みのメタ作成入力。
type MetaCreateInput struct {
	Title       string
	Description *string
	DateTarget  *time.Time
	Status      model.MetaStatus
}

// MetaUpdateInput は検証済みのメタ更新入力。nilのフィールドは変更しない。
type MetaUpdateInput struct {
	Title       *string
	Description *string
	DateTarget  *time.Time
	Status      *model.MetaStatus
	Favorite    *bool
}

// ValidateMetaCreate はメタ作成ペイロードを検証して正規化する。
// titleは必須・トリム後非空。statusは省略時to_do。
func ValidateMetaCreate(p MetaPayload) (*MetaCreateInput, *model.ValidationError) {
	verr := &model.ValidationError{}
	in := &MetaCreateInput{Status: model.StatusToDo}

	if p.Title == nil {
		verr.Add("title", "required", "titleは必須です。")
	} else {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			verr.Add("title", "required", "titleを空にすることはできません。")
		}
		in.Title = title
	}

	in.Description = trimOptional(p.Description)

	if p.DateTarget != nil {
		d, err := time.Parse(dateLayout, strings.TrimSpace(*p.DateTarget))
		if err != nil {
			verr.Add("date_target", "date", "date_targetはYYYY-MM-DD形式の有効な日付を指定してください。")
		} else {
			in.DateTarget = &d
		}
	}

	if p.Status != nil {
		s := model.MetaStatus(strings.TrimSpace(*p.Status))
		if !model.ValidMetaStatus(s) {
			verr.Add("status", "enum", "statusにはto_do、in_progress、completedのいずれかを指定してください。")
		} else {
			in.Status = s
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return in, nil
}

// ValidateMetaUpdate はメタ更新ペイロードを検証して正規化する。
// すべてのフィールドが省略可能だが、指定された場合は作成時と同じ制約を満たす必要がある。
func ValidateMetaUpdate(p MetaPayload) (*MetaUpdateInput, *model.ValidationError) {
	verr := &model.ValidationError{}
	in := &MetaUpdateInput{Favorite: p.Favorite}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			verr.Add("title", "required", "titleを空にすることはできません。")
		} else {
			in.Title = &title
		}
	}

	in.Description = trimOptional(p.Description)

	if p.DateTarget != nil {
		d, err := time.Parse(dateLayout, strings.TrimSpace(*p.DateTarget))
		if err != nil {
			verr.Add("date_target", "date", "date_targetはYYYY-MM-DD形式の有効な日付を指定してください。")
		} else {
			in.DateTarget = &d
		}
	}

	if p.Status != nil {
		s := model.MetaStatus(strings.TrimSpace(*p.Status))
		if !model.ValidMetaStatus(s) {
			verr.Add("status", "enum", "statusにはto_do、in_progress、completedのいずれかを指定してください。")
		} else {
			in.Status = &s
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return in, nil
}

// trimOptional は任意文字列フィールドをトリムする。nilはnilのまま返す。
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
