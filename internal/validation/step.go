package validation

import (
	"strings"

	"github.com/hitoshi/mymetas/internal/model"
)

// StepPayload はステップ作成・更新リクエストの未検証ボディ。
type StepPayload struct {
	Description *string `json:"description"`
	Done        *bool   `json:"done"`
}

// StepCreateInput は検証済みのステップ作成入力。
type StepCreateInput struct {
	Description string
}

// StepUpdateInput は検証済みのステップ更新入力。nilのフィールドは変更しない。
type StepUpdateInput struct {
	Description *string
	Done        *bool
}

// ValidateStepCreate はステップ作成ペイロードを検証して正規化する。
// descriptionは必須・トリム後非空。
func ValidateStepCreate(p StepPayload) (*StepCreateInput, *model.ValidationError) {
	verr := &model.ValidationError{}
	in := &StepCreateInput{}

	if p.Description == nil {
		verr.Add("description", "required", "descriptionは必須です。")
	} else {
		desc := strings.TrimSpace(*p.Description)
		if desc == "" {
			verr.Add("description", "required", "descriptionを空にすることはできません。")
		}
		in.Description = desc
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return in, nil
}

// ValidateStepUpdate はステップ更新ペイロードを検証して正規化する。
// descriptionは指定された場合のみトリム後非空を要求する。
func ValidateStepUpdate(p StepPayload) (*StepUpdateInput, *model.ValidationError) {
	verr := &model.ValidationError{}
	in := &StepUpdateInput{Done: p.Done}

	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		if desc == "" {
			verr.Add("description", "required", "descriptionを空にすることはできません。")
		} else {
			in.Description = &desc
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return in, nil
}
