package validation

import (
	"net/mail"
	"strings"

	"github.com/hitoshi/mymetas/internal/model"
)

// passwordMinLength はパスワードの最小文字数。
const passwordMinLength = 8

// UserPayload はユーザー登録・プロフィール更新リクエストの未検証ボディ。
type UserPayload struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UserCreateInput は検証済みのユーザー登録入力。
type UserCreateInput struct {
	Name     string
	Email    string
	Password string
}

// UserUpdateInput は検証済みのプロフィール更新入力。nilのフィールドは変更しない。
type UserUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// ValidateUserCreate はユーザー登録ペイロードを検証して正規化する。
func ValidateUserCreate(p UserPayload) (*UserCreateInput, *model.ValidationError) {
	verr := &model.ValidationError{}
	in := &UserCreateInput{}

	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		verr.Add("name", "required", "nameは必須です。")
	} else {
		in.Name = strings.TrimSpace(*p.Name)
	}

	if p.Email == nil || strings.TrimSpace(*p.Email) == "" {
		verr.Add("email", "required", "emailは必須です。")
	} else {
		email := strings.TrimSpace(*p.Email)
		if !validEmail(email) {
			verr.Add("email", "email", "emailの形式が正しくありません。")
		}
		in.Email = strings.ToLower(email)
	}

	if p.Password == nil {
		verr.Add("password", "required", "passwordは必須です。")
	} else if len(*p.Password) < passwordMinLength {
		verr.Add("password", "minLength", "passwordは8文字以上で指定してください。")
	} else {
		in.Password = *p.Password
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return in, nil
}

// ValidateUserUpdate はプロフィール更新ペイロードを検証して正規化する。
func ValidateUserUpdate(p UserPayload) (*UserUpdateInput, *model.ValidationError) {
	verr := &model.ValidationError{}
	in := &UserUpdateInput{}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			verr.Add("name", "required", "nameを空にすることはできません。")
		} else {
			in.Name = &name
		}
	}

	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if !validEmail(email) {
			verr.Add("email", "email", "emailの形式が正しくありません。")
		} else {
			lower := strings.ToLower(email)
			in.Email = &lower
		}
	}

	if p.Password != nil {
		if len(*p.Password) < passwordMinLength {
			verr.Add("password", "minLength", "passwordは8文字以上で指定してください。")
		} else {
			in.Password = p.Password
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return in, nil
}

// validEmail はメールアドレスの形式を検証する。
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
