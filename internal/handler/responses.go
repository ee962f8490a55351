package handler

import (
	"time"

	"github.com/hitoshi/mymetas/internal/meta"
	"github.com/hitoshi/mymetas/internal/model"
)

// userResponse はユーザー情報のAPIレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	ProfilePhotoURL *string `json:"profile_photo_url"`
	Role            string  `json:"role"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// metaResponse はメタ情報のAPIレスポンス。
// Countdownはステータスと目標日から導出され、永続化されない。
type metaResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Status      string         `json:"status"`
	DateTarget  *string        `json:"date_target"`
	Favorite    bool           `json:"favorite"`
	CompletedAt *string        `json:"completed_at"`
	Countdown   string         `json:"countdown"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Steps       []stepResponse `json:"steps,omitempty"`
}

// stepResponse はステップ情報のAPIレスポンス。
type stepResponse struct {
	ID          string `json:"id"`
	MetaID      string `json:"meta_id"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfilePhotoURL: u.ProfilePhotoURL,
		Role:            string(u.Role),
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       u.UpdatedAt.Format(time.RFC3339),
	}
}

// toMetaResponse はmeta.MetaInfoからAPIレスポンスに変換する。
func toMetaResponse(info *meta.MetaInfo) metaResponse {
	m := info.Meta

	resp := metaResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      string(m.Status),
		Favorite:    m.Favorite,
		Countdown:   info.Countdown,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
	}

	if m.DateTarget != nil {
		d := m.DateTarget.Format("2006-01-02")
		resp.DateTarget = &d
	}
	if m.CompletedAt != nil {
		c := m.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &c
	}
	for _, st := range info.Steps {
		resp.Steps = append(resp.Steps, toStepResponse(st))
	}

	return resp
}

// toStepResponse はmodel.StepからAPIレスポンスに変換する。
func toStepResponse(st *model.Step) stepResponse {
	return stepResponse{
		ID:          st.ID,
		MetaID:      st.MetaID,
		Description: st.Description,
		Done:        st.Done,
		CreatedAt:   st.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   st.UpdatedAt.Format(time.RFC3339),
	}
}
