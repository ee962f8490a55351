package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hitoshi/mymetas/internal/middleware"
	"github.com/hitoshi/mymetas/internal/model"
	"github.com/hitoshi/mymetas/internal/validation"
)

// avatarMaxBytes はプロフィール写真の最大サイズ（5MB）。
const avatarMaxBytes = 5 << 20

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register は新規ユーザーを登録する。
	Register(ctx context.Context, in *validation.UserCreateInput) (*model.User, error)
	// Get は認証済みユーザーのプロフィールを返す。
	Get(ctx context.Context, userID string) (*model.User, error)
	// Update はプロフィールを部分更新する。
	Update(ctx context.Context, userID string, in *validation.UserUpdateInput) (*model.User, error)
	// UpdateProfilePhoto はプロフィール写真のURLを更新する。
	UpdateProfilePhoto(ctx context.Context, userID, photoURL string) (*model.User, error)
	// Withdraw は退会処理を実行する。
	Withdraw(ctx context.Context, userID string) error
}

// AvatarUploader はプロフィール写真の保存インターフェース。
// avatar.Uploaderと同一シグネチャ。ストレージ未設定の場合はnil。
type AvatarUploader interface {
	Upload(ctx context.Context, userID string, body io.Reader) (string, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service  UserServiceInterface
	uploader AvatarUploader
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, uploader AvatarUploader) *UserHandler {
	return &UserHandler{
		service:  service,
		uploader: uploader,
	}
}

// Register は新規ユーザー登録を処理する。
// POST /user
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload validation.UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	in, verr := validation.ValidateUserCreate(payload)
	if verr != nil {
		writeValidationErrorResponse(w, verr)
		return
	}

	u, err := h.service.Register(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// Get は認証済みユーザーのプロフィールを返す。
// GET /user
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	u, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Update はプロフィールの部分更新を処理する。
// PUT /user
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var payload validation.UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	in, verr := validation.ValidateUserUpdate(payload)
	if verr != nil {
		writeValidationErrorResponse(w, verr)
		return
	}

	u, err := h.service.Update(r.Context(), userID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// UploadAvatar はプロフィール写真のアップロードを処理する。
// リクエストボディはPNGのバイナリ。ストレージ未設定の場合は503を返す。
// PUT /user/avatar
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	if h.uploader == nil {
		writeAPIErrorResponse(w, http.StatusServiceUnavailable, model.NewStorageUnavailableError())
		return
	}

	body := http.MaxBytesReader(w, r.Body, avatarMaxBytes)
	defer body.Close()

	photoURL, err := h.uploader.Upload(r.Context(), userID, body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	u, err := h.service.UpdateProfilePhoto(r.Context(), userID, photoURL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Withdraw は退会処理を実行する。
// DELETE /user
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	if err := h.service.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
