package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/mymetas/internal/meta"
	"github.com/hitoshi/mymetas/internal/middleware"
	"github.com/hitoshi/mymetas/internal/validation"
)

// MetaServiceInterface はメタハンドラーが必要とするサービスインターフェース。
type MetaServiceInterface interface {
	// List はユーザーのメタ一覧をカウントダウン付きで返す。
	List(ctx context.Context, userID string) ([]meta.MetaInfo, error)
	// Create は新しいメタを作成する。
	Create(ctx context.Context, userID string, in *validation.MetaCreateInput) (*meta.MetaInfo, error)
	// Get はメタの詳細をステップ一覧付きで返す。
	Get(ctx context.Context, userID, metaID string) (*meta.MetaInfo, error)
	// Update はメタを部分更新する。
	Update(ctx context.Context, userID, metaID string, in *validation.MetaUpdateInput) (*meta.MetaInfo, error)
	// Delete はメタを削除する。
	Delete(ctx context.Context, userID, metaID string) error
}

// MetaHandler はメタ管理のHTTPハンドラー。
type MetaHandler struct {
	service MetaServiceInterface
}

// NewMetaHandler はMetaHandlerを生成する。
func NewMetaHandler(service MetaServiceInterface) *MetaHandler {
	return &MetaHandler{service: service}
}

// List はメタ一覧を返す。
// GET /metas
func (h *MetaHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	infos, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]metaResponse, len(infos))
	for i := range infos {
		resp[i] = toMetaResponse(&infos[i])
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create はメタの作成を処理する。
// POST /metas
func (h *MetaHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var payload validation.MetaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	in, verr := validation.ValidateMetaCreate(payload)
	if verr != nil {
		writeValidationErrorResponse(w, verr)
		return
	}

	info, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMetaResponse(info))
}

// Get はメタの詳細をステップ一覧付きで返す。
// GET /metas/:meta_id
func (h *MetaHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	metaID := chi.URLParam(r, "meta_id")

	info, err := h.service.Get(r.Context(), userID, metaID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMetaResponse(info))
}

// Update はメタの部分更新を処理する。
// PUT /metas/:meta_id
func (h *MetaHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	metaID := chi.URLParam(r, "meta_id")

	var payload validation.MetaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	in, verr := validation.ValidateMetaUpdate(payload)
	if verr != nil {
		writeValidationErrorResponse(w, verr)
		return
	}

	info, err := h.service.Update(r.Context(), userID, metaID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMetaResponse(info))
}

// Delete はメタの削除を処理する。配下のステップも削除される。
// DELETE /metas/:meta_id
func (h *MetaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	metaID := chi.URLParam(r, "meta_id")

	if err := h.service.Delete(r.Context(), userID, metaID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
