package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/mymetas/internal/middleware"
	"github.com/hitoshi/mymetas/internal/model"
	"github.com/hitoshi/mymetas/internal/validation"
)

// StepServiceInterface はステップハンドラーが必要とするサービスインターフェース。
// 全操作で親メタの所有確認を行う。
type StepServiceInterface interface {
	// Create は指定メタ配下にステップを作成する。
	Create(ctx context.Context, userID, metaID string, in *validation.StepCreateInput) (*model.Step, error)
	// Update はステップを部分更新する。
	Update(ctx context.Context, userID, metaID, stepID string, in *validation.StepUpdateInput) (*model.Step, error)
	// Delete はステップを削除する。
	Delete(ctx context.Context, userID, metaID, stepID string) error
}

// StepHandler はステップ管理のHTTPハンドラー。
type StepHandler struct {
	service StepServiceInterface
}

// NewStepHandler はStepHandlerを生成する。
func NewStepHandler(service StepServiceInterface) *StepHandler {
	return &StepHandler{service: service}
}

// Create はステップの作成を処理する。
// POST /metas/:meta_id/steps
func (h *StepHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	metaID := chi.URLParam(r, "meta_id")

	var payload validation.StepPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	in, verr := validation.ValidateStepCreate(payload)
	if verr != nil {
		writeValidationErrorResponse(w, verr)
		return
	}

	st, err := h.service.Create(r.Context(), userID, metaID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toStepResponse(st))
}

// Update はステップの部分更新を処理する。
// PUT /metas/:meta_id/steps/:step_id
func (h *StepHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	metaID := chi.URLParam(r, "meta_id")
	stepID := chi.URLParam(r, "step_id")

	var payload validation.StepPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	in, verr := validation.ValidateStepUpdate(payload)
	if verr != nil {
		writeValidationErrorResponse(w, verr)
		return
	}

	st, err := h.service.Update(r.Context(), userID, metaID, stepID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStepResponse(st))
}

// Delete はステップの削除を処理する。
// DELETE /metas/:meta_id/steps/:step_id
func (h *StepHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	metaID := chi.URLParam(r, "meta_id")
	stepID := chi.URLParam(r, "step_id")

	if err := h.service.Delete(r.Context(), userID, metaID, stepID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
