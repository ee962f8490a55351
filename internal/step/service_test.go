package step

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/mymetas/internal/model"
	"github.com/hitoshi/mymetas/internal/validation"
)

// --- モック定義 ---

type mockMetaRepository struct {
	findByIDAndUserFn func(ctx context.Context, metaID, userID string) (*model.Meta, error)
}

func (m *mockMetaRepository) Create(ctx context.Context, meta *model.Meta) error { return nil }

func (m *mockMetaRepository) FindByIDAndUser(ctx context.Context, metaID, userID string) (*model.Meta, error) {
	if m.findByIDAndUserFn != nil {
		return m.findByIDAndUserFn(ctx, metaID, userID)
	}
	return nil, nil
}

func (m *mockMetaRepository) ListByUser(ctx context.Context, userID string) ([]*model.Meta, error) {
	return nil, nil
}

func (m *mockMetaRepository) Update(ctx context.Context, meta *model.Meta) error { return nil }

func (m *mockMetaRepository) DeleteByIDAndUser(ctx context.Context, metaID, userID string) (bool, error) {
	return false, nil
}

type mockStepRepository struct {
	createFn          func(ctx context.Context, step *model.Step) error
	findByIDAndMetaFn func(ctx context.Context, stepID, metaID string) (*model.Step, error)
	updateFn          func(ctx context.Context, step *model.Step) error
	deleteFn          func(ctx context.Context, stepID, metaID string) (bool, error)
}

func (m *mockStepRepository) Create(ctx context.Context, step *model.Step) error {
	if m.createFn != nil {
		return m.createFn(ctx, step)
	}
	return nil
}

func (m *mockStepRepository) FindByIDAndMeta(ctx context.Context, stepID, metaID string) (*model.Step, error) {
	if m.findByIDAndMetaFn != nil {
		return m.findByIDAndMetaFn(ctx, stepID, metaID)
	}
	return nil, nil
}

func (m *mockStepRepository) ListByMeta(ctx context.Context, metaID string) ([]*model.Step, error) {
	return nil, nil
}

func (m *mockStepRepository) Update(ctx context.Context, step *model.Step) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, step)
	}
	return nil
}

func (m *mockStepRepository) DeleteByIDAndMeta(ctx context.Context, stepID, metaID string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, stepID, metaID)
	}
	return false, nil
}

type mockRecorder struct {
	created int
}

func (m *mockRecorder) RecordStepCreated() { m.created++ }

// --- ヘルパー ---

var fixedNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func ownedMetaRepo() *mockMetaRepository {
	return &mockMetaRepository{
		findByIDAndUserFn: func(ctx context.Context, metaID, userID string) (*model.Meta, error) {
			if metaID == "meta-1" && userID == "user-1" {
				return &model.Meta{ID: metaID, UserID: userID, Title: "読書"}, nil
			}
			return nil, nil
		},
	}
}

func newTestService(metaRepo *mockMetaRepository, stepRepo *mockStepRepository, rec *mockRecorder) *Service {
	var recorder MetricsRecorder
	if rec != nil {
		recorder = rec
	}
	s := NewService(metaRepo, stepRepo, recorder)
	s.now = func() time.Time { return fixedNow }
	return s
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// --- Create ---

func TestCreate_Success(t *testing.T) {
	var created *model.Step
	stepRepo := &mockStepRepository{
		createFn: func(ctx context.Context, step *model.Step) error {
			created = step
			return nil
		},
	}

	rec := &mockRecorder{}
	svc := newTestService(ownedMetaRepo(), stepRepo, rec)

	in := &validation.StepCreateInput{Description: "1章を読む"}
	st, err := svc.Create(context.Background(), "user-1", "meta-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected repository Create to be called")
	}
	if st.ID == "" {
		t.Error("expected non-empty step ID")
	}
	if st.MetaID != "meta-1" {
		t.Errorf("MetaID = %q, want %q", st.MetaID, "meta-1")
	}
	if st.Done {
		t.Error("new step should not be done")
	}
	if !st.CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v, want %v", st.CreatedAt, fixedNow)
	}
	if rec.created != 1 {
		t.Errorf("steps created metric = %d, want 1", rec.created)
	}
}

func TestCreate_MetaNotOwned_ReturnsMetaNotFoundError(t *testing.T) {
	stepRepo := &mockStepRepository{
		createFn: func(ctx context.Context, step *model.Step) error {
			t.Fatal("step repository should not be called")
			return nil
		},
	}

	svc := newTestService(ownedMetaRepo(), stepRepo, nil)

	in := &validation.StepCreateInput{Description: "1章を読む"}
	_, err := svc.Create(context.Background(), "user-2", "meta-1", in)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeMetaNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeMetaNotFound)
	}
}

// --- Update ---

func TestUpdate_Success(t *testing.T) {
	var updated *model.Step
	stepRepo := &mockStepRepository{
		findByIDAndMetaFn: func(ctx context.Context, stepID, metaID string) (*model.Step, error) {
			if stepID == "step-1" && metaID == "meta-1" {
				return &model.Step{ID: stepID, MetaID: metaID, Description: "1章を読む"}, nil
			}
			return nil, nil
		},
		updateFn: func(ctx context.Context, step *model.Step) error {
			updated = step
			return nil
		},
	}

	svc := newTestService(ownedMetaRepo(), stepRepo, nil)

	in := &validation.StepUpdateInput{Done: boolPtr(true)}
	st, err := svc.Update(context.Background(), "user-1", "meta-1", "step-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !st.Done {
		t.Error("expected Done to be true")
	}
	if st.Description != "1章を読む" {
		t.Errorf("Description = %q, should be unchanged", st.Description)
	}
	if updated == nil {
		t.Fatal("expected repository Update to be called")
	}
	if !updated.UpdatedAt.Equal(fixedNow) {
		t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt, fixedNow)
	}
}

func TestUpdate_DescriptionOnly(t *testing.T) {
	stepRepo := &mockStepRepository{
		findByIDAndMetaFn: func(ctx context.Context, stepID, metaID string) (*model.Step, error) {
			return &model.Step{ID: stepID, MetaID: metaID, Description: "旧説明", Done: true}, nil
		},
	}

	svc := newTestService(ownedMetaRepo(), stepRepo, nil)

	in := &validation.StepUpdateInput{Description: strPtr("新説明")}
	st, err := svc.Update(context.Background(), "user-1", "meta-1", "step-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.Description != "新説明" {
		t.Errorf("Description = %q, want %q", st.Description, "新説明")
	}
	if !st.Done {
		t.Error("Done should be unchanged")
	}
}

func TestUpdate_StepNotFound_ReturnsStepNotFoundError(t *testing.T) {
	stepRepo := &mockStepRepository{
		findByIDAndMetaFn: func(ctx context.Context, stepID, metaID string) (*model.Step, error) {
			return nil, nil
		},
	}

	svc := newTestService(ownedMetaRepo(), stepRepo, nil)

	in := &validation.StepUpdateInput{Done: boolPtr(true)}
	_, err := svc.Update(context.Background(), "user-1", "meta-1", "missing-step", in)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeStepNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeStepNotFound)
	}
}

func TestUpdate_MetaNotOwned_ReturnsMetaNotFoundBeforeStepLookup(t *testing.T) {
	stepRepo := &mockStepRepository{
		findByIDAndMetaFn: func(ctx context.Context, stepID, metaID string) (*model.Step, error) {
			t.Fatal("step lookup should not happen when meta is not owned")
			return nil, nil
		},
	}

	svc := newTestService(ownedMetaRepo(), stepRepo, nil)

	in := &validation.StepUpdateInput{Done: boolPtr(true)}
	_, err := svc.Update(context.Background(), "user-2", "meta-1", "step-1", in)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeMetaNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeMetaNotFound)
	}
}

// --- Delete ---

func TestDelete_Success(t *testing.T) {
	stepRepo := &mockStepRepository{
		deleteFn: func(ctx context.Context, stepID, metaID string) (bool, error) {
			return true, nil
		},
	}

	svc := newTestService(ownedMetaRepo(), stepRepo, nil)

	if err := svc.Delete(context.Background(), "user-1", "meta-1", "step-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_StepNotFound_ReturnsStepNotFoundError(t *testing.T) {
	stepRepo := &mockStepRepository{
		deleteFn: func(ctx context.Context, stepID, metaID string) (bool, error) {
			return false, nil
		},
	}

	svc := newTestService(ownedMetaRepo(), stepRepo, nil)

	err := svc.Delete(context.Background(), "user-1", "meta-1", "missing-step")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeStepNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeStepNotFound)
	}
}

func TestDelete_MetaNotOwned_ReturnsMetaNotFoundError(t *testing.T) {
	stepRepo := &mockStepRepository{
		deleteFn: func(ctx context.Context, stepID, metaID string) (bool, error) {
			t.Fatal("step delete should not happen when meta is not owned")
			return false, nil
		},
	}

	svc := newTestService(ownedMetaRepo(), stepRepo, nil)

	err := svc.Delete(context.Background(), "user-2", "meta-1", "step-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeMetaNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeMetaNotFound)
	}
}
