package meta

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
	createFn          func(ctx context.Context, meta *model.Meta) error
	findByIDAndUserFn func(ctx context.Context, metaID, userID string) (*model.Meta, error)
	listByUserFn      func(ctx context.Context, userID string) ([]*model.Meta, error)
	updateFn          func(ctx context.Context, meta *model.Meta) error
	deleteFn          func(ctx context.Context, metaID, userID string) (bool, error)
}

func (m *mockMetaRepository) Create(ctx context.Context, meta *model.Meta) error {
	if m.createFn != nil {
		return m.createFn(ctx, meta)
	}
	return nil
}

func (m *mockMetaRepository) FindByIDAndUser(ctx context.Context, metaID, userID string) (*model.Meta, error) {
	if m.findByIDAndUserFn != nil {
		return m.findByIDAndUserFn(ctx, metaID, userID)
	}
	return nil, nil
}

func (m *mockMetaRepository) ListByUser(ctx context.Context, userID string) ([]*model.Meta, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockMetaRepository) Update(ctx context.Context, meta *model.Meta) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, meta)
	}
	return nil
}

func (m *mockMetaRepository) DeleteByIDAndUser(ctx context.Context, metaID, userID string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, metaID, userID)
	}
	return false, nil
}

type mockStepRepository struct {
	listByMetaFn func(ctx context.Context, metaID string) ([]*model.Step, error)
}

func (m *mockStepRepository) Create(ctx context.Context, step *model.Step) error { return nil }

func (m *mockStepRepository) FindByIDAndMeta(ctx context.Context, stepID, metaID string) (*model.Step, error) {
	return nil, nil
}

func (m *mockStepRepository) ListByMeta(ctx context.Context, metaID string) ([]*model.Step, error) {
	if m.listByMetaFn != nil {
		return m.listByMetaFn(ctx, metaID)
	}
	return nil, nil
}

func (m *mockStepRepository) Update(ctx context.Context, step *model.Step) error { return nil }

func (m *mockStepRepository) DeleteByIDAndMeta(ctx context.Context, stepID, metaID string) (bool, error) {
	return false, nil
}

type mockRecorder struct {
	created   int
	completed int
}

func (m *mockRecorder) RecordMetaCreated()   { m.created++ }
func (m *mockRecorder) RecordMetaCompleted() { m.completed++ }

// --- ヘルパー ---

var fixedNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

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

func statusPtr(s model.MetaStatus) *model.MetaStatus { return &s }

// --- List ---

func TestList_ReturnsMetasWithCountdown(t *testing.T) {
	target := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
	metaRepo := &mockMetaRepository{
		listByUserFn: func(ctx context.Context, userID string) ([]*model.Meta, error) {
			return []*model.Meta{
				{ID: "meta-1", UserID: userID, Title: "読書", Status: model.StatusInProgress, DateTarget: &target, Favorite: true},
				{ID: "meta-2", UserID: userID, Title: "運動", Status: model.StatusToDo},
			}, nil
		},
	}

	svc := newTestService(metaRepo, &mockStepRepository{}, nil)

	infos, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len(infos) = %d, want 2", len(infos))
	}
	if infos[0].Countdown != "7 days remaining" {
		t.Errorf("infos[0].Countdown = %q, want %q", infos[0].Countdown, "7 days remaining")
	}
	if infos[1].Countdown != "To do" {
		t.Errorf("infos[1].Countdown = %q, want %q", infos[1].Countdown, "To do")
	}
}

func TestList_RepositoryError_WrapsError(t *testing.T) {
	metaRepo := &mockMetaRepository{
		listByUserFn: func(ctx context.Context, userID string) ([]*model.Meta, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := newTestService(metaRepo, &mockStepRepository{}, nil)

	_, err := svc.List(context.Background(), "user-1")
	if err == nil {
		t.Fatal("expected error")
	}
}

// --- Create ---

func TestCreate_SetsIDAndTimestamps(t *testing.T) {
	var created *model.Meta
	metaRepo := &mockMetaRepository{
		createFn: func(ctx context.Context, meta *model.Meta) error {
			created = meta
			return nil
		},
	}

	rec := &mockRecorder{}
	svc := newTestService(metaRepo, &mockStepRepository{}, rec)

	in := &validation.MetaCreateInput{Title: "読書", Status: model.StatusToDo}
	info, err := svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected repository Create to be called")
	}
	if created.ID == "" {
		t.Error("expected non-empty meta ID")
	}
	if created.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", created.UserID, "user-1")
	}
	if !created.CreatedAt.Equal(fixedNow) || !created.UpdatedAt.Equal(fixedNow) {
		t.Error("expected timestamps to be set to now")
	}
	if created.CompletedAt != nil {
		t.Error("CompletedAt should be nil for to_do meta")
	}
	if info.Countdown != "To do" {
		t.Errorf("Countdown = %q, want %q", info.Countdown, "To do")
	}
	if rec.created != 1 {
		t.Errorf("metas created metric = %d, want 1", rec.created)
	}
}

func TestCreate_CompletedStatus_StampsCompletedAt(t *testing.T) {
	var created *model.Meta
	metaRepo := &mockMetaRepository{
		createFn: func(ctx context.Context, meta *model.Meta) error {
			created = meta
			return nil
		},
	}

	rec := &mockRecorder{}
	svc := newTestService(metaRepo, &mockStepRepository{}, rec)

	in := &validation.MetaCreateInput{Title: "済", Status: model.StatusCompleted}
	_, err := svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.CompletedAt == nil {
		t.Fatal("expected CompletedAt to be stamped")
	}
	if !created.CompletedAt.Equal(fixedNow) {
		t.Errorf("CompletedAt = %v, want %v", created.CompletedAt, fixedNow)
	}
	if rec.completed != 1 {
		t.Errorf("metas completed metric = %d, want 1", rec.completed)
	}
}

func TestCreate_RepositoryError_WrapsError(t *testing.T) {
	metaRepo := &mockMetaRepository{
		createFn: func(ctx context.Context, meta *model.Meta) error {
			return errors.New("insert failed")
		},
	}

	svc := newTestService(metaRepo, &mockStepRepository{}, nil)

	in := &validation.MetaCreateInput{Title: "読書", Status: model.StatusToDo}
	_, err := svc.Create(context.Background(), "user-1", in)
	if err == nil {
		t.Fatal("expected error")
	}
}

// --- Get ---

func TestGet_ReturnsMetaWithSteps(t *testing.T) {
	metaRepo := &mockMetaRepository{
		findByIDAndUserFn: func(ctx context.Context, metaID, userID string) (*model.Meta, error) {
			return &model.Meta{ID: metaID, UserID: userID, Title: "読書", Status: model.StatusToDo}, nil
		},
	}
	stepRepo := &mockStepRepository{
		listByMetaFn: func(ctx context.Context, metaID string) ([]*model.Step, error) {
			return []*model.Step{
				{ID: "step-1", MetaID: metaID, Description: "1章を読む"},
				{ID: "step-2", MetaID: metaID, Description: "2章を読む", Done: true},
			}, nil
		},
	}

	svc := newTestService(metaRepo, stepRepo, nil)

	info, err := svc.Get(context.Background(), "user-1", "meta-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(info.Steps) != 2 {
		t.Errorf("len(Steps) = %d, want 2", len(info.Steps))
	}
	if info.Countdown != "To do" {
		t.Errorf("Countdown = %q, want %q", info.Countdown, "To do")
	}
}

func TestGet_NotFound_ReturnsMetaNotFoundError(t *testing.T) {
	metaRepo := &mockMetaRepository{
		findByIDAndUserFn: func(ctx context.Context, metaID, userID string) (*model.Meta, error) {
			// 存在しない、または他ユーザー所有
			return nil, nil
		},
	}

	svc := newTestService(metaRepo, &mockStepRepository{}, nil)

	_, err := svc.Get(context.Background(), "user-1", "missing-meta")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeMetaNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeMetaNotFound)
	}
}

// --- Update ---

func TestUpdate_TransitionToCompleted_StampsCompletedAt(t *testing.T) {
	var updated *model.Meta
	metaRepo := &mockMetaRepository{
		findByIDAndUserFn: func(ctx context.Context, metaID, userID string) (*model.Meta, error) {
			return &model.Meta{ID: metaID, UserID: userID, Title: "読書", Status: model.StatusInProgress}, nil
		},
		updateFn: func(ctx context.Context, meta *model.Meta) error {
			updated = meta
			return nil
		},
	}

	rec := &mockRecorder{}
	svc := newTestService(metaRepo, &mockStepRepository{}, rec)

	in := &validation.MetaUpdateInput{Status: statusPtr(model.StatusCompleted)}
	info, err := svc.Update(context.Background(), "user-1", "meta-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.CompletedAt == nil {
		t.Fatal("expected CompletedAt to be stamped")
	}
	if !updated.CompletedAt.Equal(fixedNow) {
		t.Errorf("CompletedAt = %v, want %v", updated.CompletedAt, fixedNow)
	}
	if info.Countdown != "Completed on 2024-06-10" {
		t.Errorf("Countdown = %q, want %q", info.Countdown, "Completed on 2024-06-10")
	}
	if rec.completed != 1 {
		t.Errorf("metas completed metric = %d, want 1", rec.completed)
	}
}

func TestUpdate_AlreadyCompleted_DoesNotRefreshCompletedAt(t *testing.T) {
	original := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var updated *model.Meta
	metaRepo := &mockMetaRepository{
		findByIDAndUserFn: func(ctx context.Context, metaID, userID string) (*model.Meta, error) {
			return &model.Meta{
				ID: metaID, UserID: userID, Title: "読書",
				Status: model.StatusCompleted, CompletedAt: &original,
			}, nil
		},
		updateFn: func(ctx context.Context, meta *model.Meta) error {
			updated = meta
			return nil
		},
	}

	rec := &mockRecorder{}
	svc := newTestService(metaRepo, &mockStepRepository{}, rec)

	in := &validation.MetaUpdateInput{Status: statusPtr(model.StatusCompleted)}
	_, err := svc.Update(context.Background(), "user-1", "meta-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !updated.CompletedAt.Equal(original) {
		t.Errorf("CompletedAt = %v, want original %v", updated.CompletedAt, original)
	}
	if rec.completed != 0 {
		t.Errorf("metas completed metric = %d, want 0", rec.completed)
	}
}

func TestUpdate_RegressionFromCompleted_RetainsCompletedAt(t *testing.T) {
	original := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var updated *model.Meta
	metaRepo := &mockMetaRepository{
		findByIDAndUserFn: func(ctx context.Context, metaID, userID string) (*model.Meta, error) {
			return &model.Meta{
				ID: metaID, UserID: userID, Title: "読書",
				Status: model.StatusCompleted, CompletedAt: &original,
			}, nil
		},
		updateFn: func(ctx context.Context, meta *model.Meta) error {
			updated = meta
			return nil
		},
	}

	svc := newTestService(metaRepo, &mockStepRepository{}, nil)

	in := &validation.MetaUpdateInput{Status: statusPtr(model.StatusInProgress)}
	_, err := svc.Update(context.Background(), "user-1", "meta-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != model.StatusInProgress {
		t.Errorf("Status = %q, want %q", updated.Status, model.StatusInProgress)
	}
	// 過去の完了時刻は履歴として保持される
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(original) {
		t.Errorf("CompletedAt = %v, want retained %v", updated.CompletedAt, original)
	}
}

func TestUpdate_PartialFields_OnlyOverwritesProvided(t *testing.T) {
	desc := "毎日30分"
	var updated *model.Meta
	metaRepo := &mockMetaRepository{
		findByIDAndUserFn: func(ctx context.Context, metaID, userID string) (*model.Meta, error) {
			return &model.Meta{
				ID: metaID, UserID: userID,
				Title: "読書", Description: &desc,
				Status: model.StatusInProgress, Favorite: false,
			}, nil
		},
		updateFn: func(ctx context.Context, meta *model.Meta) error {
			updated = meta
			return nil
		},
	}

	svc := newTestService(metaRepo, &mockStepRepository{}, nil)

	fav := true
	in := &validation.MetaUpdateInput{Favorite: &fav}
	_, err := svc.Update(context.Background(), "user-1", "meta-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !updated.Favorite {
		t.Error("expected Favorite to be updated to true")
	}
	if updated.Title != "読書" {
		t.Errorf("Title = %q, should be unchanged", updated.Title)
	}
	if updated.Description == nil || *updated.Description != desc {
		t.Error("Description should be unchanged")
	}
	if updated.Status != model.StatusInProgress {
		t.Errorf("Status = %q, should be unchanged", updated.Status)
	}
}

func TestUpdate_NotFound_ReturnsMetaNotFoundError(t *testing.T) {
	metaRepo := &mockMetaRepository{}

	svc := newTestService(metaRepo, &mockStepRepository{}, nil)

	in := &validation.MetaUpdateInput{Title: strPtr("新タイトル")}
	_, err := svc.Update(context.Background(), "user-1", "missing-meta", in)

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
	metaRepo := &mockMetaRepository{
		deleteFn: func(ctx context.Context, metaID, userID string) (bool, error) {
			return true, nil
		},
	}

	svc := newTestService(metaRepo, &mockStepRepository{}, nil)

	if err := svc.Delete(context.Background(), "user-1", "meta-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NotFound_ReturnsMetaNotFoundError(t *testing.T) {
	metaRepo := &mockMetaRepository{
		deleteFn: func(ctx context.Context, metaID, userID string) (bool, error) {
			return false, nil
		},
	}

	svc := newTestService(metaRepo, &mockStepRepository{}, nil)

	err := svc.Delete(context.Background(), "user-1", "other-users-meta")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeMetaNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeMetaNotFound)
	}
}
