// Package step はステップ管理のドメインロジックを提供する。
package step

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mymetas/internal/model"
	"github.com/hitoshi/mymetas/internal/repository"
	"github.com/hitoshi/mymetas/internal/validation"
)

// MetricsRecorder はステップ関連のメトリクス記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordStepCreated()
}

// Service はステップ管理のサービス層。
// ステップは所有者情報を持たないため、全操作は2段階で行を特定する。
// まず親メタを認証済みユーザーの所有範囲で解決し、
// 次にステップをそのメタの子として解決する。
// どちらかが見つからなければ未検出エラーを返す。
type Service struct {
	metaRepo repository.MetaRepository
	stepRepo repository.StepRepository
	recorder MetricsRecorder
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(metaRepo repository.MetaRepository, stepRepo repository.StepRepository, recorder MetricsRecorder) *Service {
	return &Service{
		metaRepo: metaRepo,
		stepRepo: stepRepo,
		recorder: recorder,
		now:      time.Now,
	}
}

// Create は指定メタ配下に新しいステップを作成する。
// メタが存在しない、または他ユーザー所有の場合はMETA_NOT_FOUNDを返す。
func (s *Service) Create(ctx context.Context, userID, metaID string, in *validation.StepCreateInput) (*model.Step, error) {
	if err := s.resolveMeta(ctx, userID, metaID); err != nil {
		return nil, err
	}

	now := s.now()
	st := &model.Step{
		ID:          uuid.NewString(),
		MetaID:      metaID,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.stepRepo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("ステップの作成に失敗しました: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordStepCreated()
	}

	return st, nil
}

// Update はステップの指定フィールドのみを更新する。
// 親メタの所有確認後、ステップをメタの子として解決する。
func (s *Service) Update(ctx context.Context, userID, metaID, stepID string, in *validation.StepUpdateInput) (*model.Step, error) {
	if err := s.resolveMeta(ctx, userID, metaID); err != nil {
		return nil, err
	}

	st, err := s.stepRepo.FindByIDAndMeta(ctx, stepID, metaID)
	if err != nil {
		return nil, fmt.Errorf("ステップの取得に失敗しました: %w", err)
	}
	if st == nil {
		return nil, model.NewStepNotFoundError(stepID)
	}

	if in.Description != nil {
		st.Description = *in.Description
	}
	if in.Done != nil {
		st.Done = *in.Done
	}
	st.UpdatedAt = s.now()

	if err := s.stepRepo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("ステップの更新に失敗しました: %w", err)
	}

	return st, nil
}

// Delete はステップを削除する。
// 親メタの所有確認後、ステップをメタの子として削除する。
func (s *Service) Delete(ctx context.Context, userID, metaID, stepID string) error {
	if err := s.resolveMeta(ctx, userID, metaID); err != nil {
		return err
	}

	deleted, err := s.stepRepo.DeleteByIDAndMeta(ctx, stepID, metaID)
	if err != nil {
		return fmt.Errorf("ステップの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewStepNotFoundError(stepID)
	}
	return nil
}

// resolveMeta は親メタを認証済みユーザーの所有範囲で解決する。
// 見つからない場合はMETA_NOT_FOUNDを返す。
func (s *Service) resolveMeta(ctx context.Context, userID, metaID string) error {
	m, err := s.metaRepo.FindByIDAndUser(ctx, metaID, userID)
	if err != nil {
		return fmt.Errorf("親メタの取得に失敗しました: %w", err)
	}
	if m == nil {
		return model.NewMetaNotFoundError(metaID)
	}
	return nil
}
