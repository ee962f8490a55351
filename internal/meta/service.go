// Package meta は目標管理のドメインロジックを提供する。
package meta

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mymetas/internal/model"
	"github.com/hitoshi/mymetas/internal/repository"
	"github.com/hitoshi/mymetas/internal/validation"
)

// MetricsRecorder は目標関連のメトリクス記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordMetaCreated()
	RecordMetaCompleted()
}

// MetaInfo は目標と導出フィールドを結合したドメインオブジェクト。
// Stepsは詳細取得時のみ設定される。
type MetaInfo struct {
	Meta      *model.Meta
	Countdown string
	Steps     []*model.Step
}

// Service は目標管理のサービス層。
// 一覧取得、作成、詳細取得、更新、削除のビジネスロジックを提供する。
// 全操作は認証済みユーザーの所有範囲に限定される。
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

// List はユーザーの目標一覧をカウントダウン付きで返す。
// 並び順はfavorite降順、作成日時降順。
func (s *Service) List(ctx context.Context, userID string) ([]MetaInfo, error) {
	metas, err := s.metaRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("目標一覧の取得に失敗しました: %w", err)
	}

	now := s.now()
	results := make([]MetaInfo, len(metas))
	for i, m := range metas {
		results[i] = MetaInfo{
			Meta:      m,
			Countdown: Countdown(m, now),
		}
	}

	return results, nil
}

// Create は新しい目標を作成する。
func (s *Service) Create(ctx context.Context, userID string, in *validation.MetaCreateInput) (*MetaInfo, error) {
	now := s.now()

	m := &model.Meta{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		DateTarget:  in.DateTarget,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 作成時点でcompletedが指定された場合も完了時刻を記録する
	if m.Status == model.StatusCompleted {
		completedAt := now
		m.CompletedAt = &completedAt
	}

	if err := s.metaRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("目標の作成に失敗しました: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordMetaCreated()
		if m.Status == model.StatusCompleted {
			s.recorder.RecordMetaCompleted()
		}
	}

	return &MetaInfo{Meta: m, Countdown: Countdown(m, now)}, nil
}

// Get は目標の詳細をステップ一覧付きで返す。
// 存在しない、または他ユーザー所有の場合はMETA_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, userID, metaID string) (*MetaInfo, error) {
	m, err := s.metaRepo.FindByIDAndUser(ctx, metaID, userID)
	if err != nil {
		return nil, fmt.Errorf("目標の取得に失敗しました: %w", err)
	}
	if m == nil {
		return nil, model.NewMetaNotFoundError(metaID)
	}

	steps, err := s.stepRepo.ListByMeta(ctx, metaID)
	if err != nil {
		return nil, fmt.Errorf("ステップ一覧の取得に失敗しました: %w", err)
	}

	return &MetaInfo{
		Meta:      m,
		Countdown: Countdown(m, s.now()),
		Steps:     steps,
	}, nil
}

// Update は目標の指定フィールドのみを更新する。
// 新しいstatusがcompletedで、以前がcompletedでない場合のみ完了時刻を記録する。
// 既にcompletedの目標を再度completedに更新しても完了時刻は更新しない。
func (s *Service) Update(ctx context.Context, userID, metaID string, in *validation.MetaUpdateInput) (*MetaInfo, error) {
	m, err := s.metaRepo.FindByIDAndUser(ctx, metaID, userID)
	if err != nil {
		return nil, fmt.Errorf("目標の取得に失敗しました: %w", err)
	}
	if m == nil {
		return nil, model.NewMetaNotFoundError(metaID)
	}

	now := s.now()
	completedTransition := false

	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Description != nil {
		m.Description = in.Description
	}
	if in.DateTarget != nil {
		m.DateTarget = in.DateTarget
	}
	if in.Favorite != nil {
		m.Favorite = *in.Favorite
	}
	if in.Status != nil {
		if *in.Status == model.StatusCompleted && m.Status != model.StatusCompleted {
			completedAt := now
			m.CompletedAt = &completedAt
			completedTransition = true
		}
		// completedから他のstatusへ戻しても完了時刻は保持する
		m.Status = *in.Status
	}

	m.UpdatedAt = now

	if err := s.metaRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("目標の更新に失敗しました: %w", err)
	}

	if completedTransition && s.recorder != nil {
		s.recorder.RecordMetaCompleted()
	}

	return &MetaInfo{Meta: m, Countdown: Countdown(m, now)}, nil
}

// Delete は目標を削除する。配下のステップもCASCADE削除される。
// 存在しない、または他ユーザー所有の場合はMETA_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, userID, metaID string) error {
	deleted, err := s.metaRepo.DeleteByIDAndUser(ctx, metaID, userID)
	if err != nil {
		return fmt.Errorf("目標の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewMetaNotFoundError(metaID)
	}
	return nil
}
