// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mymetas/internal/model"
	"github.com/hitoshi/mymetas/internal/repository"
	"github.com/hitoshi/mymetas/internal/validation"
)

// PasswordHasher はパスワードのハッシュ化に必要なインターフェース。
// auth.PasswordHasherの部分集合として定義する。
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// MetricsRecorder はユーザー関連のメトリクス記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordUserRegistered()
}

// Service はユーザー管理のサービス層。
// 登録、プロフィール取得・更新、退会のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	recorder MetricsRecorder
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, hasher PasswordHasher, recorder MetricsRecorder) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		recorder: recorder,
		now:      time.Now,
	}
}

// Register は新規ユーザーを登録する。
// メールアドレスが登録済みの場合はEMAIL_TAKENを返す。
func (s *Service) Register(ctx context.Context, in *validation.UserCreateInput) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("メールアドレスの重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailTakenError(in.Email)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの登録に失敗しました: %w", err)
	}

	now := s.now()
	u := &model.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleCommon,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("ユーザーの登録に失敗しました: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordUserRegistered()
	}

	slog.Info("ユーザーを登録しました", slog.String("user_id", u.ID))

	return u, nil
}

// Get は認証済みユーザーのプロフィールを返す。
func (s *Service) Get(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}
	return u, nil
}

// Update はプロフィールの指定フィールドのみを更新する。
// パスワードが含まれる場合は再ハッシュする。
// メールアドレス変更時は他ユーザーとの重複を確認する。
func (s *Service) Update(ctx context.Context, userID string, in *validation.UserUpdateInput) (*model.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}

	if in.Name != nil {
		u.Name = *in.Name
	}

	if in.Email != nil && *in.Email != u.Email {
		existing, err := s.userRepo.FindByEmail(ctx, *in.Email)
		if err != nil {
			return nil, fmt.Errorf("メールアドレスの重複確認に失敗しました: %w", err)
		}
		if existing != nil && existing.ID != userID {
			return nil, model.NewEmailTakenError(*in.Email)
		}
		u.Email = *in.Email
	}

	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
		}
		u.PasswordHash = hash
	}

	u.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}

	return u, nil
}

// UpdateProfilePhoto はプロフィール写真のURLを更新する。
func (s *Service) UpdateProfilePhoto(ctx context.Context, userID, photoURL string) (*model.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}

	u.ProfilePhotoURL = &photoURL
	u.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("プロフィール写真の更新に失敗しました: %w", err)
	}

	return u, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 所有するメタとステップはスキーマのCASCADE制約で同時に削除される。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します", slog.String("user_id", userID))

	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました", slog.String("user_id", userID))

	return nil
}
