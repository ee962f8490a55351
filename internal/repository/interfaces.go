// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/mymetas/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Update はユーザー情報を更新する。
	Update(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 所有するmetas、stepsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// MetaRepository はメタデータの永続化インターフェース。
// 単一行を扱う全操作はmetaIDとuserIDの組で行を特定し、
// 他ユーザー所有の行と存在しない行を区別しない。
type MetaRepository interface {
	// Create はメタを作成する。
	Create(ctx context.Context, meta *model.Meta) error

	// FindByIDAndUser は指定IDかつ指定ユーザー所有のメタを取得する。
	// 見つからない場合（非所有を含む）はnilを返す。
	FindByIDAndUser(ctx context.Context, metaID, userID string) (*model.Meta, error)

	// ListByUser はユーザーのメタ一覧をfavorite降順、作成日時降順で返す。
	ListByUser(ctx context.Context, userID string) ([]*model.Meta, error)

	// Update はメタの全更新可能フィールドを上書きする。
	Update(ctx context.Context, meta *model.Meta) error

	// DeleteByIDAndUser は指定IDかつ指定ユーザー所有のメタを削除する。
	// 行が削除された場合はtrueを返す。関連するstepsはCASCADE削除される。
	DeleteByIDAndUser(ctx context.Context, metaID, userID string) (bool, error)
}

// StepRepository はステップデータの永続化インターフェース。
// ステップは所有者情報を持たないため、単一行を扱う操作は
// 必ず親メタのIDとの組で行を特定する。
type StepRepository interface {
	// Create はステップを作成する。
	Create(ctx context.Context, step *model.Step) error

	// FindByIDAndMeta は指定IDかつ指定メタ配下のステップを取得する。
	// 見つからない場合はnilを返す。
	FindByIDAndMeta(ctx context.Context, stepID, metaID string) (*model.Step, error)

	// ListByMeta はメタ配下のステップ一覧を作成日時昇順で返す。
	ListByMeta(ctx context.Context, metaID string) ([]*model.Step, error)

	// Update はステップを上書き更新する。
	Update(ctx context.Context, step *model.Step) error

	// DeleteByIDAndMeta は指定IDかつ指定メタ配下のステップを削除する。
	// 行が削除された場合はtrueを返す。
	DeleteByIDAndMeta(ctx context.Context, stepID, metaID string) (bool, error)
}
