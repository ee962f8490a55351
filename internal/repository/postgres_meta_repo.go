package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/mymetas/internal/model"
)

// PostgresMetaRepo はPostgreSQLを使用したメタリポジトリ。
type PostgresMetaRepo struct {
	db *sql.DB
}

// NewPostgresMetaRepo はPostgresMetaRepoを生成する。
func NewPostgresMetaRepo(db *sql.DB) *PostgresMetaRepo {
	return &PostgresMetaRepo{db: db}
}

// Create はメタを作成する。
func (r *PostgresMetaRepo) Create(ctx context.Context, meta *model.Meta) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO metas (id, user_id, title, description, status, date_target, favorite, completed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		meta.ID, meta.UserID, meta.Title, meta.Description, meta.Status, meta.DateTarget, meta.Favorite, meta.CompletedAt, meta.CreatedAt, meta.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("メタの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByIDAndUser は指定IDかつ指定ユーザー所有のメタを取得する。
// 見つからない場合（非所有を含む）はnilを返す。
func (r *PostgresMetaRepo) FindByIDAndUser(ctx context.Context, metaID, userID string) (*model.Meta, error) {
	meta := &model.Meta{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, status, date_target, favorite, completed_at, created_at, updated_at
		 FROM metas WHERE id = $1 AND user_id = $2`,
		metaID, userID,
	).Scan(&meta.ID, &meta.UserID, &meta.Title, &meta.Description, &meta.Status, &meta.DateTarget, &meta.Favorite, &meta.CompletedAt, &meta.CreatedAt, &meta.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("メタの取得に失敗しました: %w", err)
	}

	return meta, nil
}

// ListByUser はユーザーのメタ一覧をfavorite降順、作成日時降順で返す。
func (r *PostgresMetaRepo) ListByUser(ctx context.Context, userID string) ([]*model.Meta, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, status, date_target, favorite, completed_at, created_at, updated_at
		 FROM metas WHERE user_id = $1
		 ORDER BY favorite DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("メタ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var metas []*model.Meta
	for rows.Next() {
		meta := &model.Meta{}
		if err := rows.Scan(&meta.ID, &meta.UserID, &meta.Title, &meta.Description, &meta.Status, &meta.DateTarget, &meta.Favorite, &meta.CompletedAt, &meta.CreatedAt, &meta.UpdatedAt); err != nil {
			return nil, fmt.Errorf("メタ行のスキャンに失敗しました: %w", err)
		}
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("メタ一覧の読み取りに失敗しました: %w", err)
	}

	return metas, nil
}

// Update はメタの全更新可能フィールドを上書きする。
// 所有者の付け替えは許可しないため、WHERE句でuser_idも固定する。
func (r *PostgresMetaRepo) Update(ctx context.Context, meta *model.Meta) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE metas
		 SET title = $3, description = $4, status = $5, date_target = $6, favorite = $7, completed_at = $8, updated_at = $9
		 WHERE id = $1 AND user_id = $2`,
		meta.ID, meta.UserID, meta.Title, meta.Description, meta.Status, meta.DateTarget, meta.Favorite, meta.CompletedAt, meta.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("メタの更新に失敗しました: %w", err)
	}
	return nil
}

// DeleteByIDAndUser は指定IDかつ指定ユーザー所有のメタを削除する。
// 行が削除された場合はtrueを返す。関連するstepsはCASCADE削除される。
func (r *PostgresMetaRepo) DeleteByIDAndUser(ctx context.Context, metaID, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM metas WHERE id = $1 AND user_id = $2`,
		metaID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("メタの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除行数の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ MetaRepository = (*PostgresMetaRepo)(nil)
