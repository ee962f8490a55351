package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/mymetas/internal/model"
)

// PostgresStepRepo はPostgreSQLを使用したステップリポジトリ。
type PostgresStepRepo struct {
	db *sql.DB
}

// NewPostgresStepRepo はPostgresStepRepoを生成する。
func NewPostgresStepRepo(db *sql.DB) *PostgresStepRepo {
	return &PostgresStepRepo{db: db}
}

// Create はステップを作成する。
func (r *PostgresStepRepo) Create(ctx context.Context, step *model.Step) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO steps (id, meta_id, description, done, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		step.ID, step.MetaID, step.Description, step.Done, step.CreatedAt, step.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ステップの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByIDAndMeta は指定IDかつ指定メタ配下のステップを取得する。
// 見つからない場合はnilを返す。
func (r *PostgresStepRepo) FindByIDAndMeta(ctx context.Context, stepID, metaID string) (*model.Step, error) {
	step := &model.Step{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, meta_id, description, done, created_at, updated_at
		 FROM steps WHERE id = $1 AND meta_id = $2`,
		stepID, metaID,
	).Scan(&step.ID, &step.MetaID, &step.Description, &step.Done, &step.CreatedAt, &step.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ステップの取得に失敗しました: %w", err)
	}

	return step, nil
}

// ListByMeta はメタ配下のステップ一覧を作成日時昇順で返す。
func (r *PostgresStepRepo) ListByMeta(ctx context.Context, metaID string) ([]*model.Step, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, meta_id, description, done, created_at, updated_at
		 FROM steps WHERE meta_id = $1
		 ORDER BY created_at ASC`,
		metaID,
	)
	if err != nil {
		return nil, fmt.Errorf("ステップ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var steps []*model.Step
	for rows.Next() {
		step := &model.Step{}
		if err := rows.Scan(&step.ID, &step.MetaID, &step.Description, &step.Done, &step.CreatedAt, &step.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ステップ行のスキャンに失敗しました: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ステップ一覧の読み取りに失敗しました: %w", err)
	}

	return steps, nil
}

// Update はステップを上書き更新する。
// 親メタの付け替えは許可しないため、WHERE句でmeta_idも固定する。
func (r *PostgresStepRepo) Update(ctx context.Context, step *model.Step) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE steps
		 SET description = $3, done = $4, updated_at = $5
		 WHERE id = $1 AND meta_id = $2`,
		step.ID, step.MetaID, step.Description, step.Done, step.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ステップの更新に失敗しました: %w", err)
	}
	return nil
}

// DeleteByIDAndMeta は指定IDかつ指定メタ配下のステップを削除する。
// 行が削除された場合はtrueを返す。
func (r *PostgresStepRepo) DeleteByIDAndMeta(ctx context.Context, stepID, metaID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM steps WHERE id = $1 AND meta_id = $2`,
		stepID, metaID,
	)
	if err != nil {
		return false, fmt.Errorf("ステップの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除行数の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ StepRepository = (*PostgresStepRepo)(nil)
