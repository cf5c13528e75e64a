package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/dbx"
	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
)

// PostgresRepository implements secret storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Secret, error) {
	query := `
		SELECT secret_id, user_id, secret, created_at FROM secrets
		WHERE user_id = $1
		ORDER BY created_at DESC, secret_id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Secret, 0)
	for rows.Next() {
		var item models.Secret
		if err := rows.Scan(&item.ID, &item.UserID, &item.Text, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID, text string) (*models.Secret, error) {
	query := `
		INSERT INTO secrets (user_id, secret)
		VALUES ($1, $2)
		RETURNING secret_id, created_at
	`
	s := &models.Secret{UserID: userID, Text: text}
	if err := r.db.QueryRowContext(ctx, query, userID, text).Scan(&s.ID, &s.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID string, id int64, text string) (*models.Secret, error) {
	query := `
		UPDATE secrets SET secret = $1
		WHERE secret_id = $2 AND user_id = $3
		RETURNING created_at
	`
	s := &models.Secret{ID: id, UserID: userID, Text: text}
	if err := r.db.QueryRowContext(ctx, query, text, id, userID).Scan(&s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, id int64) error {
	query := `
		DELETE FROM secrets
		WHERE secret_id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
