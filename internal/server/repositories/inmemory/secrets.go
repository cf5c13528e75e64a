package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
)

type SecretRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*models.Secret
}

func NewSecretRepository() *SecretRepository {
	return &SecretRepository{rows: make(map[int64]*models.Secret)}
}

func (r *SecretRepository) List(ctx context.Context, userID string) ([]*models.Secret, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Secret, 0)
	for _, s := range r.rows {
		if s.UserID == userID {
			c := *s
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *SecretRepository) Create(ctx context.Context, userID, text string) (*models.Secret, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s := &models.Secret{ID: r.nextID, UserID: userID, Text: text, CreatedAt: time.Now()}
	r.rows[s.ID] = s
	c := *s
	return &c, nil
}

func (r *SecretRepository) Update(ctx context.Context, userID string, id int64, text string) (*models.Secret, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rows[id]
	if !ok || s.UserID != userID {
		return nil, common.ErrorNotFound
	}
	s.Text = text
	c := *s
	return &c, nil
}

func (r *SecretRepository) Delete(ctx context.Context, userID string, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rows[id]
	if !ok || s.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.rows, id)
	return nil
}
