package inmemory

import (
	"context"
	"sync"
	"time"
)

type OAuthStateRepository struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func NewOAuthStateRepository() *OAuthStateRepository {
	return &OAuthStateRepository{states: make(map[string]time.Time), now: time.Now}
}

func (r *OAuthStateRepository) Create(ctx context.Context, state string, validity time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[state] = r.now().Add(validity)
	return nil
}

func (r *OAuthStateRepository) Consume(ctx context.Context, state string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	expires, ok := r.states[state]
	if !ok {
		return false, nil
	}
	delete(r.states, state)
	return r.now().Before(expires), nil
}

func (r *OAuthStateRepository) PurgeExpired(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var n int64
	for state, expires := range r.states {
		if !now.Before(expires) {
			delete(r.states, state)
			n++
		}
	}
	return n, nil
}
