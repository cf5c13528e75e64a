package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
)

// storeTimeouts bounds every repository call.
type storeTimeouts struct {
	store    time.Duration
	upstream time.Duration
}

func (t storeTimeouts) read(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.store)
}

// write detaches from the caller's cancellation so a client disconnect does
// not abort a statement half way; the timeout still applies.
func (t storeTimeouts) write(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), t.store)
}

func (t storeTimeouts) provider(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.upstream)
}

// storeError maps an unreachable or slow store to common.ErrorUpstream and
// leaves domain sentinels untouched.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorAlreadyExists):
		return err
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn):
		return fmt.Errorf("%s: %w: %v", op, common.ErrorUpstream, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %v", op, common.ErrorUpstream, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
