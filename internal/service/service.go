// Package service implements the interaction engine's business logic. Every
// mutating operation follows the same shape: validate, write the ledger fact,
// adjust counters, then emit events. The three writes are not transactional;
// the ledger write is the arbiter of whether the interaction happened, and a
// failure after it surfaces as a dependency error without compensation.
package service

import (
	"context"
	"time"
)

// opCtx bounds a single store or publish call. A non-positive timeout leaves
// the caller's context untouched.
func opCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
