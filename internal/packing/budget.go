package packing

import (
	"context"
	"sync/atomic"
)

// Budget reports whether the computation must stop.
type Budget interface {
	Exceeded() bool
}

// BudgetFunc adapts a function to Budget.
type BudgetFunc func() bool

// Exceeded implements Budget.
func (f BudgetFunc) Exceeded() bool { return f() }

type unlimited struct{}

func (unlimited) Exceeded() bool { return false }

// Unlimited never runs out.
var Unlimited Budget = unlimited{}

// ContextBudget is exceeded once ctx is done.
func ContextBudget(ctx context.Context) Budget {
	return BudgetFunc(func() bool { return ctx.Err() != nil })
}

// CountingBudget is exceeded after a fixed number of checks. It makes
// timeouts reproducible in tests without relying on wall-clock time.
type CountingBudget struct {
	limit int64
	calls atomic.Int64
}

// NewCountingBudget returns a budget that allows limit checks.
func NewCountingBudget(limit int64) *CountingBudget {
	return &CountingBudget{limit: limit}
}

// Exceeded implements Budget.
func (b *CountingBudget) Exceeded() bool {
	return b.calls.Add(1) > b.limit
}

func budgetOrUnlimited(b Budget) Budget {
	if b == nil {
		return Unlimited
	}
	return b
}
