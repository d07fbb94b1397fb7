package monitor

import (
	"context"
)

// Service compares reported positions against the employee's default
// location. It never mutates attendance state.
type Service interface {
	// Check computes the deviation verdict for the acting employee's
	// reported position. With no default location configured the verdict is
	// always "no change" (nothing to compare against).
	Check(ctx context.Context, req CheckRequest) (Verdict, error)
}
