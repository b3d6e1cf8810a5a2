package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextCallerKey ctxKey = "caller"

// Caller is the authenticated identity attached to a request.
type Caller struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == "admin"
}

func (c *Caller) IsManager() bool {
	return c != nil && c.Role == "manager"
}

func CallerFromContext(ctx context.Context) (*Caller, bool) {
	if ctx == nil {
		return nil, false
	}
	caller, ok := ctx.Value(ContextCallerKey).(*Caller)
	return caller, ok && caller != nil
}

func ContextWithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, ContextCallerKey, caller)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
