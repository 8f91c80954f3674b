package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds a whole readiness probe.
const DefaultTimeout = 3 * time.Second

// Status represents the health status of a component.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result is the outcome of a single health check.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker is the interface for health check implementations.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc struct {
	Label string
	Fn    func(ctx context.Context) Result
}

func (c CheckerFunc) Name() string { return c.Label }

func (c CheckerFunc) Check(ctx context.Context) Result { return c.Fn(ctx) }

// Up and Down build results.
func Up() Result { return Result{Status: StatusUp} }

func Down(msg string) Result { return Result{Status: StatusDown, Message: msg} }
