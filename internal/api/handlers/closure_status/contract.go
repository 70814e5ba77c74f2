package closure_status

import (
	"context"
	"time"
)

type ClosureService interface {
	IsAnyActiveAt(ctx context.Context, ts time.Time) (bool, string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
