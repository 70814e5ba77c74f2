package unassign_gate_date

import "context"

type GateService interface {
	UnassignDate(ctx context.Context, slotID int64, date string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
