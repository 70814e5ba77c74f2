package list_gates

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/gates/models"
)

type GateService interface {
	ListGates(ctx context.Context) (*models.GateListResponse, error)
	ActiveGatesNow(ctx context.Context) (*models.GateListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
