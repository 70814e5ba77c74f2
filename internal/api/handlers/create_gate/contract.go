package create_gate

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/gates/models"
)

type GateService interface {
	CreateGate(ctx context.Context, req *models.CreateGateRequest) (*models.GateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
