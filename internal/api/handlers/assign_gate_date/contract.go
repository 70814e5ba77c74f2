package assign_gate_date

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/gates/models"
)

type GateService interface {
	AssignDate(ctx context.Context, gateID int64, req *models.AssignDateRequest) (*models.DateAssignmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
