package assign_gate_slot

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/gates/models"
)

type GateService interface {
	AssignSlot(ctx context.Context, gateID int64, req *models.AssignSlotRequest) (*models.SlotAssignmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
