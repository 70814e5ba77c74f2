package preview_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SlotCalendar интерфейс календаря слотов
type SlotCalendar interface {
	SlotFor(ctx context.Context, t time.Time) (*domain.Slot, error)
}

// GateResolver интерфейс резолвера платёжных групп
type GateResolver interface {
	Resolve(ctx context.Context, slot *domain.Slot, reservedAt time.Time) (*domain.PaymentGate, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
