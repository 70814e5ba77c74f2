package gates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// GateRepository интерфейс репозитория платёжных групп и их привязок
type GateRepository interface {
	CreateGate(ctx context.Context, gate *domain.PaymentGate) (*domain.PaymentGate, error)
	GetGateByID(ctx context.Context, id int64) (*domain.PaymentGate, error)
	ListGates(ctx context.Context) ([]*domain.PaymentGate, error)
	ListActiveGates(ctx context.Context, now time.Time) ([]*domain.PaymentGate, error)

	CreateSlotAssignment(ctx context.Context, assignment *domain.GateSlotAssignment) (*domain.GateSlotAssignment, error)
	CreateDateAssignment(ctx context.Context, assignment *domain.GateDateAssignment) (*domain.GateDateAssignment, error)
	ListSlotAssignmentsBySlotID(ctx context.Context, slotID int64) ([]*domain.GateSlotAssignment, error)
	ListDateAssignmentsBySlotID(ctx context.Context, slotID int64) ([]*domain.GateDateAssignment, error)
	ListDateAssignmentsBySlotAndDate(ctx context.Context, slotID int64, date time.Time) ([]*domain.GateDateAssignment, error)
	DeleteSlotAssignment(ctx context.Context, slotID int64) error
	DeleteDateAssignment(ctx context.Context, slotID int64, date time.Time) error
}

// SlotRepository интерфейс репозитория слотов (проверка существования слота
// и соответствия дня недели при привязке)
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
