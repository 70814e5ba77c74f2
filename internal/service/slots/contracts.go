package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	List(ctx context.Context) ([]*domain.Slot, error)
	ListByWeekday(ctx context.Context, weekday int) ([]*domain.Slot, error)
	ListMatching(ctx context.Context, weekday int, timeOfDay types.TimeString) ([]*domain.Slot, error)
	Update(ctx context.Context, slot *domain.Slot) error
	Delete(ctx context.Context, id int64) error
}

// GateAssignmentRepository интерфейс привязок платёжных групп (для политики удаления слота)
type GateAssignmentRepository interface {
	ListSlotAssignmentsBySlotID(ctx context.Context, slotID int64) ([]*domain.GateSlotAssignment, error)
	ListDateAssignmentsBySlotID(ctx context.Context, slotID int64) ([]*domain.GateDateAssignment, error)
}

// ReservationRepository интерфейс бронирований (для политики удаления слота)
type ReservationRepository interface {
	ExistsFutureInWindow(ctx context.Context, weekday int, startsAt, endsAt types.TimeString, now time.Time) (bool, error)
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
