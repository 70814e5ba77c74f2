package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/paymentservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	ExistsActiveByEmailAndDatetime(ctx context.Context, email string, reservedAt time.Time) (bool, error)
	UpdatePaymentReference(ctx context.Context, id int64, paymentReference string) error
}

// SlotCalendar интерфейс календаря слотов
type SlotCalendar interface {
	SlotFor(ctx context.Context, t time.Time) (*domain.Slot, error)
}

// GateResolver интерфейс резолвера платёжных групп
type GateResolver interface {
	Resolve(ctx context.Context, slot *domain.Slot, reservedAt time.Time) (*domain.PaymentGate, error)
}

// PaymentServiceClient интерфейс клиента платёжного сервиса
type PaymentServiceClient interface {
	InitiatePayment(ctx context.Context, amount float64, externalReference string) (*paymentservice.Payment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
