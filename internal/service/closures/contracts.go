package closures

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ClosureRepository интерфейс репозитория окон закрытия
type ClosureRepository interface {
	Create(ctx context.Context, closure *domain.ClosureWindow) (*domain.ClosureWindow, error)
	GetByID(ctx context.Context, id int64) (*domain.ClosureWindow, error)
	ListCovering(ctx context.Context, ts time.Time) ([]*domain.ClosureWindow, error)
	ListVisible(ctx context.Context, now time.Time) ([]*domain.ClosureWindow, error)
	Delete(ctx context.Context, id int64) error
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
