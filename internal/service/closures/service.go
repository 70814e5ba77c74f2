package closures

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	closureRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/closure"
	"github.com/m04kA/SMC-ReservationService/internal/service/closures/models"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Service сервис календаря окон закрытия
type Service struct {
	closureRepo  ClosureRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса окон закрытия
func NewService(closureRepo ClosureRepository, logger Logger) *Service {
	return &Service{
		closureRepo:  closureRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create создает окно закрытия.
// Допустимые формы окна:
//  1. ограниченный абсолютный период: to_ts задан, weekly поля пустые
//  2. повторяющееся еженедельное закрытие: weekly_from, weekly_to и weekday
//     заданы все вместе (weekday выводится из from_ts, если не указан)
//
// Полностью неограниченное окно без повторения запрещено.
func (s *Service) Create(ctx context.Context, req *models.CreateClosureRequest) (*models.ClosureResponse, error) {
	s.logger.Info("Create: creating closure window from=%q", req.FromTS)

	closure, err := s.buildClosure(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.closureRepo.Create(ctx, closure)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created closure window id=%d", created.ID)
	return models.FromDomainClosure(created), nil
}

// IsAnyActiveAt возвращает true и сообщение первого активного окна, если
// хотя бы одно окно закрытия покрывает указанный момент времени
func (s *Service) IsAnyActiveAt(ctx context.Context, ts time.Time) (bool, string, error) {
	covering, err := s.closureRepo.ListCovering(ctx, ts)
	if err != nil {
		s.logger.Error("IsAnyActiveAt: repository error for ts=%s: %v", ts.Format(domain.DatetimeFormat), err)
		return false, "", fmt.Errorf("%w: IsAnyActiveAt - repository error: %v", ErrInternal, err)
	}

	// ListCovering отсекает только абсолютные границы, недельную часть
	// проверяем на стороне приложения
	for _, c := range covering {
		if c.IsActiveAt(ts) {
			return true, c.Message, nil
		}
	}

	return false, "", nil
}

// ListVisible возвращает неистёкшие окна закрытия
func (s *Service) ListVisible(ctx context.Context) (*models.ClosureListResponse, error) {
	closures, err := s.closureRepo.ListVisible(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("ListVisible: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListVisible - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClosureList(closures), nil
}

// Delete удаляет окно закрытия
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting closure window id=%d", id)

	if err := s.closureRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, closureRepo.ErrClosureNotFound) {
			return ErrClosureNotFound
		}
		s.logger.Error("Delete: repository error for closure id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted closure window id=%d", id)
	return nil
}

// buildClosure валидирует входные данные и собирает domain модель окна
func (s *Service) buildClosure(req *models.CreateClosureRequest) (*domain.ClosureWindow, error) {
	fromTS, err := parseDatetime(req.FromTS)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid from_ts: %v", ErrInvalidInput, err)
	}

	closure := &domain.ClosureWindow{
		FromTS:  fromTS,
		Message: strings.TrimSpace(req.Message),
	}

	if len(closure.Message) > domain.MaxMessageLength {
		return nil, fmt.Errorf("%w: message must be at most %d characters", ErrInvalidInput, domain.MaxMessageLength)
	}

	if req.ToTS != nil {
		toTS, err := parseDatetime(*req.ToTS)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid to_ts: %v", ErrInvalidInput, err)
		}
		if toTS.Before(fromTS) {
			return nil, ErrInvalidTimeRange
		}
		closure.ToTS = &toTS
	}

	hasAnyWeekly := req.WeeklyFrom != nil || req.WeeklyTo != nil || req.Weekday != nil
	if !hasAnyWeekly {
		// Неограниченное окно без повторения означало бы "закрыто навсегда"
		if closure.ToTS == nil {
			return nil, fmt.Errorf("%w: to_ts is required for non-recurring closures", ErrInvalidShape)
		}
		return closure, nil
	}

	// Недельные поля задаются по принципу все-или-ничего, weekday при
	// необходимости выводится из from_ts
	if req.WeeklyFrom == nil || req.WeeklyTo == nil {
		return nil, fmt.Errorf("%w: weekly_from and weekly_to must be set together", ErrInvalidShape)
	}

	weeklyFrom, err := types.NewTimeStringFromString(*req.WeeklyFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid weekly_from: %v", ErrInvalidInput, err)
	}
	weeklyTo, err := types.NewTimeStringFromString(*req.WeeklyTo)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid weekly_to: %v", ErrInvalidInput, err)
	}
	if weeklyTo.IsBefore(weeklyFrom) {
		return nil, ErrInvalidTimeRange
	}

	weekday := int(fromTS.Weekday())
	if req.Weekday != nil {
		weekday = *req.Weekday
	}
	if !domain.IsValidWeekday(weekday) {
		return nil, fmt.Errorf("%w: weekday must be between %d and %d", ErrInvalidInput, domain.MinWeekday, domain.MaxWeekday)
	}

	closure.WeeklyFrom = &weeklyFrom
	closure.WeeklyTo = &weeklyTo
	closure.Weekday = &weekday

	return closure, nil
}

// parseDatetime принимает формат "YYYY-MM-DD HH:MM" либо RFC3339
func parseDatetime(value string) (time.Time, error) {
	if ts, err := time.Parse(domain.DatetimeFormat, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}
