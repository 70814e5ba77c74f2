package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots/models"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Service сервис еженедельного календаря слотов
type Service struct {
	slotRepo        SlotRepository
	assignmentRepo  GateAssignmentRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	assignmentRepo GateAssignmentRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:        slotRepo,
		assignmentRepo:  assignmentRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Create создает новый слот.
// Проверка пересечений и уникальности имени - check-then-act, поэтому
// выполняется в сериализуемой транзакции с блокировкой слотов дня недели.
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Create: creating slot name=%q weekday=%d %s-%s step=%d",
		req.Name, req.Weekday, req.StartsAt, req.EndsAt, req.StepMinutes)

	candidate, err := s.buildSlot(req.Name, req.Weekday, req.StartsAt, req.EndsAt, req.StepMinutes)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	var created *domain.Slot

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.slotRepo.ListByWeekday(txCtx, candidate.Weekday)
		if err != nil {
			s.logger.Error("Create: failed to list slots for weekday=%d: %v", candidate.Weekday, err)
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		if err := checkAgainstExisting(candidate, existing, 0); err != nil {
			s.logger.Warn("Create: conflict for slot name=%q weekday=%d: %v", candidate.Name, candidate.Weekday, err)
			return err
		}

		created, err = s.slotRepo.Create(txCtx, candidate)
		if err != nil {
			if errors.Is(err, slotRepo.ErrDuplicateName) {
				return ErrDuplicateName
			}
			s.logger.Error("Create: failed to create slot: %v", err)
			return fmt.Errorf("%w: failed to create slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: successfully created slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// Update обновляет слот с теми же проверками, что и при создании,
// исключая сам обновляемый слот из проверки пересечений
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Update: updating slot id=%d", id)

	candidate, err := s.buildSlot(req.Name, req.Weekday, req.StartsAt, req.EndsAt, req.StepMinutes)
	if err != nil {
		s.logger.Warn("Update: validation failed for slot id=%d: %v", id, err)
		return nil, err
	}
	candidate.ID = id

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.slotRepo.GetByID(txCtx, id); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			s.logger.Error("Update: failed to get slot id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		existing, err := s.slotRepo.ListByWeekday(txCtx, candidate.Weekday)
		if err != nil {
			s.logger.Error("Update: failed to list slots for weekday=%d: %v", candidate.Weekday, err)
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		if err := checkAgainstExisting(candidate, existing, id); err != nil {
			s.logger.Warn("Update: conflict for slot id=%d: %v", id, err)
			return err
		}

		if err := s.slotRepo.Update(txCtx, candidate); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			if errors.Is(err, slotRepo.ErrDuplicateName) {
				return ErrDuplicateName
			}
			s.logger.Error("Update: failed to update slot id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated slot id=%d", id)
	return models.FromDomainSlot(candidate), nil
}

// Delete удаляет слот.
// Удаление запрещено, пока на слот ссылаются привязки платёжных групп или
// будущие неотменённые бронирования.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting slot id=%d", id)

	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			s.logger.Error("Delete: failed to get slot id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		slotAssignments, err := s.assignmentRepo.ListSlotAssignmentsBySlotID(txCtx, id)
		if err != nil {
			s.logger.Error("Delete: failed to list slot assignments for slot id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to list slot assignments: %v", ErrInternal, err)
		}
		dateAssignments, err := s.assignmentRepo.ListDateAssignmentsBySlotID(txCtx, id)
		if err != nil {
			s.logger.Error("Delete: failed to list date assignments for slot id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to list date assignments: %v", ErrInternal, err)
		}
		if len(slotAssignments) > 0 || len(dateAssignments) > 0 {
			s.logger.Warn("Delete: slot id=%d has gate assignments", id)
			return ErrSlotInUse
		}

		hasFuture, err := s.reservationRepo.ExistsFutureInWindow(
			txCtx, slot.Weekday, slot.StartsAt, slot.EndsAt, s.timeProvider.Now())
		if err != nil {
			s.logger.Error("Delete: failed to check future reservations for slot id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to check future reservations: %v", ErrInternal, err)
		}
		if hasFuture {
			s.logger.Warn("Delete: slot id=%d has future reservations", id)
			return ErrSlotInUse
		}

		if err := s.slotRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			s.logger.Error("Delete: failed to delete slot id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to delete slot: %v", ErrInternal, err)
		}

		s.logger.Info("Delete: successfully deleted slot id=%d", id)
		return nil
	})
}

// GetByID получает слот по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SlotResponse, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetByID: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlot(slot), nil
}

// List получает все слоты
func (s *Service) List(ctx context.Context) (*models.SlotListResponse, error) {
	slots, err := s.slotRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(slots), nil
}

// SlotFor возвращает слот, содержащий указанный момент времени (день недели +
// время суток, границы включительно).
// Больше одного совпадения структурно невозможно при корректной работе Create -
// такой результат означает повреждение данных и возвращается как ErrIntegrity.
func (s *Service) SlotFor(ctx context.Context, t time.Time) (*domain.Slot, error) {
	matches, err := s.slotRepo.ListMatching(ctx, int(t.Weekday()), types.NewTimeString(t))
	if err != nil {
		s.logger.Error("SlotFor: repository error for t=%s: %v", t.Format(domain.DatetimeFormat), err)
		return nil, fmt.Errorf("%w: SlotFor - repository error: %v", ErrInternal, err)
	}

	switch len(matches) {
	case 0:
		return nil, ErrNoSlotForTime
	case 1:
		return matches[0], nil
	default:
		s.logger.Error("SlotFor: %d slots match t=%s, expected at most one",
			len(matches), t.Format(domain.DatetimeFormat))
		return nil, fmt.Errorf("%w: %d slots match %s", ErrIntegrity, len(matches), t.Format(domain.DatetimeFormat))
	}
}

// ValidTimes возвращает все допустимые времена брони для слота
func (s *Service) ValidTimes(ctx context.Context, id int64) ([]types.TimeString, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("ValidTimes: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: ValidTimes - repository error: %v", ErrInternal, err)
	}

	return slot.ValidTimes(), nil
}

// Вспомогательные методы

// buildSlot валидирует входные данные и собирает domain модель слота
func (s *Service) buildSlot(name string, weekday int, startsAt, endsAt string, stepMinutes int) (*domain.Slot, error) {
	name = strings.TrimSpace(name)
	if len(name) < domain.MinNameLength {
		return nil, fmt.Errorf("%w: name must be at least %d characters", ErrInvalidInput, domain.MinNameLength)
	}

	if !domain.IsValidWeekday(weekday) {
		return nil, ErrInvalidWeekday
	}

	starts, err := types.NewTimeStringFromString(startsAt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startsAt: %v", ErrInvalidInput, err)
	}

	ends, err := types.NewTimeStringFromString(endsAt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endsAt: %v", ErrInvalidInput, err)
	}

	if !starts.IsBefore(ends) {
		return nil, ErrInvalidTimeRange
	}

	if stepMinutes < domain.MinStepMinutes || stepMinutes > domain.MaxStepMinutes {
		return nil, fmt.Errorf("%w: stepMinutes must be between %d and %d",
			ErrInvalidStep, domain.MinStepMinutes, domain.MaxStepMinutes)
	}

	return &domain.Slot{
		Name:        name,
		Weekday:     weekday,
		StartsAt:    starts,
		EndsAt:      ends,
		StepMinutes: stepMinutes,
	}, nil
}

// checkAgainstExisting проверяет кандидата на пересечения и повтор имени среди
// существующих слотов того же дня недели. excludeID исключает сам обновляемый слот.
func checkAgainstExisting(candidate *domain.Slot, existing []*domain.Slot, excludeID int64) error {
	for _, other := range existing {
		if excludeID != 0 && other.ID == excludeID {
			continue
		}
		if other.HasSameName(candidate.Name) {
			return ErrDuplicateName
		}
		if candidate.OverlapsWith(other) {
			return ErrSlotOverlap
		}
	}
	return nil
}
