package gates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	gateRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/gate"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/internal/service/gates/models"
)

// Service сервис платёжных групп: реестр групп с привязками и резолвер
// для входящих бронирований
type Service struct {
	gateRepo     GateRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса платёжных групп
func NewService(gateRepo GateRepository, slotRepo SlotRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		gateRepo:     gateRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// CreateGate создает платёжную группу
func (s *Service) CreateGate(ctx context.Context, req *models.CreateGateRequest) (*models.GateResponse, error) {
	s.logger.Info("CreateGate: creating gate title=%q type=%q", req.Title, req.GateType)

	gate, err := s.buildGate(req)
	if err != nil {
		s.logger.Warn("CreateGate: validation failed: %v", err)
		return nil, err
	}

	created, err := s.gateRepo.CreateGate(ctx, gate)
	if err != nil {
		s.logger.Error("CreateGate: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateGate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateGate: successfully created gate id=%d", created.ID)
	return models.FromDomainGate(created), nil
}

// GetGateByID получает платёжную группу по ID
func (s *Service) GetGateByID(ctx context.Context, id int64) (*models.GateResponse, error) {
	gate, err := s.gateRepo.GetGateByID(ctx, id)
	if err != nil {
		if errors.Is(err, gateRepo.ErrGateNotFound) {
			return nil, ErrGateNotFound
		}
		s.logger.Error("GetGateByID: repository error for gate id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetGateByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainGate(gate), nil
}

// ListGates получает все платёжные группы
func (s *Service) ListGates(ctx context.Context) (*models.GateListResponse, error) {
	gates, err := s.gateRepo.ListGates(ctx)
	if err != nil {
		s.logger.Error("ListGates: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListGates - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainGateList(gates), nil
}

// ActiveGatesNow возвращает группы со статусом active, чьё окно действия
// покрывает текущий момент
func (s *Service) ActiveGatesNow(ctx context.Context) (*models.GateListResponse, error) {
	gates, err := s.gateRepo.ListActiveGates(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("ActiveGatesNow: repository error: %v", err)
		return nil, fmt.Errorf("%w: ActiveGatesNow - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainGateList(gates), nil
}

// AssignSlot привязывает платёжную группу ко всем повторениям слота.
// Привязка уровня слота несовместима с привязками уровня даты того же слота,
// проверка check-then-act выполняется в сериализуемой транзакции.
func (s *Service) AssignSlot(ctx context.Context, gateID int64, req *models.AssignSlotRequest) (*models.SlotAssignmentResponse, error) {
	s.logger.Info("AssignSlot: assigning gate id=%d to slot id=%d", gateID, req.SlotID)

	var created *domain.GateSlotAssignment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.checkGateAndSlot(txCtx, gateID, req.SlotID); err != nil {
			return err
		}

		existing, err := s.gateRepo.ListSlotAssignmentsBySlotID(txCtx, req.SlotID)
		if err != nil {
			s.logger.Error("AssignSlot: failed to list slot assignments for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to list slot assignments: %v", ErrInternal, err)
		}
		if len(existing) > 0 {
			s.logger.Warn("AssignSlot: slot id=%d already assigned", req.SlotID)
			return ErrSlotAlreadyAssigned
		}

		dateAssignments, err := s.gateRepo.ListDateAssignmentsBySlotID(txCtx, req.SlotID)
		if err != nil {
			s.logger.Error("AssignSlot: failed to list date assignments for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to list date assignments: %v", ErrInternal, err)
		}
		if len(dateAssignments) > 0 {
			s.logger.Warn("AssignSlot: slot id=%d has date-level assignments", req.SlotID)
			return ErrAssignmentConflict
		}

		created, err = s.gateRepo.CreateSlotAssignment(txCtx, &domain.GateSlotAssignment{
			GateID: gateID,
			SlotID: req.SlotID,
		})
		if err != nil {
			if errors.Is(err, gateRepo.ErrSlotAlreadyAssigned) {
				return ErrSlotAlreadyAssigned
			}
			s.logger.Error("AssignSlot: failed to create assignment: %v", err)
			return fmt.Errorf("%w: failed to create assignment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("AssignSlot: successfully assigned gate id=%d to slot id=%d", gateID, req.SlotID)
	return models.FromDomainSlotAssignment(created), nil
}

// AssignDate привязывает платёжную группу к одной календарной дате слота.
// День недели даты должен совпадать с днём недели слота, а слот не должен
// иметь привязку уровня слота.
func (s *Service) AssignDate(ctx context.Context, gateID int64, req *models.AssignDateRequest) (*models.DateAssignmentResponse, error) {
	s.logger.Info("AssignDate: assigning gate id=%d to slot id=%d date=%q", gateID, req.SlotID, req.Date)

	date, err := parseDate(req.Date)
	if err != nil {
		s.logger.Warn("AssignDate: invalid date %q: %v", req.Date, err)
		return nil, fmt.Errorf("%w: invalid date: %v", ErrInvalidInput, err)
	}

	var created *domain.GateDateAssignment

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.checkGateAndSlot(txCtx, gateID, req.SlotID); err != nil {
			return err
		}

		slot, err := s.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			s.logger.Error("AssignDate: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		if int(date.Weekday()) != slot.Weekday {
			s.logger.Warn("AssignDate: date %s weekday=%d does not match slot id=%d weekday=%d",
				req.Date, int(date.Weekday()), slot.ID, slot.Weekday)
			return ErrWeekdayMismatch
		}

		slotAssignments, err := s.gateRepo.ListSlotAssignmentsBySlotID(txCtx, req.SlotID)
		if err != nil {
			s.logger.Error("AssignDate: failed to list slot assignments for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to list slot assignments: %v", ErrInternal, err)
		}
		if len(slotAssignments) > 0 {
			s.logger.Warn("AssignDate: slot id=%d has a slot-level assignment", req.SlotID)
			return ErrAssignmentConflict
		}

		existing, err := s.gateRepo.ListDateAssignmentsBySlotAndDate(txCtx, req.SlotID, date)
		if err != nil {
			s.logger.Error("AssignDate: failed to list date assignments for slot id=%d date=%s: %v", req.SlotID, req.Date, err)
			return fmt.Errorf("%w: failed to list date assignments: %v", ErrInternal, err)
		}
		if len(existing) > 0 {
			s.logger.Warn("AssignDate: slot id=%d date=%s already assigned", req.SlotID, req.Date)
			return ErrDateAlreadyAssigned
		}

		created, err = s.gateRepo.CreateDateAssignment(txCtx, &domain.GateDateAssignment{
			GateID:       gateID,
			SlotID:       req.SlotID,
			AssignedDate: date,
		})
		if err != nil {
			if errors.Is(err, gateRepo.ErrDateAlreadyAssigned) {
				return ErrDateAlreadyAssigned
			}
			s.logger.Error("AssignDate: failed to create assignment: %v", err)
			return fmt.Errorf("%w: failed to create assignment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("AssignDate: successfully assigned gate id=%d to slot id=%d date=%s", gateID, req.SlotID, req.Date)
	return models.FromDomainDateAssignment(created), nil
}

// UnassignSlot снимает привязку уровня слота
func (s *Service) UnassignSlot(ctx context.Context, slotID int64) error {
	s.logger.Info("UnassignSlot: removing slot-level assignment for slot id=%d", slotID)

	if err := s.gateRepo.DeleteSlotAssignment(ctx, slotID); err != nil {
		if errors.Is(err, gateRepo.ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("UnassignSlot: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: UnassignSlot - repository error: %v", ErrInternal, err)
	}

	return nil
}

// UnassignDate снимает привязку уровня даты
func (s *Service) UnassignDate(ctx context.Context, slotID int64, rawDate string) error {
	s.logger.Info("UnassignDate: removing date-level assignment for slot id=%d date=%q", slotID, rawDate)

	date, err := parseDate(rawDate)
	if err != nil {
		return fmt.Errorf("%w: invalid date: %v", ErrInvalidInput, err)
	}

	if err := s.gateRepo.DeleteDateAssignment(ctx, slotID, date); err != nil {
		if errors.Is(err, gateRepo.ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("UnassignDate: repository error for slot id=%d date=%s: %v", slotID, rawDate, err)
		return fmt.Errorf("%w: UnassignDate - repository error: %v", ErrInternal, err)
	}

	return nil
}

// Resolve определяет, требует ли бронирование в данном слоте и в данный момент
// предоплаты, и какая группа её требует. Возвращает nil, если оплата не нужна.
//
// Порядок поиска: сначала привязка уровня слота, затем привязка уровня даты.
// Больше одного совпадения на каждом уровне нарушает инвариант уникальности
// и возвращается как ErrIntegrity, а не как ошибка валидации.
func (s *Service) Resolve(ctx context.Context, slot *domain.Slot, reservedAt time.Time) (*domain.PaymentGate, error) {
	now := s.timeProvider.Now()

	activeGates, err := s.gateRepo.ListActiveGates(ctx, now)
	if err != nil {
		s.logger.Error("Resolve: failed to list active gates: %v", err)
		return nil, fmt.Errorf("%w: Resolve - failed to list active gates: %v", ErrInternal, err)
	}
	activeByID := make(map[int64]*domain.PaymentGate, len(activeGates))
	for _, g := range activeGates {
		activeByID[g.ID] = g
	}

	slotAssignments, err := s.gateRepo.ListSlotAssignmentsBySlotID(ctx, slot.ID)
	if err != nil {
		s.logger.Error("Resolve: failed to list slot assignments for slot id=%d: %v", slot.ID, err)
		return nil, fmt.Errorf("%w: Resolve - failed to list slot assignments: %v", ErrInternal, err)
	}
	if len(slotAssignments) > 1 {
		s.logger.Error("Resolve: slot id=%d has %d slot-level assignments, expected at most one", slot.ID, len(slotAssignments))
		return nil, fmt.Errorf("%w: slot %d has %d slot-level assignments", ErrIntegrity, slot.ID, len(slotAssignments))
	}
	if len(slotAssignments) == 1 {
		if gate, ok := activeByID[slotAssignments[0].GateID]; ok {
			return gate, nil
		}
		// Привязка есть, но группа неактивна - оплата не требуется
		return nil, nil
	}

	date := time.Date(reservedAt.Year(), reservedAt.Month(), reservedAt.Day(), 0, 0, 0, 0, time.UTC)
	dateAssignments, err := s.gateRepo.ListDateAssignmentsBySlotAndDate(ctx, slot.ID, date)
	if err != nil {
		s.logger.Error("Resolve: failed to list date assignments for slot id=%d date=%s: %v",
			slot.ID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: Resolve - failed to list date assignments: %v", ErrInternal, err)
	}
	if len(dateAssignments) > 1 {
		s.logger.Error("Resolve: slot id=%d date=%s has %d date-level assignments, expected at most one",
			slot.ID, date.Format(domain.DateFormat), len(dateAssignments))
		return nil, fmt.Errorf("%w: slot %d date %s has %d date-level assignments",
			ErrIntegrity, slot.ID, date.Format(domain.DateFormat), len(dateAssignments))
	}
	if len(dateAssignments) == 1 {
		if gate, ok := activeByID[dateAssignments[0].GateID]; ok {
			return gate, nil
		}
	}

	return nil, nil
}

// Вспомогательные методы

// buildGate валидирует входные данные и собирает domain модель группы
func (s *Service) buildGate(req *models.CreateGateRequest) (*domain.PaymentGate, error) {
	title := strings.TrimSpace(req.Title)
	if len(title) < domain.MinNameLength || len(title) > domain.MaxTitleLength {
		return nil, fmt.Errorf("%w: title must be between %d and %d characters",
			ErrInvalidInput, domain.MinNameLength, domain.MaxTitleLength)
	}

	status := domain.GateStatus(req.Status)
	if req.Status == "" {
		status = domain.GateStatusActive
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	gateType := domain.GateType(req.GateType)
	if !gateType.IsValid() {
		return nil, fmt.Errorf("%w: unknown gate type %q", ErrInvalidInput, req.GateType)
	}

	if gateType.RequiresAmount() && (req.PaymentValue == nil || *req.PaymentValue <= 0) {
		return nil, ErrPaymentValueRequired
	}

	gate := &domain.PaymentGate{
		Title:        title,
		Status:       status,
		GateType:     gateType,
		PaymentValue: req.PaymentValue,
		Message:      strings.TrimSpace(req.Message),
	}

	if len(gate.Message) > domain.MaxMessageLength {
		return nil, fmt.Errorf("%w: message must be at most %d characters", ErrInvalidInput, domain.MaxMessageLength)
	}

	if req.ActiveFrom != nil {
		from, err := time.Parse(domain.DatetimeFormat, *req.ActiveFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid active_from: %v", ErrInvalidInput, err)
		}
		gate.ActiveFrom = &from
	}
	if req.ActiveTo != nil {
		to, err := time.Parse(domain.DatetimeFormat, *req.ActiveTo)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid active_to: %v", ErrInvalidInput, err)
		}
		if gate.ActiveFrom != nil && to.Before(*gate.ActiveFrom) {
			return nil, fmt.Errorf("%w: active_to is before active_from", ErrInvalidInput)
		}
		gate.ActiveTo = &to
	}

	return gate, nil
}

// checkGateAndSlot проверяет существование группы и слота перед привязкой
func (s *Service) checkGateAndSlot(ctx context.Context, gateID, slotID int64) error {
	if _, err := s.gateRepo.GetGateByID(ctx, gateID); err != nil {
		if errors.Is(err, gateRepo.ErrGateNotFound) {
			return ErrGateNotFound
		}
		s.logger.Error("checkGateAndSlot: failed to get gate id=%d: %v", gateID, err)
		return fmt.Errorf("%w: failed to get gate: %v", ErrInternal, err)
	}
	if _, err := s.slotRepo.GetByID(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		s.logger.Error("checkGateAndSlot: failed to get slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}
	return nil
}

// parseDate принимает дату в формате YYYY-MM-DD, нормализуя к полуночи UTC
func parseDate(value string) (time.Time, error) {
	return time.Parse(domain.DateFormat, value)
}
