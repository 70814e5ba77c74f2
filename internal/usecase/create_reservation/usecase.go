package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UseCase use case приёма нового бронирования: валидация, сохранение и
// синхронный запуск платёжного шага, если к слоту привязана платёжная группа
type UseCase struct {
	reservationRepo ReservationRepository
	slotCalendar    SlotCalendar
	gateResolver    GateResolver
	paymentClient   PaymentServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	maxPeopleCount  int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	slotCalendar SlotCalendar,
	gateResolver GateResolver,
	paymentClient PaymentServiceClient,
	txManager TransactionManager,
	maxPeopleCount int,
	logger Logger,
) *UseCase {
	if maxPeopleCount <= 0 {
		maxPeopleCount = domain.DefaultMaxPeopleCount
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		slotCalendar:    slotCalendar,
		gateResolver:    gateResolver,
		paymentClient:   paymentClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		maxPeopleCount:  maxPeopleCount,
		logger:          logger,
	}
}

// Execute выполняет приём бронирования.
// Валидация накапливает все нарушенные правила, а не останавливается на
// первом. Проверка дубликата и вставка выполняются в сериализуемой
// транзакции; отказ платёжного сервиса откатывает вставку целиком.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: reserved_at=%q people=%d email=%q",
		req.ReservedAt, req.PeopleCount, req.Email)

	now := uc.timeProvider.Now()

	var validationErrs types.ValidationErrors

	// 1. Дата и время брони: формат, будущее, существование слота, сетка шага
	var slot *domain.Slot
	reservedAt, fieldErr := parseReservedAt(req.ReservedAt)
	if fieldErr != nil {
		validationErrs = append(validationErrs, *fieldErr)
	} else {
		if !reservedAt.After(now) {
			validationErrs.Add("reserved_at", "must be in the future")
		}

		var err error
		slot, err = uc.slotCalendar.SlotFor(ctx, reservedAt)
		switch {
		case err == nil:
			if !validateStep(slot, reservedAt) {
				validationErrs.Add("reserved_at",
					fmt.Sprintf("time must align to the %d minute grid of slot %q", slot.StepMinutes, slot.Name))
			}
		case errors.Is(err, slots.ErrNoSlotForTime):
			validationErrs.Add("reserved_at", "no slot for this time")
		case errors.Is(err, slots.ErrIntegrity):
			uc.logger.Error("CreateReservation: integrity fault resolving slot: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
		default:
			uc.logger.Error("CreateReservation: failed to resolve slot: %v", err)
			return nil, fmt.Errorf("%w: failed to resolve slot: %v", ErrInternal, err)
		}
	}

	// 2. Контактные данные
	firstName, ok := normalizeName(req.FirstName)
	if !ok {
		validationErrs.Add("first_name", "must be at least 2 letters (letters, spaces and apostrophes only)")
	}
	lastName, ok := normalizeName(req.LastName)
	if !ok {
		validationErrs.Add("last_name", "must be at least 2 letters (letters, spaces and apostrophes only)")
	}
	phone, ok := normalizePhone(req.Phone)
	if !ok {
		validationErrs.Add("phone", "must contain at least 7 digits")
	}
	email, ok := validateEmail(req.Email)
	if !ok {
		validationErrs.Add("email", "must be a valid email address")
	}

	// 3. Количество гостей
	if req.PeopleCount < 1 || req.PeopleCount > uc.maxPeopleCount {
		validationErrs.Add("people_count",
			fmt.Sprintf("must be between 1 and %d", uc.maxPeopleCount))
	}

	// 4. Дубликат по паре (email, время) среди неотменённых бронирований
	if email != "" && fieldErr == nil {
		exists, err := uc.reservationRepo.ExistsActiveByEmailAndDatetime(ctx, email, reservedAt)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to check duplicate: %v", err)
			return nil, fmt.Errorf("%w: failed to check duplicate: %v", ErrInternal, err)
		}
		if exists {
			validationErrs.Add("email", "an active reservation already exists for this email and time")
		}
	}

	if len(validationErrs) > 0 {
		uc.logger.Warn("CreateReservation: validation failed: %v", validationErrs)
		return nil, validationErrs
	}

	var (
		result     *domain.Reservation
		gate       *domain.PaymentGate
		paymentRef *string
		paymentURL *string
	)

	// 5. Вставка и платёжный шаг в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Повторная проверка дубликата под блокировкой
		exists, err := uc.reservationRepo.ExistsActiveByEmailAndDatetime(txCtx, email, reservedAt)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to re-check duplicate: %v", err)
			return fmt.Errorf("%w: failed to re-check duplicate: %v", ErrInternal, err)
		}
		if exists {
			return ErrDuplicateReservation
		}

		// 5.2. Определяем платёжную группу до вставки, чтобы сразу выставить статус
		gate, err = uc.gateResolver.Resolve(txCtx, slot, reservedAt)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to resolve payment gate: %v", err)
			return fmt.Errorf("%w: failed to resolve payment gate: %v", ErrInternal, err)
		}

		status := domain.StatusConfirmed
		requiresPayment := gate != nil && gate.GateType.RequiresAmount()
		if requiresPayment {
			status = domain.StatusPendingPayment
		}

		result, err = uc.reservationRepo.Create(txCtx, &domain.Reservation{
			ReservedAt:  reservedAt,
			PeopleCount: req.PeopleCount,
			FirstName:   firstName,
			LastName:    lastName,
			Phone:       phone,
			Email:       email,
			Status:      status,
		})
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		if !requiresPayment {
			return nil
		}

		// 5.3. Синхронная инициация платежа. Ошибка откатывает вставку:
		// бронирование с обязательной оплатой не должно остаться без ссылки
		// на платёж.
		externalRef := uuid.NewString()
		payment, err := uc.paymentClient.InitiatePayment(txCtx, *gate.PaymentValue, externalRef)
		if err != nil {
			uc.logger.Error("CreateReservation: payment initiation failed for reservation id=%d: %v", result.ID, err)
			return fmt.Errorf("%w: %v", ErrPaymentInitFailed, err)
		}

		if err := uc.reservationRepo.UpdatePaymentReference(txCtx, result.ID, payment.PaymentReference); err != nil {
			uc.logger.Error("CreateReservation: failed to store payment reference for reservation id=%d: %v", result.ID, err)
			return fmt.Errorf("%w: failed to store payment reference: %v", ErrInternal, err)
		}

		result.PaymentReference = &payment.PaymentReference
		paymentRef = &payment.PaymentReference
		if payment.PaymentURL != "" {
			paymentURL = &payment.PaymentURL
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d status=%s", result.ID, result.Status)

	resp := &Response{
		ID:              result.ID,
		ReservedAt:      result.ReservedAt,
		PeopleCount:     result.PeopleCount,
		FirstName:       result.FirstName,
		LastName:        result.LastName,
		Phone:           result.Phone,
		Email:           result.Email,
		Status:          string(result.Status),
		RequiresPayment: result.Status == domain.StatusPendingPayment,
		CreatedAt:       result.CreatedAt,
	}
	if resp.RequiresPayment {
		resp.PaymentReference = paymentRef
		resp.PaymentURL = paymentURL
		resp.PaymentAmount = gate.PaymentValue
	}

	return resp, nil
}
