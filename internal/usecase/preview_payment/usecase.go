package preview_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
)

// UseCase use case предпросмотра платёжного шага: показывает, потребует ли
// бронь на указанное время предоплаты, не создавая саму бронь
type UseCase struct {
	slotCalendar SlotCalendar
	gateResolver GateResolver
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotCalendar SlotCalendar, gateResolver GateResolver, logger Logger) *UseCase {
	return &UseCase{
		slotCalendar: slotCalendar,
		gateResolver: gateResolver,
		logger:       logger,
	}
}

// Execute выполняет предпросмотр.
// Отсутствие слота на указанное время не ошибка: такая бронь всё равно не
// пройдёт валидацию приёма, предпросмотр просто сообщает, что оплата не нужна.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	reservedAt, err := parseDatetime(req.ReservedAt)
	if err != nil {
		uc.logger.Warn("PreviewPayment: invalid datetime %q: %v", req.ReservedAt, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidDatetime, err)
	}

	slot, err := uc.slotCalendar.SlotFor(ctx, reservedAt)
	if err != nil {
		if errors.Is(err, slots.ErrNoSlotForTime) {
			return &Response{RequiresPayment: false}, nil
		}
		if errors.Is(err, slots.ErrIntegrity) {
			uc.logger.Error("PreviewPayment: integrity fault resolving slot: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
		}
		uc.logger.Error("PreviewPayment: failed to resolve slot: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve slot: %v", ErrInternal, err)
	}

	gate, err := uc.gateResolver.Resolve(ctx, slot, reservedAt)
	if err != nil {
		uc.logger.Error("PreviewPayment: failed to resolve payment gate: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve payment gate: %v", ErrInternal, err)
	}

	if gate == nil || !gate.GateType.RequiresAmount() {
		return &Response{RequiresPayment: false}, nil
	}

	resp := &Response{
		RequiresPayment: true,
		GateID:          &gate.ID,
		GateTitle:       &gate.Title,
		PaymentAmount:   gate.PaymentValue,
	}
	if gate.Message != "" {
		msg := gate.Message
		resp.Message = &msg
	}

	return resp, nil
}

// parseDatetime принимает формат "YYYY-MM-DD HH:MM" либо RFC3339.
// Секунды отбрасываются, как и при приёме бронирования.
func parseDatetime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if ts, err := time.Parse(domain.DatetimeFormat, value); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return ts.Truncate(time.Minute), nil
}
