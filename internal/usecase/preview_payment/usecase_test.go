package preview_payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type fakeSlotCalendar struct {
	slot *domain.Slot
}

func (f *fakeSlotCalendar) SlotFor(_ context.Context, t time.Time) (*domain.Slot, error) {
	if f.slot != nil && f.slot.MatchesDatetime(t) {
		return f.slot, nil
	}
	return nil, slots.ErrNoSlotForTime
}

type fakeGateResolver struct {
	gate *domain.PaymentGate
}

func (f *fakeGateResolver) Resolve(_ context.Context, _ *domain.Slot, _ time.Time) (*domain.PaymentGate, error) {
	return f.gate, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

var mondayLunch = &domain.Slot{
	ID:          1,
	Name:        "Lunch",
	Weekday:     1,
	StartsAt:    "12:00",
	EndsAt:      "14:00",
	StepMinutes: 30,
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("returns gate summary when gate applies", func(t *testing.T) {
		gate := &domain.PaymentGate{
			ID:           7,
			Title:        "Депозит за столик",
			Status:       domain.GateStatusActive,
			GateType:     domain.GateTypeExternalPayment,
			PaymentValue: ptr.Ptr(1500.0),
			Message:      "Требуется предоплата",
		}
		uc := NewUseCase(&fakeSlotCalendar{slot: mondayLunch}, &fakeGateResolver{gate: gate}, nopLogger{})

		resp, err := uc.Execute(ctx, &Request{ReservedAt: "2026-03-09 13:00"})
		require.NoError(t, err)

		assert.True(t, resp.RequiresPayment)
		require.NotNil(t, resp.PaymentAmount)
		assert.Equal(t, 1500.0, *resp.PaymentAmount)
		require.NotNil(t, resp.Message)
		assert.Equal(t, "Требуется предоплата", *resp.Message)
	})

	t.Run("returns no payment when nothing is assigned", func(t *testing.T) {
		uc := NewUseCase(&fakeSlotCalendar{slot: mondayLunch}, &fakeGateResolver{}, nopLogger{})

		resp, err := uc.Execute(ctx, &Request{ReservedAt: "2026-03-09 13:00"})
		require.NoError(t, err)
		assert.False(t, resp.RequiresPayment)
		assert.Nil(t, resp.PaymentAmount)
	})

	t.Run("returns no payment when no slot matches", func(t *testing.T) {
		uc := NewUseCase(&fakeSlotCalendar{}, &fakeGateResolver{}, nopLogger{})

		resp, err := uc.Execute(ctx, &Request{ReservedAt: "2026-03-09 13:00"})
		require.NoError(t, err)
		assert.False(t, resp.RequiresPayment)
	})

	t.Run("rejects malformed datetime", func(t *testing.T) {
		uc := NewUseCase(&fakeSlotCalendar{slot: mondayLunch}, &fakeGateResolver{}, nopLogger{})

		_, err := uc.Execute(ctx, &Request{ReservedAt: "когда-нибудь"})
		assert.ErrorIs(t, err, ErrInvalidDatetime)
	})
}
