package create_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type fakeReservationRepo struct {
	reservations map[int64]*domain.Reservation
	nextID       int64
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[int64]*domain.Reservation), nextID: 1}
}

func (f *fakeReservationRepo) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	created := *r
	created.ID = f.nextID
	f.nextID++
	f.reservations[created.ID] = &created
	return &created, nil
}

func (f *fakeReservationRepo) ExistsActiveByEmailAndDatetime(_ context.Context, email string, reservedAt time.Time) (bool, error) {
	for _, r := range f.reservations {
		if r.Email == email && r.ReservedAt.Equal(reservedAt) && r.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationRepo) UpdatePaymentReference(_ context.Context, id int64, ref string) error {
	r, ok := f.reservations[id]
	if !ok {
		return errors.New("not found")
	}
	r.PaymentReference = &ref
	return nil
}

func (f *fakeReservationRepo) snapshot() map[int64]*domain.Reservation {
	snap := make(map[int64]*domain.Reservation, len(f.reservations))
	for id, r := range f.reservations {
		copied := *r
		snap[id] = &copied
	}
	return snap
}

type fakeSlotCalendar struct {
	slots []*domain.Slot
}

func (f *fakeSlotCalendar) SlotFor(_ context.Context, t time.Time) (*domain.Slot, error) {
	var matches []*domain.Slot
	for _, s := range f.slots {
		if s.MatchesDatetime(t) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, slots.ErrNoSlotForTime
	case 1:
		return matches[0], nil
	default:
		return nil, slots.ErrIntegrity
	}
}

type fakeGateResolver struct {
	gate *domain.PaymentGate
	err  error
}

func (f *fakeGateResolver) Resolve(_ context.Context, _ *domain.Slot, _ time.Time) (*domain.PaymentGate, error) {
	return f.gate, f.err
}

type fakePaymentClient struct {
	payment *paymentservice.Payment
	err     error
	calls   int
}

func (f *fakePaymentClient) InitiatePayment(_ context.Context, _ float64, _ string) (*paymentservice.Payment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payment, nil
}

// rollbackTxManager откатывает изменения репозитория при ошибке из fn,
// имитируя поведение реальной транзакции
type rollbackTxManager struct {
	repo *fakeReservationRepo
}

func (m *rollbackTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.repo.snapshot()
	nextID := m.repo.nextID
	if err := fn(ctx); err != nil {
		m.repo.reservations = snap
		m.repo.nextID = nextID
		return err
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type fixedTimeProvider struct {
	now time.Time
}

func (f fixedTimeProvider) Now() time.Time { return f.now }

// Понедельник 12:00-14:00, шаг 30 минут
var mondayLunch = &domain.Slot{
	ID:          1,
	Name:        "Lunch",
	Weekday:     1,
	StartsAt:    "12:00",
	EndsAt:      "14:00",
	StepMinutes: 30,
}

type testEnv struct {
	uc       *UseCase
	repo     *fakeReservationRepo
	resolver *fakeGateResolver
	payments *fakePaymentClient
}

func newTestEnv() *testEnv {
	repo := newFakeReservationRepo()
	resolver := &fakeGateResolver{}
	payments := &fakePaymentClient{
		payment: &paymentservice.Payment{
			PaymentReference: "pay-123",
			PaymentURL:       "https://pay.example/pay-123",
			Status:           "pending",
		},
	}

	uc := NewUseCase(
		repo,
		&fakeSlotCalendar{slots: []*domain.Slot{mondayLunch}},
		resolver,
		payments,
		&rollbackTxManager{repo: repo},
		12,
		nopLogger{},
	)
	uc.timeProvider = fixedTimeProvider{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}

	return &testEnv{uc: uc, repo: repo, resolver: resolver, payments: payments}
}

func validRequest() *Request {
	return &Request{
		ReservedAt:  "2026-03-09 13:00", // понедельник, внутри слота, на сетке
		PeopleCount: 4,
		FirstName:   "anna",
		LastName:    "de'Vries",
		Phone:       "+7 (912) 345-67-89",
		Email:       "Anna@Example.com",
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verrs types.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("creates confirmed reservation when no gate applies", func(t *testing.T) {
		env := newTestEnv()

		resp, err := env.uc.Execute(ctx, validRequest())
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.False(t, resp.RequiresPayment)
		assert.Nil(t, resp.PaymentReference)
		assert.Equal(t, 0, env.payments.calls)

		// Контактные поля нормализованы
		assert.Equal(t, "Anna", resp.FirstName)
		assert.Equal(t, "De'vries", resp.LastName)
		assert.Equal(t, "+79123456789", resp.Phone)
		assert.Equal(t, "anna@example.com", resp.Email)
	})

	t.Run("creates pending_payment reservation and initiates payment when gate applies", func(t *testing.T) {
		env := newTestEnv()
		env.resolver.gate = &domain.PaymentGate{
			ID:           7,
			Status:       domain.GateStatusActive,
			GateType:     domain.GateTypeExternalPayment,
			PaymentValue: ptr.Ptr(1500.0),
		}

		resp, err := env.uc.Execute(ctx, validRequest())
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusPendingPayment), resp.Status)
		assert.True(t, resp.RequiresPayment)
		require.NotNil(t, resp.PaymentReference)
		assert.Equal(t, "pay-123", *resp.PaymentReference)
		require.NotNil(t, resp.PaymentAmount)
		assert.Equal(t, 1500.0, *resp.PaymentAmount)
		assert.Equal(t, 1, env.payments.calls)
	})

	t.Run("payment failure rolls back the reservation insert", func(t *testing.T) {
		env := newTestEnv()
		env.resolver.gate = &domain.PaymentGate{
			ID:           7,
			Status:       domain.GateStatusActive,
			GateType:     domain.GateTypeExternalPayment,
			PaymentValue: ptr.Ptr(1500.0),
		}
		env.payments.err = paymentservice.ErrPaymentRejected

		_, err := env.uc.Execute(ctx, validRequest())
		assert.ErrorIs(t, err, ErrPaymentInitFailed)
		assert.Empty(t, env.repo.reservations)
	})

	t.Run("no_payment gate confirms without payment call", func(t *testing.T) {
		env := newTestEnv()
		env.resolver.gate = &domain.PaymentGate{
			ID:       8,
			Status:   domain.GateStatusActive,
			GateType: domain.GateTypeNoPayment,
		}

		resp, err := env.uc.Execute(ctx, validRequest())
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.Equal(t, 0, env.payments.calls)
	})

	t.Run("accumulates all validation errors", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.Execute(ctx, &Request{
			ReservedAt:  "2026-03-09 13:00",
			PeopleCount: 0,
			FirstName:   "a",
			LastName:    "",
			Phone:       "123",
			Email:       "not-an-email",
		})

		fields := fieldsOf(t, err)
		assert.ElementsMatch(t, []string{"first_name", "last_name", "phone", "email", "people_count"}, fields)
		assert.Empty(t, env.repo.reservations)
	})

	t.Run("malformed datetime is a format error", func(t *testing.T) {
		env := newTestEnv()

		req := validRequest()
		req.ReservedAt = "09.03.2026 13:00"

		_, err := env.uc.Execute(ctx, req)
		assert.Contains(t, fieldsOf(t, err), "reserved_at")
	})

	t.Run("impossible date is a semantic error", func(t *testing.T) {
		env := newTestEnv()

		req := validRequest()
		req.ReservedAt = "2026-02-30 13:00"

		_, err := env.uc.Execute(ctx, req)

		var verrs types.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Len(t, verrs, 1)
		assert.Equal(t, "reserved_at", verrs[0].Field)
		assert.Equal(t, "not a real date", verrs[0].Message)
	})

	t.Run("accepts RFC3339 with fractional seconds", func(t *testing.T) {
		env := newTestEnv()

		req := validRequest()
		req.ReservedAt = "2026-03-09T13:00:00.000Z"

		_, err := env.uc.Execute(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("truncates seconds before grid check and persistence", func(t *testing.T) {
		env := newTestEnv()

		// 13:00:45.5 лежит вне 30-минутной сетки, но секунды отбрасываются
		req := validRequest()
		req.ReservedAt = "2026-03-09T13:00:45.5Z"

		resp, err := env.uc.Execute(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 9, 13, 0, 0, 0, time.UTC), resp.ReservedAt)

		// После усечения время совпадает с "2026-03-09 13:00" - дубликат
		_, err = env.uc.Execute(ctx, validRequest())
		assert.Contains(t, fieldsOf(t, err), "email")
	})

	t.Run("rejects past datetime", func(t *testing.T) {
		env := newTestEnv()

		req := validRequest()
		req.ReservedAt = "2026-02-23 13:00"

		_, err := env.uc.Execute(ctx, req)
		assert.Contains(t, fieldsOf(t, err), "reserved_at")
	})

	t.Run("datetime without slot is a field error, not a crash", func(t *testing.T) {
		env := newTestEnv()

		req := validRequest()
		req.ReservedAt = "2026-03-10 13:00" // вторник, слотов нет

		_, err := env.uc.Execute(ctx, req)

		var verrs types.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Len(t, verrs, 1)
		assert.Equal(t, "reserved_at", verrs[0].Field)
		assert.Equal(t, "no slot for this time", verrs[0].Message)
	})

	t.Run("rejects time off the slot grid", func(t *testing.T) {
		env := newTestEnv()

		req := validRequest()
		req.ReservedAt = "2026-03-09 13:10"

		_, err := env.uc.Execute(ctx, req)
		assert.Contains(t, fieldsOf(t, err), "reserved_at")
	})

	t.Run("rejects duplicate active reservation for same email and time", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.Execute(ctx, validRequest())
		require.NoError(t, err)

		_, err = env.uc.Execute(ctx, validRequest())
		assert.Contains(t, fieldsOf(t, err), "email")
	})

	t.Run("cancelled reservation does not block a new one", func(t *testing.T) {
		env := newTestEnv()

		resp, err := env.uc.Execute(ctx, validRequest())
		require.NoError(t, err)

		env.repo.reservations[resp.ID].Status = domain.StatusCancelled

		_, err = env.uc.Execute(ctx, validRequest())
		assert.NoError(t, err)
	})
}
