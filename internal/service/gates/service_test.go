package gates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	gateRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/gate"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/internal/service/gates/models"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type fakeGateRepo struct {
	gates           map[int64]*domain.PaymentGate
	slotAssignments []*domain.GateSlotAssignment
	dateAssignments []*domain.GateDateAssignment
	nextID          int64
}

func newFakeGateRepo() *fakeGateRepo {
	return &fakeGateRepo{gates: make(map[int64]*domain.PaymentGate), nextID: 1}
}

func (f *fakeGateRepo) CreateGate(_ context.Context, gate *domain.PaymentGate) (*domain.PaymentGate, error) {
	created := *gate
	created.ID = f.nextID
	f.nextID++
	f.gates[created.ID] = &created
	return &created, nil
}

func (f *fakeGateRepo) GetGateByID(_ context.Context, id int64) (*domain.PaymentGate, error) {
	g, ok := f.gates[id]
	if !ok {
		return nil, gateRepo.ErrGateNotFound
	}
	return g, nil
}

func (f *fakeGateRepo) ListGates(_ context.Context) ([]*domain.PaymentGate, error) {
	out := make([]*domain.PaymentGate, 0, len(f.gates))
	for _, g := range f.gates {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGateRepo) ListActiveGates(_ context.Context, now time.Time) ([]*domain.PaymentGate, error) {
	var out []*domain.PaymentGate
	for _, g := range f.gates {
		if g.IsActiveAt(now) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGateRepo) CreateSlotAssignment(_ context.Context, a *domain.GateSlotAssignment) (*domain.GateSlotAssignment, error) {
	for _, existing := range f.slotAssignments {
		if existing.SlotID == a.SlotID {
			return nil, gateRepo.ErrSlotAlreadyAssigned
		}
	}
	created := *a
	created.ID = f.nextID
	f.nextID++
	f.slotAssignments = append(f.slotAssignments, &created)
	return &created, nil
}

func (f *fakeGateRepo) CreateDateAssignment(_ context.Context, a *domain.GateDateAssignment) (*domain.GateDateAssignment, error) {
	for _, existing := range f.dateAssignments {
		if existing.SlotID == a.SlotID && existing.AssignedDate.Equal(a.AssignedDate) {
			return nil, gateRepo.ErrDateAlreadyAssigned
		}
	}
	created := *a
	created.ID = f.nextID
	f.nextID++
	f.dateAssignments = append(f.dateAssignments, &created)
	return &created, nil
}

func (f *fakeGateRepo) ListSlotAssignmentsBySlotID(_ context.Context, slotID int64) ([]*domain.GateSlotAssignment, error) {
	var out []*domain.GateSlotAssignment
	for _, a := range f.slotAssignments {
		if a.SlotID == slotID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeGateRepo) ListDateAssignmentsBySlotID(_ context.Context, slotID int64) ([]*domain.GateDateAssignment, error) {
	var out []*domain.GateDateAssignment
	for _, a := range f.dateAssignments {
		if a.SlotID == slotID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeGateRepo) ListDateAssignmentsBySlotAndDate(_ context.Context, slotID int64, date time.Time) ([]*domain.GateDateAssignment, error) {
	var out []*domain.GateDateAssignment
	for _, a := range f.dateAssignments {
		if a.SlotID == slotID && a.AssignedDate.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeGateRepo) DeleteSlotAssignment(_ context.Context, slotID int64) error {
	for i, a := range f.slotAssignments {
		if a.SlotID == slotID {
			f.slotAssignments = append(f.slotAssignments[:i], f.slotAssignments[i+1:]...)
			return nil
		}
	}
	return gateRepo.ErrAssignmentNotFound
}

func (f *fakeGateRepo) DeleteDateAssignment(_ context.Context, slotID int64, date time.Time) error {
	for i, a := range f.dateAssignments {
		if a.SlotID == slotID && a.AssignedDate.Equal(date) {
			f.dateAssignments = append(f.dateAssignments[:i], f.dateAssignments[i+1:]...)
			return nil
		}
	}
	return gateRepo.ErrAssignmentNotFound
}

type fakeSlotRepo struct {
	slots map[int64]*domain.Slot
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type fixedTimeProvider struct {
	now time.Time
}

func (f fixedTimeProvider) Now() time.Time { return f.now }

// Понедельник 12:00-14:00
var mondayLunch = &domain.Slot{
	ID:          1,
	Name:        "Lunch",
	Weekday:     1,
	StartsAt:    "12:00",
	EndsAt:      "14:00",
	StepMinutes: 30,
}

func newTestService(gates *fakeGateRepo) *Service {
	slots := &fakeSlotRepo{slots: map[int64]*domain.Slot{mondayLunch.ID: mondayLunch}}
	svc := NewService(gates, slots, fakeTxManager{}, nopLogger{})
	svc.timeProvider = fixedTimeProvider{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	return svc
}

func createGateReq() *models.CreateGateRequest {
	return &models.CreateGateRequest{
		Title:        "Депозит за столик",
		Status:       "active",
		GateType:     "external_payment",
		PaymentValue: ptr.Ptr(1500.0),
		Message:      "Требуется предоплата",
	}
}

func TestService_CreateGate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates gate with payment value", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())

		resp, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "external_payment", resp.GateType)
		require.NotNil(t, resp.PaymentValue)
		assert.Equal(t, 1500.0, *resp.PaymentValue)
	})

	t.Run("rejects external_payment gate without positive amount", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())

		req := createGateReq()
		req.PaymentValue = nil
		_, err := svc.CreateGate(ctx, req)
		assert.ErrorIs(t, err, ErrPaymentValueRequired)

		req.PaymentValue = ptr.Ptr(0.0)
		_, err = svc.CreateGate(ctx, req)
		assert.ErrorIs(t, err, ErrPaymentValueRequired)
	})

	t.Run("allows no_payment gate without amount", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())

		req := createGateReq()
		req.GateType = "no_payment"
		req.PaymentValue = nil

		_, err := svc.CreateGate(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("rejects unknown gate type", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())

		req := createGateReq()
		req.GateType = "cash_only"

		_, err := svc.CreateGate(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_Assignments(t *testing.T) {
	ctx := context.Background()

	t.Run("slot assignment blocks date assignment and vice versa", func(t *testing.T) {
		// Первый порядок: slot-level, затем date-level
		svc := newTestService(newFakeGateRepo())
		gate, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		_, err = svc.AssignSlot(ctx, gate.ID, &models.AssignSlotRequest{SlotID: mondayLunch.ID})
		require.NoError(t, err)

		_, err = svc.AssignDate(ctx, gate.ID, &models.AssignDateRequest{SlotID: mondayLunch.ID, Date: "2026-03-09"})
		assert.ErrorIs(t, err, ErrAssignmentConflict)

		// Обратный порядок: date-level, затем slot-level
		svc = newTestService(newFakeGateRepo())
		gate, err = svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		_, err = svc.AssignDate(ctx, gate.ID, &models.AssignDateRequest{SlotID: mondayLunch.ID, Date: "2026-03-09"})
		require.NoError(t, err)

		_, err = svc.AssignSlot(ctx, gate.ID, &models.AssignSlotRequest{SlotID: mondayLunch.ID})
		assert.ErrorIs(t, err, ErrAssignmentConflict)
	})

	t.Run("slot may be assigned to at most one gate", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())
		first, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)
		second, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		_, err = svc.AssignSlot(ctx, first.ID, &models.AssignSlotRequest{SlotID: mondayLunch.ID})
		require.NoError(t, err)

		_, err = svc.AssignSlot(ctx, second.ID, &models.AssignSlotRequest{SlotID: mondayLunch.ID})
		assert.ErrorIs(t, err, ErrSlotAlreadyAssigned)
	})

	t.Run("slot date pair may be assigned to at most one gate", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())
		first, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)
		second, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		_, err = svc.AssignDate(ctx, first.ID, &models.AssignDateRequest{SlotID: mondayLunch.ID, Date: "2026-03-09"})
		require.NoError(t, err)

		_, err = svc.AssignDate(ctx, second.ID, &models.AssignDateRequest{SlotID: mondayLunch.ID, Date: "2026-03-09"})
		assert.ErrorIs(t, err, ErrDateAlreadyAssigned)

		// Другая дата того же слота допустима
		_, err = svc.AssignDate(ctx, second.ID, &models.AssignDateRequest{SlotID: mondayLunch.ID, Date: "2026-03-16"})
		assert.NoError(t, err)
	})

	t.Run("rejects date whose weekday differs from slot weekday", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())
		gate, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		// 2026-03-10 вторник, слот понедельничный
		_, err = svc.AssignDate(ctx, gate.ID, &models.AssignDateRequest{SlotID: mondayLunch.ID, Date: "2026-03-10"})
		assert.ErrorIs(t, err, ErrWeekdayMismatch)
	})

	t.Run("rejects assignment for missing gate or slot", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())
		gate, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		_, err = svc.AssignSlot(ctx, 42, &models.AssignSlotRequest{SlotID: mondayLunch.ID})
		assert.ErrorIs(t, err, ErrGateNotFound)

		_, err = svc.AssignSlot(ctx, gate.ID, &models.AssignSlotRequest{SlotID: 42})
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()
	reservedAt := time.Date(2026, 3, 9, 13, 0, 0, 0, time.UTC) // понедельник

	t.Run("slot-level assignment resolves to its gate", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())
		gate, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		_, err = svc.AssignSlot(ctx, gate.ID, &models.AssignSlotRequest{SlotID: mondayLunch.ID})
		require.NoError(t, err)

		resolved, err := svc.Resolve(ctx, mondayLunch, reservedAt)
		require.NoError(t, err)
		require.NotNil(t, resolved)
		assert.Equal(t, gate.ID, resolved.ID)
	})

	t.Run("date-level assignment resolves only on its date", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())
		gate, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		_, err = svc.AssignDate(ctx, gate.ID, &models.AssignDateRequest{SlotID: mondayLunch.ID, Date: "2026-03-09"})
		require.NoError(t, err)

		resolved, err := svc.Resolve(ctx, mondayLunch, reservedAt)
		require.NoError(t, err)
		require.NotNil(t, resolved)
		assert.Equal(t, gate.ID, resolved.ID)

		// Другой понедельник той же недели слота - привязка не действует
		resolved, err = svc.Resolve(ctx, mondayLunch, reservedAt.AddDate(0, 0, 7))
		require.NoError(t, err)
		assert.Nil(t, resolved)
	})

	t.Run("returns none when no assignment exists", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())

		resolved, err := svc.Resolve(ctx, mondayLunch, reservedAt)
		require.NoError(t, err)
		assert.Nil(t, resolved)
	})

	t.Run("removing assignment makes subsequent resolutions return none", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())
		gate, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		_, err = svc.AssignSlot(ctx, gate.ID, &models.AssignSlotRequest{SlotID: mondayLunch.ID})
		require.NoError(t, err)
		require.NoError(t, svc.UnassignSlot(ctx, mondayLunch.ID))

		resolved, err := svc.Resolve(ctx, mondayLunch, reservedAt)
		require.NoError(t, err)
		assert.Nil(t, resolved)
	})

	t.Run("inactive gate assignment resolves to none", func(t *testing.T) {
		svc := newTestService(newFakeGateRepo())
		gate, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		_, err = svc.AssignSlot(ctx, gate.ID, &models.AssignSlotRequest{SlotID: mondayLunch.ID})
		require.NoError(t, err)

		repo := svc.gateRepo.(*fakeGateRepo)
		repo.gates[gate.ID].Deactivate()

		resolved, err := svc.Resolve(ctx, mondayLunch, reservedAt)
		require.NoError(t, err)
		assert.Nil(t, resolved)
	})

	t.Run("duplicate slot-level assignments are an integrity fault", func(t *testing.T) {
		repo := newFakeGateRepo()
		svc := newTestService(repo)
		gate, err := svc.CreateGate(ctx, createGateReq())
		require.NoError(t, err)

		// Дубликат внесён напрямую в хранилище, минуя проверки AssignSlot
		repo.slotAssignments = append(repo.slotAssignments,
			&domain.GateSlotAssignment{ID: 100, GateID: gate.ID, SlotID: mondayLunch.ID},
			&domain.GateSlotAssignment{ID: 101, GateID: gate.ID, SlotID: mondayLunch.ID},
		)

		_, err = svc.Resolve(ctx, mondayLunch, reservedAt)
		assert.ErrorIs(t, err, ErrIntegrity)
	})
}
