package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots/models"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type fakeSlotRepo struct {
	slots  map[int64]*domain.Slot
	nextID int64
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[int64]*domain.Slot), nextID: 1}
}

func (f *fakeSlotRepo) Create(_ context.Context, slot *domain.Slot) (*domain.Slot, error) {
	created := *slot
	created.ID = f.nextID
	f.nextID++
	f.slots[created.ID] = &created
	return &created, nil
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return slot, nil
}

func (f *fakeSlotRepo) List(_ context.Context) ([]*domain.Slot, error) {
	out := make([]*domain.Slot, 0, len(f.slots))
	for _, s := range f.slots {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSlotRepo) ListByWeekday(_ context.Context, weekday int) ([]*domain.Slot, error) {
	var out []*domain.Slot
	for _, s := range f.slots {
		if s.Weekday == weekday {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) ListMatching(_ context.Context, weekday int, timeOfDay types.TimeString) ([]*domain.Slot, error) {
	var out []*domain.Slot
	for _, s := range f.slots {
		if s.Weekday == weekday && s.Contains(timeOfDay) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) Update(_ context.Context, slot *domain.Slot) error {
	if _, ok := f.slots[slot.ID]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	updated := *slot
	f.slots[slot.ID] = &updated
	return nil
}

func (f *fakeSlotRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.slots[id]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	delete(f.slots, id)
	return nil
}

type fakeAssignmentRepo struct {
	slotAssignments []*domain.GateSlotAssignment
	dateAssignments []*domain.GateDateAssignment
}

func (f *fakeAssignmentRepo) ListSlotAssignmentsBySlotID(_ context.Context, slotID int64) ([]*domain.GateSlotAssignment, error) {
	var out []*domain.GateSlotAssignment
	for _, a := range f.slotAssignments {
		if a.SlotID == slotID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ListDateAssignmentsBySlotID(_ context.Context, slotID int64) ([]*domain.GateDateAssignment, error) {
	var out []*domain.GateDateAssignment
	for _, a := range f.dateAssignments {
		if a.SlotID == slotID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeReservationRepo struct {
	hasFuture bool
}

func (f *fakeReservationRepo) ExistsFutureInWindow(_ context.Context, _ int, _, _ types.TimeString, _ time.Time) (bool, error) {
	return f.hasFuture, nil
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

func newTestService(repo *fakeSlotRepo, assignments *fakeAssignmentRepo, reservations *fakeReservationRepo) *Service {
	svc := NewService(repo, assignments, reservations, fakeTxManager{}, nopLogger{})
	svc.timeProvider = fixedTimeProvider{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	return svc
}

func createReq(name string, weekday int, startsAt, endsAt string, step int) *models.CreateSlotRequest {
	return &models.CreateSlotRequest{
		Name:        name,
		Weekday:     weekday,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		StepMinutes: step,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates valid slot", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		resp, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
		require.NoError(t, err)

		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "Lunch", resp.Name)
		assert.Equal(t, 1, resp.Weekday)
		assert.Equal(t, []string{"12:00", "12:30", "13:00", "13:30", "14:00"}, resp.ValidTimes)
	})

	t.Run("rejects starts_at not before ends_at", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		_, err := svc.Create(ctx, createReq("Lunch", 1, "14:00", "12:00", 30))
		assert.ErrorIs(t, err, ErrInvalidTimeRange)

		_, err = svc.Create(ctx, createReq("Lunch", 1, "12:00", "12:00", 30))
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("rejects invalid weekday", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		_, err := svc.Create(ctx, createReq("Lunch", 7, "12:00", "14:00", 30))
		assert.ErrorIs(t, err, ErrInvalidWeekday)

		_, err = svc.Create(ctx, createReq("Lunch", -1, "12:00", "14:00", 30))
		assert.ErrorIs(t, err, ErrInvalidWeekday)
	})

	t.Run("rejects non-canonical time of day", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		// "9:00" без ведущего нуля ломает лексикографические сравнения,
		// такой слот никогда не нашёлся бы при подборе по времени
		_, err := svc.Create(ctx, createReq("Breakfast", 1, "9:00", "9:45", 15))
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.Create(ctx, createReq("Breakfast", 1, "09:00", "9:45", 15))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects non-positive step", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		_, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 0))
		assert.ErrorIs(t, err, ErrInvalidStep)
	})

	t.Run("rejects overlap on same weekday including touching endpoints", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		_, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
		require.NoError(t, err)

		_, err = svc.Create(ctx, createReq("Afternoon", 1, "13:00", "15:00", 30))
		assert.ErrorIs(t, err, ErrSlotOverlap)

		// Границы включительны, поэтому стык 14:00-14:00 тоже пересечение
		_, err = svc.Create(ctx, createReq("Afternoon", 1, "14:00", "16:00", 30))
		assert.ErrorIs(t, err, ErrSlotOverlap)
	})

	t.Run("allows same times on different weekday", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		_, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
		require.NoError(t, err)

		_, err = svc.Create(ctx, createReq("Lunch", 2, "12:00", "14:00", 30))
		assert.NoError(t, err)
	})

	t.Run("rejects duplicate name case-insensitively on same weekday", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		_, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
		require.NoError(t, err)

		_, err = svc.Create(ctx, createReq("  LUNCH ", 1, "15:00", "16:00", 30))
		assert.ErrorIs(t, err, ErrDuplicateName)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates slot without conflicting with itself", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		created, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
		require.NoError(t, err)

		resp, err := svc.Update(ctx, created.ID, &models.UpdateSlotRequest{
			Name:        "Lunch",
			Weekday:     1,
			StartsAt:    "12:00",
			EndsAt:      "15:00",
			StepMinutes: 60,
		})
		require.NoError(t, err)
		assert.Equal(t, "15:00", resp.EndsAt)
		assert.Equal(t, 60, resp.StepMinutes)
	})

	t.Run("rejects update overlapping another slot", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		created, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
		require.NoError(t, err)
		_, err = svc.Create(ctx, createReq("Dinner", 1, "18:00", "20:00", 30))
		require.NoError(t, err)

		_, err = svc.Update(ctx, created.ID, &models.UpdateSlotRequest{
			Name:        "Lunch",
			Weekday:     1,
			StartsAt:    "12:00",
			EndsAt:      "19:00",
			StepMinutes: 30,
		})
		assert.ErrorIs(t, err, ErrSlotOverlap)
	})

	t.Run("returns not found for missing slot", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		_, err := svc.Update(ctx, 42, &models.UpdateSlotRequest{
			Name:        "Lunch",
			Weekday:     1,
			StartsAt:    "12:00",
			EndsAt:      "14:00",
			StepMinutes: 30,
		})
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes unused slot", func(t *testing.T) {
		repo := newFakeSlotRepo()
		svc := newTestService(repo, &fakeAssignmentRepo{}, &fakeReservationRepo{})

		created, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID))
		assert.Empty(t, repo.slots)
	})

	t.Run("rejects delete when gate assignment references slot", func(t *testing.T) {
		assignments := &fakeAssignmentRepo{
			slotAssignments: []*domain.GateSlotAssignment{{GateID: 1, SlotID: 1}},
		}
		svc := newTestService(newFakeSlotRepo(), assignments, &fakeReservationRepo{})

		_, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(ctx, 1), ErrSlotInUse)
	})

	t.Run("rejects delete when future reservation falls in window", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{hasFuture: true})

		_, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(ctx, 1), ErrSlotInUse)
	})

	t.Run("returns not found for missing slot", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		assert.ErrorIs(t, svc.Delete(ctx, 42), ErrSlotNotFound)
	})
}

func TestService_SlotFor(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

	// Понедельник 12:00-14:00
	created, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
	require.NoError(t, err)

	t.Run("finds slot containing datetime", func(t *testing.T) {
		// 2026-03-02 понедельник
		slot, err := svc.SlotFor(ctx, time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, created.ID, slot.ID)
	})

	t.Run("boundaries are inclusive", func(t *testing.T) {
		_, err := svc.SlotFor(ctx, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
		assert.NoError(t, err)

		_, err = svc.SlotFor(ctx, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))
		assert.NoError(t, err)
	})

	t.Run("returns ErrNoSlotForTime outside windows", func(t *testing.T) {
		_, err := svc.SlotFor(ctx, time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, ErrNoSlotForTime)

		// Вторник, слотов нет
		_, err = svc.SlotFor(ctx, time.Date(2026, 3, 3, 13, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, ErrNoSlotForTime)
	})

	t.Run("returns ErrIntegrity when more than one slot matches", func(t *testing.T) {
		repo := newFakeSlotRepo()
		svc := newTestService(repo, &fakeAssignmentRepo{}, &fakeReservationRepo{})

		// Пересечение внесено напрямую в хранилище, минуя проверки Create
		for _, s := range []*domain.Slot{
			{Name: "A", Weekday: 1, StartsAt: "12:00", EndsAt: "14:00", StepMinutes: 30},
			{Name: "B", Weekday: 1, StartsAt: "13:00", EndsAt: "15:00", StepMinutes: 30},
		} {
			_, err := repo.Create(ctx, s)
			require.NoError(t, err)
		}

		_, err := svc.SlotFor(ctx, time.Date(2026, 3, 2, 13, 30, 0, 0, time.UTC))
		assert.ErrorIs(t, err, ErrIntegrity)
	})
}

func TestService_ValidTimes(t *testing.T) {
	ctx := context.Background()

	t.Run("steps from starts_at to ends_at inclusive", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		created, err := svc.Create(ctx, createReq("Lunch", 1, "12:00", "14:00", 30))
		require.NoError(t, err)

		times, err := svc.ValidTimes(ctx, created.ID)
		require.NoError(t, err)

		expected := []types.TimeString{"12:00", "12:30", "13:00", "13:30", "14:00"}
		assert.Equal(t, expected, times)
	})

	t.Run("stops at midnight without emitting off-grid times", func(t *testing.T) {
		svc := newTestService(newFakeSlotRepo(), &fakeAssignmentRepo{}, &fakeReservationRepo{})

		created, err := svc.Create(ctx, createReq("Late night", 1, "23:00", "23:59", 30))
		require.NoError(t, err)

		times, err := svc.ValidTimes(ctx, created.ID)
		require.NoError(t, err)

		// 23:59 не кратно шагу и не входит в сетку
		expected := []types.TimeString{"23:00", "23:30"}
		assert.Equal(t, expected, times)
	})
}
