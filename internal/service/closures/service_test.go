package closures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	closureRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/closure"
	"github.com/m04kA/SMC-ReservationService/internal/service/closures/models"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type fakeClosureRepo struct {
	closures map[int64]*domain.ClosureWindow
	nextID   int64
}

func newFakeClosureRepo() *fakeClosureRepo {
	return &fakeClosureRepo{closures: make(map[int64]*domain.ClosureWindow), nextID: 1}
}

func (f *fakeClosureRepo) Create(_ context.Context, closure *domain.ClosureWindow) (*domain.ClosureWindow, error) {
	created := *closure
	created.ID = f.nextID
	f.nextID++
	f.closures[created.ID] = &created
	return &created, nil
}

func (f *fakeClosureRepo) GetByID(_ context.Context, id int64) (*domain.ClosureWindow, error) {
	c, ok := f.closures[id]
	if !ok {
		return nil, closureRepo.ErrClosureNotFound
	}
	return c, nil
}

func (f *fakeClosureRepo) ListCovering(_ context.Context, ts time.Time) ([]*domain.ClosureWindow, error) {
	var out []*domain.ClosureWindow
	for _, c := range f.closures {
		if ts.Before(c.FromTS) {
			continue
		}
		if c.ToTS != nil && ts.After(*c.ToTS) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClosureRepo) ListVisible(_ context.Context, now time.Time) ([]*domain.ClosureWindow, error) {
	var out []*domain.ClosureWindow
	for _, c := range f.closures {
		if c.IsVisibleAt(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClosureRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.closures[id]; !ok {
		return closureRepo.ErrClosureNotFound
	}
	delete(f.closures, id)
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

func newTestService(repo *fakeClosureRepo) *Service {
	svc := NewService(repo, nopLogger{})
	svc.timeProvider = fixedTimeProvider{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	return svc
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates bounded absolute closure", func(t *testing.T) {
		svc := newTestService(newFakeClosureRepo())

		resp, err := svc.Create(ctx, &models.CreateClosureRequest{
			FromTS:  "2026-05-01 00:00",
			ToTS:    ptr.Ptr("2026-05-03 23:59"),
			Message: "Майские праздники",
		})
		require.NoError(t, err)

		assert.Equal(t, "2026-05-01 00:00", resp.FromTS)
		assert.False(t, resp.Recurring)
	})

	t.Run("creates recurring weekly closure with derived weekday", func(t *testing.T) {
		svc := newTestService(newFakeClosureRepo())

		// 2026-03-02 понедельник, weekday не указан
		resp, err := svc.Create(ctx, &models.CreateClosureRequest{
			FromTS:     "2026-03-02 00:00",
			WeeklyFrom: ptr.Ptr("11:00"),
			WeeklyTo:   ptr.Ptr("15:00"),
			Message:    "Санитарный день",
		})
		require.NoError(t, err)

		assert.True(t, resp.Recurring)
		require.NotNil(t, resp.Weekday)
		assert.Equal(t, 1, *resp.Weekday)
	})

	t.Run("rejects unbounded non-recurring closure", func(t *testing.T) {
		svc := newTestService(newFakeClosureRepo())

		_, err := svc.Create(ctx, &models.CreateClosureRequest{
			FromTS:  "2026-03-02 00:00",
			Message: "закрыто",
		})
		assert.ErrorIs(t, err, ErrInvalidShape)
	})

	t.Run("rejects partial weekly fields", func(t *testing.T) {
		svc := newTestService(newFakeClosureRepo())

		_, err := svc.Create(ctx, &models.CreateClosureRequest{
			FromTS:     "2026-03-02 00:00",
			WeeklyFrom: ptr.Ptr("11:00"),
			Message:    "закрыто",
		})
		assert.ErrorIs(t, err, ErrInvalidShape)
	})

	t.Run("rejects weekly_to before weekly_from", func(t *testing.T) {
		svc := newTestService(newFakeClosureRepo())

		_, err := svc.Create(ctx, &models.CreateClosureRequest{
			FromTS:     "2026-03-02 00:00",
			WeeklyFrom: ptr.Ptr("15:00"),
			WeeklyTo:   ptr.Ptr("11:00"),
			Message:    "закрыто",
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("rejects to_ts before from_ts", func(t *testing.T) {
		svc := newTestService(newFakeClosureRepo())

		_, err := svc.Create(ctx, &models.CreateClosureRequest{
			FromTS:  "2026-05-03 00:00",
			ToTS:    ptr.Ptr("2026-05-01 00:00"),
			Message: "закрыто",
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("rejects malformed from_ts", func(t *testing.T) {
		svc := newTestService(newFakeClosureRepo())

		_, err := svc.Create(ctx, &models.CreateClosureRequest{
			FromTS:  "01.05.2026",
			ToTS:    ptr.Ptr("2026-05-03 23:59"),
			Message: "закрыто",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_IsAnyActiveAt(t *testing.T) {
	ctx := context.Background()

	t.Run("single day closure covers its day inclusively", func(t *testing.T) {
		svc := newTestService(newFakeClosureRepo())

		_, err := svc.Create(ctx, &models.CreateClosureRequest{
			FromTS:  "2026-05-01 00:00",
			ToTS:    ptr.Ptr("2026-05-01 23:59"),
			Message: "Праздник",
		})
		require.NoError(t, err)

		closed, msg, err := svc.IsAnyActiveAt(ctx, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, closed)
		assert.Equal(t, "Праздник", msg)

		closed, _, err = svc.IsAnyActiveAt(ctx, time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, closed)
	})

	t.Run("recurring closure active on matching weekday window only", func(t *testing.T) {
		svc := newTestService(newFakeClosureRepo())

		// Понедельники 11:00-15:00 начиная с 2026-03-02
		_, err := svc.Create(ctx, &models.CreateClosureRequest{
			FromTS:     "2026-03-02 00:00",
			WeeklyFrom: ptr.Ptr("11:00"),
			WeeklyTo:   ptr.Ptr("15:00"),
			Weekday:    ptr.Ptr(1),
			Message:    "Санитарный день",
		})
		require.NoError(t, err)

		// Следующий понедельник внутри окна
		closed, _, err := svc.IsAnyActiveAt(ctx, time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, closed)

		// Границы включительны
		closed, _, err = svc.IsAnyActiveAt(ctx, time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, closed)

		// Понедельник вне недельного окна
		closed, _, err = svc.IsAnyActiveAt(ctx, time.Date(2026, 3, 9, 16, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, closed)

		// Вторник в любое время
		closed, _, err = svc.IsAnyActiveAt(ctx, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, closed)

		// До начала действия окна
		closed, _, err = svc.IsAnyActiveAt(ctx, time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, closed)
	})
}

func TestService_ListVisible(t *testing.T) {
	ctx := context.Background()

	repo := newFakeClosureRepo()
	svc := newTestService(repo)

	// Истёкшее окно
	_, err := svc.Create(ctx, &models.CreateClosureRequest{
		FromTS:  "2026-01-01 00:00",
		ToTS:    ptr.Ptr("2026-01-02 23:59"),
		Message: "Новый год",
	})
	require.NoError(t, err)

	// Будущее окно
	future, err := svc.Create(ctx, &models.CreateClosureRequest{
		FromTS:  "2026-05-01 00:00",
		ToTS:    ptr.Ptr("2026-05-03 23:59"),
		Message: "Майские праздники",
	})
	require.NoError(t, err)

	resp, err := svc.ListVisible(ctx)
	require.NoError(t, err)

	require.Equal(t, 1, resp.Total)
	assert.Equal(t, future.ID, resp.Closures[0].ID)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	repo := newFakeClosureRepo()
	svc := newTestService(repo)

	created, err := svc.Create(ctx, &models.CreateClosureRequest{
		FromTS:  "2026-05-01 00:00",
		ToTS:    ptr.Ptr("2026-05-03 23:59"),
		Message: "Праздник",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrClosureNotFound)
}
