package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"techrent/internal/domain/catalog"
	"techrent/internal/domain/rental"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockStore) UpdateStatus(ctx context.Context, id string, from, to rental.Status, actorID string, at time.Time) error {
	return m.Called(ctx, id, from, to, actorID, at).Error(0)
}

func (m *mockStore) ActiveRanges(ctx context.Context, equipmentID int64, from rental.Date) ([]rental.DateRange, error) {
	args := m.Called(ctx, equipmentID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.DateRange), args.Error(1)
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *mockStore) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *mockStore) List(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) History(ctx context.Context, bookingID string) ([]StatusEvent, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]StatusEvent), args.Error(1)
}

type stubEquipment map[int64]*catalog.Equipment

func (s stubEquipment) Equipment(_ context.Context, id int64) (*catalog.Equipment, error) {
	if e, ok := s[id]; ok {
		return e, nil
	}
	return nil, catalog.ErrEquipmentNotFound
}

type recordingNotifier struct {
	events []Event
}

func (r *recordingNotifier) Notify(_ context.Context, e Event) {
	r.events = append(r.events, e)
}

var (
	clock  = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	user   = &rental.Actor{UserID: "u-1", Role: rental.RoleUser}
	other  = &rental.Actor{UserID: "u-2", Role: rental.RoleUser}
	admin  = &rental.Actor{UserID: "a-1", Role: rental.RoleAdmin}
	camera = &catalog.Equipment{ID: 7, Type: "Camera", Model: "Sony A7 III", DailyRate: rental.Cents(4999), IsAvailable: true}
)

func june(day int) rental.Date { return rental.NewDate(2024, time.June, day) }

func datePtr(d rental.Date) *rental.Date { return &d }

func newTestService(store Store) (*Service, *recordingNotifier) {
	n := &recordingNotifier{}
	svc := NewService(store, stubEquipment{camera.ID: camera}, n, nil, time.UTC)
	svc.now = func() time.Time { return clock }
	svc.newID = func() string { return "b-1" }
	return svc, n
}

func TestCreate_StoresPendingBookingAndNotifies(t *testing.T) {
	store := new(mockStore)
	svc, notifier := newTestService(store)

	store.On("ActiveRanges", mock.Anything, camera.ID, rental.Date{}).
		Return([]rental.DateRange{{Start: june(20), End: june(22)}}, nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		return b.ID == "b-1" && b.UserID == "u-1" && b.Status == rental.StatusPending &&
			b.TotalPrice == rental.Cents(14997) && b.StartDate.Equal(june(10)) && b.EndDate.Equal(june(12))
	})).Return(nil)

	view, err := svc.Create(context.Background(), user, CreateRequest{
		EquipmentID: camera.ID, StartDate: datePtr(june(10)), EndDate: datePtr(june(12)), Notes: "wedding",
	})
	require.NoError(t, err)

	assert.Equal(t, rental.StatusPending, view.Status)
	assert.Equal(t, "$149.97", view.TotalPriceDisplay)
	assert.Equal(t, 3, view.Days)
	assert.Equal(t, []rental.Action{rental.ActionCancel}, view.AllowedActions)
	require.NotNil(t, view.Equipment)
	assert.Equal(t, "Sony A7 III", view.Equipment.Model)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventCreated, notifier.events[0].Type)
	assert.Equal(t, "b-1", notifier.events[0].Booking.ID)
	assert.Empty(t, notifier.events[0].Booking.AllowedActions)
	store.AssertExpectations(t)
}

func TestCreate_RequiresAuthentication(t *testing.T) {
	store := new(mockStore)
	svc, notifier := newTestService(store)

	_, err := svc.Create(context.Background(), nil, CreateRequest{
		EquipmentID: camera.ID, StartDate: datePtr(june(10)), EndDate: datePtr(june(12)),
	})
	assert.ErrorIs(t, err, rental.ErrAuthenticationRequired)
	assert.Empty(t, notifier.events)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RejectsOverlapBeforeStoring(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)

	store.On("ActiveRanges", mock.Anything, camera.ID, rental.Date{}).
		Return([]rental.DateRange{{Start: june(10), End: june(12)}}, nil)

	_, err := svc.Create(context.Background(), user, CreateRequest{
		EquipmentID: camera.ID, StartDate: datePtr(june(12)), EndDate: datePtr(june(14)),
	})
	assert.ErrorIs(t, err, rental.ErrDateRangeUnavailable)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_StartInPast(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)
	store.On("ActiveRanges", mock.Anything, camera.ID, rental.Date{}).Return([]rental.DateRange{}, nil)

	_, err := svc.Create(context.Background(), user, CreateRequest{
		EquipmentID: camera.ID, StartDate: datePtr(rental.NewDate(2024, time.May, 31)), EndDate: datePtr(june(2)),
	})
	assert.ErrorIs(t, err, ErrStartInPast)
	assert.ErrorIs(t, err, rental.ErrIncompleteInput)
}

func TestCreate_TodayIsBookable(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)
	store.On("ActiveRanges", mock.Anything, camera.ID, rental.Date{}).Return([]rental.DateRange{}, nil)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	view, err := svc.Create(context.Background(), user, CreateRequest{
		EquipmentID: camera.ID, StartDate: datePtr(june(1)), EndDate: datePtr(june(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, rental.Cents(4999), view.TotalPrice)
}

func TestCreate_UnknownEquipment(t *testing.T) {
	svc, _ := newTestService(new(mockStore))

	_, err := svc.Create(context.Background(), user, CreateRequest{
		EquipmentID: 99, StartDate: datePtr(june(10)), EndDate: datePtr(june(12)),
	})
	assert.ErrorIs(t, err, catalog.ErrEquipmentNotFound)
}

func TestCreate_LostRaceIsUnavailable(t *testing.T) {
	store := new(mockStore)
	svc, notifier := newTestService(store)
	store.On("ActiveRanges", mock.Anything, camera.ID, rental.Date{}).Return([]rental.DateRange{}, nil)
	store.On("Create", mock.Anything, mock.Anything).Return(rental.ErrDateRangeUnavailable)

	_, err := svc.Create(context.Background(), user, CreateRequest{
		EquipmentID: camera.ID, StartDate: datePtr(june(10)), EndDate: datePtr(june(12)),
	})
	assert.ErrorIs(t, err, rental.ErrDateRangeUnavailable)
	assert.NotErrorIs(t, err, ErrPersistFailed)
	assert.Empty(t, notifier.events)
}

func TestCreate_StorageFailureIsPersistFailed(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)
	store.On("ActiveRanges", mock.Anything, camera.ID, rental.Date{}).Return([]rental.DateRange{}, nil)
	store.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.Create(context.Background(), user, CreateRequest{
		EquipmentID: camera.ID, StartDate: datePtr(june(10)), EndDate: datePtr(june(12)),
	})
	assert.ErrorIs(t, err, ErrPersistFailed)
}

func TestQuote(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)
	store.On("ActiveRanges", mock.Anything, camera.ID, june(10)).
		Return([]rental.DateRange{{Start: june(12), End: june(13)}}, nil)

	q, err := svc.Quote(context.Background(), camera.ID, datePtr(june(10)), datePtr(june(11)))
	require.NoError(t, err)
	assert.Equal(t, 2, q.Days)
	assert.Equal(t, rental.Cents(9998), q.Total)
	assert.Equal(t, "$99.98", q.TotalDisplay)
	assert.True(t, q.Bookable)

	q, err = svc.Quote(context.Background(), camera.ID, datePtr(june(10)), datePtr(june(12)))
	require.NoError(t, err)
	assert.False(t, q.Bookable)

	_, err = svc.Quote(context.Background(), camera.ID, datePtr(june(10)), nil)
	assert.ErrorIs(t, err, rental.ErrIncompleteInput)
}

func TestAvailability_DefaultWindow(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)
	store.On("ActiveRanges", mock.Anything, camera.ID, june(1)).
		Return([]rental.DateRange{{Start: june(3), End: june(4)}}, nil)

	view, err := svc.Availability(context.Background(), camera.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, june(1), view.From)
	assert.Equal(t, june(1).AddDays(90), view.To)
	assert.Equal(t, []rental.Date{june(3), june(4)}, view.BlockedDates)
}

func TestAvailability_Window(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)

	_, err := svc.Availability(context.Background(), camera.ID, datePtr(june(10)), datePtr(june(9)))
	assert.ErrorIs(t, err, rental.ErrInvalidDateRange)

	_, err = svc.Availability(context.Background(), camera.ID, datePtr(june(1)), datePtr(june(1).AddDays(400)))
	assert.ErrorIs(t, err, ErrWindowTooWide)
}

func pendingBooking() *Booking {
	return &Booking{
		ID: "b-1", UserID: user.UserID, EquipmentID: camera.ID,
		StartDate: june(10), EndDate: june(12), Status: rental.StatusPending, TotalPrice: rental.Cents(14997),
	}
}

func TestTransition_AdminApproves(t *testing.T) {
	store := new(mockStore)
	svc, notifier := newTestService(store)
	store.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)
	store.On("UpdateStatus", mock.Anything, "b-1", rental.StatusPending, rental.StatusApproved, admin.UserID, clock).Return(nil)

	view, err := svc.Transition(context.Background(), admin, "b-1", rental.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, rental.StatusApproved, view.Status)
	assert.Equal(t, []rental.Action{rental.ActionComplete}, view.AllowedActions)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventStatusChanged, notifier.events[0].Type)
	assert.Equal(t, rental.StatusPending, notifier.events[0].From)
	assert.Empty(t, notifier.events[0].Booking.AllowedActions)
	store.AssertExpectations(t)
}

func TestTransition_OwnerCancels(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)
	store.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)
	store.On("UpdateStatus", mock.Anything, "b-1", rental.StatusPending, rental.StatusCancelled, user.UserID, clock).Return(nil)

	view, err := svc.Transition(context.Background(), user, "b-1", rental.ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, rental.StatusCancelled, view.Status)
	assert.Empty(t, view.AllowedActions)
}

func TestTransition_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		actor  *rental.Actor
		action rental.Action
		want   error
	}{
		{"anonymous", nil, rental.ActionCancel, rental.ErrAuthenticationRequired},
		{"user approves", user, rental.ActionApprove, rental.ErrForbidden},
		{"other user cancels", other, rental.ActionCancel, rental.ErrForbidden},
		{"complete pending", admin, rental.ActionComplete, rental.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			svc, notifier := newTestService(store)
			store.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)

			_, err := svc.Transition(context.Background(), tt.actor, "b-1", tt.action)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, notifier.events)
			store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTransition_ConcurrentChangeIsInvalid(t *testing.T) {
	store := new(mockStore)
	svc, notifier := newTestService(store)
	store.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)
	store.On("UpdateStatus", mock.Anything, "b-1", rental.StatusPending, rental.StatusApproved, admin.UserID, clock).
		Return(rental.ErrInvalidTransition)

	_, err := svc.Transition(context.Background(), admin, "b-1", rental.ActionApprove)
	assert.ErrorIs(t, err, rental.ErrInvalidTransition)
	assert.Empty(t, notifier.events)
}

func TestGet_OwnerOrAdmin(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)
	store.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)
	store.On("GetByID", mock.Anything, "missing").Return(nil, ErrNotFound)

	_, err := svc.Get(context.Background(), user, "b-1")
	assert.NoError(t, err)

	view, err := svc.Get(context.Background(), admin, "b-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []rental.Action{rental.ActionApprove, rental.ActionReject}, view.AllowedActions)

	_, err = svc.Get(context.Background(), other, "b-1")
	assert.ErrorIs(t, err, rental.ErrForbidden)

	_, err = svc.Get(context.Background(), user, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAll(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)
	store.On("List", mock.Anything, ListFilter{Status: rental.StatusPending, Page: 1, Limit: 100}).
		Return([]Booking{*pendingBooking()}, int64(1), nil)

	page, err := svc.ListAll(context.Background(), admin, ListFilter{Status: rental.StatusPending, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)

	_, err = svc.ListAll(context.Background(), user, ListFilter{})
	assert.ErrorIs(t, err, rental.ErrForbidden)

	_, err = svc.ListAll(context.Background(), admin, ListFilter{Status: "lost"})
	assert.ErrorIs(t, err, rental.ErrIncompleteInput)
}
