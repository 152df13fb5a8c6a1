package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"techrent/internal/domain/rental"
	"techrent/internal/pkg/format"
)

const (
	defaultWindowDays = 90
	maxWindowDays     = 366
	defaultLimit      = 20
	maxLimit          = 100
)

type Service struct {
	store     Store
	equipment EquipmentReader
	notifier  Notifier
	log       *zap.Logger
	loc       *time.Location
	now       func() time.Time
	newID     func() string
}

// NewService builds the booking service. loc decides which calendar day "today" is.
func NewService(store Store, equipment EquipmentReader, notifier Notifier, log *zap.Logger, loc *time.Location) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     store,
		equipment: equipment,
		notifier:  notifier,
		log:       log,
		loc:       loc,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) today() rental.Date {
	return rental.Today(s.now(), s.loc)
}

// Create validates a booking request against the item's active bookings and stores it as
// pending. The storage write re-checks the range atomically, so two concurrent requests
// for overlapping dates cannot both succeed.
func (s *Service) Create(ctx context.Context, actor *rental.Actor, req CreateRequest) (*View, error) {
	if !actor.Authenticated() {
		return nil, rental.ErrAuthenticationRequired
	}

	item, err := s.equipment.Equipment(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ActiveRanges(ctx, item.ID, rental.Date{})
	if err != nil {
		return nil, fmt.Errorf("load active ranges: %w", err)
	}

	draft, err := rental.ValidateRequest(actor, item.Rental(), req.StartDate, req.EndDate, existing)
	if err != nil {
		return nil, err
	}
	if draft.Range.Start.Before(s.today()) {
		return nil, ErrStartInPast
	}

	now := s.now().UTC()
	b := &Booking{
		ID:          s.newID(),
		UserID:      draft.UserID,
		EquipmentID: draft.EquipmentID,
		StartDate:   draft.Range.Start,
		EndDate:     draft.Range.End,
		Status:      draft.Status,
		TotalPrice:  draft.TotalPrice,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, b); err != nil {
		if errors.Is(err, rental.ErrDateRangeUnavailable) {
			return nil, err
		}
		s.log.Error("booking insert failed",
			zap.String("booking_id", b.ID),
			zap.Int64("equipment_id", b.EquipmentID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	b.Equipment = item

	view := toView(b, actor)
	s.notifier.Notify(ctx, Event{Type: EventCreated, Booking: eventView(view), ActorID: actor.UserID, At: now})
	return &view, nil
}

// Quote prices a range for an item and tells whether it could be booked right now.
func (s *Service) Quote(ctx context.Context, equipmentID int64, start, end *rental.Date) (*QuoteView, error) {
	if start == nil || end == nil {
		return nil, rental.ErrIncompleteInput
	}

	item, err := s.equipment.Equipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	quote, err := rental.ComputeTotal(*start, *end, item.DailyRate)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ActiveRanges(ctx, item.ID, *start)
	if err != nil {
		return nil, fmt.Errorf("load active ranges: %w", err)
	}

	want := rental.DateRange{Start: *start, End: *end}
	return &QuoteView{
		EquipmentID:  item.ID,
		StartDate:    *start,
		EndDate:      *end,
		Days:         quote.Days,
		DailyRate:    quote.DailyRate,
		Total:        quote.Total,
		TotalDisplay: format.Price(quote.Total),
		Bookable:     item.IsAvailable && rental.RangeAvailable(want, existing) && !start.Before(s.today()),
	}, nil
}

// Availability lists booked ranges and blocked days of an item inside [from, to].
// Missing bounds default to today and today plus 90 days.
func (s *Service) Availability(ctx context.Context, equipmentID int64, from, to *rental.Date) (*AvailabilityView, error) {
	item, err := s.equipment.Equipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	window := rental.DateRange{Start: s.today()}
	if from != nil && !from.IsZero() {
		window.Start = *from
	}
	window.End = window.Start.AddDays(defaultWindowDays)
	if to != nil && !to.IsZero() {
		window.End = *to
	}
	if window.End.Before(window.Start) {
		return nil, rental.ErrInvalidDateRange
	}
	if window.Days() > maxWindowDays {
		return nil, ErrWindowTooWide
	}

	existing, err := s.store.ActiveRanges(ctx, item.ID, window.Start)
	if err != nil {
		return nil, fmt.Errorf("load active ranges: %w", err)
	}

	booked := make([]rental.DateRange, 0, len(existing))
	for _, r := range existing {
		if r.Overlaps(window) {
			booked = append(booked, r)
		}
	}

	return &AvailabilityView{
		EquipmentID:  item.ID,
		IsAvailable:  item.IsAvailable,
		From:         window.Start,
		To:           window.End,
		Booked:       booked,
		BlockedDates: rental.BlockedDates(booked, window),
	}, nil
}

func (s *Service) ListMine(ctx context.Context, actor *rental.Actor) ([]View, error) {
	if !actor.Authenticated() {
		return nil, rental.ErrAuthenticationRequired
	}
	items, err := s.store.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return toViews(items, actor), nil
}

// ListAll pages through every booking. Admins only.
func (s *Service) ListAll(ctx context.Context, actor *rental.Actor, f ListFilter) (*Page, error) {
	if !actor.Authenticated() {
		return nil, rental.ErrAuthenticationRequired
	}
	if !actor.IsAdmin() {
		return nil, rental.ErrForbidden
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", rental.ErrIncompleteInput, f.Status)
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Page{Items: toViews(items, actor), Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// Get returns a booking to its owner or an admin.
func (s *Service) Get(ctx context.Context, actor *rental.Actor, id string) (*View, error) {
	b, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	v := toView(b, actor)
	return &v, nil
}

func (s *Service) History(ctx context.Context, actor *rental.Actor, id string) ([]StatusEvent, error) {
	if _, err := s.visible(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.store.History(ctx, id)
}

// Transition applies a lifecycle action. The stored status only changes if it still is
// the status the decision was made on.
func (s *Service) Transition(ctx context.Context, actor *rental.Actor, id string, action rental.Action) (*View, error) {
	if !actor.Authenticated() {
		return nil, rental.ErrAuthenticationRequired
	}

	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := rental.Transition(b.Status, action, actor, b.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.store.UpdateStatus(ctx, b.ID, b.Status, next, actor.UserID, now); err != nil {
		if errors.Is(err, rental.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	from := b.Status
	b.Status = next
	b.UpdatedAt = now

	view := toView(b, actor)
	s.notifier.Notify(ctx, Event{Type: EventStatusChanged, Booking: eventView(view), From: from, ActorID: actor.UserID, At: now})
	return &view, nil
}

func (s *Service) visible(ctx context.Context, actor *rental.Actor, id string) (*Booking, error) {
	if !actor.Authenticated() {
		return nil, rental.ErrAuthenticationRequired
	}
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && b.UserID != actor.UserID {
		return nil, rental.ErrForbidden
	}
	return b, nil
}
