package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devevents/api/internal/apperror"
	"github.com/devevents/api/internal/geocode"
	"github.com/devevents/api/internal/model"
	"github.com/devevents/api/internal/repository"
	"github.com/devevents/api/internal/validation"
)

// Attendance rule messages. Fixed strings in 403 bodies.
const (
	hostAlreadyAttendeeMsg = "You are the event host. So you are already an attendee"
	hostCannotUnattendMsg  = "You are the event host. So you cannot unattend"
	alreadyAttendeeMsg     = "You are already an attendee to this event"
	notAttendeeMsg         = "You are not an attendee to this event"
	eventFullMsg           = "Event is already full"
)

// EventService handles events, categories and attendance.
type EventService struct {
	events     repository.EventRepository
	categories repository.CategoryRepository
	geocoder   geocode.Geocoder
	logger     *slog.Logger
	now        func() time.Time
}

// NewEventService creates an EventService. The clock is injectable so tests
// can pin "today" for the date rule.
func NewEventService(
	events repository.EventRepository,
	categories repository.CategoryRepository,
	geocoder geocode.Geocoder,
	logger *slog.Logger,
) *EventService {
	return &EventService{
		events:     events,
		categories: categories,
		geocoder:   geocoder,
		logger:     logger,
		now:        time.Now,
	}
}

// Categories returns the fixed category list.
func (s *EventService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories.ListCategories(ctx)
}

// List returns one page of events with relations resolved.
func (s *EventService) List(ctx context.Context, page, perPage int) (model.Page[model.EventDetail], error) {
	events, total, err := s.events.ListEvents(ctx, repository.ListOptions{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return model.Page[model.EventDetail]{}, fmt.Errorf("service/event: listing events: %w", err)
	}

	return model.NewPage(events, total, page, perPage), nil
}

// Get fetches a single event with relations resolved.
func (s *EventService) Get(ctx context.Context, id int64) (*model.EventDetail, error) {
	return s.events.GetEventDetail(ctx, id)
}

// Create validates the body, geocodes the venue and inserts the event with
// the caller as owner. The owner lands on the attendee list inside the same
// transaction as the insert.
func (s *EventService) Create(ctx context.Context, userID int64, raw map[string]any) (*model.EventDetail, error) {
	in, err := s.validateEvent(ctx, raw)
	if err != nil {
		return nil, err
	}

	coords, err := s.geocoder.GetLatLng(ctx, in.Venue)
	if err != nil {
		return nil, fmt.Errorf("service/event: geocoding venue: %w", err)
	}

	event := &model.Event{
		Title:         in.Title,
		Description:   in.Description,
		Venue:         in.Venue,
		VenueLat:      coords.Lat,
		VenueLng:      coords.Lng,
		AttendeeTotal: in.AttendeeTotal,
		Date:          in.Date,
		UserID:        userID,
		CategoryID:    in.CategoryID,
	}
	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("service/event: creating event: %w", err)
	}

	s.logger.Info("event created",
		slog.Int64("eventID", event.ID),
		slog.Int64("userID", userID),
	)

	return s.events.GetEventDetail(ctx, event.ID)
}

// Update rewrites a mutable event. 404 for a missing event, 403 for a
// non-owner, then validation; the venue is re-geocoded on every update
// whether or not it changed.
func (s *EventService) Update(ctx context.Context, actorID, eventID int64, raw map[string]any) (*model.EventDetail, error) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.UserID != actorID {
		return nil, apperror.Forbidden()
	}

	in, err := s.validateEvent(ctx, raw)
	if err != nil {
		return nil, err
	}

	coords, err := s.geocoder.GetLatLng(ctx, in.Venue)
	if err != nil {
		return nil, fmt.Errorf("service/event: geocoding venue: %w", err)
	}

	event.Title = in.Title
	event.Description = in.Description
	event.Venue = in.Venue
	event.VenueLat = coords.Lat
	event.VenueLng = coords.Lng
	event.AttendeeTotal = in.AttendeeTotal
	event.Date = in.Date
	event.CategoryID = in.CategoryID
	if err := s.events.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("service/event: updating event %d: %w", eventID, err)
	}

	return s.events.GetEventDetail(ctx, eventID)
}

// Delete removes an event. 404 before 403; attendee rows cascade in the
// store.
func (s *EventService) Delete(ctx context.Context, actorID, eventID int64) error {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.UserID != actorID {
		return apperror.Forbidden()
	}

	if err := s.events.DeleteEvent(ctx, eventID); err != nil {
		return err
	}

	s.logger.Info("event deleted",
		slog.Int64("eventID", eventID),
		slog.Int64("userID", actorID),
	)

	return nil
}

// Attend adds the caller to the attendee list.
//
// Rules, in order: the host is an attendee by construction and cannot join
// again; a user already on the list cannot join twice; a full event accepts
// nobody. Capacity counts guests only — the host's automatic slot does not
// consume one of the attendee_total places.
func (s *EventService) Attend(ctx context.Context, userID, eventID int64) (*model.EventDetail, error) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.UserID == userID {
		return nil, apperror.ForbiddenWithMessage(hostAlreadyAttendeeMsg)
	}

	isAttendee, err := s.events.IsAttendee(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("service/event: checking attendance: %w", err)
	}
	if isAttendee {
		return nil, apperror.ForbiddenWithMessage(alreadyAttendeeMsg)
	}

	attendees, err := s.events.Attendees(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("service/event: counting attendees: %w", err)
	}
	if len(attendees)-1 >= event.AttendeeTotal {
		return nil, apperror.ForbiddenWithMessage(eventFullMsg)
	}

	if err := s.events.AddAttendee(ctx, eventID, userID); err != nil {
		return nil, fmt.Errorf("service/event: adding attendee: %w", err)
	}

	s.logger.Info("user joined event",
		slog.Int64("eventID", eventID),
		slog.Int64("userID", userID),
	)

	return s.events.GetEventDetail(ctx, eventID)
}

// Unattend removes the caller from the attendee list. The host cannot leave
// their own event.
func (s *EventService) Unattend(ctx context.Context, userID, eventID int64) error {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.UserID == userID {
		return apperror.ForbiddenWithMessage(hostCannotUnattendMsg)
	}

	isAttendee, err := s.events.IsAttendee(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("service/event: checking attendance: %w", err)
	}
	if !isAttendee {
		return apperror.ForbiddenWithMessage(notAttendeeMsg)
	}

	if err := s.events.RemoveAttendee(ctx, eventID, userID); err != nil {
		return fmt.Errorf("service/event: removing attendee: %w", err)
	}

	s.logger.Info("user left event",
		slog.Int64("eventID", eventID),
		slog.Int64("userID", userID),
	)

	return nil
}

// validateEvent runs the shared create/update rules and verifies the category
// exists. A missing category reports through the same field-error envelope as
// the shape rules.
func (s *EventService) validateEvent(ctx context.Context, raw map[string]any) (*validation.EventInput, error) {
	in, fieldErrs := validation.Event(raw, s.now())
	if fieldErrs != nil {
		return nil, apperror.ValidationFailed(fieldErrs)
	}

	if _, err := s.categories.GetCategoryByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed(map[string]string{
				"category_id": validation.CategoryInvalidMessage,
			})
		}
		return nil, fmt.Errorf("service/event: checking category: %w", err)
	}

	return in, nil
}
