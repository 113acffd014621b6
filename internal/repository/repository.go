// Package repository defines the storage interfaces the services depend on.
// The sqlite subpackage provides the concrete implementation; tests use
// in-memory mocks.
package repository

import (
	"context"

	"github.com/devevents/api/internal/model"
)

// ListOptions controls pagination. Listing methods also return the total row
// count so handlers can build the page envelope; ordering is always primary
// key ascending — deterministic insertion order, stated rather than implied.
type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// EmailTaken reports whether another user (excluding excludeID, 0 for
	// none) already holds the address.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	ListUsers(ctx context.Context, opts ListOptions) ([]model.User, int, error)
	UpdateUser(ctx context.Context, user *model.User) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
}

type EventRepository interface {
	// CreateEvent inserts the event and attaches the owner as its first
	// attendee in the same transaction.
	CreateEvent(ctx context.Context, event *model.Event) error
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	// GetEventDetail resolves the owner, category and attendee relations
	// explicitly; there is no lazy loading anywhere.
	GetEventDetail(ctx context.Context, id int64) (*model.EventDetail, error)
	ListEvents(ctx context.Context, opts ListOptions) ([]model.EventDetail, int, error)
	UpdateEvent(ctx context.Context, event *model.Event) error
	DeleteEvent(ctx context.Context, id int64) error

	Attendees(ctx context.Context, eventID int64) ([]model.Attendee, error)
	IsAttendee(ctx context.Context, eventID, userID int64) (bool, error)
	AddAttendee(ctx context.Context, eventID, userID int64) error
	RemoveAttendee(ctx context.Context, eventID, userID int64) error
}
