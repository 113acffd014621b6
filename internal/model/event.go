package model

import "time"

// Event is an event row as stored in the database.
//
// VenueLat/VenueLng are derived from Venue through the geocoding collaborator
// at create/update time — they are never accepted from the client directly.
// Date is compared at day granularity; the time-of-day portion is not part of
// the contract.
type Event struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CoverImage    string    `json:"cover_image"`
	Venue         string    `json:"venue"`
	VenueLat      float64   `json:"venue_lat"`
	VenueLng      float64   `json:"venue_lng"`
	AttendeeTotal int       `json:"attendee_total"`
	Date          time.Time `json:"date"`
	UserID        int64     `json:"user_id"`
	CategoryID    int64     `json:"category_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EventDetail is the public representation of an event with its relations
// resolved. It deliberately omits the internal foreign-key columns and
// timestamps: the owner and category appear as embedded objects instead.
//
// Every endpoint that returns an event (list, show, create, update, attend)
// serializes this shape, so clients see exactly one event schema.
type EventDetail struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	CoverImage    string      `json:"cover_image"`
	Venue         string      `json:"venue"`
	VenueLat      float64     `json:"venue_lat"`
	VenueLng      float64     `json:"venue_lng"`
	AttendeeTotal int         `json:"attendee_total"`
	Date          time.Time   `json:"date"`
	User          UserSummary `json:"user"`
	Category      Category    `json:"category"`
	Attendees     []Attendee  `json:"attendees"`
}

// PageMeta describes one page of a listing.
type PageMeta struct {
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
}

// Page is the envelope returned by paginated listings.
type Page[T any] struct {
	Meta PageMeta `json:"meta"`
	Data []T      `json:"data"`
}

// NewPage builds a page envelope from a slice and the total row count.
// LastPage is at least 1 even for an empty result set.
func NewPage[T any](data []T, total, page, perPage int) Page[T] {
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Meta: PageMeta{
			Total:       total,
			PerPage:     perPage,
			CurrentPage: page,
			LastPage:    last,
		},
		Data: data,
	}
}
