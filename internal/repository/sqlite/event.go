package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/devevents/api/internal/apperror"
	"github.com/devevents/api/internal/model"
	"github.com/devevents/api/internal/repository"
)

var _ repository.EventRepository = (*DB)(nil)

// CreateEvent inserts the event and attaches the owner as its first attendee.
// Both writes happen in one transaction: an event without its owner in the
// attendee list would violate a domain invariant, so either both rows land
// or neither does.
func (db *DB) CreateEvent(ctx context.Context, event *model.Event) error {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO events (title, description, cover_image, venue, venue_lat, venue_lng,
		                     attendee_total, date, user_id, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.Title,
		event.Description,
		event.CoverImage,
		event.Venue,
		event.VenueLat,
		event.VenueLng,
		event.AttendeeTotal,
		event.Date,
		event.UserID,
		event.CategoryID,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new event id: %w", err)
	}
	event.ID = id

	// The owner is automatically the first attendee.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO event_attendees (event_id, user_id) VALUES (?, ?)`,
		event.ID, event.UserID,
	); err != nil {
		return fmt.Errorf("sqlite: attaching owner as attendee: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing event create: %w", err)
	}

	return nil
}

// GetEventByID retrieves the bare event row (no relations). Services use this
// for ownership checks before mutating.
func (db *DB) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	var e model.Event

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, cover_image, venue, venue_lat, venue_lng,
		        attendee_total, date, user_id, category_id, created_at, updated_at
		 FROM events WHERE id = ?`,
		id,
	).Scan(
		&e.ID, &e.Title, &e.Description, &e.CoverImage, &e.Venue,
		&e.VenueLat, &e.VenueLng, &e.AttendeeTotal, &e.Date,
		&e.UserID, &e.CategoryID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Resource not found")
		}
		return nil, fmt.Errorf("sqlite: getting event %d: %w", id, err)
	}

	return &e, nil
}

// GetEventDetail retrieves one event with its owner, category and attendees
// resolved. Every relation is loaded explicitly here; callers never trigger
// hidden queries by touching a field.
func (db *DB) GetEventDetail(ctx context.Context, id int64) (*model.EventDetail, error) {
	var d model.EventDetail

	err := db.conn.QueryRowContext(ctx,
		`SELECT e.id, e.title, e.description, e.cover_image, e.venue,
		        e.venue_lat, e.venue_lng, e.attendee_total, e.date,
		        u.id, u.first_name, u.last_name, u.email, u.bio,
		        c.id, c.name
		 FROM events e
		 JOIN users u ON u.id = e.user_id
		 JOIN categories c ON c.id = e.category_id
		 WHERE e.id = ?`,
		id,
	).Scan(
		&d.ID, &d.Title, &d.Description, &d.CoverImage, &d.Venue,
		&d.VenueLat, &d.VenueLng, &d.AttendeeTotal, &d.Date,
		&d.User.ID, &d.User.FirstName, &d.User.LastName, &d.User.Email, &d.User.Bio,
		&d.Category.ID, &d.Category.Name,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Resource not found")
		}
		return nil, fmt.Errorf("sqlite: getting event detail %d: %w", id, err)
	}

	attendees, err := db.Attendees(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Attendees = attendees

	return &d, nil
}

// ListEvents returns one page of events with relations resolved, ordered by
// id ascending, plus the total event count.
//
// Attendees for the whole page are fetched in a single IN query and grouped
// in memory: one query per page, not one per event.
func (db *DB) ListEvents(ctx context.Context, opts repository.ListOptions) ([]model.EventDetail, int, error) {
	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events`,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting events: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT e.id, e.title, e.description, e.cover_image, e.venue,
		        e.venue_lat, e.venue_lng, e.attendee_total, e.date,
		        u.id, u.first_name, u.last_name, u.email, u.bio,
		        c.id, c.name
		 FROM events e
		 JOIN users u ON u.id = e.user_id
		 JOIN categories c ON c.id = e.category_id
		 ORDER BY e.id ASC
		 LIMIT ? OFFSET ?`,
		opts.Limit,
		opts.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing events: %w", err)
	}
	defer rows.Close()

	events := make([]model.EventDetail, 0, opts.Limit)
	for rows.Next() {
		var d model.EventDetail
		if err := rows.Scan(
			&d.ID, &d.Title, &d.Description, &d.CoverImage, &d.Venue,
			&d.VenueLat, &d.VenueLng, &d.AttendeeTotal, &d.Date,
			&d.User.ID, &d.User.FirstName, &d.User.LastName, &d.User.Email, &d.User.Bio,
			&d.Category.ID, &d.Category.Name,
		); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning event row: %w", err)
		}
		d.Attendees = []model.Attendee{}
		events = append(events, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating events: %w", err)
	}

	if err := db.fillAttendees(ctx, events); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// fillAttendees loads the attendee lists for a page of events in one query.
func (db *DB) fillAttendees(ctx context.Context, events []model.EventDetail) error {
	if len(events) == 0 {
		return nil
	}

	placeholders := make([]string, len(events))
	args := make([]any, len(events))
	index := make(map[int64]*model.EventDetail, len(events))
	for i := range events {
		placeholders[i] = "?"
		args[i] = events[i].ID
		index[events[i].ID] = &events[i]
	}

	query := fmt.Sprintf(
		`SELECT ea.event_id, u.id, u.first_name, u.last_name, u.bio
		 FROM event_attendees ea
		 JOIN users u ON u.id = ea.user_id
		 WHERE ea.event_id IN (%s)
		 ORDER BY u.id ASC`,
		strings.Join(placeholders, ", "),
	)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: loading attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID int64
		var a model.Attendee
		if err := rows.Scan(&eventID, &a.ID, &a.FirstName, &a.LastName, &a.Bio); err != nil {
			return fmt.Errorf("sqlite: scanning attendee row: %w", err)
		}
		if d, ok := index[eventID]; ok {
			d.Attendees = append(d.Attendees, a)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating attendees: %w", err)
	}

	return nil
}

// UpdateEvent writes the mutable event fields (owner and created_at are
// immutable).
func (db *DB) UpdateEvent(ctx context.Context, event *model.Event) error {
	event.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE events
		 SET title = ?, description = ?, cover_image = ?, venue = ?, venue_lat = ?,
		     venue_lng = ?, attendee_total = ?, date = ?, category_id = ?, updated_at = ?
		 WHERE id = ?`,
		event.Title,
		event.Description,
		event.CoverImage,
		event.Venue,
		event.VenueLat,
		event.VenueLng,
		event.AttendeeTotal,
		event.Date,
		event.CategoryID,
		event.UpdatedAt,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating event %d: %w", event.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Resource not found")
	}

	return nil
}

// DeleteEvent removes an event; attendee rows cascade via the foreign key.
func (db *DB) DeleteEvent(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM events WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting event %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Resource not found")
	}

	return nil
}

// Attendees returns the attendee list for one event, id ascending (the owner
// first, since they are attached at creation).
func (db *DB) Attendees(ctx context.Context, eventID int64) ([]model.Attendee, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.id, u.first_name, u.last_name, u.bio
		 FROM event_attendees ea
		 JOIN users u ON u.id = ea.user_id
		 WHERE ea.event_id = ?
		 ORDER BY u.id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing attendees for event %d: %w", eventID, err)
	}
	defer rows.Close()

	attendees := []model.Attendee{}
	for rows.Next() {
		var a model.Attendee
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Bio); err != nil {
			return nil, fmt.Errorf("sqlite: scanning attendee row: %w", err)
		}
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating attendees: %w", err)
	}

	return attendees, nil
}

// IsAttendee reports whether userID is on the event's attendee list.
func (db *DB) IsAttendee(ctx context.Context, eventID, userID int64) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_attendees WHERE event_id = ? AND user_id = ?`,
		eventID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking attendee: %w", err)
	}
	return count > 0, nil
}

// AddAttendee attaches a user to an event's attendee list.
func (db *DB) AddAttendee(ctx context.Context, eventID, userID int64) error {
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO event_attendees (event_id, user_id) VALUES (?, ?)`,
		eventID, userID,
	); err != nil {
		return fmt.Errorf("sqlite: adding attendee: %w", err)
	}
	return nil
}

// RemoveAttendee detaches a user from an event's attendee list.
func (db *DB) RemoveAttendee(ctx context.Context, eventID, userID int64) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM event_attendees WHERE event_id = ? AND user_id = ?`,
		eventID, userID,
	); err != nil {
		return fmt.Errorf("sqlite: removing attendee: %w", err)
	}
	return nil
}
