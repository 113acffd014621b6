package validation

import "time"

// EventInput is the validated create/update payload for an event. Create and
// update share one validator, exactly like they share one rule set.
type EventInput struct {
	Title         string
	Description   string
	Venue         string
	AttendeeTotal int
	Date          time.Time
	CategoryID    int64
}

// Event validates an event body against the clock `now`.
//
// The date rule is day-granular in the server's timezone: an event dated
// today is valid right up to midnight. Whether CategoryID references an
// existing row is checked by the service, which owns store access, and is
// reported under the same category_id key.
func Event(raw map[string]any, now time.Time) (*EventInput, FieldErrors) {
	errs := FieldErrors{}

	in := &EventInput{}
	in.Title, _ = requireString(raw, "title", errs)
	in.Description, _ = requireString(raw, "description", errs)
	in.Venue, _ = requireString(raw, "venue", errs)

	if total, ok := requireInt(raw, "attendee_total", errs); ok {
		if total < 1 {
			errs.Add("attendee_total", attendeeMinMsg)
		} else {
			in.AttendeeTotal = int(total)
		}
	}

	if date, ok := requireDate(raw, errs); ok {
		if startOfDay(date).Before(startOfDay(now)) {
			errs.Add("date", dateTodayMsg)
		} else {
			in.Date = date
		}
	}

	if categoryID, ok := requireInt(raw, "category_id", errs); ok {
		if categoryID < 1 {
			errs.Add("category_id", categoryInvalidMsg)
		} else {
			in.CategoryID = categoryID
		}
	}

	if !errs.Empty() {
		return nil, errs
	}
	return in, nil
}
