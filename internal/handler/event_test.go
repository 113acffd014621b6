package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// eventBody returns a valid event payload a week out, with overrides applied.
func eventBody(overrides map[string]any) map[string]any {
	body := map[string]any{
		"title":          "Go Meetup",
		"description":    "Monthly gathering of local gophers",
		"venue":          "123 Main St, Bozeman",
		"attendee_total": 5,
		"date":           time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"category_id":    1,
	}
	for k, v := range overrides {
		body[k] = v
	}
	return body
}

// createEvent posts an event and returns its id.
func createEvent(t *testing.T, app *testApp, token string, overrides map[string]any) int64 {
	t.Helper()

	rr := app.do(t, http.MethodPost, "/events", token, eventBody(overrides))
	if rr.Code != http.StatusCreated {
		t.Fatalf("creating event: status %d, body %s", rr.Code, rr.Body.String())
	}
	return int64(decodeMap(t, rr)["id"].(float64))
}

func TestListCategories(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(t, http.MethodGet, "/events/categories", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)

	var categories []map[string]any
	err := json.NewDecoder(rr.Body).Decode(&categories)
	assert.NoError(t, err)
	assert.Len(t, categories, 6)
	assert.Equal(t, "Drinks", categories[0]["name"])
	assert.Equal(t, "Travel", categories[5]["name"])
}

func TestCreateEvent(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register(t, "host@example.com")

	t.Run("valid event", func(t *testing.T) {
		rr := app.do(t, http.MethodPost, "/events", token, eventBody(nil))

		assert.Equal(t, http.StatusCreated, rr.Code)

		body := decodeMap(t, rr)
		assert.Equal(t, "Go Meetup", body["title"])
		assert.Equal(t, testLat, body["venue_lat"])
		assert.Equal(t, testLng, body["venue_lng"])

		// Relations come embedded; the raw foreign keys never appear.
		user := body["user"].(map[string]any)
		assert.Equal(t, "host@example.com", user["email"])
		category := body["category"].(map[string]any)
		assert.Equal(t, "Drinks", category["name"])
		assert.NotContains(t, body, "user_id")
		assert.NotContains(t, body, "category_id")

		// The host is on the attendee list from the start.
		attendees := body["attendees"].([]any)
		assert.Len(t, attendees, 1)
		assert.NotContains(t, attendees[0].(map[string]any), "email")
	})

	t.Run("past date", func(t *testing.T) {
		past := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		rr := app.do(t, http.MethodPost, "/events", token, eventBody(map[string]any{"date": past}))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "The date field must be a date after or equal to today", fieldErrors(t, rr)["date"])
	})

	t.Run("unknown category", func(t *testing.T) {
		rr := app.do(t, http.MethodPost, "/events", token, eventBody(map[string]any{"category_id": 99}))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "The selected category_id is invalid", fieldErrors(t, rr)["category_id"])
	})

	t.Run("attendee_total below one", func(t *testing.T) {
		rr := app.do(t, http.MethodPost, "/events", token, eventBody(map[string]any{"attendee_total": 0}))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "The attendee_total field must be at least 1", fieldErrors(t, rr)["attendee_total"])
	})

	t.Run("numeric string is not a number", func(t *testing.T) {
		rr := app.do(t, http.MethodPost, "/events", token, eventBody(map[string]any{"attendee_total": "5"}))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "The attendee_total field must be a number", fieldErrors(t, rr)["attendee_total"])
	})

	t.Run("requires authentication", func(t *testing.T) {
		rr := app.do(t, http.MethodPost, "/events", "", eventBody(nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetEvent(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register(t, "host@example.com")
	eventID := createEvent(t, app, token, nil)

	t.Run("existing event is public", func(t *testing.T) {
		rr := app.do(t, http.MethodGet, fmt.Sprintf("/events/%d", eventID), "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		body := decodeMap(t, rr)
		assert.Equal(t, "Go Meetup", body["title"])
		assert.Equal(t, "host@example.com", body["user"].(map[string]any)["email"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rr := app.do(t, http.MethodGet, "/events/9999", "", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Resource not found", decodeMap(t, rr)["message"])
	})

	t.Run("garbage id", func(t *testing.T) {
		rr := app.do(t, http.MethodGet, "/events/abc", "", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Resource not found", decodeMap(t, rr)["message"])
	})
}

func TestListEvents(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register(t, "host@example.com")

	for i := 0; i < 3; i++ {
		createEvent(t, app, token, map[string]any{"title": fmt.Sprintf("Event %d", i+1)})
	}

	rr := app.do(t, http.MethodGet, "/events", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)

	body := decodeMap(t, rr)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(1), meta["last_page"])

	data := body["data"].([]any)
	assert.Len(t, data, 3)
	assert.Equal(t, "Event 1", data[0].(map[string]any)["title"])
	assert.Equal(t, "Event 3", data[2].(map[string]any)["title"])

	t.Run("page size", func(t *testing.T) {
		rr := app.do(t, http.MethodGet, "/events?page=2&limit=2", "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		body := decodeMap(t, rr)
		meta := body["meta"].(map[string]any)
		assert.Equal(t, float64(3), meta["total"])
		assert.Equal(t, float64(2), meta["current_page"])
		assert.Equal(t, float64(2), meta["last_page"])
		assert.Len(t, body["data"], 1)
	})
}

func TestUpdateEvent(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register(t, "host@example.com")
	_, strangerToken := app.register(t, "stranger@example.com")
	eventID := createEvent(t, app, token, nil)

	t.Run("owner can update", func(t *testing.T) {
		rr := app.do(t, http.MethodPut, fmt.Sprintf("/events/%d", eventID), token,
			eventBody(map[string]any{"title": "Go Meetup (rescheduled)", "category_id": 2}))

		assert.Equal(t, http.StatusOK, rr.Code)

		body := decodeMap(t, rr)
		assert.Equal(t, "Go Meetup (rescheduled)", body["title"])
		assert.Equal(t, "Culture", body["category"].(map[string]any)["name"])
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		rr := app.do(t, http.MethodPut, fmt.Sprintf("/events/%d", eventID), strangerToken, eventBody(nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Unauthorized access", decodeMap(t, rr)["message"])
	})

	t.Run("unknown id is 404 not 403", func(t *testing.T) {
		rr := app.do(t, http.MethodPut, "/events/9999", strangerToken, eventBody(nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Resource not found", decodeMap(t, rr)["message"])
	})
}

func TestDeleteEvent(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register(t, "host@example.com")
	_, strangerToken := app.register(t, "stranger@example.com")
	eventID := createEvent(t, app, token, nil)

	t.Run("non-owner is forbidden", func(t *testing.T) {
		rr := app.do(t, http.MethodDelete, fmt.Sprintf("/events/%d", eventID), strangerToken, nil)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Unauthorized access", decodeMap(t, rr)["message"])
	})

	t.Run("owner can delete", func(t *testing.T) {
		rr := app.do(t, http.MethodDelete, fmt.Sprintf("/events/%d", eventID), token, nil)

		assert.Equal(t, http.StatusNoContent, rr.Code)

		gone := app.do(t, http.MethodGet, fmt.Sprintf("/events/%d", eventID), "", nil)
		assert.Equal(t, http.StatusNotFound, gone.Code)
	})
}

func TestAttendEvent(t *testing.T) {
	app := newTestApp(t)
	_, hostToken := app.register(t, "host@example.com")
	_, guestToken := app.register(t, "guest@example.com")

	eventID := createEvent(t, app, hostToken, nil)
	path := fmt.Sprintf("/events/%d/attendees", eventID)

	t.Run("guest can join", func(t *testing.T) {
		rr := app.do(t, http.MethodPut, path, guestToken, nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		attendees := decodeMap(t, rr)["attendees"].([]any)
		assert.Len(t, attendees, 2)
	})

	t.Run("joining twice is rejected", func(t *testing.T) {
		rr := app.do(t, http.MethodPut, path, guestToken, nil)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "You are already an attendee to this event", decodeMap(t, rr)["message"])
	})

	t.Run("host cannot join own event", func(t *testing.T) {
		rr := app.do(t, http.MethodPut, path, hostToken, nil)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "You are the event host. So you are already an attendee", decodeMap(t, rr)["message"])
	})

	// Capacity counts guests only: attendee_total 1 means one guest besides
	// the host.
	t.Run("full event rejects further guests", func(t *testing.T) {
		_, lateToken := app.register(t, "late@example.com")
		smallID := createEvent(t, app, hostToken, map[string]any{"attendee_total": 1})
		smallPath := fmt.Sprintf("/events/%d/attendees", smallID)

		first := app.do(t, http.MethodPut, smallPath, guestToken, nil)
		assert.Equal(t, http.StatusOK, first.Code)

		second := app.do(t, http.MethodPut, smallPath, lateToken, nil)
		assert.Equal(t, http.StatusForbidden, second.Code)
		assert.Equal(t, "Event is already full", decodeMap(t, second)["message"])
	})

	t.Run("unknown event", func(t *testing.T) {
		rr := app.do(t, http.MethodPut, "/events/9999/attendees", guestToken, nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Resource not found", decodeMap(t, rr)["message"])
	})
}

func TestUnattendEvent(t *testing.T) {
	app := newTestApp(t)
	_, hostToken := app.register(t, "host@example.com")
	_, guestToken := app.register(t, "guest@example.com")

	eventID := createEvent(t, app, hostToken, nil)
	path := fmt.Sprintf("/events/%d/attendees", eventID)

	t.Run("non-attendee cannot leave", func(t *testing.T) {
		rr := app.do(t, http.MethodDelete, path, guestToken, nil)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "You are not an attendee to this event", decodeMap(t, rr)["message"])
	})

	t.Run("attendee can leave", func(t *testing.T) {
		join := app.do(t, http.MethodPut, path, guestToken, nil)
		assert.Equal(t, http.StatusOK, join.Code)

		rr := app.do(t, http.MethodDelete, path, guestToken, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		detail := app.do(t, http.MethodGet, fmt.Sprintf("/events/%d", eventID), "", nil)
		attendees := decodeMap(t, detail)["attendees"].([]any)
		assert.Len(t, attendees, 1)
	})

	t.Run("host cannot leave own event", func(t *testing.T) {
		rr := app.do(t, http.MethodDelete, path, hostToken, nil)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "You are the event host. So you cannot unattend", decodeMap(t, rr)["message"])
	})
}
