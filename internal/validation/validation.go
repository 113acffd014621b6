// Package validation contains the per-operation input checks.
//
// Each validator is a pure function: it takes the decoded JSON body as a
// map[string]any and returns a typed payload plus a FieldErrors map. Handlers
// turn a non-empty map into a 422 response with the shape
// {"errors": {field: message}}.
//
// Working on the raw map (instead of decoding straight into a struct) is what
// lets us enforce strict types: a JSON number sent for a string field, or a
// quoted "10" sent for attendee_total, must fail with a type message rather
// than being silently coerced.
//
// RULE ORDER: per field, the first offending rule wins and later rules are
// skipped — required before type, type before format/range. Across fields all
// violations are collected; validation never short-circuits at the first bad
// field.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// FieldErrors maps a field name to the message of the first rule it violated.
type FieldErrors map[string]string

// Add records a message for a field unless one is already present.
func (e FieldErrors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Empty reports whether no field failed.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Message templates for the wire contract. Clients assert on these strings,
// so they are part of the API surface — change them and you break consumers.
func requiredMsg(field string) string {
	return fmt.Sprintf("The %s field is required", field)
}

func stringTypeMsg(field string) string {
	return fmt.Sprintf("The value of %s field must be a string", field)
}

func numberTypeMsg(field string) string {
	return fmt.Sprintf("The %s field must be a number", field)
}

const (
	emailFormatMsg     = "The email field must be a valid email address"
	emailTakenMsg      = "The email has already been taken"
	passwordMinMsg     = "The password field must have at least 8 characters"
	passwordMaxMsg     = "The password field must not be greater than 32 characters"
	newPasswordMinMsg  = "The new_password field must have at least 8 characters"
	newPasswordMaxMsg  = "The new_password field must not be greater than 32 characters"
	dateTypeMsg        = "The date field must be a datetime value"
	dateTodayMsg       = "The date field must be a date after or equal to today"
	attendeeMinMsg     = "The attendee_total field must be at least 1"
	categoryInvalidMsg = "The selected category_id is invalid"
)

// EmailTakenMessage is exported for the service layer, which owns the
// store-backed uniqueness check but reports it through the same envelope.
const EmailTakenMessage = emailTakenMsg

// CategoryInvalidMessage is the service-reported message for a category_id
// that passed the type check but matches no category row.
const CategoryInvalidMessage = categoryInvalidMsg

// A permissive-but-sane email shape: something@something.tld, no whitespace.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// requireString extracts a trimmed, non-empty string field.
// Returns ok=false after recording the first violated rule.
func requireString(raw map[string]any, field string, errs FieldErrors) (string, bool) {
	v, present := raw[field]
	if !present || v == nil {
		errs.Add(field, requiredMsg(field))
		return "", false
	}
	s, isString := v.(string)
	if !isString {
		errs.Add(field, stringTypeMsg(field))
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		errs.Add(field, requiredMsg(field))
		return "", false
	}
	return s, true
}

// requireInt extracts a strictly-numeric integer field. JSON numbers decode
// to float64; anything else (including numeric strings) fails the type rule.
func requireInt(raw map[string]any, field string, errs FieldErrors) (int64, bool) {
	v, present := raw[field]
	if !present || v == nil {
		errs.Add(field, requiredMsg(field))
		return 0, false
	}
	f, isNumber := v.(float64)
	if !isNumber || f != math.Trunc(f) {
		errs.Add(field, numberTypeMsg(field))
		return 0, false
	}
	return int64(f), true
}

// requireEmail extracts a valid email address.
func requireEmail(raw map[string]any, errs FieldErrors) (string, bool) {
	v, present := raw["email"]
	if !present || v == nil {
		errs.Add("email", requiredMsg("email"))
		return "", false
	}
	s, isString := v.(string)
	if !isString {
		errs.Add("email", stringTypeMsg("email"))
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		errs.Add("email", requiredMsg("email"))
		return "", false
	}
	if !emailRe.MatchString(s) {
		errs.Add("email", emailFormatMsg)
		return "", false
	}
	return s, true
}

// requireDate extracts a date field that must parse as either a calendar date
// ("2006-01-02") or an RFC 3339 datetime.
func requireDate(raw map[string]any, errs FieldErrors) (time.Time, bool) {
	v, present := raw["date"]
	if !present || v == nil {
		errs.Add("date", requiredMsg("date"))
		return time.Time{}, false
	}
	s, isString := v.(string)
	if !isString {
		errs.Add("date", dateTypeMsg)
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	errs.Add("date", dateTypeMsg)
	return time.Time{}, false
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
