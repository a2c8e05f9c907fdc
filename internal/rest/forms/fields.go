package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/rest/response"
)

// Title length bounds, counted in characters.
const (
	TitleMinLength = 3
	TitleMaxLength = 150
)

const dateLayout = "2006-01-02"

// body is a decoded JSON object whose values are still raw, so presence
// and explicit nulls can be told apart.
type body map[string]json.RawMessage

func decodeBody(raw []byte) (body, response.Error) {
	var b body
	if err := json.Unmarshal(raw, &b); err != nil || b == nil {
		return nil, response.NewInvalidRequestError("invalid request structure")
	}
	return b, nil
}

// lookup returns the raw value of the first present key among names.
func (b body) lookup(names ...string) (json.RawMessage, string, bool) {
	for _, n := range names {
		if v, ok := b[n]; ok {
			return v, n, true
		}
	}
	return nil, names[0], false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func parseTitle(raw json.RawMessage, field string, ve *response.ValidationError) (string, bool) {
	var title string
	if isNull(raw) || json.Unmarshal(raw, &title) != nil {
		ve.SetError(field, response.InvalidValue, "title must be a string")
		return "", false
	}

	n := utf8.RuneCountInString(title)
	switch {
	case n == 0:
		ve.SetError(field, response.MissedValue, "missed value")
		return "", false
	case n < TitleMinLength:
		ve.SetError(field, response.TooShort,
			fmt.Sprintf("title must be at least %d characters", TitleMinLength))
		return "", false
	case n > TitleMaxLength:
		ve.SetError(field, response.TooLong,
			fmt.Sprintf("title must be at most %d characters", TitleMaxLength))
		return "", false
	}
	return title, true
}

// parseDescription returns nil for an explicit null.
func parseDescription(raw json.RawMessage, field string, ve *response.ValidationError) (*string, bool) {
	if isNull(raw) {
		return nil, true
	}
	var desc string
	if err := json.Unmarshal(raw, &desc); err != nil {
		ve.SetError(field, response.InvalidValue, "description must be a string or null")
		return nil, false
	}
	return &desc, true
}

func parseDueDate(raw json.RawMessage, field string, now time.Time, ve *response.ValidationError) (time.Time, bool) {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		ve.SetError(field, response.InvalidValue, "due date must be a date string")
		return time.Time{}, false
	}
	if s == "" {
		ve.SetError(field, response.MissedValue, "missed value")
		return time.Time{}, false
	}

	due, err := ParseDate(s)
	if err != nil {
		ve.SetError(field, response.InvalidValue, "due date must be YYYY-MM-DD or RFC 3339")
		return time.Time{}, false
	}
	if due.Before(model.StartOfDay(now)) {
		ve.SetError(field, response.InPast, "due date cannot be in the past")
		return time.Time{}, false
	}
	return due, true
}

// ParseDate accepts a calendar date (YYYY-MM-DD, read as UTC midnight) or
// an RFC 3339 timestamp, and returns it in UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parsePriority(raw json.RawMessage, field string, ve *response.ValidationError) (model.Priority, bool) {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		ve.SetError(field, response.InvalidValue, "priority must be one of low, medium, high")
		return "", false
	}
	p, err := model.ParsePriority(s)
	if err != nil {
		ve.SetError(field, response.InvalidValue, "priority must be one of low, medium, high")
		return "", false
	}
	return p, true
}

func parseStatus(raw json.RawMessage, field string, ve *response.ValidationError) (model.Status, bool) {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		ve.SetError(field, response.InvalidValue, "status must be one of pending, in_progress, completed")
		return "", false
	}
	st, err := model.ParseStatus(s)
	if err != nil {
		ve.SetError(field, response.InvalidValue, "status must be one of pending, in_progress, completed")
		return "", false
	}
	return st, true
}
