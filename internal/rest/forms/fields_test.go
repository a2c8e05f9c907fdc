package forms

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/rest/response"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2030-02-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, time.February, 3, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2030-02-03T23:30:00-02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, time.February, 4, 1, 30, 0, 0, time.UTC), d)

	_, err = ParseDate("03/02/2030")
	assert.Error(t, err)
}

func TestParseDueDateBoundary(t *testing.T) {
	now := time.Date(2030, time.February, 3, 18, 0, 0, 0, time.UTC)

	ve := response.NewValidationError()
	_, ok := parseDueDate(json.RawMessage(`"2030-02-03"`), "due_date", now, ve)
	assert.True(t, ok)
	assert.False(t, ve.HasErrors())

	_, ok = parseDueDate(json.RawMessage(`"2030-02-02T23:59:59Z"`), "due_date", now, ve)
	assert.False(t, ok)
	assert.Equal(t, response.InPast, ve.Details()["due_date"].Code)
}

func TestParseTitleCountsRawRunes(t *testing.T) {
	quote := func(s string) json.RawMessage {
		raw, err := json.Marshal(s)
		require.NoError(t, err)
		return raw
	}

	ve := response.NewValidationError()
	title, ok := parseTitle(quote(" a "), "title", ve)
	assert.True(t, ok)
	assert.Equal(t, " a ", title)

	_, ok = parseTitle(quote(strings.Repeat("é", TitleMaxLength)), "title", ve)
	assert.True(t, ok)
	assert.False(t, ve.HasErrors())

	_, ok = parseTitle(quote("日本"), "title", ve)
	assert.False(t, ok)
	assert.Equal(t, response.TooShort, ve.Details()["title"].Code)

	ve = response.NewValidationError()
	_, ok = parseTitle(quote(strings.Repeat("é", TitleMaxLength+1)), "title", ve)
	assert.False(t, ok)
	assert.Equal(t, response.TooLong, ve.Details()["title"].Code)
}

func TestParseDescription(t *testing.T) {
	ve := response.NewValidationError()

	desc, ok := parseDescription(json.RawMessage(`null`), "description", ve)
	assert.True(t, ok)
	assert.Nil(t, desc)

	desc, ok = parseDescription(json.RawMessage(`"notes"`), "description", ve)
	assert.True(t, ok)
	require.NotNil(t, desc)
	assert.Equal(t, "notes", *desc)

	assert.False(t, ve.HasErrors())
}

func TestDecodeBodyRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{``, `[]`, `"text"`, `null`} {
		_, err := decodeBody([]byte(raw))
		assert.Error(t, err, raw)
	}

	b, err := decodeBody([]byte(`{"title":"x"}`))
	require.Nil(t, err)
	_, _, ok := b.lookup("title")
	assert.True(t, ok)
}
