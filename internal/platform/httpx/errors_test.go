package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (int, ProblemDetail) {
	t.Helper()
	rec := httptest.NewRecorder()
	RespondError(rec, err)
	var problem ProblemDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&problem))
	return rec.Code, problem
}

func TestClassedErrorsMatchTheirClass(t *testing.T) {
	notFound := NotFound("widget not found")
	assert.True(t, errors.Is(notFound, ErrNotFound))
	assert.Equal(t, "widget not found", notFound.Error())

	dup := Duplicate("widget already registered")
	assert.True(t, errors.Is(dup, ErrDuplicate))

	invalid := Invalid("widget name required")
	assert.True(t, errors.Is(invalid, ErrValidation))

	assert.True(t, IsClientError(notFound))
	assert.True(t, IsClientError(dup))
	assert.True(t, IsClientError(invalid))
	assert.False(t, IsClientError(errors.New("connection refused")))
}

func TestRespondErrorMapsClasses(t *testing.T) {
	status, problem := respond(t, NotFound("widget not found"))
	assert.Equal(t, 404, status)
	assert.Equal(t, "widget not found", problem.Detail)

	status, problem = respond(t, Duplicate("widget already registered"))
	assert.Equal(t, 409, status)
	assert.Equal(t, "Duplicate", problem.Title)

	status, _ = respond(t, Invalid("widget name required"))
	assert.Equal(t, 400, status)
}

func TestRespondErrorStripsWrappingContext(t *testing.T) {
	wrapped := fmt.Errorf("create widget: %w", Duplicate("widget already registered"))

	status, problem := respond(t, wrapped)

	assert.Equal(t, 409, status)
	assert.Equal(t, "widget already registered", problem.Detail)
}

func TestRespondErrorHidesUnclassedErrors(t *testing.T) {
	status, problem := respond(t, errors.New("pq: connection reset"))

	assert.Equal(t, 500, status)
	assert.Empty(t, problem.Detail)
}
