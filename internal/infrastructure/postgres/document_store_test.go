package postgres

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

func TestAppendWhere(t *testing.T) {
	q, args := appendWhere("UPDATE documents SET x = 1 WHERE collection = $1 AND id = $2", []any{"tasks", "t1"},
		[]repository.Filter{{Field: "ownerId", Value: "u1"}})
	assert.Equal(t, "UPDATE documents SET x = 1 WHERE collection = $1 AND id = $2 AND data->>($3::text) = $4", q)
	assert.Equal(t, []any{"tasks", "t1", "ownerId", "u1"}, args)

	q, args = appendWhere("SELECT 1", nil, nil)
	assert.Equal(t, "SELECT 1", q)
	assert.Empty(t, args)
}

func TestStamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	created, err := stamp(json.RawMessage(`{"title":"a"}`), now, true)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(created, &m))
	assert.Equal(t, "2026-03-01T10:00:00Z", m["createdAt"])
	assert.Equal(t, "2026-03-01T10:00:00Z", m["updatedAt"])

	// en un patch no se puede pisar createdAt
	patched, err := stamp(json.RawMessage(`{"status":"paid","createdAt":"1999-01-01T00:00:00Z"}`), now, false)
	require.NoError(t, err)
	m = nil
	require.NoError(t, json.Unmarshal(patched, &m))
	assert.NotContains(t, m, "createdAt")
	assert.Equal(t, "paid", m["status"])

	_, err = stamp(json.RawMessage(`"texto"`), now, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}
