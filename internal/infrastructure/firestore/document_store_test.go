package firestore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

func TestToFields_Numeros(t *testing.T) {
	doc, err := toFields(json.RawMessage(`{"quantity":5,"ratio":0.5,"price":"12.30","tags":[1,"a"],"nested":{"n":2}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(5), doc["quantity"])
	assert.Equal(t, 0.5, doc["ratio"])
	// los decimales viajan como string y así se guardan
	assert.Equal(t, "12.30", doc["price"])
	assert.Equal(t, []any{int64(1), "a"}, doc["tags"])
	assert.Equal(t, map[string]any{"n": int64(2)}, doc["nested"])

	_, err = toFields(json.RawMessage(`[]`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMatchesAll(t *testing.T) {
	fields := map[string]any{"ownerId": "u1", "quantity": int64(3)}
	assert.True(t, matchesAll(fields, nil))
	assert.True(t, matchesAll(fields, []repository.Filter{{Field: "ownerId", Value: "u1"}}))
	assert.False(t, matchesAll(fields, []repository.Filter{{Field: "ownerId", Value: "u2"}}))
	assert.False(t, matchesAll(fields, []repository.Filter{{Field: "quantity", Value: "3"}}))
}
