package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2025-07-01", New(2025, time.July, 1)},
		{"2025-7-1", New(2025, time.July, 1)},
		{"2024-03-20T14:00:00.000Z", New(2024, time.March, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse("20/03/2024")
	assert.Error(t, err)
}

func TestNew_Normaliza(t *testing.T) {
	assert.Equal(t, "2025-02-01", New(2025, time.January, 32).String())
	assert.Equal(t, "2024-12-31", New(2025, time.January, 0).String())
}

func TestAritmetica(t *testing.T) {
	d := MustParse("2026-03-31")
	assert.Equal(t, "2026-03-24", d.AddDays(-7).String())
	assert.Equal(t, "2026-03-03", d.AddMonths(-1).String(), "31 mar - 1 mes normaliza como time.AddDate")
	assert.Equal(t, "2025-03-31", d.AddYears(-1).String())
	assert.Equal(t, "2026-03-01", d.FirstOfMonth().String())
}

func TestCompare(t *testing.T) {
	a := MustParse("2026-01-10")
	b := MustParse("2026-02-01")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(MustParse("2026-1-10")))
}

func TestJSON(t *testing.T) {
	type doc struct {
		Date    Date  `json:"date"`
		DueDate *Date `json:"dueDate,omitempty"`
	}
	out, err := json.Marshal(doc{Date: MustParse("2026-10-16")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2026-10-16"}`, string(out))

	var in doc
	require.NoError(t, json.Unmarshal([]byte(`{"date":"","dueDate":"2026-11-01"}`), &in))
	assert.True(t, in.Date.IsZero())
	require.NotNil(t, in.DueDate)
	assert.Equal(t, "2026-11-01", in.DueDate.String())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"mañana"}`), &in))
}
