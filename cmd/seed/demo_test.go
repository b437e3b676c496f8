package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/datasync"
	"github.com/jhoicas/backoffice-api/internal/application/metrics"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memstore"
	"github.com/jhoicas/backoffice-api/pkg/date"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func TestBuildDemo_RegistrosValidos(t *testing.T) {
	d := buildDemo(date.MustParse("2026-03-15"))
	for _, r := range d.expenses {
		assert.NoError(t, r.Normalize().Validate(), r.Description)
	}
	for _, r := range d.incomes {
		assert.NoError(t, r.Normalize().Validate(), r.Description)
	}
	for _, r := range d.products {
		assert.NoError(t, r.Normalize().Validate(), r.Name)
	}
	for _, r := range d.customers {
		assert.NoError(t, r.Normalize().Validate(), r.Name)
	}
	for _, r := range d.employees {
		assert.NoError(t, r.Normalize().Validate(), r.Name)
	}
	for _, r := range d.tasks {
		assert.NoError(t, r.Normalize().Validate(), r.Title)
	}
}

func TestSeedDemo(t *testing.T) {
	log := logger.Nop()
	e := datasync.NewEngine(memstore.New(log), log)
	t.Cleanup(e.CloseSession)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, e.OpenSession(ctx, "u1"))
	require.NoError(t, e.Ready(ctx))

	n, err := seedDemo(ctx, e, date.MustParse("2026-03-15"))
	require.NoError(t, err)
	assert.Equal(t, 18, n)

	require.NoError(t, waitFor(ctx, e, n))
	s := metrics.Totals(e.Snapshot())
	assert.Equal(t, 2, s.LowStockCount)
	assert.Equal(t, 1, s.ActiveEmployees)
}
