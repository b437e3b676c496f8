package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/infrastructure/memstore"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}}
	b, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &memstore.Store{}, b.Store)
	u, err := b.Users.FindByEmail(context.Background(), "nadie@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "redis"}}
	_, err := Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
