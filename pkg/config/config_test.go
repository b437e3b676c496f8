package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "COP", cfg.App.Currency)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 2*time.Second, cfg.Sync.ReadyTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Sync.SessionIdle)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_EnterosDesdeString(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("SYNC_READY_TIMEOUT_MS", "250")
	v.Set("APP_CURRENCY", "brl")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.ReadyTimeout)
	assert.Equal(t, "BRL", cfg.App.Currency)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_FirestoreRequiereProyecto(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "firestore")
	_, err := fromViper(v)
	assert.Error(t, err)

	v.Set("FIRESTORE_PROJECT_ID", "demo")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Store.FirestoreProjectID)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "bo", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/bo?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
