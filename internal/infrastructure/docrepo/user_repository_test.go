package docrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memstore"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(memstore.New(logger.Nop()))

	u := &entity.User{ID: "u1", Email: "ana@negocio.co", Name: "Ana", PasswordHash: "hash", Status: entity.UserActive, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, u))

	byEmail, err := repo.FindByEmail(ctx, "ana@negocio.co")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "u1", byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Ana", byID.Name)

	missing, err := repo.FindByEmail(ctx, "otro@negocio.co")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := *u
	dup.ID = "u2"
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrEmailAlreadyExists)
}
