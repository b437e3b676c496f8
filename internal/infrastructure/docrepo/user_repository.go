// Package docrepo implementa puertos de persistencia sobre cualquier repository.DocumentStore.
package docrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo guarda las cuentas en la colección "users" del almacén de documentos.
// El id se repite dentro del documento para poder buscarlo con un filtro de igualdad.
type UserRepo struct {
	store repository.DocumentStore
}

// NewUserRepository construye el adaptador de usuarios sobre store.
func NewUserRepository(store repository.DocumentStore) *UserRepo {
	return &UserRepo{store: store}
}

// Create persiste un usuario nuevo. El email se verifica antes de escribir; dos registros
// simultáneos con el mismo email no están protegidos (el almacén no tiene índices únicos).
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	existing, err := r.FindByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := r.store.Create(ctx, entity.UsersCollection, user.ID, raw); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID obtiene un usuario por ID; nil si no existe.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	docs, err := r.store.Query(ctx, entity.UsersCollection, repository.Filter{Field: "id", Value: id})
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeUser(docs[0])
}

// FindByEmail obtiene un usuario por email; nil si no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	docs, err := r.store.Query(ctx, entity.UsersCollection, repository.Filter{Field: "email", Value: email})
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeUser(docs[0])
}

func decodeUser(d repository.Document) (*entity.User, error) {
	var u entity.User
	if err := json.Unmarshal(d.Data, &u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", d.ID, err)
	}
	u.ID = d.ID
	return &u, nil
}
