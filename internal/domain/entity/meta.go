package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

// Meta agrupa los campos comunes a todo registro sincronizado.
// ID viaja como identificador del documento, no como campo; CreatedAt y UpdatedAt los estampa el almacén.
type Meta struct {
	ID        string    `json:"id,omitempty"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Identity expone la metadata de cualquier registro que embeba Meta.
func (m Meta) Identity() Meta { return m }

// Record es la restricción que cumplen los seis tipos de registro.
type Record[T any] interface {
	Identity() Meta
	Validate() error
	Normalize() T
	WithID(id string) T
	OwnedBy(userID string) T
}

// Patch es una actualización parcial validable. Nunca lleva ownerId.
type Patch interface {
	Validate() error
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrInvalidInput, field, reason)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "es obligatorio")
	}
	return nil
}

func requiredPtr(field string, value *string) error {
	if value == nil {
		return nil
	}
	return required(field, *value)
}

func emptyPatch() error {
	return invalid("patch", "no tiene campos")
}
