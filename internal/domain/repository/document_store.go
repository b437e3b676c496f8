package repository

import (
	"context"
	"encoding/json"
)

// Document es un documento del almacén: su identificador y el cuerpo JSON tal como está guardado.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Filter es un filtro de igualdad sobre un campo de primer nivel (ej. ownerId == "u1").
type Filter struct {
	Field string
	Value string
}

// Matches indica si el documento decodificado cumple el filtro. Un filtro vacío acepta todo.
func (f Filter) Matches(fields map[string]any) bool {
	if f.Field == "" {
		return true
	}
	v, ok := fields[f.Field].(string)
	return ok && v == f.Value
}

// SnapshotFunc recibe el conjunto completo de documentos que cumplen el filtro de una suscripción.
// Cada entrega reemplaza a la anterior.
type SnapshotFunc func(docs []Document)

// DocumentStore define el puerto hacia el almacén remoto de documentos (DIP).
// Los adaptadores estampan createdAt/updatedAt y no reintentan: los errores de transporte se propagan.
type DocumentStore interface {
	// Create escribe el documento completo (upsert) y estampa createdAt y updatedAt.
	Create(ctx context.Context, collection, id string, data json.RawMessage) error
	// Update fusiona patch sobre el documento existente y estampa updatedAt.
	// Devuelve domain.ErrNotFound si no existe o no cumple todos los filtros where.
	Update(ctx context.Context, collection, id string, patch json.RawMessage, where ...Filter) error
	// Delete borra el documento. Si no existe o no cumple where es un no-op.
	Delete(ctx context.Context, collection, id string, where ...Filter) error
	// Query lee una vez los documentos que cumplen el filtro.
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	// Subscribe entrega un snapshot inicial y luego uno completo por cada cambio que afecte al filtro.
	// La función devuelta cancela la suscripción y es idempotente.
	Subscribe(ctx context.Context, collection string, filter Filter, fn SnapshotFunc) (unsubscribe func(), err error)
}
