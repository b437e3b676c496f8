package dto

import "github.com/jhoicas/backoffice-api/internal/domain/entity"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListResponse listado de una colección. Synced es false mientras no llegue el primer snapshot:
// la presentación debe mostrar un indicador de carga en vez de "sin registros".
type ListResponse[T any] struct {
	Items  []T  `json:"items"`
	Count  int  `json:"count"`
	Synced bool `json:"synced"`
}

// MutationResponse respuesta 202 de create/update/delete. Pending indica que el cambio
// se verá en los listados cuando llegue el próximo snapshot.
type MutationResponse struct {
	ID      string `json:"id"`
	Pending bool   `json:"pending"`
}

// FieldsResponse descriptores de formulario de un Kind.
type FieldsResponse struct {
	Kind   entity.Kind              `json:"kind"`
	Fields []entity.FieldDescriptor `json:"fields"`
}
