package datasync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// campos que una actualización parcial nunca puede tocar
var immutableFields = []string{"id", entity.OwnerField, "createdAt", "updatedAt"}

// Collection copia local de un Kind para la sesión abierta. El estado lo protege el lock del Engine.
type Collection[T entity.Record[T], P entity.Patch] struct {
	engine  *Engine
	kind    entity.Kind
	items   []T
	byID    map[string]int
	synced  bool
	version uint64
}

func newCollection[T entity.Record[T], P entity.Patch](e *Engine, kind entity.Kind) *Collection[T, P] {
	return &Collection[T, P]{engine: e, kind: kind, byID: map[string]int{}}
}

func (c *Collection[T, P]) Kind() entity.Kind { return c.kind }

// List devuelve una copia de los registros en el orden de la última entrega (sin orden garantizado).
func (c *Collection[T, P]) List() []T {
	c.engine.mu.RLock()
	defer c.engine.mu.RUnlock()
	return c.copyLocked()
}

// Get busca un registro por id en el estado local.
func (c *Collection[T, P]) Get(id string) (T, bool) {
	c.engine.mu.RLock()
	defer c.engine.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Synced indica si ya llegó el primer snapshot de la sesión actual.
func (c *Collection[T, P]) Synced() bool {
	c.engine.mu.RLock()
	defer c.engine.mu.RUnlock()
	return c.synced
}

// Version cuenta las entregas aceptadas desde que se creó el motor.
func (c *Collection[T, P]) Version() uint64 {
	c.engine.mu.RLock()
	defer c.engine.mu.RUnlock()
	return c.version
}

// Create escribe rec con un id nuevo y el dueño de la sesión, y devuelve el id sin esperar la entrega.
func (c *Collection[T, P]) Create(ctx context.Context, rec T) (string, error) {
	userID, err := c.engine.current()
	if err != nil {
		return "", err
	}
	rec = rec.Normalize()
	if err := rec.Validate(); err != nil {
		return "", err
	}
	id := c.engine.newID()
	raw, err := json.Marshal(rec.WithID("").OwnedBy(userID))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := c.engine.store.Create(ctx, c.kind.Collection(), id, raw); err != nil {
		c.engine.log.Warn().Err(err).Str("kind", string(c.kind)).Str("user_id", userID).Msg("create rechazado por el almacén")
		return "", writeError(err)
	}
	return id, nil
}

// Update escribe los campos no nil de patch sobre un documento visible para la sesión.
func (c *Collection[T, P]) Update(ctx context.Context, id string, patch P) error {
	userID, err := c.engine.current()
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: id vacío", domain.ErrInvalidInput)
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	raw, err := patchJSON(patch)
	if err != nil {
		return err
	}
	err = c.engine.store.Update(ctx, c.kind.Collection(), id, raw, ownerFilter(userID))
	if err != nil {
		return writeError(err)
	}
	return nil
}

// Delete pide el borrado; un id inexistente o ajeno es un no-op exitoso.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	userID, err := c.engine.current()
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: id vacío", domain.ErrInvalidInput)
	}
	if err := c.engine.store.Delete(ctx, c.kind.Collection(), id, ownerFilter(userID)); err != nil {
		return writeError(err)
	}
	return nil
}

// ── sincronización ───────────────────────────────────────────────────────────

func (c *Collection[T, P]) subscribe(ctx context.Context, userID string, epoch uint64) (func(), error) {
	return c.engine.store.Subscribe(ctx, c.kind.Collection(), ownerFilter(userID), func(docs []repository.Document) {
		c.deliver(userID, epoch, docs)
	})
}

// deliver reemplaza la colección con el snapshot si sigue siendo de la sesión actual.
func (c *Collection[T, P]) deliver(userID string, epoch uint64, docs []repository.Document) {
	e := c.engine
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		var rec T
		if err := json.Unmarshal(d.Data, &rec); err != nil {
			e.log.Warn().Err(err).Str("kind", string(c.kind)).Str("id", d.ID).Msg("documento ilegible, se omite")
			continue
		}
		if rec.Identity().OwnerID != userID {
			e.log.Warn().Str("kind", string(c.kind)).Str("id", d.ID).Msg("documento de otro dueño en el snapshot, se omite")
			continue
		}
		// Normalize completa valores por defecto y recalcula los campos derivados
		items = append(items, rec.Normalize().WithID(d.ID))
	}

	e.mu.Lock()
	if !e.open || e.epoch != epoch {
		e.mu.Unlock()
		e.log.Debug().Str("kind", string(c.kind)).Uint64("epoch", epoch).Msg("entrega de una sesión vencida descartada")
		return
	}
	c.items = items
	c.byID = make(map[string]int, len(items))
	for i, rec := range items {
		c.byID[rec.Identity().ID] = i
	}
	c.synced = true
	c.version++
	e.broadcastLocked()
	e.mu.Unlock()

	e.log.Debug().Str("kind", string(c.kind)).Str("user_id", userID).Int("docs", len(items)).Msg("snapshot aplicado")
	e.emit(c.kind)
}

func (c *Collection[T, P]) resetLocked() {
	c.items = nil
	c.byID = map[string]int{}
	c.synced = false
}

func (c *Collection[T, P]) syncedLocked() bool { return c.synced }

func (c *Collection[T, P]) copyLocked() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func ownerFilter(userID string) repository.Filter {
	return repository.Filter{Field: entity.OwnerField, Value: userID}
}

// patchJSON serializa el patch sin los campos inmutables.
func patchJSON(patch any) (json.RawMessage, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	for _, f := range immutableFields {
		delete(m, f)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: patch sin campos", domain.ErrInvalidInput)
	}
	return json.Marshal(m)
}
