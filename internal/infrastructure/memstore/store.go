// Package memstore implementa repository.DocumentStore en memoria, con suscripciones en vivo.
// Es el almacén por defecto en desarrollo y el que usan los tests de integración del motor.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

var _ repository.DocumentStore = (*Store)(nil)

// fields documento guardado campo a campo; el merge de Update es por campo de primer nivel.
type fields map[string]json.RawMessage

// Store almacén de documentos en memoria, seguro para uso concurrente.
type Store struct {
	mu      sync.Mutex
	log     *logger.Logger
	now     func() time.Time
	cols    map[string]map[string]fields
	subs    map[string]map[uint64]*subscription
	nextSub uint64
	failure error
}

// Option configura el Store.
type Option func(*Store)

// WithClock fija el reloj con el que se estampan createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New construye un almacén vacío.
func New(log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		log:  log.Named("memstore"),
		now:  time.Now,
		cols: make(map[string]map[string]fields),
		subs: make(map[string]map[uint64]*subscription),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FailWrites hace que toda escritura falle con err hasta llamar FailWrites(nil).
// Simula caídas de red o permisos rechazados.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	s.failure = err
	s.mu.Unlock()
}

// Create guarda el documento completo, reemplazando uno previo con el mismo id.
func (s *Store) Create(ctx context.Context, collection, id string, data json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := decode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure != nil {
		return s.failure
	}
	ts := stamp(s.now())
	doc["createdAt"] = ts
	doc["updatedAt"] = ts
	s.collection(collection)[id] = doc
	s.notifyLocked(collection)
	return nil
}

// Update fusiona patch sobre el documento existente.
func (s *Store) Update(ctx context.Context, collection, id string, patch json.RawMessage, where ...repository.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	changes, err := decode(patch)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure != nil {
		return s.failure
	}
	doc, ok := s.collection(collection)[id]
	if !ok || !matchesAll(doc, where) {
		return domain.ErrNotFound
	}
	for k, v := range changes {
		if k == "id" || k == "createdAt" {
			continue
		}
		doc[k] = v
	}
	doc["updatedAt"] = stamp(s.now())
	s.notifyLocked(collection)
	return nil
}

// Delete borra el documento; si no existe o no cumple where no hace nada.
func (s *Store) Delete(ctx context.Context, collection, id string, where ...repository.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure != nil {
		return s.failure
	}
	col := s.collection(collection)
	doc, ok := col[id]
	if !ok || !matchesAll(doc, where) {
		return nil
	}
	delete(col, id)
	s.notifyLocked(collection)
	return nil
}

// Query devuelve los documentos que cumplen filter, ordenados por id.
func (s *Store) Query(ctx context.Context, collection string, filter repository.Filter) ([]repository.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(collection, filter), nil
}

// Subscribe registra fn y le entrega el snapshot actual de forma asíncrona.
// La suscripción termina con la función devuelta o al cancelarse ctx.
func (s *Store) Subscribe(ctx context.Context, collection string, filter repository.Filter, fn repository.SnapshotFunc) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub := newSubscription(filter, fn)

	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[uint64]*subscription)
	}
	s.subs[collection][id] = sub
	sub.offer(s.snapshotLocked(collection, filter))
	s.mu.Unlock()

	s.log.Debug().Str("collection", collection).Str("field", filter.Field).Uint64("sub", id).Msg("suscripción abierta")

	unsubscribe := func() {
		sub.stop(func() {
			s.mu.Lock()
			delete(s.subs[collection], id)
			s.mu.Unlock()
		})
	}
	go sub.run(ctx, unsubscribe)
	return unsubscribe, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *Store) collection(name string) map[string]fields {
	col, ok := s.cols[name]
	if !ok {
		col = make(map[string]fields)
		s.cols[name] = col
	}
	return col
}

func (s *Store) notifyLocked(collection string) {
	for _, sub := range s.subs[collection] {
		sub.offer(s.snapshotLocked(collection, sub.filter))
	}
}

func (s *Store) snapshotLocked(collection string, filter repository.Filter) []repository.Document {
	col := s.cols[collection]
	out := make([]repository.Document, 0, len(col))
	for id, doc := range col {
		if !matches(doc, filter) {
			continue
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			s.log.Warn().Err(err).Str("collection", collection).Str("id", id).Msg("documento no serializable, omitido")
			continue
		}
		out = append(out, repository.Document{ID: id, Data: raw})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func decode(data json.RawMessage) (fields, error) {
	var doc fields
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: documento no es un objeto JSON: %v", domain.ErrInvalidInput, err)
	}
	if doc == nil {
		doc = fields{}
	}
	return doc, nil
}

func matches(doc fields, f repository.Filter) bool {
	if f.Field == "" {
		return true
	}
	var v string
	raw, ok := doc[f.Field]
	if !ok || json.Unmarshal(raw, &v) != nil {
		return false
	}
	return v == f.Value
}

func matchesAll(doc fields, where []repository.Filter) bool {
	for _, f := range where {
		if !matches(doc, f) {
			return false
		}
	}
	return true
}

func stamp(t time.Time) json.RawMessage {
	raw, _ := json.Marshal(t.UTC())
	return raw
}
