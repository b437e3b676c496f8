package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// notifyChannel canal de LISTEN/NOTIFY; el payload es el nombre de la colección modificada.
const notifyChannel = "documents"

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore almacén de documentos sobre una tabla JSONB. Cada escritura emite un NOTIFY
// en la misma transacción y las suscripciones vuelven a consultar su filtro al recibirlo.
type DocumentStore struct {
	pool *pgxpool.Pool
	tx   *TxRunner
	log  *logger.Logger
	now  func() time.Time

	startListener sync.Once
	ctx           context.Context
	cancel        context.CancelFunc

	mu      sync.Mutex
	subs    map[string]map[uint64]*subscription
	nextSub uint64
}

// NewDocumentStore construye el adaptador. Close detiene el listener.
func NewDocumentStore(pool *pgxpool.Pool, log *logger.Logger) *DocumentStore {
	ctx, cancel := context.WithCancel(context.Background())
	return &DocumentStore{
		pool:   pool,
		tx:     NewTxRunner(pool),
		log:    log.Named("pgstore"),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[string]map[uint64]*subscription),
	}
}

// Close cancela el listener y todas las suscripciones.
func (s *DocumentStore) Close() {
	s.cancel()
}

// Create inserta o reemplaza el documento completo.
func (s *DocumentStore) Create(ctx context.Context, collection, id string, data json.RawMessage) error {
	now := s.now().UTC()
	doc, err := stamp(data, now, true)
	if err != nil {
		return err
	}
	return s.tx.Run(ctx, func(q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO documents (collection, id, data, created_at, updated_at)
			VALUES ($1, $2, $3::jsonb, $4, $4)
			ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, created_at = EXCLUDED.created_at, updated_at = EXCLUDED.updated_at`,
			collection, id, string(doc), now)
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		return notify(ctx, q, collection)
	})
}

// Update fusiona patch (merge de primer nivel, operador ||) si el documento existe y cumple where.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, patch json.RawMessage, where ...repository.Filter) error {
	now := s.now().UTC()
	doc, err := stamp(patch, now, false)
	if err != nil {
		return err
	}
	query := `UPDATE documents SET data = data || $3::jsonb, updated_at = $4 WHERE collection = $1 AND id = $2`
	args := []any{collection, id, string(doc), now}
	query, args = appendWhere(query, args, where)

	return s.tx.Run(ctx, func(q Querier) error {
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return notify(ctx, q, collection)
	})
}

// Delete borra el documento si existe y cumple where; si no, no hace nada.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string, where ...repository.Filter) error {
	query, args := appendWhere(`DELETE FROM documents WHERE collection = $1 AND id = $2`, []any{collection, id}, where)
	return s.tx.Run(ctx, func(q Querier) error {
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		return notify(ctx, q, collection)
	})
}

// Query lee los documentos de collection que cumplen filter, ordenados por id.
func (s *DocumentStore) Query(ctx context.Context, collection string, filter repository.Filter) ([]repository.Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = $1`
	args := []any{collection}
	if filter.Field != "" {
		query, args = appendWhere(query, args, []repository.Filter{filter})
	}
	rows, err := s.pool.Query(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var out []repository.Document
	for rows.Next() {
		var d repository.Document
		var data []byte
		if err := rows.Scan(&d.ID, &data); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.Data = data
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// Subscribe entrega el snapshot inicial y uno nuevo después de cada NOTIFY de la colección.
func (s *DocumentStore) Subscribe(ctx context.Context, collection string, filter repository.Filter, fn repository.SnapshotFunc) (func(), error) {
	if err := s.ctx.Err(); err != nil {
		return nil, fmt.Errorf("store cerrado: %w", err)
	}
	s.startListener.Do(func() { go s.listen() })

	sub := &subscription{wake: make(chan struct{}, 1), done: make(chan struct{})}
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[uint64]*subscription)
	}
	s.subs[collection][id] = sub
	s.mu.Unlock()

	unsubscribe := func() {
		sub.once.Do(func() {
			close(sub.done)
			s.mu.Lock()
			delete(s.subs[collection], id)
			s.mu.Unlock()
		})
	}
	sub.poke()
	go s.serve(ctx, sub, collection, filter, fn, unsubscribe)
	return unsubscribe, nil
}

// ── suscripciones ────────────────────────────────────────────────────────────

type subscription struct {
	wake chan struct{}
	done chan struct{}
	once sync.Once
}

// poke marca la suscripción como pendiente; varios avisos seguidos se funden en una sola consulta.
func (s *subscription) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *DocumentStore) serve(ctx context.Context, sub *subscription, collection string, filter repository.Filter, fn repository.SnapshotFunc, unsubscribe func()) {
	for {
		select {
		case <-sub.done:
			return
		case <-ctx.Done():
			unsubscribe()
			return
		case <-s.ctx.Done():
			unsubscribe()
			return
		case <-sub.wake:
			docs, err := s.Query(s.ctx, collection, filter)
			if err != nil {
				// el próximo NOTIFY o la reconexión del listener vuelve a intentar
				s.log.Warn().Err(err).Str("collection", collection).Msg("no se pudo leer el snapshot")
				continue
			}
			select {
			case <-sub.done:
				return
			default:
			}
			fn(docs)
		}
	}
}

func (s *DocumentStore) wake(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs[collection] {
		sub.poke()
	}
}

func (s *DocumentStore) wakeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, subs := range s.subs {
		for _, sub := range subs {
			sub.poke()
		}
	}
}

// listen mantiene una conexión con LISTEN y reparte los avisos. Si la conexión se cae,
// reconecta y despierta a todas las suscripciones porque pudo perder avisos.
func (s *DocumentStore) listen() {
	for s.ctx.Err() == nil {
		if err := s.listenConn(); err != nil && s.ctx.Err() == nil {
			s.log.Warn().Err(err).Msg("listener de documentos caído, reconectando")
			select {
			case <-s.ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

func (s *DocumentStore) listenConn() error {
	pooled, err := s.pool.Acquire(s.ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	// la conexión queda con LISTEN activo: se saca del pool y se cierra al salir
	conn := pooled.Hijack()
	defer func() { _ = conn.Close(context.Background()) }()

	if _, err := conn.Exec(s.ctx, "LISTEN "+notifyChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.wakeAll()
	for {
		n, err := conn.WaitForNotification(s.ctx)
		if err != nil {
			return fmt.Errorf("wait notification: %w", err)
		}
		s.wake(n.Payload)
	}
}

// ── helpers ──────────────────────────────────────────────────────────────────

func notify(ctx context.Context, q Querier, collection string) error {
	if _, err := q.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, collection); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// stamp agrega updatedAt (y createdAt en altas) al cuerpo JSON.
func stamp(data json.RawMessage, now time.Time, created bool) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return nil, fmt.Errorf("%w: documento no es un objeto JSON", domain.ErrInvalidInput)
	}
	ts, err := json.Marshal(now)
	if err != nil {
		return nil, err
	}
	if created {
		doc["createdAt"] = ts
	} else {
		delete(doc, "createdAt")
		delete(doc, "id")
	}
	doc["updatedAt"] = ts
	return json.Marshal(doc)
}

// appendWhere agrega "AND data->>campo = valor" por cada filtro, con parámetros numerados.
func appendWhere(query string, args []any, where []repository.Filter) (string, []any) {
	var b strings.Builder
	b.WriteString(query)
	for _, f := range where {
		fmt.Fprintf(&b, " AND data->>($%d::text) = $%d", len(args)+1, len(args)+2)
		args = append(args, f.Field, f.Value)
	}
	return b.String(), args
}
