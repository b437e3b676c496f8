// Package firestore implementa repository.DocumentStore sobre Cloud Firestore,
// el almacén con el que nació el back-office: consultas por igualdad con listeners en vivo.
package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore adaptador de Firestore. createdAt/updatedAt los pone el servidor (ServerTimestamp).
type DocumentStore struct {
	client *firestore.Client
	log    *logger.Logger
}

// NewClient abre el cliente; credentialsFile vacío usa las credenciales por defecto del entorno.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

// NewDocumentStore construye el adaptador sobre un cliente ya abierto.
func NewDocumentStore(client *firestore.Client, log *logger.Logger) *DocumentStore {
	return &DocumentStore{client: client, log: log.Named("firestore")}
}

// Create escribe el documento completo (Set sin merge).
func (s *DocumentStore) Create(ctx context.Context, collection, id string, data json.RawMessage) error {
	doc, err := toFields(data)
	if err != nil {
		return err
	}
	doc["createdAt"] = firestore.ServerTimestamp
	doc["updatedAt"] = firestore.ServerTimestamp
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, doc); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update fusiona patch dentro de una transacción que verifica existencia y filtros where.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, patch json.RawMessage, where ...repository.Filter) error {
	changes, err := toFields(patch)
	if err != nil {
		return err
	}
	delete(changes, "createdAt")
	changes["updatedAt"] = firestore.ServerTimestamp

	ref := s.client.Collection(collection).Doc(id)
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrNotFound
			}
			return err
		}
		if !matchesAll(snap.Data(), where) {
			return domain.ErrNotFound
		}
		return tx.Set(ref, changes, firestore.MergeAll)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete borra el documento si existe y cumple where.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string, where ...repository.Filter) error {
	ref := s.client.Collection(collection).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}
		if !matchesAll(snap.Data(), where) {
			return nil
		}
		return tx.Delete(ref)
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Query lee una vez los documentos que cumplen filter.
func (s *DocumentStore) Query(ctx context.Context, collection string, filter repository.Filter) ([]repository.Document, error) {
	snaps, err := s.query(collection, filter).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return toDocuments(snaps)
}

// Subscribe abre un listener de Firestore; cada QuerySnapshot se entrega completo.
func (s *DocumentStore) Subscribe(ctx context.Context, collection string, filter repository.Filter, fn repository.SnapshotFunc) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	it := s.query(collection, filter).Snapshots(ctx)

	go func() {
		for {
			qs, err := it.Next()
			if err != nil {
				if !errors.Is(err, iterator.Done) && ctx.Err() == nil && status.Code(err) != codes.Canceled {
					s.log.Error().Err(err).Str("collection", collection).Msg("listener de Firestore terminó")
				}
				return
			}
			snaps, err := qs.Documents.GetAll()
			if err != nil {
				s.log.Warn().Err(err).Str("collection", collection).Msg("snapshot incompleto, se ignora")
				continue
			}
			docs, err := toDocuments(snaps)
			if err != nil {
				s.log.Warn().Err(err).Str("collection", collection).Msg("snapshot ilegible, se ignora")
				continue
			}
			fn(docs)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			it.Stop()
		})
	}, nil
}

func (s *DocumentStore) query(collection string, filter repository.Filter) firestore.Query {
	q := s.client.Collection(collection).Query
	if filter.Field != "" {
		q = q.Where(filter.Field, "==", filter.Value)
	}
	return q
}

// ── conversión JSON <-> campos de Firestore ──────────────────────────────────

// toFields decodifica JSON a un mapa que Firestore acepta: números como int64 o float64.
func toFields(data json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return nil, fmt.Errorf("%w: documento no es un objeto JSON", domain.ErrInvalidInput)
	}
	for k, v := range doc {
		doc[k] = convertNumbers(v)
	}
	return doc, nil
}

func convertNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = convertNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = convertNumbers(e)
		}
		return x
	}
	return v
}

func toDocuments(snaps []*firestore.DocumentSnapshot) ([]repository.Document, error) {
	out := make([]repository.Document, 0, len(snaps))
	for _, snap := range snaps {
		raw, err := json.Marshal(snap.Data())
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", snap.Ref.ID, err)
		}
		out = append(out, repository.Document{ID: snap.Ref.ID, Data: raw})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matchesAll(fields map[string]any, where []repository.Filter) bool {
	for _, f := range where {
		if !f.Matches(fields) {
			return false
		}
	}
	return true
}
