// Package backend abre el almacén de documentos y el repositorio de usuarios según STORE_DRIVER.
package backend

import (
	"context"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/docrepo"
	infrafs "github.com/jhoicas/backoffice-api/internal/infrastructure/firestore"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memstore"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// Backend almacén remoto y cuentas de usuario de una ejecución.
type Backend struct {
	Store repository.DocumentStore
	Users repository.UserRepository
	close []func()
}

// Close libera conexiones en orden inverso a su apertura.
func (b *Backend) Close() {
	for i := len(b.close) - 1; i >= 0; i-- {
		b.close[i]()
	}
}

// Open conecta el driver configurado:
//   - memory: todo en proceso (desarrollo y demos; se pierde al reiniciar).
//   - postgres: documentos JSONB con LISTEN/NOTIFY y tabla users.
//   - firestore: colecciones de Firestore; los usuarios viven en la colección "users".
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		store := memstore.New(log)
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return &Backend{Store: store, Users: docrepo.NewUserRepository(store)}, nil

	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		store := postgres.NewDocumentStore(pool, log)
		return &Backend{
			Store: store,
			Users: postgres.NewUserRepository(pool),
			close: []func(){pool.Close, store.Close},
		}, nil

	case config.StoreFirestore:
		client, err := infrafs.NewClient(ctx, cfg.Store.FirestoreProjectID, cfg.Store.FirestoreCredentialsFile)
		if err != nil {
			return nil, err
		}
		store := infrafs.NewDocumentStore(client, log)
		log.Info().Str("project", cfg.Store.FirestoreProjectID).Msg("conectado a Firestore")
		return &Backend{
			Store: store,
			Users: docrepo.NewUserRepository(store),
			close: []func(){func() { _ = client.Close() }},
		}, nil
	}
	return nil, fmt.Errorf("backend: driver desconocido %q", cfg.Store.Driver)
}
