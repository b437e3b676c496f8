package datasync

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memstore"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// gateStore frena las suscripciones de un usuario hasta que se abre la compuerta,
// como un almacén remoto lento.
type gateStore struct {
	*memstore.Store
	slowUser string
	entered  chan struct{}
	gate     chan struct{}
	once     sync.Once
	calls    atomic.Int32
}

func newGateStore(slowUser string) *gateStore {
	return &gateStore{
		Store:    memstore.New(logger.Nop()),
		slowUser: slowUser,
		entered:  make(chan struct{}),
		gate:     make(chan struct{}),
	}
}

func (g *gateStore) Subscribe(ctx context.Context, collection string, filter repository.Filter, fn repository.SnapshotFunc) (func(), error) {
	if filter.Value == g.slowUser {
		g.calls.Add(1)
		g.once.Do(func() { close(g.entered) })
		<-g.gate
	}
	return g.Store.Subscribe(ctx, collection, filter, fn)
}

func TestRegistry_AcquireYEvict(t *testing.T) {
	r := NewRegistry(memstore.New(logger.Nop()), logger.Nop(), time.Minute)
	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }
	ctx := context.Background()

	a, doneA, err := r.Acquire(ctx, "u1")
	require.NoError(t, err)
	doneA()
	again, doneAgain, err := r.Acquire(ctx, "u1")
	require.NoError(t, err)
	doneAgain()
	assert.Same(t, a, again)

	_, doneB, err := r.Acquire(ctx, "u2")
	require.NoError(t, err)
	doneB()
	assert.Equal(t, 2, r.Len())

	clock = clock.Add(30 * time.Second)
	_, doneB, _ = r.Acquire(ctx, "u2")
	doneB()
	assert.Equal(t, 1, r.Evict(clock.Add(45*time.Second)))
	assert.Equal(t, 1, r.Len())
	_, ok := a.Session()
	assert.False(t, ok, "el engine expulsado queda cerrado")

	_, _, err = r.Acquire(ctx, "")
	assert.Error(t, err)
	assert.Equal(t, 1, r.Len(), "una apertura fallida no queda registrada")

	r.CloseAll()
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_NoExpulsaEnginesEnUso(t *testing.T) {
	r := NewRegistry(memstore.New(logger.Nop()), logger.Nop(), time.Minute)
	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	eng, done, err := r.Acquire(context.Background(), "u1")
	require.NoError(t, err)

	// petición lenta: pasa el tiempo de inactividad mientras sigue en curso
	assert.Equal(t, 0, r.Evict(clock.Add(2*time.Minute)))
	_, ok := eng.Session()
	assert.True(t, ok)

	done()
	done() // idempotente
	assert.Equal(t, 0, r.Evict(clock.Add(30*time.Second)), "recién liberado cuenta como uso")
	assert.Equal(t, 1, r.Evict(clock.Add(2*time.Minute)))
	_, ok = eng.Session()
	assert.False(t, ok)
}

func TestRegistry_AperturaLentaNoBloqueaOtrosUsuarios(t *testing.T) {
	store := newGateStore("lento")
	r := NewRegistry(store, logger.Nop(), time.Minute)

	type result struct {
		eng *Engine
		err error
	}
	results := make(chan result, 2)
	acquire := func() {
		eng, done, err := r.Acquire(context.Background(), "lento")
		if err == nil {
			done()
		}
		results <- result{eng, err}
	}
	go acquire()
	<-store.entered
	go acquire()

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	fast, done, err := r.Acquire(ctx, "rapido")
	require.NoError(t, err, "otro usuario no espera la apertura lenta")
	done()
	_, ok := fast.Session()
	assert.True(t, ok)

	close(store.gate)
	first, second := <-results, <-results
	require.NoError(t, first.err)
	require.NoError(t, second.err)
	assert.Same(t, first.eng, second.eng, "las peticiones concurrentes comparten el engine")
	assert.Equal(t, int32(len(entity.Kinds())), store.calls.Load(), "una sola apertura")

	r.CloseAll()
}

func TestRegistry_Release(t *testing.T) {
	r := NewRegistry(memstore.New(logger.Nop()), logger.Nop(), 0)
	eng, done, err := r.Acquire(context.Background(), "u1")
	require.NoError(t, err)
	done()
	r.Release("u1")
	_, ok := eng.Session()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Evict(time.Now()), "idle 0 desactiva la expulsión")
}
