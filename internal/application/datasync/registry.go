package datasync

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// Registry mantiene un Engine por usuario autenticado para la API HTTP.
// Cada engine se abre la primera vez que se pide y se cierra tras un periodo sin uso.
type Registry struct {
	store repository.DocumentStore
	log   *logger.Logger
	idle  time.Duration
	opts  []Option
	now   func() time.Time

	mu      sync.Mutex
	engines map[string]*registryEntry
}

// registryEntry engine de un usuario. opened se cierra cuando termina OpenSession; err queda
// fijo desde ese momento. refs cuenta las peticiones que lo están usando.
type registryEntry struct {
	engine   *Engine
	opened   chan struct{}
	err      error
	refs     int
	lastUsed time.Time
}

// NewRegistry construye el registro; idle <= 0 desactiva la expulsión por inactividad.
func NewRegistry(store repository.DocumentStore, log *logger.Logger, idle time.Duration, opts ...Option) *Registry {
	return &Registry{
		store:   store,
		log:     log.Named("registry"),
		idle:    idle,
		opts:    opts,
		now:     time.Now,
		engines: make(map[string]*registryEntry),
	}
}

// Acquire devuelve el engine de userID con su sesión abierta, creándolo si hace falta, y la
// función que lo libera al terminar la petición. Mientras no se libere, Evict no lo cierra.
// La sesión se abre fuera del lock: el primer acceso de un usuario no frena a los demás, y
// las peticiones concurrentes del mismo usuario esperan a la misma apertura.
func (r *Registry) Acquire(ctx context.Context, userID string) (*Engine, func(), error) {
	r.mu.Lock()
	ent, ok := r.engines[userID]
	if !ok {
		ent = &registryEntry{engine: NewEngine(r.store, r.log, r.opts...), opened: make(chan struct{})}
		r.engines[userID] = ent
	}
	ent.refs++
	ent.lastUsed = r.now()
	r.mu.Unlock()

	if !ok {
		ent.err = ent.engine.OpenSession(ctx, userID)
		if ent.err != nil {
			r.mu.Lock()
			if r.engines[userID] == ent {
				delete(r.engines, userID)
			}
			r.mu.Unlock()
		}
		close(ent.opened)
		if ent.err == nil {
			r.log.Debug().Str("user_id", userID).Int("engines", r.Len()).Msg("engine creado")
		}
	}

	select {
	case <-ent.opened:
	case <-ctx.Done():
		r.done(ent)
		return nil, nil, ctx.Err()
	}
	if ent.err != nil {
		r.done(ent)
		return nil, nil, ent.err
	}
	var once sync.Once
	return ent.engine, func() { once.Do(func() { r.done(ent) }) }, nil
}

func (r *Registry) done(ent *registryEntry) {
	r.mu.Lock()
	ent.refs--
	ent.lastUsed = r.now()
	r.mu.Unlock()
}

// Release cierra la sesión de userID (logout).
func (r *Registry) Release(userID string) {
	r.mu.Lock()
	ent, ok := r.engines[userID]
	delete(r.engines, userID)
	r.mu.Unlock()
	if ok {
		<-ent.opened
		ent.engine.CloseSession()
	}
}

// Evict cierra los engines sin uso desde antes de now-idle y devuelve cuántos cerró.
// Los que tienen peticiones en curso o siguen abriéndose no se tocan.
func (r *Registry) Evict(now time.Time) int {
	if r.idle <= 0 {
		return 0
	}
	r.mu.Lock()
	var stale []*Engine
	for id, ent := range r.engines {
		if ent.refs > 0 || now.Sub(ent.lastUsed) < r.idle {
			continue
		}
		stale = append(stale, ent.engine)
		delete(r.engines, id)
	}
	r.mu.Unlock()
	for _, eng := range stale {
		eng.CloseSession()
	}
	if len(stale) > 0 {
		r.log.Info().Int("evicted", len(stale)).Msg("engines inactivos cerrados")
	}
	return len(stale)
}

// Run expulsa engines inactivos periódicamente hasta que ctx se cancele.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	if r.idle <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			r.Evict(now)
		}
	}
}

// CloseAll cierra todas las sesiones (apagado del servidor).
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.engines
	r.engines = make(map[string]*registryEntry)
	r.mu.Unlock()
	for _, ent := range all {
		<-ent.opened
		ent.engine.CloseSession()
	}
}

// Len cantidad de engines abiertos.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}
