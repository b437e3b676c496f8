// Package datasync mantiene en memoria, por sesión de usuario, una copia de las seis colecciones
// del almacén remoto. El estado local solo cambia cuando llega un snapshot de la suscripción:
// las escrituras van al almacén y se reflejan en la siguiente entrega.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/metrics"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// syncer es la parte no genérica de una Collection que el Engine maneja en bloque.
type syncer interface {
	Kind() entity.Kind
	subscribe(ctx context.Context, userID string, epoch uint64) (func(), error)
	resetLocked()
	syncedLocked() bool
}

// Engine motor de sincronización de una identidad a la vez.
type Engine struct {
	store repository.DocumentStore
	log   *logger.Logger
	newID func() string

	mu      sync.RWMutex
	userID  string
	open    bool
	epoch   uint64
	unsubs  []func()
	cancel  context.CancelFunc
	changed chan struct{}

	lmu       sync.Mutex
	listeners map[uint64]func(entity.Kind)
	nextLis   uint64

	expenses  *Collection[entity.Expense, entity.ExpensePatch]
	incomes   *Collection[entity.Income, entity.IncomePatch]
	products  *Collection[entity.Product, entity.ProductPatch]
	customers *Collection[entity.Customer, entity.CustomerPatch]
	employees *Collection[entity.Employee, entity.EmployeePatch]
	tasks     *Collection[entity.Task, entity.TaskPatch]
	all       []syncer
}

// Option configura el Engine.
type Option func(*Engine)

// WithIDGenerator reemplaza la generación de identificadores (uuid por defecto).
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// NewEngine construye el motor sin sesión abierta.
func NewEngine(store repository.DocumentStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		log:       log.Named("datasync"),
		newID:     uuid.NewString,
		changed:   make(chan struct{}),
		listeners: make(map[uint64]func(entity.Kind)),
	}
	for _, o := range opts {
		o(e)
	}
	e.expenses = newCollection[entity.Expense, entity.ExpensePatch](e, entity.KindExpense)
	e.incomes = newCollection[entity.Income, entity.IncomePatch](e, entity.KindIncome)
	e.products = newCollection[entity.Product, entity.ProductPatch](e, entity.KindProduct)
	e.customers = newCollection[entity.Customer, entity.CustomerPatch](e, entity.KindCustomer)
	e.employees = newCollection[entity.Employee, entity.EmployeePatch](e, entity.KindEmployee)
	e.tasks = newCollection[entity.Task, entity.TaskPatch](e, entity.KindTask)
	e.all = []syncer{e.expenses, e.incomes, e.products, e.customers, e.employees, e.tasks}
	return e
}

func (e *Engine) Expenses() *Collection[entity.Expense, entity.ExpensePatch]    { return e.expenses }
func (e *Engine) Incomes() *Collection[entity.Income, entity.IncomePatch]       { return e.incomes }
func (e *Engine) Products() *Collection[entity.Product, entity.ProductPatch]    { return e.products }
func (e *Engine) Customers() *Collection[entity.Customer, entity.CustomerPatch] { return e.customers }
func (e *Engine) Employees() *Collection[entity.Employee, entity.EmployeePatch] { return e.employees }
func (e *Engine) Tasks() *Collection[entity.Task, entity.TaskPatch]             { return e.tasks }

// OpenSession abre una suscripción por Kind filtrada por ownerId == userID.
// Si había otra sesión abierta la cierra primero. Las colecciones empiezan vacías y sin sincronizar.
func (e *Engine) OpenSession(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userID vacío", domain.ErrInvalidInput)
	}
	e.CloseSession()

	// las suscripciones viven lo que la sesión, no lo que la llamada
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	e.mu.Lock()
	e.epoch++
	epoch := e.epoch
	e.userID = userID
	e.open = true
	e.cancel = cancel
	for _, c := range e.all {
		c.resetLocked()
	}
	e.broadcastLocked()
	e.mu.Unlock()

	unsubs := make([]func(), 0, len(e.all))
	for _, c := range e.all {
		unsub, err := c.subscribe(subCtx, userID, epoch)
		if err != nil {
			for _, u := range unsubs {
				u()
			}
			e.CloseSession()
			return fmt.Errorf("suscribir %s: %w", c.Kind(), err)
		}
		unsubs = append(unsubs, unsub)
	}

	e.mu.Lock()
	if e.epoch != epoch {
		// la sesión se cerró mientras suscribíamos
		e.mu.Unlock()
		for _, u := range unsubs {
			u()
		}
		cancel()
		return nil
	}
	e.unsubs = unsubs
	e.mu.Unlock()

	e.log.Info().Str("user_id", userID).Uint64("epoch", epoch).Msg("sesión abierta")
	return nil
}

// CloseSession cancela las suscripciones y descarta las colecciones. Es idempotente.
// Al volver, ninguna entrega de la sesión cerrada puede modificar el estado.
func (e *Engine) CloseSession() {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return
	}
	userID, epoch := e.userID, e.epoch
	e.open = false
	e.userID = ""
	e.epoch++
	unsubs, cancel := e.unsubs, e.cancel
	e.unsubs, e.cancel = nil, nil
	for _, c := range e.all {
		c.resetLocked()
	}
	e.broadcastLocked()
	e.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	if cancel != nil {
		cancel()
	}
	e.log.Info().Str("user_id", userID).Uint64("epoch", epoch).Msg("sesión cerrada")
}

// Session devuelve la identidad de la sesión abierta.
func (e *Engine) Session() (userID string, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.userID, e.open
}

// Synced indica si todas las colecciones recibieron su primer snapshot en la sesión actual.
func (e *Engine) Synced() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open && e.allSyncedLocked()
}

// Ready espera a que todas las colecciones tengan su primer snapshot.
// Devuelve ErrNotAuthenticated si no hay sesión o el error de ctx si vence antes.
func (e *Engine) Ready(ctx context.Context) error {
	for {
		e.mu.RLock()
		open, synced, ch := e.open, e.allSyncedLocked(), e.changed
		e.mu.RUnlock()
		if !open {
			return domain.ErrNotAuthenticated
		}
		if synced {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// OnChange registra fn para cada entrega aceptada; fn corre fuera de los locks del motor.
func (e *Engine) OnChange(fn func(entity.Kind)) (cancel func()) {
	e.lmu.Lock()
	e.nextLis++
	id := e.nextLis
	e.listeners[id] = fn
	e.lmu.Unlock()
	return func() {
		e.lmu.Lock()
		delete(e.listeners, id)
		e.lmu.Unlock()
	}
}

// Snapshot copia las seis colecciones en un mismo instante para calcular métricas.
func (e *Engine) Snapshot() metrics.Dataset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return metrics.Dataset{
		Expenses:  e.expenses.copyLocked(),
		Incomes:   e.incomes.copyLocked(),
		Products:  e.products.copyLocked(),
		Customers: e.customers.copyLocked(),
		Employees: e.employees.copyLocked(),
		Tasks:     e.tasks.copyLocked(),
		Synced:    e.open && e.allSyncedLocked(),
	}
}

// ── internos ─────────────────────────────────────────────────────────────────

// current devuelve la identidad para una escritura o ErrNotAuthenticated.
func (e *Engine) current() (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.open {
		return "", domain.ErrNotAuthenticated
	}
	return e.userID, nil
}

func (e *Engine) allSyncedLocked() bool {
	for _, c := range e.all {
		if !c.syncedLocked() {
			return false
		}
	}
	return true
}

// broadcastLocked despierta a quienes esperan en Ready.
func (e *Engine) broadcastLocked() {
	close(e.changed)
	e.changed = make(chan struct{})
}

func (e *Engine) emit(kind entity.Kind) {
	e.lmu.Lock()
	fns := make([]func(entity.Kind), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.lmu.Unlock()
	for _, fn := range fns {
		fn(kind)
	}
}

// writeError conserva NotFound e InvalidInput; cualquier otro fallo del almacén es WriteFailed.
func writeError(err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
}
