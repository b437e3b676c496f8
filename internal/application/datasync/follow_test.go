package datasync

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/infrastructure/memstore"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// fakeIdentity emite identidades a mano, como lo haría el proveedor de autenticación.
type fakeIdentity struct {
	mu      sync.Mutex
	current string
	fns     map[int]func(string)
	next    int
}

func (f *fakeIdentity) Subscribe(fn func(string)) func() {
	f.mu.Lock()
	if f.fns == nil {
		f.fns = map[int]func(string){}
	}
	f.next++
	id := f.next
	f.fns[id] = fn
	current := f.current
	f.mu.Unlock()
	fn(current)
	return func() {
		f.mu.Lock()
		delete(f.fns, id)
		f.mu.Unlock()
	}
}

func (f *fakeIdentity) set(userID string) {
	f.mu.Lock()
	f.current = userID
	fns := make([]func(string), 0, len(f.fns))
	for _, fn := range f.fns {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(userID)
	}
}

func TestFollow_AbreYCierraConLaIdentidad(t *testing.T) {
	e := NewEngine(memstore.New(logger.Nop()), logger.Nop())
	src := &fakeIdentity{}
	stop := Follow(context.Background(), e, src)

	_, ok := e.Session()
	assert.False(t, ok, "sin identidad no hay sesión")

	src.set("u1")
	userID, ok := e.Session()
	require.True(t, ok)
	assert.Equal(t, "u1", userID)

	src.set("u2")
	userID, _ = e.Session()
	assert.Equal(t, "u2", userID)

	src.set("")
	_, ok = e.Session()
	assert.False(t, ok)

	src.set("u3")
	stop()
	stop()
	_, ok = e.Session()
	assert.False(t, ok, "stop cierra la sesión")

	src.set("u4")
	_, ok = e.Session()
	assert.False(t, ok, "después de stop ya no sigue a la identidad")
}
