package datasync

import (
	"context"
	"sync"
)

// IdentitySource emite la identidad actual y cada cambio ("" = sin sesión).
type IdentitySource interface {
	Subscribe(fn func(userID string)) (cancel func())
}

// Follow abre y cierra la sesión de e siguiendo a src: cerrar la anterior siempre precede a abrir la nueva.
// stop deja de seguir y cierra la sesión.
func Follow(ctx context.Context, e *Engine, src IdentitySource) (stop func()) {
	var mu sync.Mutex
	cancel := src.Subscribe(func(userID string) {
		mu.Lock()
		defer mu.Unlock()
		if userID == "" {
			e.CloseSession()
			return
		}
		if current, ok := e.Session(); ok && current == userID {
			return
		}
		if err := e.OpenSession(ctx, userID); err != nil {
			e.log.Error().Err(err).Str("user_id", userID).Msg("no se pudo abrir la sesión")
		}
	})
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			mu.Lock()
			e.CloseSession()
			mu.Unlock()
		})
	}
}
