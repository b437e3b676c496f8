package auth

import "sync"

// IdentityState identidad actual del proceso y sus suscriptores. "" significa sin sesión.
type IdentityState struct {
	// deliver serializa los avisos: cada suscriptor ve los cambios en el orden en que se aplicaron.
	// Un callback no puede llamar a Set.
	deliver sync.Mutex

	mu      sync.Mutex
	current string
	subs    map[uint64]func(string)
	next    uint64
}

func NewIdentityState() *IdentityState {
	return &IdentityState{subs: make(map[uint64]func(string))}
}

// Current devuelve la identidad actual.
func (s *IdentityState) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set cambia la identidad y avisa a los suscriptores si cambió.
// Vuelve cuando todos recibieron el aviso.
func (s *IdentityState) Set(userID string) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	if s.current == userID {
		s.mu.Unlock()
		return
	}
	s.current = userID
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(userID)
	}
}

// Subscribe entrega la identidad actual de inmediato y luego cada cambio.
func (s *IdentityState) Subscribe(fn func(userID string)) (cancel func()) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.next++
	id := s.next
	s.subs[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
