package memstore

import (
	"context"
	"sync"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// subscription entrega snapshots en su propia goroutine. Si el consumidor va lento,
// solo se conserva el snapshot más reciente: cada uno reemplaza completo al anterior.
type subscription struct {
	filter  repository.Filter
	fn      repository.SnapshotFunc
	pending chan []repository.Document
	done    chan struct{}
	once    sync.Once
}

func newSubscription(filter repository.Filter, fn repository.SnapshotFunc) *subscription {
	return &subscription{
		filter:  filter,
		fn:      fn,
		pending: make(chan []repository.Document, 1),
		done:    make(chan struct{}),
	}
}

// offer se llama con el lock del Store tomado, nunca bloquea.
func (s *subscription) offer(docs []repository.Document) {
	select {
	case <-s.pending:
	default:
	}
	select {
	case s.pending <- docs:
	default:
	}
}

func (s *subscription) run(ctx context.Context, unsubscribe func()) {
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			unsubscribe()
			return
		case docs := <-s.pending:
			select {
			case <-s.done:
				return
			default:
			}
			s.fn(docs)
		}
	}
}

func (s *subscription) stop(detach func()) {
	s.once.Do(func() {
		close(s.done)
		detach()
	})
}
