package indexer

import (
	"log/slog"

	"launchpad/core/events"
	"launchpad/core/types"
)

// Service tails the node event bus into the store.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Attach subscribes the service to the bus. Events that fail to persist are
// logged and skipped so a database fault cannot stall ledger operations.
func (s *Service) Attach(bus *events.Bus) {
	if bus == nil {
		return
	}
	bus.Subscribe(func(evt events.Event) {
		carrier, ok := evt.(interface{ Event() *types.Event })
		if !ok {
			return
		}
		if err := s.store.Record(carrier.Event()); err != nil {
			slog.Error("indexer failed to record event", "type", evt.EventType(), "error", err)
		}
	})
}

// Store exposes the backing store for query handlers.
func (s *Service) Store() *Store {
	return s.store
}
