package history

import (
	"context"
	"log"

	"github.com/nvillagra/sage/internal/infra/eventbus"
)

// Recorder consumes turn.completed events from the bus and persists them.
// It runs one background goroutine; a failed insert is logged and dropped,
// never retried.
type Recorder struct {
	store *Store
	done  chan struct{}
}

// NewRecorder subscribes to the bus and starts the consumption loop. Call
// Stop during shutdown to drain and exit the goroutine.
func NewRecorder(store *Store, bus eventbus.EventBus) *Recorder {
	r := &Recorder{store: store, done: make(chan struct{})}
	events := bus.Subscribe(eventbus.TopicTurnCompleted)

	go func() {
		for {
			select {
			case evt := <-events:
				payload, ok := evt.Payload.(TurnCompleted)
				if !ok {
					log.Printf("history: unexpected payload type %T on %s", evt.Payload, evt.Topic)
					continue
				}
				if _, err := store.Record(context.Background(), payload); err != nil {
					log.Printf("history: record turn: %v", err)
				}
			case <-r.done:
				return
			}
		}
	}()

	return r
}

// Stop terminates the consumption loop. Events still buffered on the bus
// are discarded.
func (r *Recorder) Stop() {
	close(r.done)
}
