package feed

import "sync"

// Handler processes one change event. Handlers for the same record id are
// never invoked concurrently or out of dispatch order.
type Handler func(Event)

// Dispatcher serializes event handling per record id. Rapid updates to the
// same alarm (toggle on, toggle off) must reach the scheduler in order so
// the last write wins; events for different records proceed independently.
type Dispatcher struct {
	handler Handler

	mu     sync.Mutex
	queues map[string][]Event
	wg     sync.WaitGroup
}

// NewDispatcher returns a dispatcher routing every event to handler.
func NewDispatcher(handler Handler) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		queues:  make(map[string][]Event),
	}
}

// Dispatch enqueues the event on its record's queue and returns immediately.
// A drain goroutine is started for the record if one isn't already running.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.Lock()
	queue, running := d.queues[ev.ID]
	d.queues[ev.ID] = append(queue, ev)
	if !running {
		d.wg.Add(1)
		go d.drain(ev.ID)
	}
	d.mu.Unlock()
}

// drain processes the queue for one record id until it is empty, then
// retires itself. The map entry's presence doubles as the "running" flag:
// it is removed only when the queue is drained, under the lock.
func (d *Dispatcher) drain(id string) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		queue := d.queues[id]
		if len(queue) == 0 {
			delete(d.queues, id)
			d.mu.Unlock()
			return
		}
		ev := queue[0]
		d.queues[id] = queue[1:]
		d.mu.Unlock()

		d.handler(ev)
	}
}

// Wait blocks until every queued event has been handled. Events dispatched
// while waiting are included.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
