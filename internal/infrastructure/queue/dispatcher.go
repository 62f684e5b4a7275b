package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiftify/logistics-api/internal/core/ports"
	"github.com/swiftify/logistics-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	handlerTimeout = 30 * time.Second
)

// Dispatcher routes lifecycle events to a fixed set of workers using consistent
// hashing on the event key, so events of one parcel are handled in order.
// Emit never blocks: when a worker channel is full the event is dropped.
type Dispatcher struct {
	workers  []chan ports.Event
	handlers []ports.EventHandler
	log      zerolog.Logger

	mu     sync.RWMutex
	closed bool
	ctx    context.Context
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each with
// a buffer of queueSize events. Non-positive values use the defaults.
func NewDispatcher(numWorkers, queueSize int, log zerolog.Logger, handlers ...ports.EventHandler) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = channelBuffer
	}
	d := &Dispatcher{
		workers:  make([]chan ports.Event, numWorkers),
		handlers: handlers,
		log:      log,
		ctx:      context.Background(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Event, queueSize)
	}
	return d
}

// Start launches all worker goroutines. Handler contexts derive from ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	d.ctx = ctx
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Emit sends an event to the worker responsible for its key.
func (d *Dispatcher) Emit(event ports.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.EventsDroppedTotal.WithLabelValues(string(event.Kind)).Inc()
		return
	}

	idx := d.shardIndex(event.Key)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.EventsDroppedTotal.WithLabelValues(string(event.Kind)).Inc()
		d.log.Warn().
			Str("kind", string(event.Kind)).
			Str("key", event.Key).
			Int("worker_id", idx).
			Msg("event queue full, dropping event")
	}
}

// Shutdown stops accepting events and waits for queued ones to be handled,
// or for ctx to end.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan ports.Event) {
	defer d.wg.Done()
	depth := metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id))

	for event := range ch {
		depth.Dec()
		d.handle(id, event)
	}
}

func (d *Dispatcher) handle(id int, event ports.Event) {
	kind := string(event.Kind)
	start := time.Now()
	defer func() {
		metrics.EventHandlingDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	for _, h := range d.handlers {
		ctx, cancel := context.WithTimeout(d.ctx, handlerTimeout)
		err := h.Handle(ctx, event)
		cancel()

		if err != nil {
			metrics.EventsProcessedTotal.WithLabelValues(kind, "error").Inc()
			d.log.Error().Err(err).
				Str("kind", kind).
				Str("key", event.Key).
				Int("worker_id", id).
				Msg("event handling failed")
			continue
		}
		metrics.EventsProcessedTotal.WithLabelValues(kind, "ok").Inc()
	}
}
