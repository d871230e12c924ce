package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/core/ports"
	"github.com/99minutos/expense-system/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes expense events to a fixed set of workers using consistent
// hashing on the expense ID, guaranteeing per-expense publish ordering.
type Dispatcher struct {
	workers   []chan domain.ExpenseEvent
	publisher ports.EventPublisher
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.ExpenseEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ExpenseEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker started by Start has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its expense. It never
// blocks: when that worker's channel is full the event is dropped.
func (d *Dispatcher) Enqueue(event domain.ExpenseEvent) {
	idx := d.shardIndex(event.ExpenseID)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.EventsDroppedTotal.Inc()
		d.log.Warn().
			Str("event_type", string(event.Type)).
			Str("expense_id", event.ExpenseID).
			Int("worker_id", idx).
			Msg("event queue full, event dropped")
	}
}

// shardIndex maps an expense ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(expenseID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(expenseID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ExpenseEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			err := d.publisher.Publish(ctx, event)
			metrics.EventPublishDuration.WithLabelValues(string(event.Type)).Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "error").Inc()
				d.log.Error().Err(err).
					Str("event_type", string(event.Type)).
					Str("expense_id", event.ExpenseID).
					Int("worker_id", id).
					Msg("event publish failed")
				continue
			}
			metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "ok").Inc()
		}
	}
}
