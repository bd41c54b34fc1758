// Package analytics records product events off the request path.
package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"truckrecruit/internal/logger"
	"truckrecruit/internal/model"
)

// Event types emitted by the server.
const (
	EventContactUnlock = "contact_unlock"
	EventSignUp        = "sign_up"
	EventLogin         = "login"
	EventJobPosted     = "job_posted"
	EventApplication   = "application_submitted"
)

const queueSize = 100

// Store persists batches of events.
type Store interface {
	CreateBatch(ctx context.Context, events []model.AnalyticsEvent) error
}

// Tracker queues events and writes them in batches from a single worker.
type Tracker struct {
	store     Store
	batchSize int
	interval  time.Duration

	mu      sync.RWMutex
	started bool
	closed  bool
	queue   chan model.AnalyticsEvent
	done    chan struct{}
	once    sync.Once
}

// NewTracker creates a tracker. Call Start before Track and Stop on shutdown.
func NewTracker(store Store, batchSize int, interval time.Duration) *Tracker {
	if batchSize < 1 {
		batchSize = 10
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Tracker{
		store:     store,
		batchSize: batchSize,
		interval:  interval,
		queue:     make(chan model.AnalyticsEvent, queueSize),
		done:      make(chan struct{}),
	}
}

// Start launches the flush worker.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.closed {
		return
	}
	t.started = true
	go t.worker()
}

// Stop closes the queue, waits for the worker to flush what is left and returns. Without a
// prior Start the queue is flushed on the calling goroutine.
func (t *Tracker) Stop() {
	t.once.Do(func() {
		t.mu.Lock()
		t.closed = true
		close(t.queue)
		started := t.started
		t.mu.Unlock()
		if !started {
			t.worker()
			return
		}
		<-t.done
	})
}

// Track enqueues an event without blocking. When the queue is full the event is written
// synchronously instead.
func (t *Tracker) Track(ctx context.Context, userID *uuid.UUID, eventType string, data map[string]interface{}) {
	event := model.AnalyticsEvent{
		ID:        uuid.New(),
		UserID:    userID,
		EventType: eventType,
		CreatedAt: time.Now().UTC(),
	}
	if len(data) > 0 {
		if raw, err := json.Marshal(data); err == nil {
			event.EventData = datatypes.JSON(raw)
		}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.queue <- event:
	default:
		if err := t.store.CreateBatch(context.WithoutCancel(ctx), []model.AnalyticsEvent{event}); err != nil {
			logger.FromContext(ctx).Warn("analytics event dropped", "event_type", eventType, "error", err)
		}
	}
}

func (t *Tracker) worker() {
	defer close(t.done)

	ctx := context.Background()
	batch := make([]model.AnalyticsEvent, 0, t.batchSize)
	var retry []model.AnalyticsEvent

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-t.queue:
			if !ok {
				// Queue closed, flush what is left
				retry = t.flush(ctx, retry, true)
				t.flush(ctx, batch, true)
				return
			}
			batch = append(batch, event)
			if len(batch) >= t.batchSize {
				retry = append(retry, t.flush(ctx, batch, false)...)
				batch = make([]model.AnalyticsEvent, 0, t.batchSize)
			}
		case <-ticker.C:
			retry = t.flush(ctx, retry, true)
			if len(batch) > 0 {
				retry = append(retry, t.flush(ctx, batch, false)...)
				batch = make([]model.AnalyticsEvent, 0, t.batchSize)
			}
		}
	}
}

// flush writes events. A failed first attempt hands the events back for one retry; a failed
// retry drops them.
func (t *Tracker) flush(ctx context.Context, events []model.AnalyticsEvent, isRetry bool) []model.AnalyticsEvent {
	if len(events) == 0 {
		return nil
	}
	err := t.store.CreateBatch(ctx, events)
	if err == nil {
		return nil
	}
	if isRetry {
		logger.L().Error("analytics batch dropped", "events", len(events), "error", err)
		return nil
	}
	logger.L().Warn("analytics batch failed, requeued", "events", len(events), "error", err)
	return events
}
