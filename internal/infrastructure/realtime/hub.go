// Package realtime fans row change notifications out over Redis pub/sub.
// Every API replica publishes to changes:<table> and runs one receiver that
// dispatches incoming events to in-process handlers.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	domainRepo "github.com/sangkips/salonpro-api/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	channelPrefix = "changes:"

	// AllTables subscribes a handler to every table
	AllTables = "*"
)

var ErrAlreadyStarted = errors.New("realtime hub already started")

type subscription struct {
	id      uint64
	handler domainRepo.ChangeHandler
}

// Hub publishes change events and delivers them to subscribers.
// Handlers registered before or after Start receive events only while
// the hub is running.
type Hub struct {
	client *redis.Client
	log    *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]subscription
	nextID   uint64

	lifecycle sync.Mutex
	pubsub    *redis.PubSub
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewHub creates a stopped hub
func NewHub(client *redis.Client, log *zap.Logger) *Hub {
	return &Hub{
		client:   client,
		log:      log.Named("realtime"),
		handlers: make(map[string][]subscription),
	}
}

func channelFor(table string) string {
	return channelPrefix + table
}

// Publish announces event on the table's channel
func (h *Hub) Publish(ctx context.Context, event domainRepo.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	if err := h.client.Publish(ctx, channelFor(event.Table), payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Subscribe registers handler for table. Use AllTables to receive everything.
func (h *Hub) Subscribe(table string, handler domainRepo.ChangeHandler) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.handlers[table] = append(h.handlers[table], subscription{id: id, handler: handler})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(table, id) })
	}
}

func (h *Hub) unsubscribe(table string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.handlers[table]
	for i, s := range subs {
		if s.id == id {
			h.handlers[table] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(h.handlers[table]) == 0 {
		delete(h.handlers, table)
	}
}

// Start opens the pattern subscription and launches the receiver.
// It returns once Redis has confirmed the subscription.
func (h *Hub) Start(ctx context.Context) error {
	h.lifecycle.Lock()
	defer h.lifecycle.Unlock()

	if h.pubsub != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(context.Background())
	pubsub := h.client.PSubscribe(runCtx, channelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return fmt.Errorf("subscribe to change feed: %w", err)
	}

	h.pubsub = pubsub
	h.cancel = cancel
	h.done = make(chan struct{})

	go h.receive(runCtx, pubsub.Channel(), h.done)

	h.log.Info("Realtime hub started")
	return nil
}

// Stop closes the subscription and waits for the receiver to exit.
// Calling Stop on a stopped hub is a no-op.
func (h *Hub) Stop() {
	h.lifecycle.Lock()
	defer h.lifecycle.Unlock()

	if h.pubsub == nil {
		return
	}

	h.cancel()
	if err := h.pubsub.Close(); err != nil {
		h.log.Warn("Failed to close change feed subscription", zap.Error(err))
	}
	<-h.done

	h.pubsub = nil
	h.cancel = nil
	h.done = nil
	h.log.Info("Realtime hub stopped")
}

// Running reports whether the receiver is active
func (h *Hub) Running() bool {
	h.lifecycle.Lock()
	defer h.lifecycle.Unlock()
	return h.pubsub != nil
}

func (h *Hub) receive(ctx context.Context, ch <-chan *redis.Message, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event domainRepo.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.log.Warn("Dropping unreadable change event",
					zap.String("channel", msg.Channel),
					zap.Error(err),
				)
				continue
			}
			if event.Table == "" {
				event.Table = strings.TrimPrefix(msg.Channel, channelPrefix)
			}

			h.dispatch(ctx, event)
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, event domainRepo.ChangeEvent) {
	h.mu.RLock()
	subs := make([]subscription, 0, len(h.handlers[event.Table])+len(h.handlers[AllTables]))
	subs = append(subs, h.handlers[event.Table]...)
	subs = append(subs, h.handlers[AllTables]...)
	h.mu.RUnlock()

	for _, s := range subs {
		h.call(ctx, s.handler, event)
	}
}

func (h *Hub) call(ctx context.Context, handler domainRepo.ChangeHandler, event domainRepo.ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("Change handler panicked",
				zap.String("table", event.Table),
				zap.Any("panic", r),
			)
		}
	}()
	handler(ctx, event)
}

var (
	_ domainRepo.ChangePublisher  = (*Hub)(nil)
	_ domainRepo.ChangeSubscriber = (*Hub)(nil)
)
