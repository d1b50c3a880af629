package events

import (
	"context"
	"sync"

	"github.com/duskdeveloper/discord-level-bot/models"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeLevelUp    EventType = "level_up"
	EventTypeXPAdjusted EventType = "xp_adjusted"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LevelUpEvent is emitted when a message award crosses a level boundary
type LevelUpEvent struct {
	GuildID       int64 `json:"guild_id,string"`
	UserID        int64 `json:"user_id,string"`
	OldLevel      int   `json:"old_level"`
	NewLevel      int   `json:"new_level"`
	TotalXP       int64 `json:"total_xp"`
	TotalMessages int64 `json:"total_messages"`
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

func (e LevelUpEvent) EventGuildID() int64 {
	return e.GuildID
}

// XPAdjustedEvent is emitted when an administrator adds or sets XP
type XPAdjustedEvent struct {
	GuildID int64                   `json:"guild_id,string"`
	UserID  int64                   `json:"user_id,string"`
	Kind    models.XPAdjustmentKind `json:"kind"`
	OldXP   int64                   `json:"old_xp"`
	NewXP   int64                   `json:"new_xp"`
}

func (e XPAdjustedEvent) Type() EventType {
	return EventTypeXPAdjusted
}

func (e XPAdjustedEvent) EventGuildID() int64 {
	return e.GuildID
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wg       sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"event_type":    eventType,
		"handler_count": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit dispatches an event to every handler on its own goroutine.
// A panicking handler is logged and does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"event_type":    event.Type(),
						"handler_index": handlerIndex,
						"panic":         r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until all in-flight handlers have returned
func (b *Bus) Wait() {
	b.wg.Wait()
}

// TransactionalBus holds events raised inside a unit of work until the
// transaction commits.
type TransactionalBus struct {
	real    *Bus
	mu      sync.Mutex
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event for delivery on Flush
func (b *TransactionalBus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, e)
}

// Flush delivers pending events, called after a successful commit.
// Handlers get a background context so they outlive the request.
func (b *TransactionalBus) Flush(_ context.Context) {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	if b.real == nil {
		return
	}

	eventCtx := context.Background()
	for _, ev := range pending {
		b.real.Emit(eventCtx, ev)
	}
}

// Discard drops pending events, called after a rollback
func (b *TransactionalBus) Discard() {
	b.mu.Lock()
	b.pending = nil
	b.mu.Unlock()
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
