package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeAccountCreated EventType = "account_created"
	EventTypeHeistSettled   EventType = "heist_settled"
	EventTypeTokenCredited  EventType = "token_credited"
	EventTypeStaminaChanged EventType = "stamina_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// AccountCreatedEvent fires the first time a wallet touches the system
type AccountCreatedEvent struct {
	UserID        int64
	WalletAddress string
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// HeistSettledEvent fires once per committed heist settlement
type HeistSettledEvent struct {
	UserID       int64
	HeistKey     string
	RunID        int64
	Success      bool
	Lucky        bool
	PointsChange int
	Rewards      map[string]float64
}

func (e HeistSettledEvent) Type() EventType {
	return EventTypeHeistSettled
}

// TokenCreditedEvent fires for every committed ledger append
type TokenCreditedEvent struct {
	UserID      int64
	TokenSymbol string
	Amount      float64
	Reason      string
	NewBalance  float64
}

func (e TokenCreditedEvent) Type() EventType {
	return EventTypeTokenCredited
}

// StaminaChangedEvent fires when an account's stamina is written
type StaminaChangedEvent struct {
	UserID  int64
	Stamina int
	Cap     int
}

func (e StaminaChangedEvent) Type() EventType {
	return EventTypeStaminaChanged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
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
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit. Events are emitted on a
// background context so they outlive the request that produced them.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
