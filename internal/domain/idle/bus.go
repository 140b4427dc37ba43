package idle

import (
	"sync"
	"time"
)

type EventType string

const (
	EventActionStarted   EventType = "action_started"
	EventActionResumed   EventType = "action_resumed"
	EventActionCompleted EventType = "action_completed"
	EventActionStopped   EventType = "action_stopped"
	EventActionExhausted EventType = "action_exhausted"
	EventActionImproved  EventType = "action_improved"
	EventForcedRest      EventType = "forced_rest"
	EventRestReturn      EventType = "rest_return"
	EventSkillLevelUp    EventType = "skill_level_up"
	EventUnlocked        EventType = "unlocked"
	EventUpgradePurchase EventType = "upgrade_purchased"
	EventClassChosen     EventType = "class_chosen"
	EventHomeMoved       EventType = "home_moved"
	EventLocationFound   EventType = "location_discovered"
)

// AllEvents subscribes a handler to every event type.
const AllEvents EventType = "*"

type Event struct {
	Type       EventType      `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Message    string         `json:"message"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type Handler func(Event)

// Bus is a synchronous on/trigger notifier. Handlers run on the caller's
// goroutine and must not call back into the engine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[EventType][]Handler{}}
}

func (b *Bus) On(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *Bus) Trigger(evt Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := append(append([]Handler(nil), b.handlers[evt.Type]...), b.handlers[AllEvents]...)
	b.mu.RUnlock()
	for _, h := range hs {
		h(evt)
	}
}
