package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"neoncut/models"

	"github.com/go-redis/redis/v8"
)

// EventsChannel is the Redis pub/sub channel for booking events.
const EventsChannel = "neoncut:booking-events"

// EventPublisher delivers booking lifecycle events. Publishing must not block
// the booking operation that emitted the event.
type EventPublisher interface {
	Publish(ctx context.Context, event models.BookingEvent) error
}

// EventBus fans events out to in-process subscribers. Slow subscribers
// lose events instead of stalling the publisher.
type EventBus struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	nextID uint64
	buffer int
}

type subscriber struct {
	owner string
	ch    chan models.BookingEvent
}

func NewEventBus(buffer int) *EventBus {
	if buffer <= 0 {
		buffer = 16
	}
	return &EventBus{subs: make(map[uint64]*subscriber), buffer: buffer}
}

// Subscribe returns a channel receiving events for owner, or for every owner
// when owner is empty. The returned func unsubscribes and closes the channel.
func (b *EventBus) Subscribe(owner string) (<-chan models.BookingEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	sub := &subscriber{owner: owner, ch: make(chan models.BookingEvent, b.buffer)}
	b.subs[id] = sub

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(sub.ch)
		})
	}
}

func (b *EventBus) Publish(_ context.Context, event models.BookingEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if sub.owner != "" && sub.owner != event.Owner {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribers reports the number of live subscriptions.
func (b *EventBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// RedisEventPublisher publishes JSON events on a Redis channel so that other
// instances can relay them.
type RedisEventPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisEventPublisher(client *redis.Client, channel string) *RedisEventPublisher {
	if channel == "" {
		channel = EventsChannel
	}
	return &RedisEventPublisher{client: client, channel: channel}
}

func (p *RedisEventPublisher) Publish(ctx context.Context, event models.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// MultiPublisher publishes to every wrapped publisher and joins the errors.
type MultiPublisher []EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, event models.BookingEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
