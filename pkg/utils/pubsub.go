package utils

import (
	"github.com/sasha-s/go-deadlock"
)

// Topic fans values out to every subscriber. Publishing never blocks: a
// subscriber whose buffer is full misses the value and is told through
// its overflow callback, once.
type Topic[T any] struct {
	subscribers map[*Subscriber[T]]struct{}
	mutex       deadlock.Mutex
}

func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{
		subscribers: make(map[*Subscriber[T]]struct{}),
	}
}

// Publish returns the number of subscribers that missed the value.
func (t *Topic[T]) Publish(value T) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	missed := 0
	for subscriber := range t.subscribers {
		select {
		case subscriber.channel <- value:
		default:
			missed++
			if subscriber.overflow != nil && !subscriber.overflowed {
				subscriber.overflowed = true
				go subscriber.overflow()
			}
		}
	}
	return missed
}

func (t *Topic[T]) Len() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.subscribers)
}

type Subscriber[T any] struct {
	channel  chan T
	topic    *Topic[T]
	overflow func()
	// overflowed is guarded by the topic's mutex.
	overflowed bool
}

// Subscribe registers a subscriber buffering up to size values. overflow
// runs the first time the subscriber misses a value and may be nil.
func (t *Topic[T]) Subscribe(size int, overflow func()) *Subscriber[T] {
	subscriber := &Subscriber[T]{
		channel:  make(chan T, size),
		topic:    t,
		overflow: overflow,
	}
	t.mutex.Lock()
	t.subscribers[subscriber] = struct{}{}
	t.mutex.Unlock()

	return subscriber
}

func (t *Subscriber[T]) Recv() <-chan T {
	return t.channel
}

func (t *Subscriber[T]) Done() {
	topic := t.topic
	topic.mutex.Lock()
	delete(topic.subscribers, t)
	topic.mutex.Unlock()
}
