// Package api provides a small in-process fan-out for simulator StepEvents,
// so a debugger and a GUI viewer can both observe execution without either
// one holding a reference to the other.
package api

import (
	"sync"

	"github.com/lookbusy1344/mips-toolchain/vm"
)

// Subscription is a single listener's channel of step events.
type Subscription struct {
	Channel chan vm.StepEvent
}

// Broadcaster fans a stream of StepEvents out to any number of subscribers.
// Subscribers never write back to the VM; this is the one place in the
// module where a value crosses a goroutine boundary.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan vm.StepEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster creates and starts a new event broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan vm.StepEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				select {
				case sub.Channel <- event:
				default:
					// subscriber too slow, drop this event for it
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new listener and returns its subscription.
func (b *Broadcaster) Subscribe() *Subscription {
	sub := &Subscription{Channel: make(chan vm.StepEvent, 64)}
	b.register <- sub
	return sub
}

// Unsubscribe removes a listener and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Broadcast sends a step event to all current subscribers. Non-blocking:
// a full broadcast queue drops the event rather than stall the simulator.
func (b *Broadcaster) Broadcast(event vm.StepEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}

// Close shuts down the broadcaster and closes all subscriptions.
func (b *Broadcaster) Close() {
	close(b.done)
}
