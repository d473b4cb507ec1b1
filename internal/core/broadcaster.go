// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package core

import (
	"log/slog"
	"sync"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// subscriberBuffer is the channel capacity of each subscription.
const subscriberBuffer = 256

type subscription struct {
	pattern string
	match   glob.Glob
	ch      chan Event
}

// Broadcaster distributes events to subscribers whose stream pattern matches.
// Patterns are globs over ':'-separated stream names, e.g. "unit:*" or "tick".
type Broadcaster struct {
	mu   sync.RWMutex
	subs []*subscription
}

// NewBroadcaster creates a new broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe creates a channel receiving every event whose stream matches pattern.
func (b *Broadcaster) Subscribe(pattern string) (chan Event, error) {
	g, err := glob.Compile(pattern, ':')
	if err != nil {
		return nil, oops.Code("INVALID_PATTERN").With("pattern", pattern).Wrap(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	b.subs = append(b.subs, &subscription{pattern: pattern, match: g, ch: ch})
	return ch, nil
}

// Unsubscribe removes and closes a subscription channel.
func (b *Broadcaster) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.ch == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish sends events, in order, to every matching subscriber.
// A subscriber with a full buffer misses the event.
func (b *Broadcaster) Publish(events []Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, event := range events {
		for _, sub := range b.subs {
			if !sub.match.Match(event.Stream) {
				continue
			}
			select {
			case sub.ch <- event:
			default:
				slog.Warn("event dropped: subscriber buffer full",
					"pattern", sub.pattern,
					"stream", event.Stream,
					"tick", event.Tick,
					"seq", event.Seq,
					"event_type", event.Type,
				)
			}
		}
	}
}
