package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterFansOut(t *testing.T) {
	b := NewBroadcaster()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	b.Broadcast(Event{Type: EventServerPublish, Name: "alpha"})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "alpha", ev.Name)
		default:
			t.Fatal("subscriber missed the event")
		}
	}
}

func TestBroadcasterDropsEventsForSlowSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()

	// Overflow the subscriber buffer; extra events are dropped, the
	// broadcast never blocks.
	for i := 0; i < 100; i++ {
		b.Broadcast(Event{Type: EventServerPublish})
	}

	count := 0
	for {
		select {
		case <-ch:
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 16, count)
}

func TestBroadcasterCancelIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()

	cancel()
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Broadcasting after the only subscriber left must not panic.
	b.Broadcast(Event{Type: EventServerPublish})
}
