package bus

import (
	"sync"
	"testing"
)

func TestPublishReachesAllListeners(t *testing.T) {
	b := New(nil)

	var got []string
	b.Subscribe(func(e Event) { got = append(got, "a:"+e.DeckID) })
	b.Subscribe(func(e Event) { got = append(got, "b:"+e.DeckID) })

	b.Publish(Event{Kind: EventOpenGuide, DeckID: "d1"})

	if len(got) != 2 {
		t.Fatalf("got %d deliveries, want 2", len(got))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(nil)

	var calls int
	unsub := b.Subscribe(func(Event) { calls++ })

	b.Publish(Event{Kind: EventOpenGuide})
	unsub()
	b.Publish(Event{Kind: EventOpenGuide})

	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
	if b.Len() != 0 {
		t.Errorf("got %d listeners, want 0", b.Len())
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := New(nil)

	unsubA := b.Subscribe(func(Event) {})
	b.Subscribe(func(Event) {})

	unsubA()
	unsubA()

	if b.Len() != 1 {
		t.Errorf("got %d listeners, want 1: double unsubscribe must not touch others", b.Len())
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	b := New(nil)

	var calls int
	var unsubA, unsubB func()
	unsubA = b.Subscribe(func(Event) {
		calls++
		unsubA()
		unsubB()
	})
	unsubB = b.Subscribe(func(Event) { calls++ })

	// The snapshot taken at publish time still delivers to both.
	b.Publish(Event{Kind: EventOpenGuide})
	if calls != 2 {
		t.Errorf("got %d calls, want 2", calls)
	}

	b.Publish(Event{Kind: EventOpenGuide})
	if calls != 2 {
		t.Errorf("got %d calls after unsubscribe, want still 2", calls)
	}
}

func TestPanickingListenerDoesNotStopDelivery(t *testing.T) {
	b := New(nil)

	var survived bool
	b.Subscribe(func(Event) { panic("listener bug") })
	b.Subscribe(func(Event) { survived = true })

	b.Publish(Event{Kind: EventOpenGuide})

	if !survived {
		t.Error("a panicking listener must not block the others")
	}
}

func TestPublishWithNoListeners(t *testing.T) {
	b := New(nil)
	b.Publish(Event{Kind: EventOpenGuide})
}

func TestConcurrentSubscribePublish(t *testing.T) {
	b := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := b.Subscribe(func(Event) {})
			b.Publish(Event{Kind: EventOpenGuide})
			unsub()
		}()
	}
	wg.Wait()

	if b.Len() != 0 {
		t.Errorf("got %d listeners after all unsubscribed, want 0", b.Len())
	}
}
