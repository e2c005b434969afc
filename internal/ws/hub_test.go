package ws

import (
	"encoding/json"
	"sync"
	"testing"
)

func TestBroadcastOrderDelivers(t *testing.T) {
	hub := NewHub()
	c := NewClient(1, "STAFF")
	hub.Register(c)
	defer c.Close()

	hub.BroadcastOrder(OrderEvent{Type: "order_created", OrderID: 7, Status: "pending", Total: 31.39})

	select {
	case data := <-c.Send:
		var ev OrderEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.OrderID != 7 || ev.Status != "pending" {
			t.Fatalf("got event %+v", ev)
		}
	default:
		t.Fatal("no event delivered to registered client")
	}
}

func TestBroadcastToUserTargetsOnlyThatUser(t *testing.T) {
	hub := NewHub()
	a := NewClient(1, "STAFF")
	b := NewClient(2, "STAFF")
	hub.Register(a)
	hub.Register(b)
	defer a.Close()
	defer b.Close()

	hub.BroadcastToUser(2, OrderEvent{Type: "order_status", OrderID: 3})

	if len(a.Send) != 0 {
		t.Fatal("user 1 should not receive user 2's event")
	}
	if len(b.Send) != 1 {
		t.Fatalf("user 2 should have 1 event, has %d", len(b.Send))
	}
}

func TestCloseIsIdempotentAndUnregisters(t *testing.T) {
	hub := NewHub()
	c := NewClient(1, "ADMIN")
	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Fatalf("count = %d, want 1", hub.ClientCount())
	}

	c.Close()
	c.Close()

	if hub.ClientCount() != 0 {
		t.Fatalf("count after close = %d, want 0", hub.ClientCount())
	}
	select {
	case <-c.Done():
	default:
		t.Fatal("Done should be closed after Close")
	}
}

// Disconnects race with broadcasts in production: a staff dashboard can drop
// while an order-create request is fanning out its event. Neither side may
// panic the other.
func TestBroadcastDuringDisconnectChurn(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				hub.BroadcastAll(OrderEvent{Type: "order_status", OrderID: 1, Status: "preparing"})
				hub.BroadcastToUser(1, OrderEvent{Type: "order_status", OrderID: 1})
			}
		}
	}()

	for i := 0; i < 500; i++ {
		c := NewClient(uint(i%3+1), "STAFF")
		hub.Register(c)
		c.Close()
	}
	close(done)
	wg.Wait()

	if hub.ClientCount() != 0 {
		t.Fatalf("count = %d, want 0", hub.ClientCount())
	}
}
