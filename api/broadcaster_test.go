package api

import (
	"testing"
	"time"

	"github.com/lookbusy1344/mips-toolchain/vm"
)

func TestBroadcasterSubscribeAndBroadcast(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe()
	if b.SubscriptionCount() != 1 {
		t.Fatalf("SubscriptionCount() = %d, want 1", b.SubscriptionCount())
	}

	b.Broadcast(vm.StepEvent{Clock: 1, PC: 0x1000})

	select {
	case evt := <-sub.Channel:
		if evt.PC != 0x1000 {
			t.Errorf("PC = %#x, want 0x1000", evt.PC)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast event")
	}
}

func TestBroadcasterMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub1 := b.Subscribe()
	sub2 := b.Subscribe()

	b.Broadcast(vm.StepEvent{Clock: 5, PC: 0x2000, Halted: true})

	for _, sub := range []*Subscription{sub1, sub2} {
		select {
		case evt := <-sub.Channel:
			if !evt.Halted {
				t.Error("expected Halted event")
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for broadcast event")
		}
	}
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe()
	b.Unsubscribe(sub)

	deadline := time.After(time.Second)
	for {
		if b.SubscriptionCount() == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("subscription was not removed")
		default:
		}
	}

	if _, ok := <-sub.Channel; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestBroadcasterClose(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe()

	b.Close()

	select {
	case _, ok := <-sub.Channel:
		if ok {
			t.Error("channel should be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
