package service

import (
	"testing"

	"task_tracker/internal/models"
)

func TestBroker_DeliversOnlyToOwnersSubscribers(t *testing.T) {
	b := NewBroker()

	aliceCh, cancelAlice := b.Subscribe(1)
	defer cancelAlice()
	bobCh, cancelBob := b.Subscribe(2)
	defer cancelBob()

	b.Publish(1, models.TaskEvent{Type: models.TaskEventCreated, Task: models.Task{ID: 10, UserID: 1}})

	select {
	case ev := <-aliceCh:
		if ev.Task.ID != 10 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatalf("alice did not receive her event")
	}

	select {
	case ev := <-bobCh:
		t.Fatalf("bob received alice's event: %+v", ev)
	default:
	}
}

func TestBroker_CancelClosesChannelAndUnsubscribes(t *testing.T) {
	b := NewBroker()

	ch, cancel := b.Subscribe(1)
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}

	// Publishing after cancel must not panic or deliver.
	b.Publish(1, models.TaskEvent{Type: models.TaskEventDeleted})

	// Double cancel is safe.
	cancel()
}

func TestBroker_PublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	b := NewBroker()

	_, cancel := b.Subscribe(1)
	defer cancel()

	// Overfill the buffer; the extra events are dropped, not blocking.
	for i := 0; i < subscriberBuffer*2; i++ {
		b.Publish(1, models.TaskEvent{Type: models.TaskEventUpdated, Task: models.Task{ID: i}})
	}
}
