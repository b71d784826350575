package place

import (
	"testing"
	"time"
)

func TestNextStatusClosesOutsideHours(t *testing.T) {
	f := NewRefresher(nil, 0)

	p := &Place{
		Status: Status{IsOpen: true, QueueLength: 8, EstimatedWait: 20, Density: 0.7},
		Attributes: Attributes{
			Hours: WeeklyHours{
				time.Monday: {Open: "09:00", Close: "17:00"},
			},
		},
	}

	night := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC) // Monday 22:00
	status := f.nextStatus(p, night)

	if status.IsOpen {
		t.Error("place should be closed outside its hours")
	}
	if status.QueueLength != 0 || status.EstimatedWait != 0 || status.Density != 0 {
		t.Errorf("closed place should report an empty queue, got %+v", status)
	}
}

func TestNextStatusDecaysStaleQueue(t *testing.T) {
	f := NewRefresher(nil, 0)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	p := &Place{
		Status: Status{
			IsOpen:        true,
			QueueLength:   8,
			EstimatedWait: 20,
			Density:       0.8,
			UpdatedAt:     now.Add(-2 * time.Hour),
		},
	}

	status := f.nextStatus(p, now)
	if status.QueueLength != 4 {
		t.Errorf("stale queue length: got %d, want 4", status.QueueLength)
	}
	if status.EstimatedWait != 10 {
		t.Errorf("stale wait: got %d, want 10", status.EstimatedWait)
	}
	if status.Density != 0.4 {
		t.Errorf("stale density: got %v, want 0.4", status.Density)
	}
}

func TestNextStatusKeepsFreshQueue(t *testing.T) {
	f := NewRefresher(nil, 0)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	p := &Place{
		Status: Status{
			IsOpen:        true,
			QueueLength:   8,
			EstimatedWait: 20,
			Density:       0.8,
			UpdatedAt:     now.Add(-10 * time.Minute),
		},
	}

	status := f.nextStatus(p, now)
	if status.QueueLength != 8 || status.EstimatedWait != 20 {
		t.Errorf("fresh queue should be untouched, got %+v", status)
	}
}
