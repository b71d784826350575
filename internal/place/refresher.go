package place

import (
	"context"
	"log"
	"time"
)

// DefaultRefreshInterval is how often the refresher recomputes live status.
const DefaultRefreshInterval = 5 * time.Minute

// Refresher periodically recomputes each place's open flag from its weekly
// hours and decays stale queue reports toward zero.
type Refresher struct {
	repo     Repository
	interval time.Duration
	now      func() time.Time
}

func NewRefresher(repo Repository, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{repo: repo, interval: interval, now: time.Now}
}

func (f *Refresher) Start(ctx context.Context) {
	go f.run(ctx)
}

func (f *Refresher) run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := f.refreshAll(ctx); err != nil {
				log.Printf("Status refresh failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (f *Refresher) refreshAll(ctx context.Context) error {
	places, err := f.repo.List(ctx, "", 0)
	if err != nil {
		return err
	}

	now := f.now()
	for _, p := range places {
		status := f.nextStatus(p, now)
		if status == p.Status {
			continue
		}
		if err := f.repo.UpdateStatus(ctx, p.ID, status); err != nil {
			log.Printf("Status refresh for place %s failed: %v", p.ID, err)
		}
	}

	recordRefresherTick()
	return nil
}

// nextStatus derives the upcoming status. Queue data older than an hour
// decays by half per tick so closed-source places drift back to calm.
func (f *Refresher) nextStatus(p *Place, now time.Time) Status {
	status := p.Status
	status.IsOpen = p.OpenAt(now)

	if !status.IsOpen {
		status.QueueLength = 0
		status.EstimatedWait = 0
		status.Density = 0
		return status
	}

	if now.Sub(p.Status.UpdatedAt) > time.Hour {
		status.QueueLength /= 2
		status.EstimatedWait /= 2
		status.Density /= 2
	}

	return status
}
