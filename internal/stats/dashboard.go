package stats

import (
	"context"
	"sync"
)

// Dashboard is a full statistics reading: visits plus social counters.
type Dashboard struct {
	Visits VisitSnapshot
	Social SocialSnapshot
}

// CombinedTotal adds every visit and follower count, treating unavailable ones as zero.
func (d Dashboard) CombinedTotal() int64 {
	return d.Visits.Combined.Total.OrZero() +
		d.Social.GitHubFollowers.OrZero() +
		d.Social.LinkedInFollowers.OrZero()
}

// CombinedToday adds today's visits across all counters.
func (d Dashboard) CombinedToday() int64 {
	return d.Visits.Combined.Today.OrZero() +
		d.Social.GitHubToday.OrZero() +
		d.Social.LinkedInToday.OrZero()
}

// Collector reads the visit and social aggregators together.
type Collector struct {
	Social *SocialAggregator
	Visits *VisitAggregator
}

// Collect runs both aggregators concurrently.
func (c *Collector) Collect(ctx context.Context, req VisitRequest) Dashboard {
	var (
		d  Dashboard
		wg sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.Social = c.Social.Collect(ctx)
	}()
	go func() {
		defer wg.Done()
		d.Visits = c.Visits.Collect(ctx, req)
	}()
	wg.Wait()
	return d
}
