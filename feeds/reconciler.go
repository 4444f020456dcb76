// Package feeds reconciles the published CSV feeds (players, poolers,
// rosters, stats) into the league document. Each feed has its own merge
// contract and its own failure domain: a refresh round runs them
// sequentially and a failure in one never stops the others.
package feeds

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"puckpool-backend/models"
	"puckpool-backend/state"
)

// DefaultRefreshInterval is how often the remote sheets are polled when
// no REFRESH_INTERVAL is configured.
const DefaultRefreshInterval = 5 * time.Minute

// FeedResult reports one feed's outcome within a refresh round.
type FeedResult struct {
	Feed  string `json:"feed"`
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

type Reconciler struct {
	store   *state.Store
	fetcher TextFetcher
	clock   clockwork.Clock
	log     zerolog.Logger
}

func NewReconciler(store *state.Store, fetcher TextFetcher, clock clockwork.Clock, log zerolog.Logger) *Reconciler {
	return &Reconciler{store: store, fetcher: fetcher, clock: clock, log: log}
}

// RefreshAll fetches and ingests every configured feed. Feeds run in a
// fixed order (players, poolers, rosters, stats) so capacity and roster
// snapshots land before the stats upserts that reference them. Failures
// are logged and reported, never propagated.
func (r *Reconciler) RefreshAll(ctx context.Context) []FeedResult {
	src := r.store.Sources()
	runs := []struct {
		name   string
		url    string
		ingest func(l *models.League, text string) error
	}{
		{"players", src.PlayersURL, IngestPlayers},
		{"poolers", src.PoolersURL, IngestPoolers},
		{"rosters", src.RostersURL, IngestRosters},
		{"stats", src.StatsURL, func(l *models.League, text string) error {
			return IngestStats(l, text, r.clock.Now())
		}},
	}

	var results []FeedResult
	for _, run := range runs {
		if run.url == "" {
			continue
		}
		res := FeedResult{Feed: run.name, URL: run.url}
		if err := r.refreshOne(ctx, run.url, run.ingest); err != nil {
			res.Error = err.Error()
			r.log.Warn().Err(err).Str("feed", run.name).Str("url", run.url).Msg("feed ingest failed")
		} else {
			r.log.Info().Str("feed", run.name).Msg("feed ingested")
		}
		results = append(results, res)
	}
	return results
}

func (r *Reconciler) refreshOne(ctx context.Context, url string, ingest func(*models.League, string) error) error {
	text, err := r.fetcher.FetchText(ctx, url)
	if err != nil {
		return err
	}
	if err := r.store.Update(func(l *models.League) error {
		return ingest(l, text)
	}); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	return nil
}

// Run refreshes on a fixed interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.RefreshAll(ctx)
		}
	}
}
