package feeds

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"puckpool-backend/models"
	"puckpool-backend/state"
)

// stubFetcher serves canned bodies and records requested URLs.
type stubFetcher struct {
	bodies map[string]string
	errs   map[string]error
	seen   []string
}

func (f *stubFetcher) FetchText(_ context.Context, url string) (string, error) {
	f.seen = append(f.seen, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.bodies[url], nil
}

func newTestReconciler(t *testing.T, fetcher TextFetcher) (*Reconciler, *state.Store) {
	t.Helper()
	store, err := state.New(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	rec := NewReconciler(store, fetcher, clockwork.NewFakeClock(), zerolog.Nop())
	return rec, store
}

func TestRefreshAllFaultIsolation(t *testing.T) {
	fetcher := &stubFetcher{
		bodies: map[string]string{
			"https://sheet/rosters": "pooler,player\nAlice,Sidney Crosby\n",
			"https://sheet/stats":   "date,player,goals,assists\n2026-02-01,Sidney Crosby,2,1\n",
		},
		errs: map[string]error{
			"https://sheet/players": errors.New("boom"),
		},
	}
	rec, store := newTestReconciler(t, fetcher)
	if err := store.SaveSources(state.RemoteSources{
		PlayersURL: "https://sheet/players",
		RostersURL: "https://sheet/rosters",
		StatsURL:   "https://sheet/stats",
	}); err != nil {
		t.Fatalf("save sources: %v", err)
	}

	results := rec.RefreshAll(context.Background())
	if len(results) != 3 {
		t.Fatalf("expected 3 feed results, got %d", len(results))
	}
	byFeed := map[string]FeedResult{}
	for _, r := range results {
		byFeed[r.Feed] = r
	}
	if byFeed["players"].Error == "" {
		t.Fatal("players feed failure should be reported")
	}
	if byFeed["rosters"].Error != "" || byFeed["stats"].Error != "" {
		t.Fatalf("a failing feed must not stop the others: %+v", results)
	}

	league := store.Snapshot()
	if league.PoolerByName("Alice") == nil {
		t.Fatal("rosters feed should have been ingested despite the players failure")
	}
	if league.LastUpdate == nil {
		t.Fatal("stats ingest should stamp lastUpdate")
	}
}

func TestRefreshAllSkipsUnconfiguredFeeds(t *testing.T) {
	fetcher := &stubFetcher{bodies: map[string]string{
		"https://sheet/stats": "date,player,goals,assists\n2026-02-01,X,1,0\n",
	}}
	rec, store := newTestReconciler(t, fetcher)
	if err := store.SaveSources(state.RemoteSources{StatsURL: "https://sheet/stats"}); err != nil {
		t.Fatalf("save sources: %v", err)
	}

	results := rec.RefreshAll(context.Background())
	if len(results) != 1 || results[0].Feed != "stats" {
		t.Fatalf("only the configured feed should run, got %+v", results)
	}
	if len(fetcher.seen) != 1 {
		t.Fatalf("expected a single fetch, saw %v", fetcher.seen)
	}
}

func TestRefreshAllSchemaErrorDoesNotTouchState(t *testing.T) {
	fetcher := &stubFetcher{bodies: map[string]string{
		"https://sheet/players": "position,team\nF,CAN\n",
	}}
	rec, store := newTestReconciler(t, fetcher)
	if err := store.Update(func(l *models.League) error {
		l.Players = append(l.Players, models.Player{Name: "Keeper", Position: models.PositionForward})
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.SaveSources(state.RemoteSources{PlayersURL: "https://sheet/players"}); err != nil {
		t.Fatalf("save sources: %v", err)
	}

	results := rec.RefreshAll(context.Background())
	if results[0].Error == "" {
		t.Fatal("schema error should be reported")
	}
	if store.Snapshot().PlayerByName("Keeper") == nil {
		t.Fatal("a failed ingest must not clobber the player list")
	}
}

func TestHTTPFetcher(t *testing.T) {
	var gotCacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("name\nX\n"))
	}))
	defer srv.Close()

	f := &HTTPFetcher{Client: srv.Client()}
	body, err := f.FetchText(context.Background(), srv.URL+"/players")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if body != "name\nX\n" {
		t.Fatalf("unexpected body %q", body)
	}
	if gotCacheControl != "no-cache" {
		t.Fatalf("fetch must bypass caches, Cache-Control = %q", gotCacheControl)
	}

	_, err = f.FetchText(context.Background(), srv.URL+"/missing")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("non-2xx must map to a network error, got %v", err)
	}
}
