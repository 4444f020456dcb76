package feeds

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"puckpool-backend/models"
)

func TestIngestPlayersReplacesList(t *testing.T) {
	l := models.DefaultLeague()
	if err := IngestPlayers(l, "name,position,team,box\nSidney Crosby,C,CAN,B1\nMarc-Andre Fleury,G,CAN,G1\n"); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if len(l.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(l.Players))
	}
	if l.Players[0].Position != models.PositionForward {
		t.Fatalf("position C should normalize to F, got %s", l.Players[0].Position)
	}
	if l.Players[1].Position != models.PositionGoalie || l.Players[1].Box != "G1" {
		t.Fatalf("goalie row mishandled: %+v", l.Players[1])
	}
	crosbyID := l.Players[0].ID

	// full-snapshot replace: Fleury dropped, Crosby keeps his ID
	if err := IngestPlayers(l, "Name,Position,Team,Box\nSidney Crosby,F,CAN,B1\nNathan MacKinnon,F,CAN,B2\n"); err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if len(l.Players) != 2 {
		t.Fatalf("replace should leave 2 players, got %d", len(l.Players))
	}
	if l.PlayerByName("Marc-Andre Fleury") != nil {
		t.Fatal("player absent from the feed should be dropped")
	}
	if l.PlayerByName("Sidney Crosby").ID != crosbyID {
		t.Fatal("surviving player should keep its ID across a replace")
	}
}

func TestIngestPlayersHeaderSynonyms(t *testing.T) {
	l := models.DefaultLeague()
	if err := IngestPlayers(l, "Joueur, Pos ,Equipe,Boite\nLeon Draisaitl,d,ger,B3\n"); err != nil {
		t.Fatalf("ingest with synonym headers: %v", err)
	}
	p := l.PlayerByName("Leon Draisaitl")
	if p == nil || p.Position != models.PositionDefense || p.Team != "GER" || p.Box != "B3" {
		t.Fatalf("synonym ingest mishandled: %+v", p)
	}
}

func TestIngestPlayersBoxWhitelist(t *testing.T) {
	l := models.DefaultLeague()
	if err := IngestPlayers(l, "name,box\nA,B10\nB,B11\nC,bonus\nD,G3\n"); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	got := map[string]string{}
	for _, p := range l.Players {
		got[p.Name] = p.Box
	}
	want := map[string]string{"A": "B10", "B": "", "C": "BONUS", "D": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("box normalization mismatch (-want +got):\n%s", diff)
	}
}

func TestIngestPlayersRequiresNameColumn(t *testing.T) {
	l := models.DefaultLeague()
	err := IngestPlayers(l, "position,team\nF,CAN\n")
	if err == nil {
		t.Fatal("expected schema error for missing name column")
	}
}

func TestIngestPoolersPreservesRosters(t *testing.T) {
	l := models.DefaultLeague()
	id := uuid.New()
	l.Players = append(l.Players, models.Player{ID: id, Name: "X", Position: models.PositionForward})
	l.Poolers = append(l.Poolers, models.Pooler{
		Name:    "Alice",
		Roster:  models.RosterLimits{Skaters: 10, Goalies: 1},
		Players: []uuid.UUID{id},
	})

	if err := IngestPoolers(l, "pooler,skaters,goalies\nAlice,12,3\nBob,not-a-number,2\n"); err != nil {
		t.Fatalf("ingest poolers: %v", err)
	}
	if len(l.Poolers) != 2 {
		t.Fatalf("expected 2 poolers, got %d", len(l.Poolers))
	}
	alice := l.PoolerByName("Alice")
	if alice.Roster != (models.RosterLimits{Skaters: 12, Goalies: 3}) {
		t.Fatalf("capacity should come from the feed, got %+v", alice.Roster)
	}
	if len(alice.Players) != 1 || alice.Players[0] != id {
		t.Fatal("existing roster should be preserved across a poolers replace")
	}
	bob := l.PoolerByName("Bob")
	if bob.Roster.Skaters != 15 {
		t.Fatalf("unparsable skaters cell should fall back to default, got %d", bob.Roster.Skaters)
	}
}

func TestIngestPoolersStrictHeaders(t *testing.T) {
	l := models.DefaultLeague()
	if err := IngestPoolers(l, "pooler,skaters\nAlice,12\n"); err == nil {
		t.Fatal("expected schema error when goalies column is missing")
	}
}

func TestIngestRostersReplacesPoolersEnrichesPlayers(t *testing.T) {
	l := models.DefaultLeague()
	known := models.Player{ID: uuid.New(), Name: "Sidney Crosby", Position: models.PositionForward, Team: "CAN"}
	l.Players = append(l.Players, known)
	l.Poolers = append(l.Poolers, models.Pooler{Name: "Alice", Roster: models.RosterLimits{Skaters: 9, Goalies: 1}})

	feed := "pooler,player,position,team,box\n" +
		"Alice,Sidney Crosby,G,USA,B1\n" + // enrich only: position/team already set
		"Alice,Sidney Crosby,G,USA,B1\n" + // duplicate pair dropped
		"Alice,New Guy,D,SWE,B2\n" +
		"Bob,New Guy,D,SWE,B2\n"
	if err := IngestRosters(l, feed); err != nil {
		t.Fatalf("ingest rosters: %v", err)
	}

	crosby := l.PlayerByName("Sidney Crosby")
	if crosby.Position != models.PositionForward || crosby.Team != "CAN" {
		t.Fatalf("existing fields must never be overwritten: %+v", crosby)
	}
	if crosby.Box != "B1" {
		t.Fatalf("missing box should be filled in, got %q", crosby.Box)
	}
	newGuy := l.PlayerByName("New Guy")
	if newGuy == nil || newGuy.Position != models.PositionDefense || newGuy.Team != "SWE" {
		t.Fatalf("unknown player should be created from the feed: %+v", newGuy)
	}

	alice := l.PoolerByName("Alice")
	if len(alice.Players) != 2 {
		t.Fatalf("duplicate (pooler,player) pair should be dropped, roster = %d", len(alice.Players))
	}
	if alice.Roster.Skaters != 9 {
		t.Fatalf("existing pooler should keep its configured capacity, got %d", alice.Roster.Skaters)
	}
	bob := l.PoolerByName("Bob")
	if bob.Roster != models.DefaultRosterLimits() {
		t.Fatalf("new pooler should get default capacity, got %+v", bob.Roster)
	}
}

func TestIngestRostersRequiresColumns(t *testing.T) {
	l := models.DefaultLeague()
	if err := IngestRosters(l, "player,team\nX,CAN\n"); err == nil {
		t.Fatal("expected schema error when pooler column is missing")
	}
}

func TestIngestStatsUpsertIdempotent(t *testing.T) {
	now := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	feed := "date,player,goals,assists,goalie_win,goalie_otl,shutout\n" +
		"2026-02-01,Sidney Crosby,2,1,0,0,0\n" +
		"2026-02-01,Marc-Andre Fleury,0,0,1,0,1\n"

	once := models.DefaultLeague()
	if err := IngestStats(once, feed, now); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	twice := models.DefaultLeague()
	for i := 0; i < 2; i++ {
		if err := IngestStats(twice, feed, now); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}

	onceStats := once.Stats[once.PlayerByName("Sidney Crosby").ID]
	twiceStats := twice.Stats[twice.PlayerByName("Sidney Crosby").ID]
	if diff := cmp.Diff(onceStats, twiceStats); diff != "" {
		t.Fatalf("re-ingesting the same feed must not change the ledger (-once +twice):\n%s", diff)
	}
	if got := onceStats["2026-02-01"]; got.Goals != 2 || got.Assists != 1 || got.Played != 1 {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestIngestStatsLastWriteWins(t *testing.T) {
	l := models.DefaultLeague()
	now := time.Now()
	if err := IngestStats(l, "date,player,goals,assists\n2026-02-01,X,3,0\n", now); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if err := IngestStats(l, "date,player,goals,assists\n2026-02-01,X,1,2\n", now); err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	got := l.Stats[l.PlayerByName("X").ID]["2026-02-01"]
	if got.Goals != 1 || got.Assists != 2 {
		t.Fatalf("later ingest should replace the entry, got %+v", got)
	}
}

func TestIngestStatsSynonymsAndPlayed(t *testing.T) {
	l := models.DefaultLeague()
	feed := "Jour,Joueur,Buts,Passes,Victoire,Blanchissage,MJ\n" +
		"2026-02-03T19:00:00,Carey Price,0,0,1,1,1\n"
	if err := IngestStats(l, feed, time.Now()); err != nil {
		t.Fatalf("synonym ingest: %v", err)
	}
	got := l.Stats[l.PlayerByName("Carey Price").ID]["2026-02-03"]
	if got.Win != 1 || got.SO != 1 || got.Played != 1 {
		t.Fatalf("synonym columns mishandled: %+v", got)
	}

	// played column absent: one row = one game
	if err := IngestStats(l, "date,player,goals,assists\n2026-02-04,Carey Price,0,1\n", time.Now()); err != nil {
		t.Fatalf("ingest without played: %v", err)
	}
	if got := l.Stats[l.PlayerByName("Carey Price").ID]["2026-02-04"]; got.Played != 1 {
		t.Fatalf("absent played column should default to 1, got %d", got.Played)
	}
}

func TestIngestStatsUnknownPlayerMintsRecord(t *testing.T) {
	l := models.DefaultLeague()
	if err := IngestStats(l, "date,player,goals,assists\n2026-02-01,Ghost Skater,1,0\n", time.Now()); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	ghost := l.PlayerByName("Ghost Skater")
	if ghost == nil {
		t.Fatal("stats for an unknown name should mint a player record")
	}
	if _, ok := l.Stats[ghost.ID]; !ok {
		t.Fatal("ledger should key the minted player's ID")
	}
}

func TestIngestStatsRequiredColumns(t *testing.T) {
	l := models.DefaultLeague()
	if err := IngestStats(l, "date,player,goals\n2026-02-01,X,1\n", time.Now()); err == nil {
		t.Fatal("expected schema error when assists column is missing")
	}
	if len(l.Stats) != 0 {
		t.Fatal("a skipped ingest must not touch the ledger")
	}
}
