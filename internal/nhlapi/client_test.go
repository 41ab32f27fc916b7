package nhlapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

// testClient points a client at a local test server.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(2*time.Second, 2, nil)
	c.baseURL = srv.URL
	return c
}

const pbpFixture = `{
	"id": 2024020500,
	"season": 20242025,
	"gameDate": "2024-12-15",
	"homeTeam": {"id": 10, "abbrev": "TOR", "score": 3},
	"awayTeam": {"id": 6, "abbrev": "BOS", "score": 2},
	"plays": [
		{"typeDescKey": "period-start", "timeInPeriod": "00:00",
		 "periodDescriptor": {"number": 1}, "homeTeamDefendingSide": "right"},
		{"typeDescKey": "faceoff", "timeInPeriod": "00:00", "situationCode": "1551",
		 "periodDescriptor": {"number": 1},
		 "details": {"xCoord": 0, "yCoord": 0, "zoneCode": "N", "eventOwnerTeamId": 10}},
		{"typeDescKey": "shot-on-goal", "timeInPeriod": "04:30", "situationCode": "1551",
		 "periodDescriptor": {"number": 1},
		 "details": {"xCoord": -80, "yCoord": 5, "zoneCode": "O", "shotType": "wrist",
		             "eventOwnerTeamId": 10, "shootingPlayerId": 8477001, "goalieInNetId": 8478001}},
		{"typeDescKey": "blocked-shot", "timeInPeriod": "06:10", "situationCode": "1551",
		 "periodDescriptor": {"number": 1},
		 "details": {"xCoord": -60, "yCoord": -10, "zoneCode": "D",
		             "eventOwnerTeamId": 10, "shootingPlayerId": 8477501, "blockingPlayerId": 8477002}},
		{"typeDescKey": "goal", "timeInPeriod": "02:00", "situationCode": "1451",
		 "periodDescriptor": {"number": 4}, "homeTeamDefendingSide": "left",
		 "details": {"xCoord": 82, "yCoord": -3, "zoneCode": "O", "shotType": "snap",
		             "eventOwnerTeamId": 6, "scoringPlayerId": 8477501, "goalieInNetId": 8478002}},
		{"typeDescKey": "delayed-penalty", "timeInPeriod": "02:05",
		 "periodDescriptor": {"number": 4}, "details": {}}
	]
}`

func TestFetchGameConvert(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gamecenter/2024020500/play-by-play" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(pbpFixture))
	}))

	g, err := c.FetchGame(context.Background(), "2024020500")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if g.HomeID != 10 || g.AwayAbbrev != "BOS" || g.HomeScore != 3 {
		t.Errorf("header mismatch: %+v", g)
	}
	if !g.EndedInOT {
		t.Error("period 4 play should mark the game as OT")
	}
	if !g.HomeDefendsRight[1] || g.HomeDefendsRight[4] {
		t.Errorf("defending sides wrong: %v", g.HomeDefendsRight)
	}

	// The unmapped delayed-penalty play is dropped.
	if len(g.Events) != 5 {
		t.Fatalf("got %d events, want 5", len(g.Events))
	}

	shot := g.Events[2]
	if shot.Type != model.EventShotOnGoal || shot.ShooterID != 8477001 ||
		shot.GoalieID != 8478001 || !shot.HasCoords || shot.X != -80 {
		t.Errorf("shot event mismatch: %+v", shot)
	}
	if shot.ClockSeconds != 4*60+30 {
		t.Errorf("clock = %d, want 270", shot.ClockSeconds)
	}

	goal := g.Events[4]
	if goal.ShooterID != 8477501 {
		t.Errorf("goal should use scoringPlayerId, got %d", goal.ShooterID)
	}
	if goal.ClockSeconds != 3*model.PeriodSeconds+120 {
		t.Errorf("OT clock = %d", goal.ClockSeconds)
	}
}

func TestFetchGameBlockedShotAttribution(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pbpFixture))
	}))

	g, err := c.FetchGame(context.Background(), "2024020500")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	blocked := g.Events[3]
	if blocked.Type != model.EventBlockedShot {
		t.Fatalf("wrong event: %+v", blocked)
	}
	// Feed owner was the home blocking team; re-attributed to the shooter's
	// team with the zone flipped.
	if blocked.TeamID != 6 {
		t.Errorf("blocked shot team = %d, want 6", blocked.TeamID)
	}
	if blocked.Zone != model.ZoneOffensive {
		t.Errorf("blocked shot zone = %v, want O", blocked.Zone)
	}
	if blocked.BlockerID != 8477002 {
		t.Errorf("blocker = %d", blocked.BlockerID)
	}
}

func TestFetchGameDropsClocklessPlay(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 2024020501, "season": 20242025, "gameDate": "2024-12-16",
			"homeTeam": {"id": 10, "abbrev": "TOR", "score": 1},
			"awayTeam": {"id": 6, "abbrev": "BOS", "score": 0},
			"plays": [
				{"typeDescKey": "shot-on-goal", "timeInPeriod": "04:30",
				 "periodDescriptor": {"number": 1},
				 "details": {"xCoord": -80, "yCoord": 5, "zoneCode": "O",
				             "eventOwnerTeamId": 10, "shootingPlayerId": 8477001}},
				{"typeDescKey": "hit",
				 "periodDescriptor": {"number": 1},
				 "details": {"eventOwnerTeamId": 6}}
			]
		}`))
	}))

	// A play without a parseable clock is dropped; the rest of the game
	// converts normally.
	g, err := c.FetchGame(context.Background(), "2024020501")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(g.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(g.Events))
	}
	if g.Events[0].Type != model.EventShotOnGoal || g.Events[0].ClockSeconds != 270 {
		t.Errorf("surviving event mismatch: %+v", g.Events[0])
	}
}

func TestFetchGameNoPlays(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1, "plays": []}`))
	}))

	_, err := c.FetchGame(context.Background(), "1")
	if !errors.Is(err, ErrIncompatibleGame) {
		t.Fatalf("got %v, want ErrIncompatibleGame", err)
	}
}

func TestFetchGameNotFound(t *testing.T) {
	c := testClient(t, http.NotFoundHandler())

	_, err := c.FetchGame(context.Background(), "999")
	if !errors.Is(err, ErrIncompatibleGame) {
		t.Fatalf("got %v, want ErrIncompatibleGame", err)
	}
}

func TestGetRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(pbpFixture))
	}))

	if _, err := c.FetchGame(context.Background(), "2024020500"); err != nil {
		t.Fatalf("fetch after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("got %d calls, want 3", calls.Load())
	}
}

func TestGetRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.FetchGame(context.Background(), "2024020500")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !IsTransient(err) {
		t.Errorf("exhausted error should stay transient: %v", err)
	}
	// Initial attempt plus two retries.
	if calls.Load() != 3 {
		t.Errorf("got %d calls, want 3", calls.Load())
	}
}

func TestSchedule(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/club-schedule-season/TOR/20242025" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"games": [
			{"id": 2024010001, "gameType": 1},
			{"id": 2024020010, "gameType": 2},
			{"id": 2024020025, "gameType": 2}
		]}`))
	}))

	ids, err := c.Schedule(context.Background(), "TOR", "20242025")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	want := []string{"2024020010", "2024020025"}
	if len(ids) != 2 || ids[0] != want[0] || ids[1] != want[1] {
		t.Errorf("got %v, want %v (preseason excluded)", ids, want)
	}
}

func TestPlayerLookupCaches(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"firstName": {"default": "Ilya"}, "lastName": {"default": "Sorokin"}, "shootsCatches": "L"}`))
	}))
	l := NewPlayerLookup(c)

	for i := 0; i < 3; i++ {
		name, hand, err := l.Catches(8478009)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if name != "Ilya Sorokin" || hand != "L" {
			t.Fatalf("got %q/%q", name, hand)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("got %d upstream calls, want 1 (cached)", calls.Load())
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"04:30", 270, false},
		{"19:59", 1199, false},
		{"bogus", 0, true},
		{"12:xx", 0, true},
	}
	for _, tc := range cases {
		got, err := parseClock(tc.in)
		if tc.wantErr != (err != nil) {
			t.Errorf("parseClock(%q) err = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
