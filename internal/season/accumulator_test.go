package season

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

func gameMetrics(gameID string, teamID int, abbrev string, won bool) model.TeamGameMetrics {
	return model.TeamGameMetrics{
		GameID: gameID, TeamID: teamID, Abbrev: abbrev,
		Won: won, GoalsFor: 3, GoalsAgainst: 2,
		CorsiFor: 55, CorsiAgainst: 48, ShotsOnGoal: 30,
		XGFor: 2.75, XGAgainst: 2.10,
		HighDangerFor: 11, RushShots: 4, CycleShots: 6, ReboundShots: 3,
		FaceoffWins: 28, FaceoffsTaken: 60,
	}
}

func goalieRecord(gameID string, goalieID int) model.GoalieGameRecord {
	return model.GoalieGameRecord{
		GameID: gameID, GoalieID: goalieID, Name: "Test Goalie", Catches: "L",
		Decision: "W",
		Shots: []model.ShotAgainst{
			{Danger: model.DangerHigh, Angle: model.AngleCenter, Side: model.SideGlove,
				Situation: model.StrengthEven, XG: 0.375, Goal: true},
			{Danger: model.DangerLow, Angle: model.AngleAcute, Side: model.SideBlocker,
				Situation: model.StrengthPPAgainst, XG: 0.02},
		},
	}
}

func TestMerge_Totals(t *testing.T) {
	a := New()
	ok := a.Merge("g1",
		gameMetrics("g1", 1, "EDM", true),
		gameMetrics("g1", 2, "CGY", false),
		[]model.GoalieGameRecord{goalieRecord("g1", 31)})
	if !ok {
		t.Fatal("first merge must succeed")
	}

	edm := a.Team(1)
	if edm.GamesPlayed != 1 || edm.Wins != 1 || edm.CorsiFor != 55 {
		t.Errorf("team totals wrong: %+v", edm)
	}

	g := a.Goalie(31)
	if g.ShotsFaced != 2 || g.GoalsAgainst != 1 {
		t.Errorf("goalie shots/goals = %d/%d, want 2/1", g.ShotsFaced, g.GoalsAgainst)
	}
	if g.HighDangerFaced != 1 || g.HighDangerGoals != 1 || g.LowFaced != 1 {
		t.Errorf("danger split wrong: %+v", g)
	}
	if g.GloveShots != 1 || g.BlockerShots != 1 {
		t.Errorf("side split wrong: %+v", g)
	}
	if g.PPAgainstShots != 1 || g.EvenShots != 1 {
		t.Errorf("situation split wrong: %+v", g)
	}
	// Derived, never stored.
	if got := g.SavePct(); got != 0.5 {
		t.Errorf("save%% = %g, want 0.5", got)
	}
	if got := g.GSAx(); math.Abs(got-(0.395-1)) > 1e-12 {
		t.Errorf("GSAx = %g, want %g", got, 0.395-1)
	}
}

// Processing the same game twice must leave state identical to processing it
// once.
func TestMerge_Idempotent(t *testing.T) {
	a := New()
	home := gameMetrics("g1", 1, "EDM", true)
	away := gameMetrics("g1", 2, "CGY", false)
	recs := []model.GoalieGameRecord{goalieRecord("g1", 31)}

	a.Merge("g1", home, away, recs)
	before := a.Snapshot()

	if a.Merge("g1", home, away, recs) {
		t.Error("second merge of the same game id must be a no-op")
	}
	after := a.Snapshot()

	if !reflect.DeepEqual(before, after) {
		t.Error("accumulator state changed on duplicate merge")
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	a := New()
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("g%d", i)
		a.Merge(id,
			gameMetrics(id, 1, "EDM", i%2 == 0),
			gameMetrics(id, 2, "CGY", i%2 != 0),
			[]model.GoalieGameRecord{goalieRecord(id, 31)})
	}

	raw, err := json.Marshal(a.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored := FromSnapshot(snap)

	if !reflect.DeepEqual(a.Snapshot(), restored.Snapshot()) {
		t.Error("round-tripped accumulator differs from original")
	}
	if !restored.Seen("g3") {
		t.Error("processed-id set lost in round trip")
	}
}

func TestRecentLogBounded(t *testing.T) {
	a := New()
	for i := 0; i < model.RecentGameLimit+10; i++ {
		id := fmt.Sprintf("g%d", i)
		a.Merge(id,
			gameMetrics(id, 1, "EDM", true),
			gameMetrics(id, 2, "CGY", false),
			nil)
	}
	if got := len(a.Team(1).Recent); got != model.RecentGameLimit {
		t.Errorf("recent log length = %d, want %d", got, model.RecentGameLimit)
	}
	// Newest entry last.
	last := a.Team(1).Recent[model.RecentGameLimit-1]
	if last.GameID != fmt.Sprintf("g%d", model.RecentGameLimit+9) {
		t.Errorf("newest entry = %s", last.GameID)
	}
}

func TestGoalieForm_RecomputedFromLog(t *testing.T) {
	a := New()
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("g%d", i)
		a.Merge(id,
			gameMetrics(id, 1, "EDM", true),
			gameMetrics(id, 2, "CGY", false),
			[]model.GoalieGameRecord{goalieRecord(id, 31)})
	}
	f := a.Goalie(31).Form(5)
	if f.Games != 5 || f.ShotsFaced != 10 || f.GoalsAgainst != 5 {
		t.Errorf("recent form = %+v, want 5 games, 10 shots, 5 goals", f)
	}
	if f.SavePct() != 0.5 {
		t.Errorf("form save%% = %g, want 0.5", f.SavePct())
	}
}
