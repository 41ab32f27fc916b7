package derive

import (
	"math"
	"testing"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

const (
	homeID = 1
	awayID = 2
)

func newDeriver() *Deriver {
	return New(config.Default(), nil)
}

// testGame builds a one-period game where the home team defends +x (attacks
// -x) and the away team attacks +x.
func testGame(events ...model.Event) *model.Game {
	for i := range events {
		events[i].Idx = i
		if events[i].Period == 0 {
			events[i].Period = 1
		}
	}
	return &model.Game{
		ID:               "2024020001",
		HomeID:           homeID,
		AwayID:           awayID,
		HomeAbbrev:       "EDM",
		AwayAbbrev:       "CGY",
		HomeScore:        2,
		AwayScore:        1,
		Events:           events,
		HomeDefendsRight: map[int]bool{1: true},
	}
}

func shotEvent(team, clock int, x, y float64, outcome model.EventType) model.Event {
	return model.Event{
		Type: outcome, TeamID: team, ClockSeconds: clock,
		X: x, Y: y, HasCoords: true,
		Zone: model.ZoneOffensive, ShotType: "wrist",
	}
}

func TestShots_AttackingFrameTransform(t *testing.T) {
	// Home attacks -x in period 1, so a raw (-85,-2) shot lands at (85,2)
	// in the attacking frame: the worked high-danger example.
	g := testGame(shotEvent(homeID, 100, -85, -2, model.EventGoal))
	shots := newDeriver().Shots(g)
	if len(shots) != 1 {
		t.Fatalf("expected 1 shot, got %d", len(shots))
	}
	s := shots[0]
	if s.X != 85 || s.Y != 2 {
		t.Errorf("expected attacking frame (85,2), got (%g,%g)", s.X, s.Y)
	}
	if !s.HighDanger {
		t.Error("expected high-danger flag")
	}
	if math.Abs(s.XG-0.375) > 1e-9 {
		t.Errorf("expected xG 0.375, got %g", s.XG)
	}
}

func TestShots_AwayTeamNotFlipped(t *testing.T) {
	g := testGame(shotEvent(awayID, 100, 85, 2, model.EventShotOnGoal))
	shots := newDeriver().Shots(g)
	if shots[0].X != 85 || shots[0].Y != 2 {
		t.Errorf("away team attacks +x, coordinates must pass through; got (%g,%g)",
			shots[0].X, shots[0].Y)
	}
}

func TestShots_MissingCoordsNeutral(t *testing.T) {
	g := testGame(model.Event{
		Type: model.EventShotOnGoal, TeamID: homeID, ClockSeconds: 50,
		Zone: model.ZoneOffensive, ShotType: "snap",
	})
	shots := newDeriver().Shots(g)
	if len(shots) != 1 {
		t.Fatalf("shot without coordinates must still be kept, got %d shots", len(shots))
	}
	s := shots[0]
	if s.HasCoords || s.XG != 0 || s.HighDanger || s.Slot {
		t.Errorf("expected neutral classification, got %+v", s)
	}
}

func TestDerive_TeamCounters(t *testing.T) {
	g := testGame(
		shotEvent(homeID, 100, -80, -5, model.EventShotOnGoal),
		shotEvent(homeID, 102, -82, 3, model.EventGoal), // rebound of the first
		shotEvent(awayID, 300, 60, 10, model.EventMissedShot),
		model.Event{Type: model.EventGiveaway, TeamID: homeID, ClockSeconds: 400, Zone: model.ZoneDefensive},
		model.Event{Type: model.EventTakeaway, TeamID: awayID, ClockSeconds: 500, Zone: model.ZoneOffensive},
		model.Event{Type: model.EventFaceoff, TeamID: homeID, ClockSeconds: 600, Zone: model.ZoneNeutral},
	)
	out := newDeriver().Derive(g)

	if out.Home.CorsiFor != 2 || out.Home.CorsiAgainst != 1 {
		t.Errorf("home corsi = %d/%d, want 2/1", out.Home.CorsiFor, out.Home.CorsiAgainst)
	}
	if out.Home.ShotsOnGoal != 2 {
		t.Errorf("home SOG = %d, want 2 (on-goal + goal)", out.Home.ShotsOnGoal)
	}
	if out.Home.ReboundShots != 1 {
		t.Errorf("home rebounds = %d, want 1", out.Home.ReboundShots)
	}
	if out.Home.DefZoneGiveaways != 1 {
		t.Errorf("home def-zone giveaways = %d, want 1", out.Home.DefZoneGiveaways)
	}
	if out.Away.Takeaways != 1 || out.Away.ForecheckTurnovers != 1 {
		t.Errorf("away takeaways/forecheck = %d/%d, want 1/1",
			out.Away.Takeaways, out.Away.ForecheckTurnovers)
	}
	if out.Home.FaceoffWins != 1 || out.Away.FaceoffsTaken != 1 {
		t.Errorf("faceoffs misattributed: home wins %d, away taken %d",
			out.Home.FaceoffWins, out.Away.FaceoffsTaken)
	}
	if !out.Home.Won || out.Home.Venue != "home" {
		t.Errorf("home result wrong: won=%v venue=%s", out.Home.Won, out.Home.Venue)
	}
	if out.Away.GoalsFor != 1 || out.Away.GoalsAgainst != 2 {
		t.Errorf("away goals = %d/%d, want 1/2", out.Away.GoalsFor, out.Away.GoalsAgainst)
	}
}

func TestDerive_XGSymmetry(t *testing.T) {
	g := testGame(
		shotEvent(homeID, 100, -80, -5, model.EventShotOnGoal),
		shotEvent(awayID, 200, 70, 0, model.EventShotOnGoal),
	)
	out := newDeriver().Derive(g)
	if math.Abs(out.Home.XGFor-out.Away.XGAgainst) > 1e-12 {
		t.Errorf("home xG for (%g) must equal away xG against (%g)",
			out.Home.XGFor, out.Away.XGAgainst)
	}
	if math.Abs(out.Home.XGAgainst-out.Away.XGFor) > 1e-12 {
		t.Errorf("home xG against (%g) must equal away xG for (%g)",
			out.Home.XGAgainst, out.Away.XGFor)
	}
}

func TestAddEntries(t *testing.T) {
	var m model.TeamGameMetrics
	AddEntries(&m, []model.EntryType{model.EntryCarry, model.EntryCarry, model.EntryPass, model.EntryDump})
	if m.EntriesCarry != 2 || m.EntriesPass != 1 || m.EntriesDump != 1 {
		t.Errorf("entries = %d/%d/%d, want 2/1/1", m.EntriesCarry, m.EntriesPass, m.EntriesDump)
	}
}
