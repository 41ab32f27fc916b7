// Package derive turns one game's raw event sequence into classified shots
// and per-team game metrics. Metric categories are isolated: a failure inside
// one category keeps its documented zero defaults and never aborts the game.
package derive

import (
	"log/slog"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/geometry"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/patterns"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/xg"
)

// GameDerived bundles everything computed from one game's event stream.
type GameDerived struct {
	Game  *model.Game
	Shots []model.Shot
	Home  model.TeamGameMetrics
	Away  model.TeamGameMetrics
}

// Deriver computes per-game metrics with one shared weight/window set.
type Deriver struct {
	scorer *xg.Scorer
	det    *patterns.Detector
	log    *slog.Logger
}

// New returns a deriver built from the injected configuration.
func New(cfg *config.Config, log *slog.Logger) *Deriver {
	if log == nil {
		log = slog.Default()
	}
	return &Deriver{
		scorer: xg.NewScorer(cfg.Weights),
		det:    patterns.NewDetector(cfg.Detect),
		log:    log,
	}
}

// Detector exposes the deriver's pattern detector for the goalie extractor,
// which reuses the same window constants.
func (d *Deriver) Detector() *patterns.Detector { return d.det }

// Derive computes shots and both teams' game metrics.
func (d *Deriver) Derive(g *model.Game) *GameDerived {
	out := &GameDerived{Game: g}

	out.Shots = d.Shots(g)

	out.Home = newTeamMetrics(g, g.HomeID)
	out.Away = newTeamMetrics(g, g.AwayID)

	d.guard(g.ID, "shot-quality", func() {
		countShots(&out.Home, out.Shots)
		countShots(&out.Away, out.Shots)
	})
	d.guard(g.ID, "turnovers", func() {
		countTurnovers(&out.Home, g.Events)
		countTurnovers(&out.Away, g.Events)
	})
	d.guard(g.ID, "faceoffs", func() {
		countFaceoffs(&out.Home, &out.Away, g.Events)
	})

	return out
}

// Shots builds the classified shot list for the game. A shot attempt with no
// coordinates keeps a neutral classification (zero xG, no geometric flags);
// the pattern flags come from the event sequence and survive missing
// coordinates.
func (d *Deriver) Shots(g *model.Game) []model.Shot {
	var shots []model.Shot
	for _, ev := range g.Events {
		if !ev.Type.IsShotAttempt() {
			continue
		}
		s := model.Shot{
			EventIdx:     ev.Idx,
			TeamID:       ev.TeamID,
			ShooterID:    ev.ShooterID,
			GoalieID:     ev.GoalieID,
			Period:       ev.Period,
			ClockSeconds: ev.ClockSeconds,
			Zone:         ev.Zone,
			ShotType:     ev.ShotType,
			Outcome:      ev.Type,
		}
		if ev.HasCoords {
			s.X, s.Y = geometry.ToAttackingFrame(ev.X, ev.Y, g.DefendingRight(ev.TeamID, ev.Period))
			s.HasCoords = true
			s.Distance = geometry.DistanceToGoal(s.X, s.Y)
			s.Angle = geometry.ShotAngle(s.X, s.Y)
			s.HighDanger = geometry.IsHighDanger(s.X, s.Y)
			s.Slot = geometry.IsSlot(s.X, s.Y)
			s.XG = d.scorer.Score(s.X, s.Y, s.Zone, s.ShotType, s.Outcome)
		} else {
			d.log.Debug("shot without coordinates, neutral classification",
				"game", g.ID, "event", ev.Idx)
		}
		shots = append(shots, s)
	}

	// Pattern flags: three independent bounded scans per shot. A failure here
	// leaves every flag false and the shot list otherwise intact.
	d.guard(g.ID, "possession-patterns", func() {
		cycle := d.det.CycleFlags(g.Events)
		for i := range shots {
			idx := shots[i].EventIdx
			shots[i].Rebound = d.det.IsRebound(g.Events, idx)
			shots[i].Rush = d.det.IsRush(g.Events, idx)
			shots[i].Cycle = cycle[idx]
		}
	})

	return shots
}

// guard runs one metric category, converting a panic into a logged warning so
// the rest of the game's metrics survive.
func (d *Deriver) guard(gameID, category string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("metric category failed, keeping zero defaults",
				"game", gameID, "category", category, "reason", r)
		}
	}()
	fn()
}

func newTeamMetrics(g *model.Game, teamID int) model.TeamGameMetrics {
	m := model.TeamGameMetrics{
		GameID:   g.ID,
		TeamID:   teamID,
		Abbrev:   g.Abbrev(teamID),
		Opponent: g.Abbrev(g.Opponent(teamID)),
		Venue:    "home",
	}
	gf, ga := g.HomeScore, g.AwayScore
	if teamID == g.AwayID {
		m.Venue = "away"
		gf, ga = ga, gf
	}
	m.GoalsFor, m.GoalsAgainst = gf, ga
	m.Won = gf > ga
	m.OTLoss = gf < ga && g.EndedInOT
	return m
}

func countShots(m *model.TeamGameMetrics, shots []model.Shot) {
	for _, s := range shots {
		if s.TeamID != m.TeamID {
			m.CorsiAgainst++
			m.XGAgainst += s.XG
			if s.HighDanger {
				m.HighDangerAgainst++
			}
			continue
		}
		m.CorsiFor++
		m.XGFor += s.XG
		if s.OnGoal() {
			m.ShotsOnGoal++
		}
		if s.HighDanger {
			m.HighDangerFor++
		}
		if s.Slot {
			m.SlotShots++
		}
		if s.Rush {
			m.RushShots++
		}
		if s.Cycle {
			m.CycleShots++
		}
		if s.Rebound {
			m.ReboundShots++
		}
	}
}

func countTurnovers(m *model.TeamGameMetrics, events []model.Event) {
	for _, ev := range events {
		if ev.TeamID != m.TeamID {
			continue
		}
		switch ev.Type {
		case model.EventGiveaway:
			switch ev.Zone {
			case model.ZoneOffensive:
				m.OffZoneGiveaways++
			case model.ZoneDefensive:
				m.DefZoneGiveaways++
			case model.ZoneNeutral:
				m.NeutralGiveaways++
			}
		case model.EventTakeaway:
			m.Takeaways++
			if patterns.IsForecheckTurnover(ev) {
				m.ForecheckTurnovers++
			}
		}
	}
}

// countFaceoffs attributes each faceoff to both teams, with the win credited
// to the team the feed names on the event.
func countFaceoffs(home, away *model.TeamGameMetrics, events []model.Event) {
	for _, ev := range events {
		if ev.Type != model.EventFaceoff {
			continue
		}
		home.FaceoffsTaken++
		away.FaceoffsTaken++
		if ev.TeamID == home.TeamID {
			home.FaceoffWins++
		} else if ev.TeamID == away.TeamID {
			away.FaceoffWins++
		}
	}
}

// AddEntries folds externally classified zone entries into a team's metrics.
func AddEntries(m *model.TeamGameMetrics, entries []model.EntryType) {
	for _, e := range entries {
		switch e {
		case model.EntryCarry:
			m.EntriesCarry++
		case model.EntryPass:
			m.EntriesPass++
		case model.EntryDump:
			m.EntriesDump++
		}
	}
}
