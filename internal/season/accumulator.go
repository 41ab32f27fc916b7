// Package season maintains the running per-team and per-goalie season totals.
// The accumulator is the only season-spanning mutable state in the engine; it
// is written by a single merge consumer and persisted through snapshots.
package season

import (
	"sort"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

// fullGameSeconds approximates one goalie appearance for GAA purposes.
const fullGameSeconds = 3600

// Accumulator holds season state. Not safe for concurrent writers: batch runs
// serialize merges through one consumer.
type Accumulator struct {
	teams     map[int]*model.TeamSeason
	goalies   map[int]*model.GoalieSeason
	processed map[string]struct{}
}

// New returns an empty accumulator.
func New() *Accumulator {
	return &Accumulator{
		teams:     make(map[int]*model.TeamSeason),
		goalies:   make(map[int]*model.GoalieSeason),
		processed: make(map[string]struct{}),
	}
}

// Seen reports whether a game id has already been merged.
func (a *Accumulator) Seen(gameID string) bool {
	_, ok := a.processed[gameID]
	return ok
}

// ProcessedCount returns the number of merged games.
func (a *Accumulator) ProcessedCount() int { return len(a.processed) }

// Merge folds one game's derived metrics into the season totals. Returns
// false without touching any state when the game id was already processed,
// making reprocessing a no-op.
func (a *Accumulator) Merge(gameID string, home, away model.TeamGameMetrics, goalies []model.GoalieGameRecord) bool {
	if a.Seen(gameID) {
		return false
	}
	a.mergeTeam(home)
	a.mergeTeam(away)
	for _, rec := range goalies {
		a.mergeGoalie(rec)
	}
	a.processed[gameID] = struct{}{}
	return true
}

// Team returns the season row for a team id, or nil.
func (a *Accumulator) Team(teamID int) *model.TeamSeason { return a.teams[teamID] }

// TeamByAbbrev returns the season row matching a team abbreviation, or nil.
func (a *Accumulator) TeamByAbbrev(abbrev string) *model.TeamSeason {
	for _, t := range a.teams {
		if t.Abbrev == abbrev {
			return t
		}
	}
	return nil
}

// Goalie returns the season row for a goalie id, or nil.
func (a *Accumulator) Goalie(goalieID int) *model.GoalieSeason { return a.goalies[goalieID] }

// Teams returns all team rows ordered by abbreviation.
func (a *Accumulator) Teams() []model.TeamSeason {
	out := make([]model.TeamSeason, 0, len(a.teams))
	for _, t := range a.teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbrev < out[j].Abbrev })
	return out
}

// Goalies returns all goalie rows ordered by id.
func (a *Accumulator) Goalies() []model.GoalieSeason {
	out := make([]model.GoalieSeason, 0, len(a.goalies))
	for _, g := range a.goalies {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GoalieID < out[j].GoalieID })
	return out
}

// ProcessedIDs returns the processed-game-id set, sorted.
func (a *Accumulator) ProcessedIDs() []string {
	out := make([]string, 0, len(a.processed))
	for id := range a.processed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (a *Accumulator) mergeTeam(m model.TeamGameMetrics) {
	t := a.teams[m.TeamID]
	if t == nil {
		t = &model.TeamSeason{TeamID: m.TeamID, Abbrev: m.Abbrev}
		a.teams[m.TeamID] = t
	}

	t.GamesPlayed++
	switch {
	case m.Won:
		t.Wins++
	case m.OTLoss:
		t.OTLosses++
	default:
		t.Losses++
	}

	t.GoalsFor += m.GoalsFor
	t.GoalsAgainst += m.GoalsAgainst
	t.ShotsOnGoal += m.ShotsOnGoal
	t.CorsiFor += m.CorsiFor
	t.CorsiAgainst += m.CorsiAgainst
	t.XGFor += m.XGFor
	t.XGAgainst += m.XGAgainst
	t.HighDangerFor += m.HighDangerFor
	t.HighDangerAgainst += m.HighDangerAgainst
	t.RushShots += m.RushShots
	t.CycleShots += m.CycleShots
	t.ReboundShots += m.ReboundShots
	t.ForecheckTurnovers += m.ForecheckTurnovers
	t.Takeaways += m.Takeaways
	t.OffZoneGiveaways += m.OffZoneGiveaways
	t.NeutralGiveaways += m.NeutralGiveaways
	t.DefZoneGiveaways += m.DefZoneGiveaways
	t.FaceoffWins += m.FaceoffWins
	t.FaceoffsTaken += m.FaceoffsTaken
	t.EntriesCarry += m.EntriesCarry
	t.EntriesPass += m.EntriesPass
	t.EntriesDump += m.EntriesDump

	t.Recent = appendBounded(t.Recent, m)
}

func (a *Accumulator) mergeGoalie(rec model.GoalieGameRecord) {
	g := a.goalies[rec.GoalieID]
	if g == nil {
		g = &model.GoalieSeason{GoalieID: rec.GoalieID, Name: rec.Name, Catches: rec.Catches}
		a.goalies[rec.GoalieID] = g
	}
	if g.Name == "" {
		g.Name = rec.Name
	}

	g.GamesPlayed++
	g.SecondsPlayed += fullGameSeconds
	switch rec.Decision {
	case "W":
		g.Wins++
	case "OTL":
		g.OTLosses++
	case "L":
		g.Losses++
	}

	for _, s := range rec.Shots {
		g.ShotsFaced++
		g.XGFaced += s.XG
		goal := 0
		if s.Goal {
			goal = 1
			g.GoalsAgainst++
		}

		switch s.Danger {
		case model.DangerHigh:
			g.HighDangerFaced++
			g.HighDangerGoals += goal
		case model.DangerMedium:
			g.MediumFaced++
			g.MediumGoals += goal
		default:
			g.LowFaced++
			g.LowGoals += goal
		}

		if s.Side == model.SideGlove {
			g.GloveShots++
			g.GloveGoals += goal
		} else {
			g.BlockerShots++
			g.BlockerGoals += goal
		}

		if s.Angle == model.AngleCenter {
			g.CenterShots++
			g.CenterGoals += goal
		} else {
			g.AcuteShots++
			g.AcuteGoals += goal
		}

		switch s.Situation {
		case model.StrengthPPAgainst:
			g.PPAgainstShots++
			g.PPAgainstGoals += goal
		case model.StrengthOwnPP:
			g.OwnPPShots++
			g.OwnPPGoals += goal
		default:
			g.EvenShots++
			g.EvenGoals += goal
		}

		if s.Rebound {
			g.ReboundsFaced++
			g.ReboundGoals += goal
		}
	}

	g.Recent = appendBounded(g.Recent, rec)
}

// appendBounded appends keeping only the newest RecentGameLimit entries.
func appendBounded[T any](log []T, entry T) []T {
	log = append(log, entry)
	if n := len(log) - model.RecentGameLimit; n > 0 {
		log = log[n:]
	}
	return log
}
