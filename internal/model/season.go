package model

// RecentGameLimit bounds the per-entity recent-game logs kept in season state.
const RecentGameLimit = 30

// TeamSeason holds one team's running season totals. Integer and float
// counters are summed per game; rates are always derived from them on demand.
type TeamSeason struct {
	TeamID int    `json:"team_id"`
	Abbrev string `json:"abbrev"`

	GamesPlayed int `json:"games_played"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	OTLosses    int `json:"ot_losses"`

	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	ShotsOnGoal  int `json:"shots_on_goal"`
	CorsiFor     int `json:"corsi_for"`
	CorsiAgainst int `json:"corsi_against"`

	XGFor     float64 `json:"xg_for"`
	XGAgainst float64 `json:"xg_against"`

	HighDangerFor     int `json:"high_danger_for"`
	HighDangerAgainst int `json:"high_danger_against"`

	RushShots    int `json:"rush_shots"`
	CycleShots   int `json:"cycle_shots"`
	ReboundShots int `json:"rebound_shots"`

	ForecheckTurnovers int `json:"forecheck_turnovers"`
	Takeaways          int `json:"takeaways"`
	OffZoneGiveaways   int `json:"off_zone_giveaways"`
	NeutralGiveaways   int `json:"neutral_giveaways"`
	DefZoneGiveaways   int `json:"def_zone_giveaways"`

	FaceoffWins   int `json:"faceoff_wins"`
	FaceoffsTaken int `json:"faceoffs_taken"`

	EntriesCarry int `json:"entries_carry"`
	EntriesPass  int `json:"entries_pass"`
	EntriesDump  int `json:"entries_dump"`

	// Recent is a bounded log of per-game rows, newest last.
	Recent []TeamGameMetrics `json:"recent"`
}

// CorsiForPct returns season shot-attempt share in percent.
func (t *TeamSeason) CorsiForPct() float64 {
	total := t.CorsiFor + t.CorsiAgainst
	if total == 0 {
		return 0
	}
	return float64(t.CorsiFor) / float64(total) * 100
}

// XGPerGame returns expected goals for per game played.
func (t *TeamSeason) XGPerGame() float64 {
	if t.GamesPlayed == 0 {
		return 0
	}
	return t.XGFor / float64(t.GamesPlayed)
}

// FaceoffPct returns the season faceoff win rate in percent.
func (t *TeamSeason) FaceoffPct() float64 {
	if t.FaceoffsTaken == 0 {
		return 0
	}
	return float64(t.FaceoffWins) / float64(t.FaceoffsTaken) * 100
}

// GoalieSeason holds one goalie's running season totals, split the same way
// the per-game logs are. Save%, GAA, and GSAx are derived, never stored.
type GoalieSeason struct {
	GoalieID int    `json:"goalie_id"`
	Name     string `json:"name"`
	Catches  string `json:"catches"` // "L" or "R"

	GamesPlayed int `json:"games_played"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	OTLosses    int `json:"ot_losses"`

	ShotsFaced   int     `json:"shots_faced"`
	GoalsAgainst int     `json:"goals_against"`
	XGFaced      float64 `json:"xg_faced"`

	// SecondsPlayed backs GAA; counted as full-game appearances.
	SecondsPlayed int `json:"seconds_played"`

	HighDangerFaced int `json:"high_danger_faced"`
	HighDangerGoals int `json:"high_danger_goals"`
	MediumFaced     int `json:"medium_faced"`
	MediumGoals     int `json:"medium_goals"`
	LowFaced        int `json:"low_faced"`
	LowGoals        int `json:"low_goals"`

	GloveShots   int `json:"glove_shots"`
	GloveGoals   int `json:"glove_goals"`
	BlockerShots int `json:"blocker_shots"`
	BlockerGoals int `json:"blocker_goals"`

	CenterShots int `json:"center_shots"`
	CenterGoals int `json:"center_goals"`
	AcuteShots  int `json:"acute_shots"`
	AcuteGoals  int `json:"acute_goals"`

	EvenShots      int `json:"even_shots"`
	EvenGoals      int `json:"even_goals"`
	PPAgainstShots int `json:"pp_against_shots"`
	PPAgainstGoals int `json:"pp_against_goals"`
	OwnPPShots     int `json:"own_pp_shots"`
	OwnPPGoals     int `json:"own_pp_goals"`

	ReboundsFaced int `json:"rebounds_faced"`
	ReboundGoals  int `json:"rebound_goals"`

	// Recent is a bounded log of per-game records, newest last. Recent-form
	// splits are recomputed from it on demand, never maintained incrementally.
	Recent []GoalieGameRecord `json:"recent"`
}

// SavePct returns the season save percentage (0..1).
func (g *GoalieSeason) SavePct() float64 {
	if g.ShotsFaced == 0 {
		return 0
	}
	return float64(g.ShotsFaced-g.GoalsAgainst) / float64(g.ShotsFaced)
}

// GAA returns goals against per sixty minutes.
func (g *GoalieSeason) GAA() float64 {
	if g.SecondsPlayed == 0 {
		return 0
	}
	return float64(g.GoalsAgainst) * 3600 / float64(g.SecondsPlayed)
}

// GSAx returns goals saved above expected: cumulative xG faced minus goals.
func (g *GoalieSeason) GSAx() float64 {
	return g.XGFaced - float64(g.GoalsAgainst)
}

// HighDangerSavePct returns the save percentage on high-danger shots (0..1).
func (g *GoalieSeason) HighDangerSavePct() float64 {
	if g.HighDangerFaced == 0 {
		return 0
	}
	return float64(g.HighDangerFaced-g.HighDangerGoals) / float64(g.HighDangerFaced)
}

// RecentForm summarizes the goalie's last n games from the stored log.
type RecentForm struct {
	Games        int
	Wins         int
	ShotsFaced   int
	GoalsAgainst int
	XGFaced      float64
}

// SavePct returns the recent-form save percentage (0..1).
func (f RecentForm) SavePct() float64 {
	if f.ShotsFaced == 0 {
		return 0
	}
	return float64(f.ShotsFaced-f.GoalsAgainst) / float64(f.ShotsFaced)
}

// GSAx returns the recent-form goals saved above expected.
func (f RecentForm) GSAx() float64 {
	return f.XGFaced - float64(f.GoalsAgainst)
}

// Form recomputes recent form over the last n entries of the stored log.
func (g *GoalieSeason) Form(n int) RecentForm {
	start := len(g.Recent) - n
	if start < 0 {
		start = 0
	}
	var f RecentForm
	for _, rec := range g.Recent[start:] {
		f.Games++
		if rec.Decision == "W" {
			f.Wins++
		}
		f.ShotsFaced += rec.ShotsFaced()
		f.GoalsAgainst += rec.GoalsAgainst()
		f.XGFaced += rec.XGFaced()
	}
	return f
}
