// Package goalie classifies shots against each goalie and builds the
// per-game records the season accumulator merges. Derived rates are never
// stored here; they are recomputed from raw counts by the model types.
package goalie

import (
	"log/slog"
	"sort"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/geometry"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/patterns"
)

// mediumDangerDist is the outer boundary of the medium danger tier, in feet.
const mediumDangerDist = 35.0

// HandLookup resolves a goalie's catching hand and display name. The engine
// backs this with the player-metadata client, cached for the process
// lifetime.
type HandLookup interface {
	Catches(playerID int) (name, hand string, err error)
}

// Extractor builds goalie game records from derived shots.
type Extractor struct {
	det    *patterns.Detector
	cfg    config.Detect
	lookup HandLookup
	log    *slog.Logger
}

// New returns an extractor sharing the deriver's detector windows.
func New(det *patterns.Detector, cfg config.Detect, lookup HandLookup, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{det: det, cfg: cfg, lookup: lookup, log: log}
}

// Extract builds one record per goalie who faced at least one on-goal
// attempt. A goalie with zero shots against produces no record.
func (e *Extractor) Extract(g *model.Game, shots []model.Shot) []model.GoalieGameRecord {
	records := make(map[int]*model.GoalieGameRecord)

	for _, s := range shots {
		if !s.OnGoal() || s.GoalieID == 0 {
			continue
		}
		rec := records[s.GoalieID]
		if rec == nil {
			rec = e.newRecord(g, &s)
			records[s.GoalieID] = rec
		}
		rec.Shots = append(rec.Shots, e.classify(g, &s, rec))
	}

	out := make([]model.GoalieGameRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GoalieID < out[j].GoalieID })
	return out
}

func (e *Extractor) newRecord(g *model.Game, s *model.Shot) *model.GoalieGameRecord {
	// The goalie defends against the shooting team, so plays for its opponent.
	teamID := g.Opponent(s.TeamID)
	rec := &model.GoalieGameRecord{
		GameID:   g.ID,
		GoalieID: s.GoalieID,
		TeamID:   teamID,
		Opponent: g.Abbrev(s.TeamID),
		Venue:    "home",
		Decision: decision(g, teamID),
	}
	if teamID == g.AwayID {
		rec.Venue = "away"
	}
	if name, hand, err := e.lookup.Catches(s.GoalieID); err == nil {
		rec.Name = name
		rec.Catches = hand
	} else {
		e.log.Warn("goalie metadata lookup failed", "goalie", s.GoalieID, "err", err)
	}
	return rec
}

func (e *Extractor) classify(g *model.Game, s *model.Shot, rec *model.GoalieGameRecord) model.ShotAgainst {
	sa := model.ShotAgainst{
		EventIdx:  s.EventIdx,
		Danger:    model.DangerLow,
		Angle:     model.AngleAcute,
		ShotType:  s.ShotType,
		Goal:      s.IsGoal(),
		Distance:  s.Distance,
		XG:        s.XG,
		Situation: e.situation(g, rec.TeamID, s.EventIdx),
		Rebound:   e.det.IsReboundAgainst(g.Events, s.EventIdx, s.GoalieID),
		Side:      e.side(g, rec, s),
	}
	if s.HasCoords {
		switch {
		case s.HighDanger:
			sa.Danger = model.DangerHigh
		case s.Distance <= mediumDangerDist:
			sa.Danger = model.DangerMedium
		}
		if geometry.AngleOffCenter(s.X, s.Y) <= e.cfg.CenterAngleDeg {
			sa.Angle = model.AngleCenter
		}
	}
	return sa
}

// side determines glove or blocker from the raw (untransformed) lateral
// coordinate: a left-catching goalie defending the right end has the glove on
// the +y side, and the test inverts when defending the left end.
func (e *Extractor) side(g *model.Game, rec *model.GoalieGameRecord, s *model.Shot) model.Side {
	_, hand, err := e.lookup.Catches(rec.GoalieID)
	if err != nil || hand == "" {
		hand = "L" // league-wide default
	}
	ev := g.Events[s.EventIdx]
	if !ev.HasCoords {
		return model.SideGlove
	}
	glove := (ev.Y > 0) == (hand == "L")
	if !g.DefendingRight(rec.TeamID, s.Period) {
		glove = !glove
	}
	if glove {
		return model.SideGlove
	}
	return model.SideBlocker
}

// situation reads the feed's skater-count code from the defending team's
// side: more opposing skaters means a power play against.
func (e *Extractor) situation(g *model.Game, teamID, eventIdx int) model.Strength {
	code := g.Events[eventIdx].SituationCode
	if len(code) != 4 {
		return model.StrengthEven
	}
	awaySkaters := int(code[1] - '0')
	homeSkaters := int(code[2] - '0')
	own, opp := homeSkaters, awaySkaters
	if teamID == g.AwayID {
		own, opp = awaySkaters, homeSkaters
	}
	switch {
	case opp > own:
		return model.StrengthPPAgainst
	case own > opp:
		return model.StrengthOwnPP
	default:
		return model.StrengthEven
	}
}

func decision(g *model.Game, teamID int) string {
	gf, ga := g.HomeScore, g.AwayScore
	if teamID == g.AwayID {
		gf, ga = ga, gf
	}
	switch {
	case gf > ga:
		return "W"
	case g.EndedInOT:
		return "OTL"
	default:
		return "L"
	}
}
