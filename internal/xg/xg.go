// Package xg implements the deterministic expected-goal scorer. The value is
// a fixed, auditable heuristic: a distance-bucket base scaled by zone, shot
// type, outcome, and angle multipliers, capped at the configured maximum.
// Identical inputs always produce bit-identical output.
package xg

import (
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/geometry"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

// BlueLineX is the attacking blue line in the attacking frame; used to infer
// a zone code when the feed omits one.
const BlueLineX = 25.0

// Scorer evaluates shot attempts against one weight table.
type Scorer struct {
	w config.Weights
}

// NewScorer returns a scorer using the given weight table.
func NewScorer(w config.Weights) *Scorer {
	return &Scorer{w: w}
}

// Score returns the expected-goal value for a shot attempt at attacking-frame
// coordinates (x, y). zone may be ZoneUnknown, in which case it is inferred
// from x against the blue lines.
func (s *Scorer) Score(x, y float64, zone model.Zone, shotType string, outcome model.EventType) float64 {
	dist := geometry.DistanceToGoal(x, y)

	base := s.w.BaseLong
	for _, b := range s.w.DistanceBuckets {
		if dist <= b.Dist {
			base = b.Base
			break
		}
	}

	if zone == model.ZoneUnknown {
		zone = InferZone(x)
	}

	v := base *
		s.zoneMultiplier(x, y, zone) *
		s.typeMultiplier(shotType) *
		s.outcomeMultiplier(outcome) *
		s.angleMultiplier(geometry.BearingOffAxis(x, y))

	if v > s.w.Cap {
		v = s.w.Cap
	}
	return v
}

// InferZone derives a team-relative zone code from an attacking-frame x.
func InferZone(x float64) model.Zone {
	switch {
	case x >= BlueLineX:
		return model.ZoneOffensive
	case x <= -BlueLineX:
		return model.ZoneDefensive
	default:
		return model.ZoneNeutral
	}
}

func (s *Scorer) zoneMultiplier(x, y float64, zone model.Zone) float64 {
	if geometry.IsHighDanger(x, y) {
		return s.w.ZoneHighDanger
	}
	switch zone {
	case model.ZoneOffensive:
		if geometry.GoodPosition(x, y) {
			return s.w.ZoneGoodPosition
		}
		return s.w.ZoneOffensive
	case model.ZoneNeutral:
		return s.w.ZoneNeutral
	case model.ZoneDefensive:
		return s.w.ZoneDefensive
	}
	return s.w.ZoneOffensive
}

func (s *Scorer) typeMultiplier(shotType string) float64 {
	if m, ok := s.w.ShotType[shotType]; ok {
		return m
	}
	return 1.0
}

func (s *Scorer) outcomeMultiplier(outcome model.EventType) float64 {
	switch outcome {
	case model.EventMissedShot:
		return s.w.OutcomeMissed
	case model.EventBlockedShot:
		return s.w.OutcomeBlocked
	}
	return 1.0
}

// angleMultiplier penalizes attempts taken from far off the rink's long
// axis. Tiers are ordered by descending MinDeg; the first match wins.
func (s *Scorer) angleMultiplier(bearingDeg float64) float64 {
	for _, t := range s.w.AngleTiers {
		if bearingDeg > t.MinDeg {
			return t.Mult
		}
	}
	return 1.0
}
