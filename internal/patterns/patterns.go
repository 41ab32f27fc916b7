// Package patterns implements the possession-pattern detectors: rebound,
// cycle, rush, forecheck turnover, and zone-entry classification. Each shot
// flag is computed by its own bounded scan over the in-memory event sequence;
// no flag is ever inferred from another.
package patterns

import (
	"math"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

// BlueLineX is the blue line offset from center ice, in feet.
const BlueLineX = 25.0

// Detector runs the bounded look-back/look-forward scans with one shared set
// of window constants.
type Detector struct {
	cfg config.Detect
}

// NewDetector returns a detector using the given windows.
func NewDetector(cfg config.Detect) *Detector {
	return &Detector{cfg: cfg}
}

// IsTerminator reports whether the event at idx breaks a possession chain and
// halts any backward or forward scan. Goals, period boundaries, penalties,
// and stoppages (offside, icing, puck frozen) always terminate; faceoffs
// terminate unless they are neutral-zone faceoffs during open play.
func IsTerminator(events []model.Event, idx int) bool {
	switch events[idx].Type {
	case model.EventGoal, model.EventPeriodStart, model.EventPeriodEnd,
		model.EventPenalty, model.EventStoppage:
		return true
	case model.EventFaceoff:
		return !isOpenPlayNeutralFaceoff(events, idx)
	}
	return false
}

// isOpenPlayNeutralFaceoff reports whether the faceoff at idx is taken in the
// neutral zone with no dead-ball event immediately before it. Such faceoffs
// restart play mid-flow and do not break a rush.
func isOpenPlayNeutralFaceoff(events []model.Event, idx int) bool {
	ev := events[idx]
	neutral := ev.Zone == model.ZoneNeutral
	if !neutral && ev.HasCoords {
		neutral = math.Abs(ev.X) <= BlueLineX
	}
	if !neutral {
		return false
	}
	if idx == 0 {
		return false
	}
	switch events[idx-1].Type {
	case model.EventGoal, model.EventPenalty, model.EventStoppage,
		model.EventPeriodStart, model.EventPeriodEnd:
		return false
	}
	return true
}

// IsRebound reports whether the shot attempt at shotIdx follows another
// attempt by the same team within the rebound window, with no intervening
// terminator. The scan walks backward and stops at the first event outside
// the window.
func (d *Detector) IsRebound(events []model.Event, shotIdx int) bool {
	shot := events[shotIdx]
	for j := shotIdx - 1; j >= 0; j-- {
		ev := events[j]
		if shot.ClockSeconds-ev.ClockSeconds > d.cfg.ReboundWindow {
			break
		}
		if IsTerminator(events, j) {
			return false
		}
		if ev.Type.IsShotAttempt() && ev.TeamID == shot.TeamID {
			return true
		}
	}
	return false
}

// IsReboundAgainst is the goalie-keyed variant: it looks for a prior attempt
// against the same goalie rather than by the same team.
func (d *Detector) IsReboundAgainst(events []model.Event, shotIdx, goalieID int) bool {
	shot := events[shotIdx]
	for j := shotIdx - 1; j >= 0; j-- {
		ev := events[j]
		if shot.ClockSeconds-ev.ClockSeconds > d.cfg.ReboundWindow {
			break
		}
		if IsTerminator(events, j) {
			return false
		}
		if ev.Type.IsShotAttempt() && ev.GoalieID == goalieID {
			return true
		}
	}
	return false
}

// IsRush reports whether the shot at shotIdx came off the rush: some
// non-terminator event inside the rush window happened in the neutral or
// defensive zone relative to the shooting team. Zone codes on opponent
// events are flipped before the test. The first terminator inside the window
// aborts the scan with "not a rush".
func (d *Detector) IsRush(events []model.Event, shotIdx int) bool {
	shot := events[shotIdx]
	for j := shotIdx - 1; j >= 0; j-- {
		ev := events[j]
		if shot.ClockSeconds-ev.ClockSeconds > d.cfg.RushWindow {
			break
		}
		if IsTerminator(events, j) {
			return false
		}
		zone := ev.Zone
		if zone == model.ZoneUnknown {
			continue
		}
		if ev.TeamID != 0 && ev.TeamID != shot.TeamID {
			zone = zone.Flip()
		}
		if zone == model.ZoneNeutral || zone == model.ZoneDefensive {
			return true
		}
	}
	return false
}

// IsForecheckTurnover reports whether the event is a takeaway in the taking
// team's offensive zone — possession stolen deep in the opponent's end.
func IsForecheckTurnover(ev model.Event) bool {
	return ev.Type == model.EventTakeaway && ev.Zone == model.ZoneOffensive
}
