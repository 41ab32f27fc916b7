package patterns

import (
	"math"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

// PuckEntityID is reserved for the puck in tracking frames.
const PuckEntityID = 1

// Frame is one tracking sample: on-ice entity id → position, in the
// attacking frame of the entering team.
type Frame map[int]model.Point

// ClassifyEntry labels how the attacking team gained the offensive zone for
// one tracking clip. onTeam holds the entity ids of the entering team's
// skaters.
//
// At the frame where the puck crosses the attacking blue line, the nearest
// same-team skater inside the proximity threshold is the possessor. If that
// identity holds through the following frames the entry is a carry; if
// possession moves to a different teammate inside the look-ahead window it is
// a pass; with no possessor at the crossing it is a dump-in. A clip that
// starts inside the zone applies the same test to its first frame.
func (d *Detector) ClassifyEntry(frames []Frame, onTeam map[int]bool) model.EntryType {
	ci, ok := crossingFrame(frames)
	if !ok {
		return model.EntryDump
	}

	possessor := d.possessorAt(frames[ci], onTeam)
	if possessor == 0 {
		return model.EntryDump
	}

	end := ci + d.cfg.EntryWindow
	if end > len(frames)-1 {
		end = len(frames) - 1
	}
	for j := ci + 1; j <= end; j++ {
		p := d.possessorAt(frames[j], onTeam)
		if p != 0 && p != possessor {
			return model.EntryPass
		}
	}
	return model.EntryCarry
}

// crossingFrame returns the index of the first frame with the puck past the
// attacking blue line. A clip that starts in-zone yields frame 0.
func crossingFrame(frames []Frame) (int, bool) {
	for i, f := range frames {
		puck, ok := f[PuckEntityID]
		if !ok {
			continue
		}
		if puck.X >= BlueLineX {
			return i, true
		}
	}
	return 0, false
}

// possessorAt returns the same-team entity nearest the puck within the
// proximity threshold, or 0 if none qualifies.
func (d *Detector) possessorAt(f Frame, onTeam map[int]bool) int {
	puck, ok := f[PuckEntityID]
	if !ok {
		return 0
	}
	best := 0
	bestDist := d.cfg.EntryProximityFt
	for id, pos := range f {
		if id == PuckEntityID || !onTeam[id] {
			continue
		}
		dist := math.Hypot(pos.X-puck.X, pos.Y-puck.Y)
		if dist <= bestDist {
			best = id
			bestDist = dist
		}
	}
	return best
}
