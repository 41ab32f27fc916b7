package patterns

import "github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"

// CycleFlags runs a single forward pass over the event sequence tracking a
// possession-owner variable, and returns a per-event flag that is true for
// shot attempts taken after the owning team has held uninterrupted
// offensive-zone possession for at least the cycle-hold window.
//
// Possession starts when a team produces an event in its offensive zone, and
// resets on any chain terminator, on a zone exit, on a takeaway by the
// opponent, or on the owner's own giveaway in that zone.
func (d *Detector) CycleFlags(events []model.Event) []bool {
	flags := make([]bool, len(events))

	owner := 0
	start := 0

	for i := range events {
		ev := events[i]

		// Flag the shot before applying this event's resets: the hold is
		// measured up to the moment of the shot.
		if owner != 0 && ev.TeamID == owner && ev.Type.IsShotAttempt() &&
			ev.ClockSeconds-start >= d.cfg.CycleHold {
			flags[i] = true
		}

		if IsTerminator(events, i) {
			owner = 0
			continue
		}

		if ev.TeamID == 0 || ev.Zone == model.ZoneUnknown {
			continue
		}

		switch {
		case owner == 0:
			// Offensive-zone touch establishes possession, except a giveaway,
			// which hands the puck over rather than holding it.
			if ev.Zone == model.ZoneOffensive && ev.Type != model.EventGiveaway {
				owner = ev.TeamID
				start = ev.ClockSeconds
			}

		case ev.TeamID == owner:
			if ev.Zone != model.ZoneOffensive {
				owner = 0 // zone exit
			} else if ev.Type == model.EventGiveaway {
				owner = 0 // own giveaway in the zone
			}

		default:
			// Opponent event. A takeaway steals the puck outright; any
			// opponent touch outside the owner's offensive zone means the
			// zone was exited.
			if ev.Type == model.EventTakeaway {
				owner = 0
			} else if ev.Zone.Flip() != model.ZoneOffensive {
				owner = 0
			}
		}
	}

	return flags
}
