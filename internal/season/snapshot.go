package season

import "github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"

// Snapshot is the serializable form of the accumulator: cumulative rows plus
// the processed-game-id set. Deserializing a snapshot reproduces totals and
// the id set exactly.
type Snapshot struct {
	Teams     []model.TeamSeason   `json:"teams"`
	Goalies   []model.GoalieSeason `json:"goalies"`
	Processed []string             `json:"processed_games"`
}

// Snapshot captures the current state with deterministic ordering.
func (a *Accumulator) Snapshot() Snapshot {
	return Snapshot{
		Teams:     a.Teams(),
		Goalies:   a.Goalies(),
		Processed: a.ProcessedIDs(),
	}
}

// FromSnapshot rebuilds an accumulator from a snapshot.
func FromSnapshot(s Snapshot) *Accumulator {
	a := New()
	for i := range s.Teams {
		t := s.Teams[i]
		a.teams[t.TeamID] = &t
	}
	for i := range s.Goalies {
		g := s.Goalies[i]
		a.goalies[g.GoalieID] = &g
	}
	for _, id := range s.Processed {
		a.processed[id] = struct{}{}
	}
	return a
}
