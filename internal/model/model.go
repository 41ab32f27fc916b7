// Package model defines the event-level and derived types shared by the
// geometry, pattern, and aggregation layers.
package model

// EventType identifies a play-by-play event.
type EventType string

const (
	EventShotOnGoal  EventType = "shot-on-goal"
	EventMissedShot  EventType = "missed-shot"
	EventBlockedShot EventType = "blocked-shot"
	EventGoal        EventType = "goal"
	EventGiveaway    EventType = "giveaway"
	EventTakeaway    EventType = "takeaway"
	EventFaceoff     EventType = "faceoff"
	EventPenalty     EventType = "penalty"
	EventHit         EventType = "hit"
	EventStoppage    EventType = "stoppage"
	EventPeriodStart EventType = "period-start"
	EventPeriodEnd   EventType = "period-end"
)

// IsShotAttempt reports whether the event is any shot attempt (Corsi event).
func (t EventType) IsShotAttempt() bool {
	switch t {
	case EventShotOnGoal, EventMissedShot, EventBlockedShot, EventGoal:
		return true
	}
	return false
}

// Zone is a team-relative zone code as reported in the play-by-play feed.
type Zone byte

const (
	ZoneUnknown   Zone = 0
	ZoneOffensive Zone = 'O'
	ZoneNeutral   Zone = 'N'
	ZoneDefensive Zone = 'D'
)

func (z Zone) String() string {
	switch z {
	case ZoneOffensive:
		return "O"
	case ZoneNeutral:
		return "N"
	case ZoneDefensive:
		return "D"
	default:
		return "?"
	}
}

// Flip returns the same physical zone seen from the opposing team.
func (z Zone) Flip() Zone {
	switch z {
	case ZoneOffensive:
		return ZoneDefensive
	case ZoneDefensive:
		return ZoneOffensive
	default:
		return z
	}
}

// PeriodSeconds is the regulation length of one period.
const PeriodSeconds = 1200

// Event is one play-by-play entry. Idx is the position in the game's event
// sequence; ClockSeconds is absolute game time, (period-1)*1200 + elapsed.
type Event struct {
	Idx          int
	Type         EventType
	TeamID       int // 0 when the feed attributes the event to no team
	Period       int
	ClockSeconds int

	X, Y      float64
	HasCoords bool
	Zone      Zone // relative to TeamID; ZoneUnknown when absent

	ShotType      string
	ShooterID     int
	GoalieID      int // goalie in net for shot attempts
	BlockerID     int
	SituationCode string // feed skater-count code, e.g. "1551"
}

// Game is one game bundle: identity, final score, the ordered event sequence,
// and the per-period defending-side map needed to interpret raw coordinates.
type Game struct {
	ID         string
	Season     string
	Date       string
	HomeID     int
	AwayID     int
	HomeAbbrev string
	AwayAbbrev string
	HomeScore  int
	AwayScore  int
	EndedInOT  bool

	Events []Event

	// HomeDefendsRight maps period number to whether the home team defends
	// the +x end in that period.
	HomeDefendsRight map[int]bool
}

// DefendingRight reports which end the given team defends in a period.
func (g *Game) DefendingRight(teamID, period int) bool {
	right := g.HomeDefendsRight[period]
	if teamID == g.AwayID {
		return !right
	}
	return right
}

// Opponent returns the team id opposing teamID.
func (g *Game) Opponent(teamID int) int {
	if teamID == g.HomeID {
		return g.AwayID
	}
	return g.HomeID
}

// Abbrev returns the abbreviation for a team id in this game.
func (g *Game) Abbrev(teamID int) string {
	if teamID == g.AwayID {
		return g.AwayAbbrev
	}
	return g.HomeAbbrev
}

// Shot is a shot-attempt event with its derived classification. Computed once
// per event by the derivation pass and immutable afterward.
type Shot struct {
	EventIdx     int
	TeamID       int
	ShooterID    int
	GoalieID     int
	Period       int
	ClockSeconds int

	// Attacking-frame coordinates (attack toward +x). Zero and meaningless
	// when HasCoords is false.
	X, Y      float64
	HasCoords bool
	Zone      Zone

	ShotType string
	Outcome  EventType

	Distance   float64
	Angle      float64 // degrees subtended by the goal mouth
	HighDanger bool
	Slot       bool
	XG         float64

	Rush    bool
	Cycle   bool
	Rebound bool
}

// OnGoal reports whether the attempt reached the net (save or goal).
func (s *Shot) OnGoal() bool {
	return s.Outcome == EventShotOnGoal || s.Outcome == EventGoal
}

// IsGoal reports whether the attempt scored.
func (s *Shot) IsGoal() bool { return s.Outcome == EventGoal }

// EntryType classifies how a team gained the offensive zone.
type EntryType string

const (
	EntryCarry EntryType = "carry"
	EntryPass  EntryType = "pass"
	EntryDump  EntryType = "dump"
)

// TeamGameMetrics holds one team's aggregated counters for one game.
// Immutable once computed; keyed by (GameID, TeamID) for idempotent
// reprocessing.
type TeamGameMetrics struct {
	GameID   string
	TeamID   int
	Abbrev   string
	Opponent string
	Venue    string // "home" or "away"
	Won      bool
	OTLoss   bool

	GoalsFor     int
	GoalsAgainst int
	ShotsOnGoal  int
	CorsiFor     int
	CorsiAgainst int

	XGFor     float64
	XGAgainst float64

	HighDangerFor     int
	HighDangerAgainst int
	SlotShots         int

	RushShots    int
	CycleShots   int
	ReboundShots int

	ForecheckTurnovers int
	Takeaways          int

	// Giveaways split by the zone the puck was lost in, team-relative.
	OffZoneGiveaways int
	NeutralGiveaways int
	DefZoneGiveaways int

	FaceoffWins   int
	FaceoffsTaken int

	EntriesCarry int
	EntriesPass  int
	EntriesDump  int
}

// CorsiForPct returns shot-attempt share in percent.
func (m *TeamGameMetrics) CorsiForPct() float64 {
	total := m.CorsiFor + m.CorsiAgainst
	if total == 0 {
		return 0
	}
	return float64(m.CorsiFor) / float64(total) * 100
}

// FaceoffPct returns the faceoff win rate in percent.
func (m *TeamGameMetrics) FaceoffPct() float64 {
	if m.FaceoffsTaken == 0 {
		return 0
	}
	return float64(m.FaceoffWins) / float64(m.FaceoffsTaken) * 100
}

// DangerTier buckets a shot against by threat level.
type DangerTier string

const (
	DangerHigh   DangerTier = "high"
	DangerMedium DangerTier = "medium"
	DangerLow    DangerTier = "low"
)

// AngleTier splits shots against into central and acute-angle attempts.
type AngleTier string

const (
	AngleCenter AngleTier = "center"
	AngleAcute  AngleTier = "acute"
)

// Side is the half of the net a shot against targets, from the goalie's view.
type Side string

const (
	SideGlove   Side = "glove"
	SideBlocker Side = "blocker"
)

// Strength is the man-power situation from the defending goalie's view.
type Strength string

const (
	StrengthEven      Strength = "even"
	StrengthPPAgainst Strength = "pp-against" // opponent on the power play
	StrengthOwnPP     Strength = "own-pp"     // goalie's team on the power play
)

// ShotAgainst is one entry in a goalie's per-game shot log.
type ShotAgainst struct {
	EventIdx  int        `json:"event_idx"`
	Danger    DangerTier `json:"danger"`
	Angle     AngleTier  `json:"angle"`
	Side      Side       `json:"side"`
	Situation Strength   `json:"situation"`
	ShotType  string     `json:"shot_type"`
	Rebound   bool       `json:"rebound"`
	Goal      bool       `json:"goal"`
	Distance  float64    `json:"distance"`
	XG        float64    `json:"xg"`
}

// GoalieGameRecord is one goalie's log for one game. Never produced for a
// goalie who faced no shots.
type GoalieGameRecord struct {
	GameID   string        `json:"game_id"`
	GoalieID int           `json:"goalie_id"`
	Name     string        `json:"name"`
	Catches  string        `json:"catches"`
	TeamID   int           `json:"team_id"`
	Opponent string        `json:"opponent"`
	Venue    string        `json:"venue"`
	Decision string        `json:"decision"` // "W", "L", "OTL", or ""
	Shots    []ShotAgainst `json:"shots"`
}

// ShotsFaced returns the number of on-goal attempts in the log.
func (r *GoalieGameRecord) ShotsFaced() int { return len(r.Shots) }

// GoalsAgainst returns goals allowed in the log.
func (r *GoalieGameRecord) GoalsAgainst() int {
	n := 0
	for _, s := range r.Shots {
		if s.Goal {
			n++
		}
	}
	return n
}

// XGFaced returns cumulative expected goals faced.
func (r *GoalieGameRecord) XGFaced() float64 {
	x := 0.0
	for _, s := range r.Shots {
		x += s.XG
	}
	return x
}

// GameSummary is a lightweight record for list output.
type GameSummary struct {
	ID        string
	Date      string
	Home      string
	Away      string
	HomeScore int
	AwayScore int
}

// Point is one puck position sample in the attacking frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trajectory is the per-second puck path for one goal, release to net.
type Trajectory struct {
	GameID   string  `json:"game_id"`
	EventIdx int     `json:"event_idx"`
	TeamID   int     `json:"team_id"`
	Points   []Point `json:"points"`
}
