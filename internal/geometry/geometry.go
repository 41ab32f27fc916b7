// Package geometry provides stateless rink math: attacking-frame transforms,
// distance and angle to the goal, and the high-danger/slot area tests. All
// functions assume a standard 200×85 ft rink with the goal line at x=±89 and
// faceoff dots at y=±22, and operate on attacking-frame coordinates where the
// attack direction is toward +x.
package geometry

import "math"

// Rink constants, in feet. The origin is center ice.
const (
	RinkLength = 200.0
	RinkWidth  = 85.0

	GoalLineX     = 89.0
	GoalMouth     = 6.0
	GoalMouthHalf = GoalMouth / 2

	FaceoffDotY = 22.0
	// FaceoffDotX is the end-zone dot line, 20 ft out from the goal line.
	FaceoffDotX = GoalLineX - 20
)

// High-danger boundary constants.
const (
	highDangerMaxDist = 29.0
	// Lateral bound narrows from ±22 at the dot line to ±11 at the goal line.
	lateralAtDots     = FaceoffDotY
	lateralAtGoalLine = 11.0

	coreSlotDist = 15.0
	coreSlotHalf = 8.0
	mainSlotDist = 20.0
	mainSlotHalf = 12.0
)

// ToAttackingFrame maps raw rink coordinates into the shooting team's
// attacking frame. When the team defends the +x end it attacks −x, so the
// point is reflected through center ice; otherwise coordinates pass through
// unchanged. Raw coordinates must never feed the distance/angle/danger tests
// directly.
func ToAttackingFrame(x, y float64, defendingRight bool) (float64, float64) {
	if defendingRight {
		return -x, -y
	}
	return x, y
}

// DistanceToGoal returns the distance in feet from an attacking-frame point
// to the center of the goal mouth.
func DistanceToGoal(x, y float64) float64 {
	return math.Hypot(GoalLineX-x, y)
}

// ShotAngle returns the angle in degrees subtended by the 6 ft goal mouth as
// seen from an attacking-frame point, via the law of cosines on the distances
// to the two posts. The cosine argument is clamped to [-1,1] to guard
// floating-point overshoot; a point on a post sees the full half-plane.
func ShotAngle(x, y float64) float64 {
	dx := GoalLineX - x
	d1 := math.Hypot(dx, y-GoalMouthHalf)
	d2 := math.Hypot(dx, y+GoalMouthHalf)
	if d1 == 0 || d2 == 0 {
		return 180
	}
	cos := (d1*d1 + d2*d2 - GoalMouth*GoalMouth) / (2 * d1 * d2)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

// AngleOffCenter returns the shooter's angular deviation in degrees from the
// net's center line, measured at the goal mouth. Straight-on shots are 0°.
func AngleOffCenter(x, y float64) float64 {
	return math.Atan2(math.Abs(y), GoalLineX-x) * 180 / math.Pi
}

// BearingOffAxis returns the angle in degrees between the rink's long axis
// and the line from center ice to the attacking-frame point. This is the
// angle term the expected-goal multiplier table is calibrated against.
func BearingOffAxis(x, y float64) float64 {
	if x == 0 && y == 0 {
		return 0
	}
	return math.Atan2(math.Abs(y), x) * 180 / math.Pi
}

// lateralBound interpolates the half-width of the high-danger area linearly
// in x between the dot line (±22) and the goal line (±11), clamped outside
// that span.
func lateralBound(x float64) float64 {
	t := (x - FaceoffDotX) / (GoalLineX - FaceoffDotX)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return lateralAtDots - t*(lateralAtDots-lateralAtGoalLine)
}

// IsHighDanger reports whether an attacking-frame point falls in the
// high-danger area: within 29 ft of the goal center inside the narrowing
// lateral bound, or inside the core slot (15 ft, ±8), or inside the main
// slot (20 ft, ±12).
func IsHighDanger(x, y float64) bool {
	d := DistanceToGoal(x, y)
	ay := math.Abs(y)
	if d <= coreSlotDist && ay <= coreSlotHalf {
		return true
	}
	if d <= mainSlotDist && ay <= mainSlotHalf {
		return true
	}
	return d <= highDangerMaxDist && ay <= lateralBound(x)
}

// IsSlot is the stricter inner test used by the goalie and blocked-shot
// metrics: within 20 ft of the goal line, not behind it, and inside the
// faceoff dots laterally.
func IsSlot(x, y float64) bool {
	return x >= FaceoffDotX && x <= GoalLineX && math.Abs(y) <= FaceoffDotY
}

// GoodPosition reports the looser offensive positioning test used by the
// expected-goal zone multiplier: within 29 ft of the goal and under 25 ft
// off center.
func GoodPosition(x, y float64) bool {
	return DistanceToGoal(x, y) <= highDangerMaxDist && math.Abs(y) < 25
}
