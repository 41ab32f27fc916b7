package geometry

import (
	"math"
	"testing"
)

func TestToAttackingFrame(t *testing.T) {
	// Team defending the +x end attacks -x: point is reflected through center.
	x, y := ToAttackingFrame(-60, 15, true)
	if x != 60 || y != -15 {
		t.Errorf("expected (60,-15), got (%g,%g)", x, y)
	}

	// Team defending the -x end attacks +x: unchanged.
	x, y = ToAttackingFrame(-60, 15, false)
	if x != -60 || y != 15 {
		t.Errorf("expected (-60,15), got (%g,%g)", x, y)
	}
}

func TestDistanceToGoal_WorkedExample(t *testing.T) {
	// (85,2): sqrt((89-85)^2 + 2^2) = sqrt(20) ≈ 4.47.
	d := DistanceToGoal(85, 2)
	if math.Abs(d-math.Sqrt(20)) > 1e-9 {
		t.Errorf("expected sqrt(20), got %g", d)
	}
}

func TestShotAngle_CenterPointVsSlot(t *testing.T) {
	// Straight on from 30 ft: mouth subtends 2*atan(3/30) ≈ 11.42°.
	want := 2 * math.Atan(GoalMouthHalf/30) * 180 / math.Pi
	got := ShotAngle(GoalLineX-30, 0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %.4f°, got %.4f°", want, got)
	}

	// Closer shots subtend a wider angle.
	if ShotAngle(85, 0) <= ShotAngle(60, 0) {
		t.Error("expected subtended angle to grow as the shot gets closer")
	}
}

func TestShotAngle_OnPost(t *testing.T) {
	if got := ShotAngle(GoalLineX, GoalMouthHalf); got != 180 {
		t.Errorf("expected 180° on the post, got %g", got)
	}
}

func TestShotAngle_ClampsFarShots(t *testing.T) {
	// From the far corner the cosine argument can overshoot 1 by float error;
	// the result must still be a valid small angle, never NaN.
	got := ShotAngle(-89, 42)
	if math.IsNaN(got) || got < 0 {
		t.Errorf("expected a valid angle, got %g", got)
	}
}

func TestIsHighDanger_CoreAndMainSlot(t *testing.T) {
	cases := []struct {
		x, y float64
		want bool
	}{
		{85, 2, true},   // worked example: core slot
		{76, 7, true},   // core slot edge
		{74, 11, true},  // main slot
		{62, 5, true},   // 27.5 ft out, inside the wide part of the bound
		{59, 0, false},  // 30 ft straight on, past the distance boundary
		{75, 19, false}, // wide of the narrowing bound at that depth
		{40, 0, false},  // point shot
		{85, 20, false}, // near the goal line but far wide
	}
	for _, c := range cases {
		if got := IsHighDanger(c.x, c.y); got != c.want {
			t.Errorf("IsHighDanger(%g,%g) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestIsHighDanger_Exactly29FtStraightOn(t *testing.T) {
	// d = 29 exactly, y = 0 is inside the lateral bound and at the distance
	// boundary, which is inclusive.
	if !IsHighDanger(GoalLineX-29, 0) {
		t.Error("expected the 29 ft straight-on boundary to be high danger")
	}
}

// High danger must imply distance ≤ 29 ft everywhere on the rink.
func TestHighDangerImpliesClose(t *testing.T) {
	for x := -89.0; x <= 89.0; x += 0.5 {
		for y := -42.0; y <= 42.0; y += 0.5 {
			if IsHighDanger(x, y) && DistanceToGoal(x, y) > highDangerMaxDist+1e-9 {
				t.Fatalf("high danger at (%g,%g) but distance %.2f > 29", x, y, DistanceToGoal(x, y))
			}
		}
	}
}

func TestLateralBoundNarrows(t *testing.T) {
	if got := lateralBound(FaceoffDotX); got != lateralAtDots {
		t.Errorf("bound at dot line = %g, want %g", got, lateralAtDots)
	}
	if got := lateralBound(GoalLineX); got != lateralAtGoalLine {
		t.Errorf("bound at goal line = %g, want %g", got, lateralAtGoalLine)
	}
	mid := lateralBound((FaceoffDotX + GoalLineX) / 2)
	if math.Abs(mid-16.5) > 1e-9 {
		t.Errorf("bound at midpoint = %g, want 16.5", mid)
	}
	// Clamped outside the span.
	if got := lateralBound(50); got != lateralAtDots {
		t.Errorf("bound below dot line = %g, want %g", got, lateralAtDots)
	}
}

func TestIsSlot(t *testing.T) {
	if !IsSlot(80, 10) {
		t.Error("expected (80,10) in slot")
	}
	if IsSlot(60, 0) {
		t.Error("expected (60,0) outside slot (too far out)")
	}
	if IsSlot(80, 30) {
		t.Error("expected (80,30) outside slot (too wide)")
	}
	if IsSlot(92, 0) {
		t.Error("expected behind the goal line to be outside the slot")
	}
}

func TestBearingOffAxis(t *testing.T) {
	if got := BearingOffAxis(85, 2); got > 2 {
		t.Errorf("near-axis shot should have a small bearing, got %g", got)
	}
	if got := BearingOffAxis(30, 30); math.Abs(got-45) > 1e-9 {
		t.Errorf("expected 45°, got %g", got)
	}
	if got := BearingOffAxis(0, 0); got != 0 {
		t.Errorf("expected 0 at center ice, got %g", got)
	}
}
