package cluster

import (
	"math"
	"testing"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

func newClusterer() *Clusterer {
	return New(config.Default().Cluster)
}

// traj builds a trajectory offset from a base path to seed dense groups.
func traj(id int, dx, dy float64, base ...model.Point) model.Trajectory {
	pts := make([]model.Point, len(base))
	for i, p := range base {
		pts[i] = model.Point{X: p.X + dx, Y: p.Y + dy}
	}
	return model.Trajectory{GameID: "g", EventIdx: id, Points: pts}
}

var (
	rushRoute  = []model.Point{{X: 20, Y: 0}, {X: 50, Y: 2}, {X: 85, Y: 3}}
	pointShot  = []model.Point{{X: 30, Y: 25}, {X: 55, Y: 15}, {X: 86, Y: -1}}
	outlierWay = []model.Point{{X: 60, Y: -40}, {X: 70, Y: -38}, {X: 88, Y: -20}}
)

func TestExtractFeatures(t *testing.T) {
	pts := []model.Point{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 6, Y: 8}}
	f := Extract(pts)
	if f.StraightDistance != 10 {
		t.Errorf("straight = %v, want 10", f.StraightDistance)
	}
	if f.PathLength != 10 {
		t.Errorf("path = %v, want 10", f.PathLength)
	}
	if f.Curvature != 1 {
		t.Errorf("curvature = %v, want 1 for a straight line", f.Curvature)
	}
	if f.Lateral != 8 || f.Longitudinal != 6 {
		t.Errorf("displacement = (%v, %v), want (6, 8) long/lat swapped?",
			f.Longitudinal, f.Lateral)
	}
}

func TestExtractCurvedPath(t *testing.T) {
	// Out 10 and back 10 along x; straight distance is zero-length avoided
	// by an end offset.
	pts := []model.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}}
	f := Extract(pts)
	want := 15 / math.Hypot(10, 5)
	if math.Abs(f.Curvature-want) > 1e-12 {
		t.Errorf("curvature = %v, want %v", f.Curvature, want)
	}
}

func TestExtractDegenerate(t *testing.T) {
	if f := Extract(nil); f != (Features{}) {
		t.Errorf("nil points should give zero features: %+v", f)
	}
	if f := Extract([]model.Point{{X: 5, Y: 5}}); f != (Features{}) {
		t.Errorf("single point should give zero features: %+v", f)
	}
	// Closed loop: start == end, curvature defaults to 1.
	loop := Extract([]model.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 0, Y: 0}})
	if loop.Curvature != 1 {
		t.Errorf("closed-loop curvature = %v, want 1", loop.Curvature)
	}
}

func TestClusterEmptyInput(t *testing.T) {
	if got := newClusterer().Cluster(nil); len(got) != 0 {
		t.Fatalf("empty input should yield no routes, got %d", len(got))
	}
}

func TestClusterSingleTrajectoryIsNoise(t *testing.T) {
	got := newClusterer().Cluster([]model.Trajectory{traj(1, 0, 0, rushRoute...)})
	if len(got) != 0 {
		t.Fatalf("single trajectory below min-samples must be noise, got %d routes", len(got))
	}
}

func TestClusterGroupsAndRanks(t *testing.T) {
	var ts []model.Trajectory
	// Five near-identical rush routes, three point shots, one outlier.
	for i := 0; i < 5; i++ {
		ts = append(ts, traj(i, float64(i), 0.5*float64(i), rushRoute...))
	}
	for i := 0; i < 3; i++ {
		ts = append(ts, traj(100+i, float64(i), -float64(i), pointShot...))
	}
	ts = append(ts, traj(999, 0, 0, outlierWay...))

	routes := newClusterer().Cluster(ts)
	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
	if routes[0].Size() != 5 || routes[1].Size() != 3 {
		t.Errorf("sizes = %d, %d; want 5, 3 (ranked by population)",
			routes[0].Size(), routes[1].Size())
	}
	total := routes[0].Size() + routes[1].Size()
	if total != 8 {
		t.Errorf("outlier should be excluded as noise: %d clustered", total)
	}
	for _, r := range routes {
		if len(r.Features) != len(r.Trajectories) {
			t.Errorf("features not aligned with trajectories in route %d", r.Label)
		}
	}
}

func TestClusterSkipsDegenerateTrajectories(t *testing.T) {
	ts := []model.Trajectory{
		{GameID: "g", EventIdx: 1, Points: []model.Point{{X: 1, Y: 1}}},
		{GameID: "g", EventIdx: 2},
	}
	if got := newClusterer().Cluster(ts); len(got) != 0 {
		t.Fatalf("degenerate trajectories should be dropped, got %d routes", len(got))
	}
}
