// Package cluster groups goal trajectories into recurring routes using
// density-based clustering over simple path features.
package cluster

import (
	"math"
	"sort"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

// Features summarizes one trajectory's shape.
type Features struct {
	StraightDistance float64 // release to final point
	PathLength       float64 // cumulative segment length
	Curvature        float64 // path length / straight distance, 1.0 for a line
	Lateral          float64 // |Δy| release to final point
	Longitudinal     float64 // |Δx| release to final point
}

// Extract computes the feature set for one trajectory. Fewer than two points
// yields zero features.
func Extract(points []model.Point) Features {
	if len(points) < 2 {
		return Features{}
	}
	first, last := points[0], points[len(points)-1]

	var f Features
	f.StraightDistance = math.Hypot(last.X-first.X, last.Y-first.Y)
	f.Lateral = math.Abs(last.Y - first.Y)
	f.Longitudinal = math.Abs(last.X - first.X)
	for i := 1; i < len(points); i++ {
		f.PathLength += math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
	}
	if f.StraightDistance > 0 {
		f.Curvature = f.PathLength / f.StraightDistance
	} else {
		f.Curvature = 1
	}
	return f
}

// Route is one discovered cluster of trajectories, most common route first
// after ranking.
type Route struct {
	Label        int
	Trajectories []model.Trajectory
	Features     []Features
}

// Size returns the cluster population.
func (r *Route) Size() int { return len(r.Trajectories) }

// Clusterer runs DBSCAN over trajectory vectors.
type Clusterer struct {
	cfg config.Cluster
}

// New returns a clusterer with the given parameters.
func New(cfg config.Cluster) *Clusterer {
	return &Clusterer{cfg: cfg}
}

// vector is the 5-D clustering space: start x,y; end x,y; scaled curvature.
func (c *Clusterer) vector(points []model.Point, f Features) [5]float64 {
	first, last := points[0], points[len(points)-1]
	return [5]float64{
		first.X, first.Y,
		last.X, last.Y,
		(f.Curvature - 1) * c.cfg.CurvatureScale,
	}
}

func dist(a, b [5]float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

const (
	labelUnvisited = 0
	labelNoise     = -1
)

// Cluster groups the given trajectories into routes ranked by population.
// Trajectories with fewer than two points and DBSCAN noise points are
// excluded. An empty input returns an empty slice.
func (c *Clusterer) Cluster(ts []model.Trajectory) []Route {
	// Keep only trajectories with a usable path.
	var usable []model.Trajectory
	var feats []Features
	var vecs [][5]float64
	for _, t := range ts {
		if len(t.Points) < 2 {
			continue
		}
		f := Extract(t.Points)
		usable = append(usable, t)
		feats = append(feats, f)
		vecs = append(vecs, c.vector(t.Points, f))
	}
	if len(usable) == 0 {
		return nil
	}

	labels := make([]int, len(usable))
	next := 0
	for i := range usable {
		if labels[i] != labelUnvisited {
			continue
		}
		neighbors := c.regionQuery(vecs, i)
		if len(neighbors) < c.cfg.MinSamples {
			labels[i] = labelNoise
			continue
		}
		next++
		c.expand(vecs, labels, i, neighbors, next)
	}

	byLabel := make(map[int]*Route)
	for i, lab := range labels {
		if lab == labelNoise {
			continue
		}
		r, ok := byLabel[lab]
		if !ok {
			r = &Route{Label: lab}
			byLabel[lab] = r
		}
		r.Trajectories = append(r.Trajectories, usable[i])
		r.Features = append(r.Features, feats[i])
	}

	routes := make([]Route, 0, len(byLabel))
	for _, r := range byLabel {
		routes = append(routes, *r)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Size() != routes[j].Size() {
			return routes[i].Size() > routes[j].Size()
		}
		return routes[i].Label < routes[j].Label
	})
	return routes
}

// regionQuery returns indices within eps of point i, including i itself.
func (c *Clusterer) regionQuery(vecs [][5]float64, i int) []int {
	var out []int
	for j := range vecs {
		if dist(vecs[i], vecs[j]) <= c.cfg.Eps {
			out = append(out, j)
		}
	}
	return out
}

// expand grows cluster lab from a core point's neighborhood.
func (c *Clusterer) expand(vecs [][5]float64, labels []int, i int, neighbors []int, lab int) {
	labels[i] = lab
	for k := 0; k < len(neighbors); k++ {
		j := neighbors[k]
		if labels[j] == labelNoise {
			labels[j] = lab // border point
			continue
		}
		if labels[j] != labelUnvisited {
			continue
		}
		labels[j] = lab
		more := c.regionQuery(vecs, j)
		if len(more) >= c.cfg.MinSamples {
			neighbors = append(neighbors, more...)
		}
	}
}
