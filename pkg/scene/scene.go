// Package scene owns the mutable state of a running gallery: the target
// arena, hit testing and the per-frame visible sets handed to the renderer.
package scene

import (
	"context"
	"fmt"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/gallery/pkg/level"
	"github.com/taigrr/gallery/pkg/math3d"
	"github.com/taigrr/gallery/pkg/spatial"
)

// fallenAngle is the tilt in degrees after which a dead target is no longer
// drawn.
const fallenAngle = 88

// Target is one shootable board. Its index in Scene.Targets never changes.
type Target struct {
	Dead      bool
	Position  math3d.Vec3 // grid coordinate of the tile
	Bounds    spatial.BoundingBox
	Transform math3d.Mat4

	rest     math3d.Mat4
	pivot    math3d.Vec3
	tilt     float64 // degrees
	tiltVel  float64
	material string
}

// Fallen reports whether the target has finished falling over.
func (t *Target) Fallen() bool {
	return t.Dead && t.tilt >= fallenAngle
}

func (t *Target) pose() {
	m := math3d.Translate(t.pivot).
		Mul(math3d.RotateX(-math3d.Radians(t.tilt))).
		Mul(math3d.Translate(t.pivot.Negate())).
		Mul(t.rest)
	t.Transform = m
	t.Bounds = level.UnitBox.Transform(m)
}

// VisibleSet is what survives culling for one category. Transforms and
// Materials are filtered with the same indices.
type VisibleSet struct {
	Transforms []math3d.Mat4
	Materials  []string
}

// Frame is the culled scene for one camera pose.
type Frame struct {
	Sets  [level.NumCategories]VisibleSet
	Stats spatial.Stats
}

// Scene is the arena of targets plus the static level they stand in.
// It is not safe for concurrent use; the frame loop owns it.
type Scene struct {
	Level   *level.Level
	Targets []Target

	// Workers bounds the goroutines used when culling large categories.
	// Zero means GOMAXPROCS.
	Workers int

	score  int
	shots  int
	spring harmonica.Spring
	order  [level.NumCategories][]int
}

// New builds a scene with one target per target tile of lv. fps drives the
// fall animation.
func New(lv *level.Level, fps int) *Scene {
	s := &Scene{
		Level:  lv,
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.4),
	}

	in := lv.Instances(level.CategoryTarget)
	s.Targets = make([]Target, in.Len())
	for i := range s.Targets {
		b := in.Bounds[i]
		s.Targets[i] = Target{
			Position:  lv.Targets[i],
			Bounds:    b,
			Transform: in.Transforms[i],
			rest:      in.Transforms[i],
			pivot:     math3d.V3(b.Center.X, b.Min.Y, b.Center.Z),
			material:  in.Materials[i],
		}
	}

	for c := range level.NumCategories {
		if c == level.CategoryTarget {
			continue
		}
		s.order[c] = indexRange(lv.Instances(c).Len())
	}
	return s
}

// Shoot resolves a shot along r. The nearest alive target whose box the ray
// hits is marked dead and its index returned; -1 means a miss.
func (s *Scene) Shoot(r spatial.Ray) int {
	s.shots++

	hit, best := -1, 0.0
	for i := range s.Targets {
		t := &s.Targets[i]
		if t.Dead || !t.Bounds.IntersectsRay(r) {
			continue
		}
		d := t.Bounds.Center.Sub(r.Origin).LenSq()
		if hit < 0 || d < best {
			hit, best = i, d
		}
	}
	if hit >= 0 {
		s.Targets[hit].Dead = true
		s.score++
	}
	return hit
}

// Update advances the fall animation of dead targets by one frame.
func (s *Scene) Update() {
	for i := range s.Targets {
		t := &s.Targets[i]
		if !t.Dead || t.tilt >= 90 {
			continue
		}
		t.tilt, t.tiltVel = s.spring.Update(t.tilt, t.tiltVel, 90)
		if t.tilt > 90 {
			t.tilt, t.tiltVel = 90, 0
		}
		t.pose()
	}
}

// Alive returns the number of targets still standing.
func (s *Scene) Alive() int {
	n := 0
	for i := range s.Targets {
		if !s.Targets[i].Dead {
			n++
		}
	}
	return n
}

// Score returns the number of targets hit.
func (s *Scene) Score() int { return s.score }

// Shots returns the number of shots fired.
func (s *Scene) Shots() int { return s.shots }

// Cleared reports whether every target has been hit.
func (s *Scene) Cleared() bool {
	return len(s.Targets) > 0 && s.Alive() == 0
}

// Reset stands every target back up and clears the score.
func (s *Scene) Reset() {
	for i := range s.Targets {
		t := &s.Targets[i]
		t.Dead, t.tilt, t.tiltVel = false, 0, 0
		t.pose()
	}
	s.score, s.shots = 0, 0
}

// Visible culls every category against f. Static categories come from the
// level; targets are taken from the arena, skipping those that have fallen.
func (s *Scene) Visible(ctx context.Context, f *spatial.Frustum) (*Frame, error) {
	fr := &Frame{}

	for c := range level.NumCategories {
		if c == level.CategoryTarget {
			continue
		}
		in := s.Level.Instances(c)
		idx, err := spatial.CullParallel(ctx, f, s.order[c], in.Bounds, s.Workers)
		if err != nil {
			return nil, fmt.Errorf("cull %s: %w", c, err)
		}
		fr.Sets[c] = VisibleSet{
			Transforms: spatial.Select(in.Transforms, idx),
			Materials:  spatial.Select(in.Materials, idx),
		}
		fr.Stats.Add(in.Len(), len(idx))
	}

	var (
		transforms []math3d.Mat4
		bounds     []spatial.BoundingBox
		materials  []string
	)
	for i := range s.Targets {
		t := &s.Targets[i]
		if t.Fallen() {
			continue
		}
		transforms = append(transforms, t.Transform)
		bounds = append(bounds, t.Bounds)
		if t.Dead {
			materials = append(materials, level.MaterialTargetHit)
		} else {
			materials = append(materials, t.material)
		}
	}
	idx := spatial.CullIndices(f, bounds)
	fr.Sets[level.CategoryTarget] = VisibleSet{
		Transforms: spatial.Select(transforms, idx),
		Materials:  spatial.Select(materials, idx),
	}
	fr.Stats.Add(len(bounds), len(idx))

	return fr, nil
}

func indexRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
