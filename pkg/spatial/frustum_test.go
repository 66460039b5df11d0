package spatial

import (
	"math"
	"testing"

	"github.com/taigrr/gallery/pkg/math3d"
)

type fixedViewer struct {
	eye, forward, up math3d.Vec3
	fov              float64
}

func (v fixedViewer) Eye() math3d.Vec3     { return v.eye }
func (v fixedViewer) Forward() math3d.Vec3 { return v.forward }
func (v fixedViewer) Up() math3d.Vec3      { return v.up }
func (v fixedViewer) FieldOfView() float64 { return v.fov }

// lookingDownZ is a camera at the origin looking along -Z with a 60 degree
// vertical field of view.
func lookingDownZ() fixedViewer {
	return fixedViewer{eye: math3d.Zero3(), forward: math3d.Forward(), up: math3d.Up(), fov: 60}
}

func TestFrustumPlanesNormalized(t *testing.T) {
	f := NewFrustum(0.1, 100, 16.0/9.0)
	f.CalculatePlanes(lookingDownZ())

	for i, p := range f.Planes {
		if math.Abs(p.Normal.Len()-1) > 1e-9 {
			t.Errorf("plane %d normal length = %v, want 1", i, p.Normal.Len())
		}
	}
}

func TestFrustumNormalsPointInward(t *testing.T) {
	viewers := []struct {
		name string
		v    fixedViewer
	}{
		{"down -z", lookingDownZ()},
		{"along +x", fixedViewer{math3d.V3(3, 1, -2), math3d.V3(1, 0, 0), math3d.Up(), 75}},
		{"pitched", fixedViewer{math3d.V3(0, 5, 0), math3d.V3(0, -1, -1), math3d.Up(), 45}},
		{"unnormalized forward", fixedViewer{math3d.V3(-4, 0, 9), math3d.V3(0, 0, -20), math3d.V3(0, 3, 0), 90}},
	}

	for _, tc := range viewers {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFrustum(0.5, 50, 4.0/3.0)
			f.CalculatePlanes(tc.v)

			mid := tc.v.eye.Add(tc.v.forward.Normalize().Scale((f.Near + f.Far) / 2))
			if !IsInside(f, mid) {
				t.Fatalf("forward point %v should be inside", mid)
			}
			for i, p := range f.Planes {
				if p.SignedDistance(mid) <= 0 {
					t.Errorf("plane %d faces away from the frustum interior", i)
				}
			}
		})
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := NewFrustum(1, 100, 1)
	f.CalculatePlanes(lookingDownZ())

	// At distance 10 the half width and half height are 10*tan(30°) ≈ 5.77.
	tests := []struct {
		name  string
		point math3d.Vec3
		want  bool
	}{
		{"center", math3d.V3(0, 0, -10), true},
		{"near edge inside", math3d.V3(0, 0, -1.5), true},
		{"closer than near", math3d.V3(0, 0, -0.5), false},
		{"behind camera", math3d.V3(0, 0, 5), false},
		{"beyond far", math3d.V3(0, 0, -150), false},
		{"inside right", math3d.V3(5, 0, -10), true},
		{"past right", math3d.V3(6, 0, -10), false},
		{"past left", math3d.V3(-6, 0, -10), false},
		{"inside top", math3d.V3(0, 5, -10), true},
		{"past top", math3d.V3(0, 6, -10), false},
		{"past bottom", math3d.V3(0, -6, -10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}
}

func TestFrustumAspectRatioWidensSides(t *testing.T) {
	narrow := NewFrustum(1, 100, 1)
	wide := NewFrustum(1, 100, 2)
	narrow.CalculatePlanes(lookingDownZ())
	wide.CalculatePlanes(lookingDownZ())

	p := math3d.V3(9, 0, -10)
	if narrow.ContainsPoint(p) {
		t.Error("point should be outside the square frustum")
	}
	if !wide.ContainsPoint(p) {
		t.Error("point should be inside the 2:1 frustum")
	}
}

func TestFrustumContainsBox(t *testing.T) {
	f := NewFrustum(1, 100, 16.0/9.0)
	f.CalculatePlanes(lookingDownZ())

	tests := []struct {
		name string
		box  BoundingBox
		want bool
	}{
		{"fully inside", NewBoundingBox(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)), true},
		{"crosses near plane", NewBoundingBox(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)), true},
		{"behind camera", NewBoundingBox(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)), false},
		{"beyond far plane", NewBoundingBox(math3d.V3(-1, -1, -150), math3d.V3(1, 1, -120)), false},
		{"far to the right", NewBoundingBox(math3d.V3(100, -1, -10), math3d.V3(110, 1, -5)), false},
		{"straddles left plane", NewBoundingBox(math3d.V3(-12, -1, -11), math3d.V3(-9, 1, -9)), true},
		{"encloses frustum", NewBoundingBox(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)), true},
		{"empty", NewBoundingBox(), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsBox(tc.box); got != tc.want {
				t.Errorf("ContainsBox(%v) = %v, want %v", tc.box, got, tc.want)
			}
			if got := IsInside(f, tc.box); got != tc.want {
				t.Errorf("IsInside disagrees with ContainsBox")
			}
		})
	}
}

func TestFrustumFollowsCamera(t *testing.T) {
	f := NewFrustum(0.1, 50, 1)
	target := math3d.V3(10, 0, 0)

	f.CalculatePlanes(lookingDownZ())
	if f.ContainsPoint(target) {
		t.Fatal("+X target should be outside while looking down -Z")
	}

	f.CalculatePlanes(fixedViewer{math3d.Zero3(), math3d.V3(1, 0, 0), math3d.Up(), 60})
	if !f.ContainsPoint(target) {
		t.Error("+X target should be inside after turning towards it")
	}
	if f.ContainsPoint(math3d.V3(-10, 0, 0)) {
		t.Error("point behind the turned camera should be outside")
	}
}

func BenchmarkFrustumCalculatePlanes(b *testing.B) {
	f := NewFrustum(0.1, 1000, 16.0/9.0)
	v := fixedViewer{math3d.V3(0, 10, 20), math3d.V3(0, -0.5, -1), math3d.Up(), 60}

	for b.Loop() {
		f.CalculatePlanes(v)
	}
}

func BenchmarkFrustumContainsBox(b *testing.B) {
	f := NewFrustum(0.1, 1000, 16.0/9.0)
	f.CalculatePlanes(lookingDownZ())
	box := NewBoundingBox(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5))

	b.Run("visible", func(b *testing.B) {
		for b.Loop() {
			_ = f.ContainsBox(box)
		}
	})

	culled := NewBoundingBox(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 15))
	b.Run("culled", func(b *testing.B) {
		for b.Loop() {
			_ = f.ContainsBox(culled)
		}
	})
}
