package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestVec3Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want Vec3
	}{
		{"x cross y", Right(), Up(), V3(0, 0, 1)},
		{"forward cross up", Forward(), Up(), Right()},
		{"parallel", V3(2, 0, 0), V3(5, 0, 0), Zero3()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Cross(tc.b); !got.ApproxEqual(tc.want, eps) {
				t.Errorf("%v x %v = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestVec3Normalize(t *testing.T) {
	n := V3(0, 3, 4).Normalize()
	if math.Abs(n.Len()-1) > eps {
		t.Errorf("length = %v, want 1", n.Len())
	}
	if !n.ApproxEqual(V3(0, 0.6, 0.8), eps) {
		t.Errorf("normalized = %v, want (0, 0.6, 0.8)", n)
	}
	if z := Zero3().Normalize(); z != Zero3() {
		t.Errorf("zero normalized = %v, want zero", z)
	}
}

func TestVec3MinMaxAbs(t *testing.T) {
	a, b := V3(-1, 5, 2), V3(3, -2, 2)
	if got := a.Min(b); got != V3(-1, -2, 2) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != V3(3, 5, 2) {
		t.Errorf("Max = %v", got)
	}
	if got := a.Abs(); got != V3(1, 5, 2) {
		t.Errorf("Abs = %v", got)
	}
}

func TestVec3Component(t *testing.T) {
	v := V3(1, 2, 3)
	for i, want := range []float64{1, 2, 3} {
		if got := v.Component(i); got != want {
			t.Errorf("Component(%d) = %v, want %v", i, got, want)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("Component(3) should panic")
		}
	}()
	_ = v.Component(3)
}

func TestRotateYQuarterTurn(t *testing.T) {
	r := RotateY(math.Pi / 2)

	if got := r.MulVec3(Right()); !got.ApproxEqual(V3(0, 0, -1), eps) {
		t.Errorf("RotateY(90) * +X = %v, want -Z", got)
	}
	if got := r.MulVec3(V3(0, 0, 1)); !got.ApproxEqual(Right(), eps) {
		t.Errorf("RotateY(90) * +Z = %v, want +X", got)
	}
}

func TestMulOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translate(V3(10, 0, 0)).Mul(ScaleUniform(2))
	if got := m.MulVec3(V3(1, 1, 1)); !got.ApproxEqual(V3(12, 2, 2), eps) {
		t.Errorf("got %v, want (12, 2, 2)", got)
	}
}

func TestMulVec3Dir(t *testing.T) {
	m := Translate(V3(5, 5, 5))
	if got := m.MulVec3Dir(Up()); got != Up() {
		t.Errorf("direction should ignore translation, got %v", got)
	}
}

func TestInverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translate", Translate(V3(1, -2, 3))},
		{"rotate", RotateY(0.7).Mul(RotateX(-0.3))},
		{"affine", Translate(V3(4, 1, -9)).Mul(RotateZ(1.1)).Mul(Scale(V3(2, 3, 0.5)))},
		{"projection", Perspective(math.Pi/3, 1.5, 0.1, 50)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv, ok := tc.m.Inverse()
			if !ok {
				t.Fatal("matrix reported singular")
			}
			if got := tc.m.Mul(inv); !got.ApproxEqual(Identity(), 1e-9) {
				t.Errorf("m * m^-1 = %v, want identity", got)
			}
		})
	}
}

func TestInverseSingular(t *testing.T) {
	inv, ok := Scale(V3(1, 0, 1)).Inverse()
	if ok {
		t.Error("zero scale should be singular")
	}
	if inv != Identity() {
		t.Errorf("singular inverse = %v, want identity", inv)
	}
}

func TestPerspectiveMapsNearFar(t *testing.T) {
	p := Perspective(math.Pi/2, 1, 1, 10)

	near := p.MulVec4(V4(0, 0, -1, 1)).PerspectiveDivide()
	far := p.MulVec4(V4(0, 0, -10, 1)).PerspectiveDivide()

	if math.Abs(near.Z+1) > eps {
		t.Errorf("near plane maps to z=%v, want -1", near.Z)
	}
	if math.Abs(far.Z-1) > eps {
		t.Errorf("far plane maps to z=%v, want 1", far.Z)
	}
}

func TestLookAt(t *testing.T) {
	view := LookAt(V3(0, 0, 5), Zero3(), Up())
	if got := view.MulVec3(Zero3()); !got.ApproxEqual(V3(0, 0, -5), eps) {
		t.Errorf("target in view space = %v, want (0, 0, -5)", got)
	}
}

func TestRadiansDegrees(t *testing.T) {
	if got := Radians(180); math.Abs(got-math.Pi) > eps {
		t.Errorf("Radians(180) = %v", got)
	}
	if got := Degrees(math.Pi / 2); math.Abs(got-90) > eps {
		t.Errorf("Degrees(pi/2) = %v", got)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 2, 2)))

	for b.Loop() {
		_, _ = m.Inverse()
	}
}
