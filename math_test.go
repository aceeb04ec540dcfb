package startrek

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// vectorsEqual returns whether both vectors are equal component-wise within tol.
func vectorsEqual(a, b Vector3, tol float64) bool {
	return floats.EqualApprox(a.Slice(), b.Slice(), tol)
}

func TestCross(t *testing.T) {
	i := Vector3{1, 0, 0}
	j := Vector3{0, 1, 0}
	k := Vector3{0, 0, 1}
	if i.Cross(j) != k {
		t.Fatal("i x j != k")
	}
	if j.Cross(k) != i {
		t.Fatal("j x k != i")
	}
	if (Vector3{2, 3, 4}).Cross(Vector3{5, 6, 7}) != (Vector3{-3, 6, -3}) {
		t.Fatal("cross fail")
	}
	// From Vallado
	exp := Vector3{-4.924667792015100e4, 4.450050424118601e4, 0.246964476137900e4}
	if !vectorsEqual(Vector3{6524.834, 6862.875, 6448.296}.Cross(Vector3{4.901327, 5.533756, -1.976341}), exp, 1e-6) {
		t.Fatal("cross fail")
	}
}

func TestVectorOps(t *testing.T) {
	v := Vector3{1, 2, 3}
	w := Vector3{-4, 5, 0.5}
	if v.Add(w) != (Vector3{-3, 7, 3.5}) {
		t.Fatalf("add: %s", v.Add(w))
	}
	if v.Sub(w) != (Vector3{5, -3, 2.5}) {
		t.Fatalf("sub: %s", v.Sub(w))
	}
	if v.Scale(-2) != (Vector3{-2, -4, -6}) {
		t.Fatalf("scale: %s", v.Scale(-2))
	}
	if v.Dot(w) != 7.5 {
		t.Fatalf("dot: %f", v.Dot(w))
	}
	if !scalar.EqualWithinAbs(v.Magnitude(), math.Sqrt(14), 1e-15) {
		t.Fatalf("magnitude: %f", v.Magnitude())
	}
	// The cross product is orthogonal to both operands.
	c := v.Cross(w)
	if !scalar.EqualWithinAbs(c.Dot(v), 0, 1e-12) || !scalar.EqualWithinAbs(c.Dot(w), 0, 1e-12) {
		t.Fatalf("cross not orthogonal: %s", c)
	}
}

func TestNormalize(t *testing.T) {
	for _, v := range []Vector3{{3, 4, 0}, {-1e-3, 2e-3, 5}, {1e8, -1e8, 1e8}} {
		if n := v.Normalize(); !scalar.EqualWithinAbs(n.Magnitude(), 1, 1e-12) {
			t.Fatalf("|normalize(%s)| = %f", v, n.Magnitude())
		}
	}
	// Degenerate vectors have no direction.
	for _, v := range []Vector3{{}, {1e-11, 0, 0}, {0, -5e-12, 5e-12}} {
		if n := v.Normalize(); !n.IsZero() {
			t.Fatalf("normalize(%s) = %s, expected zero", v, n)
		}
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	for _, lat := range []float64{-89, -45, 0, 30, 63.5, 89} {
		for _, lon := range []float64{-179, -63, 0, 63, 120, 179} {
			for _, alt := range []float64{0, 100, 400e3} {
				pos := SphericalToCartesian(lat, lon, alt, Earth)
				if !scalar.EqualWithinAbs(pos.Magnitude(), Earth.Radius+alt, 1e-6) {
					t.Fatalf("radius of (%f, %f, %f) = %f", lat, lon, alt, pos.Magnitude())
				}
				gLat, gLon, gAlt := CartesianToSpherical(pos, Earth)
				if !scalar.EqualWithinAbs(gLat, lat, 1e-9) || !scalar.EqualWithinAbs(gLon, lon, 1e-9) || !scalar.EqualWithinAbs(gAlt, alt, 1e-6) {
					t.Fatalf("round trip (%f, %f, %f) -> (%f, %f, %f)", lat, lon, alt, gLat, gLon, gAlt)
				}
			}
		}
	}
}

func TestAngles(t *testing.T) {
	for _, tc := range []struct{ deg, rad float64 }{
		{0, 0}, {90, math.Pi / 2}, {180, math.Pi}, {-90, 3 * math.Pi / 2},
	} {
		if got := Deg2rad(tc.deg); !scalar.EqualWithinAbs(got, tc.rad, 1e-12) {
			t.Fatalf("Deg2rad(%f) = %f != %f", tc.deg, got, tc.rad)
		}
	}
	for i := 0.0; i < 360; i += 0.5 {
		if got := Rad2deg(Deg2rad(i)); !scalar.EqualWithinAbs(got, i, 1e-9) {
			t.Fatalf("Rad2deg(Deg2rad(%f)) = %f", i, got)
		}
	}
}
