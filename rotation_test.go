package startrek

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestPQW2ECI(t *testing.T) {
	// A 90° argument of periapsis rotates the periapsis onto the Y axis.
	assert.True(t, vectorsEqual(PQW2ECI(0, math.Pi/2, 0, AxisX), Vector3{0, 1, 0}, 1e-15))
	// A 90° inclination around the line of nodes lifts Y onto Z.
	assert.True(t, vectorsEqual(PQW2ECI(math.Pi/2, 0, 0, Vector3{0, 1, 0}), AxisZ, 1e-15))
	// Rotations preserve the norm.
	v := Vector3{3, -4, 12}
	assert.InDelta(t, 13, PQW2ECI(0.3, 1.2, 2.1, v).Magnitude(), 1e-12)
}

func TestR3R1R3(t *testing.T) {
	// Rotation matrices are orthonormal.
	rot := R3R1R3(0.4, -1.1, 2.9)
	var prod mat.Dense
	prod.Mul(rot, rot.T())
	if !mat.EqualApprox(&prod, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-12) {
		t.Fatalf("R·Rᵀ != I\n%v", mat.Formatted(&prod))
	}
	// Opposite single axis rotations cancel out.
	var id mat.Dense
	id.Mul(R1(0.7), R1(-0.7))
	assert.True(t, mat.EqualApprox(&id, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-15))
	assert.InDelta(t, 1, mat.Det(R3(math.Pi/3)), 1e-15)
}
