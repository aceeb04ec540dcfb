package startrek

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PQW2ECI converts a vector from the perifocal frame to the planet centered
// inertial frame, with i, ω and Ω in radians.
func PQW2ECI(i, ω, Ω float64, vI Vector3) Vector3 {
	return MxV33(R3R1R3(-ω, -i, -Ω), vI)
}

// R3R1R3 returns the rotation R3(θ3)·R1(θ2)·R3(θ1).
func R3R1R3(θ1, θ2, θ3 float64) *mat.Dense {
	var tmp, rot mat.Dense
	tmp.Mul(R3(θ3), R1(θ2))
	rot.Mul(&tmp, R3(θ1))
	return &rot
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a 3x3 matrix with a vector.
func MxV33(m mat.Matrix, v Vector3) Vector3 {
	var rVec mat.VecDense
	rVec.MulVec(m, mat.NewVecDense(3, v.Slice()))
	return Vector3{rVec.AtVec(0), rVec.AtVec(1), rVec.AtVec(2)}
}
