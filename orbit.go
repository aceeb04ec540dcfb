package startrek

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

const (
	parabolicε    = 1e-10 // J/kg
	eccentricityε = 5e-5
	// UndefinedApoapsis is the apoapsis reported for open or degenerate trajectories.
	UndefinedApoapsis = -1.0
)

// OrbitPrediction is a snapshot of the orbit derived from the instantaneous state.
// Apoapsis and periapsis are altitudes above the surface.
type OrbitPrediction struct {
	Apoapsis         float64 // m, UndefinedApoapsis if the trajectory is not closed
	Periapsis        float64 // m, current altitude if the trajectory is not closed
	Eccentricity     float64
	OrbitalVelocity  float64 // m/s, current speed
	RequiredVelocity float64 // m/s, circular speed at the current radius
	IsStable         bool    // bound and never dips back into the atmosphere
}

// Closed returns whether the trajectory is a bound ellipse.
func (p OrbitPrediction) Closed() bool {
	return p.Apoapsis != UndefinedApoapsis
}

// String implements the Stringer interface.
func (p OrbitPrediction) String() string {
	if !p.Closed() {
		return fmt.Sprintf("open trajectory e=%.4f", p.Eccentricity)
	}
	return fmt.Sprintf("Ap=%.1fkm Pe=%.1fkm e=%.4f stable=%v", p.Apoapsis/1e3, p.Periapsis/1e3, p.Eccentricity, p.IsStable)
}

// PredictOrbit derives the orbit of the vehicle from its position and velocity
// using the specific energy and angular momentum (vis-viva).
func PredictOrbit(s RocketState, planet PlanetConfig) (pred OrbitPrediction) {
	r := s.Position.Magnitude()
	v := s.Velocity.Magnitude()
	μ := planet.GM()
	altitude := r - planet.Radius

	pred.OrbitalVelocity = v
	if r < normε || μ <= 0 {
		// No defined orbit around a massless body or from its center.
		pred.Eccentricity = 1
		pred.Apoapsis = UndefinedApoapsis
		pred.Periapsis = altitude
		return
	}
	pred.RequiredVelocity = math.Sqrt(μ / r)

	ξ := v*v/2 - μ/r
	h := s.Position.Cross(s.Velocity).Magnitude()

	a := math.Inf(1)
	if math.Abs(ξ) < parabolicε {
		pred.Eccentricity = 1
	} else {
		a = -μ / (2 * ξ)
		pred.Eccentricity = math.Sqrt(math.Max(0, 1-h*h/(μ*a)))
	}

	if pred.Eccentricity < 1 && a > 0 && !math.IsInf(a, 1) {
		pred.Apoapsis = a*(1+pred.Eccentricity) - planet.Radius
		pred.Periapsis = a*(1-pred.Eccentricity) - planet.Radius
	} else {
		pred.Apoapsis = UndefinedApoapsis
		pred.Periapsis = altitude
	}
	pred.IsStable = pred.Periapsis > planet.AtmosphereHeight && pred.Eccentricity < 1
	return
}

// InOrbitBySpeedRatio is the legacy orbit check: above the atmosphere with a speed
// within 10% of the local circular speed. PredictOrbit is preferred; this is only
// used when the predictor cannot be evaluated.
func InOrbitBySpeedRatio(s RocketState, planet PlanetConfig) bool {
	if s.Altitude < planet.AtmosphereHeight {
		return false
	}
	circular := planet.CircularSpeed(s.Position.Magnitude())
	if circular == 0 {
		return false
	}
	ratio := s.Speed / circular
	return ratio >= 0.9 && ratio <= 1.1
}

// OrbitalElements are the classical orbital elements. Angles are in radians.
type OrbitalElements struct {
	A, E, I, RAAN, ArgPeri, Nu float64
	μ                          float64
}

// Period returns the period of this orbit, or zero if the orbit is not closed.
func (o OrbitalElements) Period() time.Duration {
	if o.A <= 0 || o.E >= 1 || o.μ <= 0 {
		return 0
	}
	seconds := 2 * math.Pi * math.Sqrt(math.Pow(o.A, 3)/o.μ)
	return time.Duration(seconds * float64(time.Second))
}

// SemiParameter returns the semi latus rectum.
func (o OrbitalElements) SemiParameter() float64 {
	return o.A * (1 - o.E*o.E)
}

// String implements the stringer interface (hence the value receiver)
func (o OrbitalElements) String() string {
	if o.E < eccentricityε {
		return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f u=%.3f", o.A, o.E, Rad2deg(o.I), Rad2deg(o.RAAN), Rad2deg(math.Mod(o.ArgPeri+o.Nu, 2*math.Pi)))
	}
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f ν=%.3f", o.A, o.E, Rad2deg(o.I), Rad2deg(o.RAAN), Rad2deg(o.ArgPeri), Rad2deg(o.Nu))
}

// Elements returns the orbital elements from the position and velocity.
// From Vallado's RV2COE, page 113. Undefined angles (equatorial or circular) are zero.
func Elements(s RocketState, planet PlanetConfig) OrbitalElements {
	μ := planet.GM()
	R := mat.NewVecDense(3, s.Position.Slice())
	V := mat.NewVecDense(3, s.Velocity.Slice())
	r := mat.Norm(R, 2)
	v := mat.Norm(V, 2)
	if r < normε || μ <= 0 {
		return OrbitalElements{μ: μ}
	}

	hVec := s.Position.Cross(s.Velocity)
	n := AxisZ.Cross(hVec)
	ξ := v*v/2 - μ/r

	eVec := mat.NewVecDense(3, nil)
	eVec.ScaleVec((v*v-μ/r)/μ, R)
	eVec.AddScaledVec(eVec, -mat.Dot(R, V)/μ, V)
	e := mat.Norm(eVec, 2)

	o := OrbitalElements{E: e, μ: μ}
	if math.Abs(ξ) < parabolicε {
		o.A = math.Inf(1)
	} else {
		o.A = -μ / (2 * ξ)
	}
	if hNorm := hVec.Magnitude(); hNorm > normε {
		o.I = math.Acos(hVec.Z / hNorm)
	}
	if nNorm := n.Magnitude(); nNorm > normε {
		o.RAAN = math.Acos(clampCos(n.X / nNorm))
		if n.Y < 0 {
			o.RAAN = 2*math.Pi - o.RAAN
		}
		if e > eccentricityε {
			o.ArgPeri = math.Acos(clampCos(mat.Dot(mat.NewVecDense(3, n.Slice()), eVec) / (nNorm * e)))
			if eVec.AtVec(2) < 0 {
				o.ArgPeri = 2*math.Pi - o.ArgPeri
			}
		}
	}
	if e > eccentricityε {
		o.Nu = math.Acos(clampCos(mat.Dot(eVec, R) / (e * r)))
		if mat.Dot(R, V) < 0 {
			o.Nu = 2*math.Pi - o.Nu
		}
	}
	// Fix rounding errors.
	o.I = math.Mod(o.I, 2*math.Pi)
	o.RAAN = math.Mod(o.RAAN, 2*math.Pi)
	o.ArgPeri = math.Mod(o.ArgPeri, 2*math.Pi)
	o.Nu = math.Mod(o.Nu, 2*math.Pi)
	return o
}

// NewStateFromElements returns the state of a vehicle coasting on the provided orbit.
// Angles are in degrees, a in meters.
func NewStateFromElements(config RocketConfig, a, e, i, Ω, ω, ν float64, planet PlanetConfig) *RocketState {
	μ := planet.GM()
	p := a * (1 - e*e)
	sinν, cosν := math.Sincos(ν * deg2rad)
	rPQW := Vector3{p * cosν / (1 + e*cosν), p * sinν / (1 + e*cosν), 0}
	vPQW := Vector3{-math.Sqrt(μ/p) * sinν, math.Sqrt(μ/p) * (e + cosν), 0}

	s := InitOnPlanet(config, PQW2ECI(i*deg2rad, ω*deg2rad, Ω*deg2rad, rPQW), planet)
	s.Velocity = PQW2ECI(i*deg2rad, ω*deg2rad, Ω*deg2rad, vPQW)
	s.Speed = s.Velocity.Magnitude()
	s.InOrbit = orbitVerdict(*s, planet)
	return s
}

// Hohmann computes an Hohmann transfer between two radii. It returns the departure and arrival
// velocities, and the time of flight.
// To get final computations:
// ΔvInit = vDepature - vI
// ΔvFinal = vF - vArrival
func Hohmann(rI, rF float64, planet PlanetConfig) (vDeparture, vArrival float64, tof time.Duration) {
	μ := planet.GM()
	aTransfer := 0.5 * (rI + rF)
	vDeparture = math.Sqrt((2 * μ / rI) - (μ / aTransfer))
	vArrival = math.Sqrt((2 * μ / rF) - (μ / aTransfer))
	tof = time.Duration(math.Pi * math.Sqrt(math.Pow(aTransfer, 3)/μ) * float64(time.Second))
	return
}

// CircularizationΔv returns the velocity increment needed at apoapsis to circularize
// the predicted orbit, or zero if the trajectory is not closed.
func (p OrbitPrediction) CircularizationΔv(planet PlanetConfig) float64 {
	if !p.Closed() {
		return 0
	}
	rA := p.Apoapsis + planet.Radius
	// The current ellipse is the transfer from its periapsis to its apoapsis.
	_, vApo, _ := Hohmann(p.Periapsis+planet.Radius, rA, planet)
	return planet.CircularSpeed(rA) - vApo
}

// Radii2ae returns the semi major axis and the eccentricty from the radii.
func Radii2ae(rA, rP float64) (a, e float64) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}

// clampCos fixes rounding errors which would make math.Acos return NaN.
func clampCos(c float64) float64 {
	if abs := math.Abs(c); abs > 1 && scalar.EqualWithinAbs(abs, 1, 1e-12) {
		return math.Copysign(1, c)
	}
	return c
}
