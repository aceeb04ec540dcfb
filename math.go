package startrek

import (
	"fmt"
	"math"
)

const (
	deg2rad = math.Pi / 180
	// normε is the magnitude under which a vector has no defined direction.
	normε = 1e-10
)

// Vector3 is a planet-centered Cartesian vector (meters or derived units).
type Vector3 struct {
	X, Y, Z float64
}

var (
	// AxisX is the global X axis.
	AxisX = Vector3{1, 0, 0}
	// AxisZ is the global Z axis.
	AxisZ = Vector3{0, 0, 1}
)

// Add returns v+w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v-w.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v*s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot performs the inner product.
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross performs the cross product v x w.
func (v Vector3) Cross(w Vector3) Vector3 {
	return Vector3{v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X}
}

// Magnitude returns the norm of the vector.
func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector of v.
// The zero vector is returned when v has a magnitude below 1e-10: callers needing
// a direction must treat that result as "no defined direction".
func (v Vector3) Normalize() Vector3 {
	n := v.Magnitude()
	if n < normε {
		return Vector3{}
	}
	return v.Scale(1 / n)
}

// IsZero returns whether all the components are exactly zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Slice returns the vector as a 3x1 slice.
func (v Vector3) Slice() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("[%.3f %.3f %.3f]", v.X, v.Y, v.Z)
}

// vectorFromSlice returns the first three items of a as a Vector3.
func vectorFromSlice(a []float64) Vector3 {
	return Vector3{a[0], a[1], a[2]}
}

// SphericalToCartesian returns the position above a spherical planet for the
// provided latitude and longitude (in degrees) and altitude (in meters).
func SphericalToCartesian(latitude, longitude, altitude float64, planet PlanetConfig) Vector3 {
	sLat, cLat := math.Sincos(latitude * deg2rad)
	sLon, cLon := math.Sincos(longitude * deg2rad)
	r := planet.Radius + altitude
	return Vector3{r * cLat * cLon, r * cLat * sLon, r * sLat}
}

// CartesianToSpherical returns the latitude and longitude (in degrees) and the
// altitude above the provided planet of that position.
func CartesianToSpherical(position Vector3, planet PlanetConfig) (latitude, longitude, altitude float64) {
	r := position.Magnitude()
	altitude = r - planet.Radius
	if r < normε {
		return 0, 0, altitude
	}
	latitude = math.Asin(position.Z/r) / deg2rad
	longitude = math.Atan2(position.Y, position.X) / deg2rad
	return
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}
