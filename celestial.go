package startrek

import (
	"fmt"
	"math"
	"strings"
)

const (
	// G is the gravitational constant in m^3/(kg*s^2).
	G = 6.674e-11
	// SeaLevelDensity is the reference air density at the surface in kg/m^3.
	SeaLevelDensity = 1.225
)

// PlanetConfig describes a spherical, non rotating body with an exponential atmosphere.
type PlanetConfig struct {
	Name             string
	Radius           float64 // m
	Mass             float64 // kg
	AtmosphereHeight float64 // m, no drag above this altitude
	SurfacePressure  float64 // multiplier of the sea level density (1.0 for Earth)
	ScaleHeight      float64 // m
}

// GM returns μ, the gravitational parameter of the body.
func (p PlanetConfig) GM() float64 {
	return G * p.Mass
}

// CircularSpeed returns the speed of a circular orbit of radius r.
func (p PlanetConfig) CircularSpeed(r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(p.GM() / r)
}

// HasAtmosphere returns whether drag may ever apply around this body.
func (p PlanetConfig) HasAtmosphere() bool {
	return p.AtmosphereHeight > 0 && p.SurfacePressure > 0 && p.ScaleHeight > 0
}

// String implements the Stringer interface.
func (p PlanetConfig) String() string {
	if p.Name == "" {
		return fmt.Sprintf("body (R=%.0f m)", p.Radius)
	}
	return p.Name + " body"
}

// PlanetFromString returns the predefined planet from its name.
func PlanetFromString(name string) (PlanetConfig, error) {
	switch strings.ToLower(name) {
	case "earth", "":
		return Earth, nil
	case "mars":
		return Mars, nil
	case "moon":
		return Moon, nil
	default:
		return PlanetConfig{}, fmt.Errorf("undefined planet '%s'", name)
	}
}

/* Definitions */

// Earth is home, and the default body of the simulation.
var Earth = PlanetConfig{"Earth", 6371000.0, 5.972e24, 100000.0, 1.0, 8500.0}

// Mars has a thin atmosphere.
var Mars = PlanetConfig{"Mars", 3389500.0, 6.4171e23, 100000.0, 0.0163, 11100.0}

// Moon has no atmosphere at all.
var Moon = PlanetConfig{"Moon", 1737400.0, 7.342e22, 0, 0, 0}
