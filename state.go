package startrek

import "fmt"

// FlightStatus is the state of the flight state machine.
type FlightStatus uint8

const (
	// Flying is the initial state.
	Flying FlightStatus = iota + 1
	// InOrbit is a sub-state of Flying: the predicted orbit is bound and clears the atmosphere.
	InOrbit
	// Landed is terminal: ground contact under the landing speed.
	Landed
	// Crashed is terminal: ground contact at or above the landing speed.
	Crashed
)

func (s FlightStatus) String() string {
	switch s {
	case Flying:
		return "flying"
	case InOrbit:
		return "in orbit"
	case Landed:
		return "landed"
	case Crashed:
		return "crashed"
	}
	return "unknown"
}

// RocketState is the only mutable entity of the simulation. It is owned by the
// caller and only mutated by Step.
type RocketState struct {
	Position     Vector3 // m, planet centered
	Velocity     Vector3 // m/s
	Acceleration Vector3 // m/s^2

	Altitude float64 // m above the surface
	Speed    float64 // m/s, |Velocity|

	MassCurrent   float64 // kg, always MassEmpty + FuelRemaining after a step
	FuelRemaining float64 // kg

	InOrbit bool
	Landed  bool
	Crashed bool

	Time float64 // s of simulated time
}

// Init returns the initial state of a vehicle at rest above the Earth.
func Init(config RocketConfig, position Vector3) *RocketState {
	return InitOnPlanet(config, position, Earth)
}

// InitOnPlanet returns the initial state of a vehicle at rest at the provided position.
// The fuel is bounded to the fuel capacity of the vehicle.
func InitOnPlanet(config RocketConfig, position Vector3, planet PlanetConfig) *RocketState {
	fuel := clampFuel(config.MassFuel, config.FuelCapacity())
	return &RocketState{
		Position:      position,
		Altitude:      position.Magnitude() - planet.Radius,
		MassCurrent:   config.MassEmpty + fuel,
		FuelRemaining: fuel,
	}
}

// Terminal returns whether the flight is over: further steps are no-ops.
func (s RocketState) Terminal() bool {
	return s.Landed || s.Crashed
}

// Status returns the state machine status. Ground contact takes precedence over the orbit flag.
func (s RocketState) Status() FlightStatus {
	switch {
	case s.Crashed:
		return Crashed
	case s.Landed:
		return Landed
	case s.InOrbit:
		return InOrbit
	default:
		return Flying
	}
}

// String implements the Stringer interface.
func (s RocketState) String() string {
	return fmt.Sprintf("t=%.1fs alt=%.2fkm v=%.1fm/s fuel=%.0fkg (%s)", s.Time, s.Altitude/1e3, s.Speed, s.FuelRemaining, s.Status())
}
