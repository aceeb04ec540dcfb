package startrek

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned when a vehicle description cannot be flown.
var ErrInvalidConfig = errors.New("invalid rocket configuration")

// FuelType defines the propellant of a vehicle. It is informational only.
type FuelType uint8

const (
	// Kerosene is RP-1 with liquid oxygen.
	Kerosene FuelType = iota + 1
	// LiquidH2 is liquid hydrogen with liquid oxygen.
	LiquidH2
	// Solid is a solid propellant grain.
	Solid
)

func (f FuelType) String() string {
	switch f {
	case Kerosene:
		return "kerosene"
	case LiquidH2:
		return "liquid_h2"
	case Solid:
		return "solid"
	}
	return "unknown"
}

// FuelTypeFromString returns the fuel type from its name.
func FuelTypeFromString(name string) (FuelType, error) {
	switch strings.ToLower(name) {
	case "kerosene", "":
		return Kerosene, nil
	case "liquid_h2", "lh2", "hydrogen":
		return LiquidH2, nil
	case "solid":
		return Solid, nil
	default:
		return 0, fmt.Errorf("undefined fuel type '%s'", name)
	}
}

// Engine is one engine of the vehicle.
type Engine struct {
	Thrust          float64 // N at full throttle
	FuelConsumption float64 // kg/s at full throttle
	IsActive        bool
}

// RocketConfig describes a vehicle. It is created at launch time and never
// mutated by the simulation: the fuel evolves on the RocketState.
type RocketConfig struct {
	Name            string
	MassEmpty       float64 // kg
	MassFuel        float64 // kg at launch
	MassFuelMax     float64 // kg, falls back to MassFuel when unset
	FuelType        FuelType
	Engines         []Engine
	DragCoefficient float64
	CrossSection    float64 // m^2
}

// FuelCapacity returns the maximum amount of fuel this vehicle may carry.
func (c RocketConfig) FuelCapacity() float64 {
	if c.MassFuelMax > 0 {
		return c.MassFuelMax
	}
	if c.MassFuel > 0 {
		return c.MassFuel
	}
	return 0
}

// WetMass returns the launch mass of the vehicle.
func (c RocketConfig) WetMass() float64 {
	return c.MassEmpty + clampFuel(c.MassFuel, c.FuelCapacity())
}

// MaxThrust returns the thrust of all active engines at full throttle.
func (c RocketConfig) MaxThrust() (thrust float64) {
	for _, eng := range c.Engines {
		if eng.IsActive {
			thrust += eng.Thrust
		}
	}
	return
}

// MaxFuelFlow returns the fuel consumption of all active engines at full throttle.
func (c RocketConfig) MaxFuelFlow() (flow float64) {
	for _, eng := range c.Engines {
		if eng.IsActive {
			flow += eng.FuelConsumption
		}
	}
	return
}

// Validate returns an error wrapping ErrInvalidConfig if this vehicle makes no physical sense.
// The simulation itself never rejects a configuration, this is meant for loaders.
func (c RocketConfig) Validate() error {
	if c.MassEmpty < 0 {
		return fmt.Errorf("%w: negative empty mass %f", ErrInvalidConfig, c.MassEmpty)
	}
	if c.MassFuel < 0 || c.MassFuelMax < 0 {
		return fmt.Errorf("%w: negative fuel mass", ErrInvalidConfig)
	}
	if c.MassFuelMax > 0 && c.MassFuel > c.MassFuelMax {
		return fmt.Errorf("%w: fuel %f kg above capacity %f kg", ErrInvalidConfig, c.MassFuel, c.MassFuelMax)
	}
	if c.DragCoefficient < 0 || c.CrossSection < 0 {
		return fmt.Errorf("%w: negative drag properties", ErrInvalidConfig)
	}
	if len(c.Engines) == 0 {
		return fmt.Errorf("%w: no engines", ErrInvalidConfig)
	}
	for i, eng := range c.Engines {
		if eng.Thrust < 0 || eng.FuelConsumption < 0 {
			return fmt.Errorf("%w: engine #%d has negative thrust or consumption", ErrInvalidConfig, i)
		}
	}
	return nil
}

// String implements the Stringer interface.
func (c RocketConfig) String() string {
	return fmt.Sprintf("%s (%.0f kg dry, %.0f kg %s, %d engines, %.0f kN)", c.Name, c.MassEmpty, c.MassFuel, c.FuelType, len(c.Engines), c.MaxThrust()/1e3)
}

// ReferenceRocket returns the four engine test vehicle used as the regression scenario.
func ReferenceRocket() RocketConfig {
	engines := make([]Engine, 4)
	for i := range engines {
		engines[i] = Engine{Thrust: 500000, FuelConsumption: 250, IsActive: true}
	}
	return RocketConfig{
		Name:            "Test Rocket 1",
		MassEmpty:       5000,
		MassFuel:        15000,
		MassFuelMax:     15000,
		FuelType:        Kerosene,
		Engines:         engines,
		DragCoefficient: 0.5,
		CrossSection:    10,
	}
}

func clampFuel(fuel, capacity float64) float64 {
	if fuel < 0 {
		return 0
	}
	if fuel > capacity {
		return capacity
	}
	return fuel
}
