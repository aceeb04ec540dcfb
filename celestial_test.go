package startrek

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanetFromString(t *testing.T) {
	for name, exp := range map[string]PlanetConfig{"earth": Earth, "Earth": Earth, "": Earth, "MARS": Mars, "moon": Moon} {
		planet, err := PlanetFromString(name)
		require.NoError(t, err, name)
		assert.Equal(t, exp, planet, name)
	}
	_, err := PlanetFromString("vulcan")
	assert.Error(t, err)
}

func TestPlanetConfig(t *testing.T) {
	assert.InDelta(t, 3.986e14, Earth.GM(), 1e11)
	assert.InDelta(t, 7672, Earth.CircularSpeed(Earth.Radius+400e3), 1)
	assert.Zero(t, Earth.CircularSpeed(0))
	assert.True(t, Earth.HasAtmosphere())
	assert.True(t, Mars.HasAtmosphere())
	assert.False(t, Moon.HasAtmosphere())
	assert.Equal(t, "Earth body", Earth.String())
}

func TestFuelType(t *testing.T) {
	for _, ft := range []FuelType{Kerosene, LiquidH2, Solid} {
		got, err := FuelTypeFromString(ft.String())
		require.NoError(t, err)
		assert.Equal(t, ft, got)
	}
	_, err := FuelTypeFromString("antimatter")
	assert.Error(t, err)
}

func TestRocketConfig(t *testing.T) {
	conf := ReferenceRocket()
	assert.Equal(t, 20000.0, conf.WetMass())
	assert.Equal(t, 2e6, conf.MaxThrust())
	assert.Equal(t, 1000.0, conf.MaxFuelFlow())

	conf.MassFuelMax = 0
	assert.Equal(t, conf.MassFuel, conf.FuelCapacity(), "capacity falls back to the loaded fuel")
	conf.MassFuel = 0
	assert.Zero(t, conf.FuelCapacity())
}

func TestControlCommand(t *testing.T) {
	cmd := NewControlCommand(3, 0.7, 12)
	assert.Equal(t, []float64{0.7, 0.7, 0.7}, cmd.EngineThrottle)
	assert.Equal(t, 12.0, cmd.Pitch)
	off := cmd.Cutoff()
	assert.Equal(t, []float64{0, 0, 0}, off.EngineThrottle)
	assert.Equal(t, 12.0, off.Pitch)
	assert.Equal(t, 0.7, cmd.EngineThrottle[0], "cutoff must not alias the throttle of the command")
}
