package startrek

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gravityTurnScenario = `name = "Demo flight"

[rocket]
name = "Demo"
mass_empty = 5000.0
mass_fuel = 15000.0
mass_fuel_max = 15000.0
fuel_type = "liquid_h2"
drag_coefficient = 0.3
cross_section = 8.0

[[rocket.engines]]
thrust = 500000.0
fuel_consumption = 250.0
count = 4

[[rocket.engines]]
thrust = 100000.0
fuel_consumption = 40.0
active = false

[planet]
name = "mars"
atmosphere_height = 80000.0

[launch]
lat = 18.4
lon = 77.5
alt = 10.0
epoch = 2451545.0

[mission]
step = "50ms"
duration = "5m"
stop_on_orbit = true

[guidance]
law = "gravity-turn"
target_altitude = 150000.0

[export]
csv = true
every = "2s"
`

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, gravityTurnScenario))
	require.NoError(t, err)

	assert.Equal(t, "Demo flight", sc.Name)
	assert.Equal(t, "Demo", sc.Rocket.Name)
	assert.Equal(t, LiquidH2, sc.Rocket.FuelType)
	assert.Equal(t, 5000.0, sc.Rocket.MassEmpty)
	assert.Equal(t, 0.3, sc.Rocket.DragCoefficient)
	require.Len(t, sc.Rocket.Engines, 5)
	assert.Equal(t, Engine{500000, 250, true}, sc.Rocket.Engines[3])
	assert.Equal(t, Engine{100000, 40, false}, sc.Rocket.Engines[4])
	assert.Equal(t, 2e6, sc.Rocket.MaxThrust())

	assert.Equal(t, "Mars", sc.Planet.Name)
	assert.Equal(t, Mars.Radius, sc.Planet.Radius)
	assert.Equal(t, 80e3, sc.Planet.AtmosphereHeight, "overridden field")

	assert.Equal(t, 18.4, sc.Latitude)
	assert.Equal(t, 77.5, sc.Longitude)
	assert.Equal(t, 10.0, sc.Altitude)
	assert.WithinDuration(t, J2000, sc.Epoch, time.Millisecond)

	assert.Equal(t, 50*time.Millisecond, sc.Step)
	assert.Equal(t, 5*time.Minute, sc.Duration)
	assert.True(t, sc.StopOnOrbit)
	assert.Equal(t, "gravity-turn", sc.Guidance)
	assert.Equal(t, 150e3, sc.TargetAltitude)

	assert.True(t, sc.Export.AsCSV)
	assert.False(t, sc.Export.Cosmo)
	assert.Equal(t, 2*time.Second, sc.Export.Every)
	assert.Equal(t, "demo-flight", sc.Export.Filename)

	m, err := sc.Mission(nil)
	require.NoError(t, err)
	assert.Equal(t, gravityTurn, m.Controller.Type())
	assert.InDelta(t, 10, m.State.Altitude, 1e-6)
	assert.Equal(t, sc.Rocket.WetMass(), m.State.MassCurrent)
	assert.Equal(t, sc.Step, m.Step)
	assert.True(t, m.StopOnOrbit)
}

func TestLoadScenarioDefaults(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, `
[rocket]
mass_empty = 1000.0
mass_fuel = 500.0

[[rocket.engines]]
thrust = 30000.0
fuel_consumption = 10.0

[launch]
epoch = 2024-05-01T10:00:00Z
`))
	require.NoError(t, err)
	ref := ReferenceScenario()
	assert.Equal(t, ref.Rocket.Name, sc.Name)
	assert.Equal(t, Earth, sc.Planet)
	assert.Equal(t, Kerosene, sc.Rocket.FuelType)
	assert.Equal(t, ref.Latitude, sc.Latitude)
	assert.Equal(t, ref.Step, sc.Step)
	assert.Equal(t, ref.Duration, sc.Duration)
	assert.Equal(t, "vertical", sc.Guidance)
	assert.True(t, sc.Export.IsUseless())
	assert.True(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Equal(sc.Epoch), "epoch %s", sc.Epoch)
	assert.Equal(t, 500.0, sc.Rocket.FuelCapacity())
}

func TestLoadScenarioEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STARTREK_EXPORT_DIR", dir)
	t.Setenv("STARTREK_GUIDANCE_LAW", "pitch-program")
	sc, err := LoadScenario(writeScenario(t, gravityTurnScenario))
	require.NoError(t, err)
	assert.Equal(t, dir, sc.Export.Dir)
	assert.Equal(t, "pitch-program", sc.Guidance)
}

func TestLoadScenarioErrors(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	for name, contents := range map[string]string{
		"no engines":   "[rocket]\nmass_empty = 1000.0\n",
		"bad fuel":     "[rocket]\nfuel_type = \"antimatter\"\n[[rocket.engines]]\nthrust = 1.0\n",
		"bad planet":   "[planet]\nname = \"vulcan\"\n[[rocket.engines]]\nthrust = 1.0\n",
		"bad radius":   "[planet]\nradius = -1.0\n[[rocket.engines]]\nthrust = 1.0\n",
		"bad step":     "[mission]\nstep = \"0s\"\n[[rocket.engines]]\nthrust = 1.0\n",
		"bad guidance": "[guidance]\nlaw = \"warp\"\n[[rocket.engines]]\nthrust = 1.0\n",
		"over filled":  "[rocket]\nmass_fuel = 10.0\nmass_fuel_max = 5.0\n[[rocket.engines]]\nthrust = 1.0\n",
	} {
		_, err := LoadScenario(writeScenario(t, contents))
		assert.ErrorIs(t, err, ErrInvalidConfig, name)
	}
}
