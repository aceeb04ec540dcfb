package startrek

import (
	"fmt"
	"strings"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

// J2000 is the default launch epoch.
var J2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// Scenario is a flight read from a TOML file.
type Scenario struct {
	Name           string
	Rocket         RocketConfig
	Planet         PlanetConfig
	Latitude       float64 // degrees
	Longitude      float64 // degrees
	Altitude       float64 // m
	Epoch          time.Time
	Step           time.Duration
	Duration       time.Duration
	StopOnOrbit    bool
	Guidance       string
	TargetAltitude float64 // m
	Export         ExportConfig
}

// engineConf is one [[rocket.engines]] table. Count duplicates the engine.
type engineConf struct {
	Thrust          float64 `mapstructure:"thrust"`
	FuelConsumption float64 `mapstructure:"fuel_consumption"`
	Active          *bool   `mapstructure:"active"`
	Count           int     `mapstructure:"count"`
}

// ReferenceScenario is the vertical ascent of the reference vehicle from
// 45°N 63°E, 100 m above the Earth, for ten minutes.
func ReferenceScenario() Scenario {
	return Scenario{
		Name:           "reference",
		Rocket:         ReferenceRocket(),
		Planet:         Earth,
		Latitude:       45,
		Longitude:      63,
		Altitude:       100,
		Epoch:          J2000,
		Step:           StepSize,
		Duration:       10 * time.Minute,
		Guidance:       "vertical",
		TargetAltitude: 200e3,
	}
}

func setDefaults(v *viper.Viper) {
	ref := ReferenceScenario()
	v.SetDefault("rocket.name", ref.Rocket.Name)
	v.SetDefault("rocket.fuel_type", ref.Rocket.FuelType.String())
	v.SetDefault("rocket.drag_coefficient", ref.Rocket.DragCoefficient)
	v.SetDefault("rocket.cross_section", ref.Rocket.CrossSection)
	v.SetDefault("planet.name", ref.Planet.Name)
	v.SetDefault("launch.lat", ref.Latitude)
	v.SetDefault("launch.lon", ref.Longitude)
	v.SetDefault("launch.alt", ref.Altitude)
	v.SetDefault("mission.step", ref.Step)
	v.SetDefault("mission.duration", ref.Duration)
	v.SetDefault("mission.stop_on_orbit", false)
	v.SetDefault("guidance.law", ref.Guidance)
	v.SetDefault("guidance.target_altitude", ref.TargetAltitude)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.every", time.Second)
}

// LoadScenario reads a scenario TOML file. Any key may be overridden by an environment
// variable, e.g. STARTREK_EXPORT_DIR for export.dir.
func LoadScenario(path string) (sc Scenario, err error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("startrek")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	if err = v.ReadInConfig(); err != nil {
		return sc, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	if sc, err = scenarioFromViper(v); err != nil {
		return sc, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

func scenarioFromViper(v *viper.Viper) (sc Scenario, err error) {
	sc.Name = v.GetString("name")

	// Read the vehicle.
	fuelType, err := FuelTypeFromString(v.GetString("rocket.fuel_type"))
	if err != nil {
		return sc, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	sc.Rocket = RocketConfig{
		Name:            v.GetString("rocket.name"),
		MassEmpty:       v.GetFloat64("rocket.mass_empty"),
		MassFuel:        v.GetFloat64("rocket.mass_fuel"),
		MassFuelMax:     v.GetFloat64("rocket.mass_fuel_max"),
		FuelType:        fuelType,
		DragCoefficient: v.GetFloat64("rocket.drag_coefficient"),
		CrossSection:    v.GetFloat64("rocket.cross_section"),
	}
	var engines []engineConf
	if err = v.UnmarshalKey("rocket.engines", &engines); err != nil {
		return sc, fmt.Errorf("%w: engines: %s", ErrInvalidConfig, err)
	}
	for _, eng := range engines {
		count := eng.Count
		if count <= 0 {
			count = 1
		}
		for range count {
			sc.Rocket.Engines = append(sc.Rocket.Engines, Engine{eng.Thrust, eng.FuelConsumption, eng.Active == nil || *eng.Active})
		}
	}
	if err = sc.Rocket.Validate(); err != nil {
		return sc, err
	}
	if sc.Name == "" {
		sc.Name = sc.Rocket.Name
	}

	// Read the body, possibly overriding the catalog values.
	if sc.Planet, err = PlanetFromString(v.GetString("planet.name")); err != nil {
		return sc, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	for key, field := range map[string]*float64{
		"planet.radius":            &sc.Planet.Radius,
		"planet.mass":              &sc.Planet.Mass,
		"planet.atmosphere_height": &sc.Planet.AtmosphereHeight,
		"planet.surface_pressure":  &sc.Planet.SurfacePressure,
		"planet.scale_height":      &sc.Planet.ScaleHeight,
	} {
		if v.IsSet(key) {
			*field = v.GetFloat64(key)
		}
	}
	if !(sc.Planet.Radius > 0) {
		return sc, fmt.Errorf("%w: planet radius must be positive", ErrInvalidConfig)
	}

	// Launch site
	sc.Latitude = v.GetFloat64("launch.lat")
	sc.Longitude = v.GetFloat64("launch.lon")
	sc.Altitude = v.GetFloat64("launch.alt")
	sc.Epoch = J2000
	if v.IsSet("launch.epoch") {
		sc.Epoch = confReadJDEorTime(v, "launch.epoch")
	}

	// Mission parameters
	sc.Step = v.GetDuration("mission.step")
	sc.Duration = v.GetDuration("mission.duration")
	sc.StopOnOrbit = v.GetBool("mission.stop_on_orbit")
	if !(sc.Step > 0) {
		return sc, fmt.Errorf("%w: time step must be positive, got %s", ErrInvalidConfig, sc.Step)
	}

	sc.Guidance = v.GetString("guidance.law")
	sc.TargetAltitude = v.GetFloat64("guidance.target_altitude")
	if _, err = GuidanceFromString(sc.Guidance, sc.Rocket, sc.Planet, sc.TargetAltitude); err != nil {
		return sc, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	sc.Export = ExportConfig{
		Dir:       v.GetString("export.dir"),
		Filename:  v.GetString("export.filename"),
		Cosmo:     v.GetBool("export.cosmo"),
		AsCSV:     v.GetBool("export.csv"),
		Timestamp: v.GetBool("export.timestamp"),
		Every:     v.GetDuration("export.every"),
	}
	if sc.Export.Filename == "" {
		sc.Export.Filename = strings.ReplaceAll(strings.ToLower(sc.Name), " ", "-")
	}
	return sc, nil
}

// confReadJDEorTime reads a date either as a Julian ephemeris date or as a time.
func confReadJDEorTime(v *viper.Viper, key string) (dt time.Time) {
	jde := v.GetFloat64(key)
	if jde == 0 {
		dt = v.GetTime(key)
	} else {
		dt = julian.JDToTime(jde)
	}
	return
}

// Mission returns the mission flying this scenario.
func (sc Scenario) Mission(logger kitlog.Logger) (*Mission, error) {
	ctrl, err := GuidanceFromString(sc.Guidance, sc.Rocket, sc.Planet, sc.TargetAltitude)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	pos := SphericalToCartesian(sc.Latitude, sc.Longitude, sc.Altitude, sc.Planet)
	m := NewMission(sc.Name, sc.Rocket, sc.Planet, pos, ctrl, sc.Duration, logger)
	m.Epoch = sc.Epoch
	m.Step = sc.Step
	m.StopOnOrbit = sc.StopOnOrbit
	m.Export = sc.Export
	return m, nil
}
