package startrek

import "math"

const (
	dragSpeedε   = 1e-6 // m/s
	thrustε      = 1e-6 // N
	poleFrameε   = 0.01 // |up x Z| below which the frame uses the X axis
	landingSpeed = 5.0  // m/s
)

// Gravity returns the gravitational acceleration at the provided position.
// Inside the body the field is zero: the ground contact check handles that case.
func Gravity(position Vector3, planet PlanetConfig) Vector3 {
	d := position.Magnitude()
	if d < planet.Radius || d < normε {
		return Vector3{}
	}
	return position.Normalize().Scale(-planet.GM() / (d * d))
}

// AirDensity returns the density of the exponential atmosphere at the provided altitude.
func AirDensity(altitude float64, planet PlanetConfig) float64 {
	if !planet.HasAtmosphere() {
		return 0
	}
	return planet.SurfacePressure * SeaLevelDensity * math.Exp(-altitude/planet.ScaleHeight)
}

// Drag returns the aerodynamic drag force opposing the velocity.
// Drag only applies strictly between the surface and the top of the atmosphere.
func Drag(s RocketState, config RocketConfig, planet PlanetConfig) Vector3 {
	if !planet.HasAtmosphere() || !(s.Altitude > 0 && s.Altitude < planet.AtmosphereHeight) {
		return Vector3{}
	}
	v := s.Velocity.Magnitude()
	if v < dragSpeedε {
		return Vector3{}
	}
	ρ := AirDensity(s.Altitude, planet)
	force := 0.5 * ρ * v * v * config.DragCoefficient * config.CrossSection
	return s.Velocity.Normalize().Scale(-force)
}

// LocalFrame returns the local radial up and east unit vectors at the provided position.
// East is built from the Z axis, unless the position is too close to the poles
// in which case the X axis is used instead.
func LocalFrame(position Vector3) (up, east Vector3) {
	up = position.Normalize()
	e := up.Cross(AxisZ)
	if e.Magnitude() < poleFrameε {
		e = up.Cross(AxisX)
	}
	return up, e.Normalize()
}

// ThrustDirection returns the unit thrust direction for the pitch (in degrees).
// Yaw and roll are not part of the attitude model.
func ThrustDirection(position Vector3, pitch float64) Vector3 {
	up, east := LocalFrame(position)
	sθ, cθ := math.Sincos(pitch * deg2rad)
	return up.Scale(cθ).Add(east.Scale(sθ))
}

// ThrustMagnitude returns the total thrust of the active engines for this command.
func ThrustMagnitude(config RocketConfig, cmd ControlCommand) (thrust float64) {
	for i := 0; i < len(config.Engines) && i < len(cmd.EngineThrottle); i++ {
		if config.Engines[i].IsActive {
			thrust += config.Engines[i].Thrust * cmd.Throttle(i)
		}
	}
	return
}

// Thrust returns the thrust force vector at the provided position.
func Thrust(position Vector3, config RocketConfig, cmd ControlCommand) Vector3 {
	thrust := ThrustMagnitude(config, cmd)
	if thrust < thrustε {
		return Vector3{}
	}
	return ThrustDirection(position, cmd.Pitch).Scale(thrust)
}

// FuelConsumption returns the fuel used (in kg) over dt seconds for this command.
func FuelConsumption(config RocketConfig, cmd ControlCommand, dt float64) (used float64) {
	for i := 0; i < len(config.Engines) && i < len(cmd.EngineThrottle); i++ {
		if config.Engines[i].IsActive {
			used += config.Engines[i].FuelConsumption * cmd.Throttle(i)
		}
	}
	return used * dt
}
