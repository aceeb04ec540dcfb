package startrek

import "math"

// Step advances the state by dt seconds with an explicit (forward) Euler scheme.
//
// This is a fixed step, first order integrator: there is no sub-stepping nor error
// control, so the numerical error grows with dt (0.1 s is the usual choice).
// Once the vehicle has landed or crashed, Step is a no-op. A non positive dt is ignored.
func (s *RocketState) Step(config RocketConfig, cmd ControlCommand, planet PlanetConfig, dt float64) {
	if s.Landed || s.Crashed || !(dt > 0) {
		return
	}

	// Sum of the forces. Gravity is a field, hence scaled by the current mass.
	gravity := Gravity(s.Position, planet).Scale(s.MassCurrent)
	drag := Drag(*s, config, planet)
	thrust := Thrust(s.Position, config, cmd)
	force := gravity.Add(drag).Add(thrust)

	if s.MassCurrent > 0 {
		s.Acceleration = force.Scale(1 / s.MassCurrent)
	} else {
		s.Acceleration = Vector3{}
	}

	s.Velocity = s.Velocity.Add(s.Acceleration.Scale(dt))
	s.Position = s.Position.Add(s.Velocity.Scale(dt))
	s.Speed = s.Velocity.Magnitude()

	s.FuelRemaining = math.Max(0, s.FuelRemaining-FuelConsumption(config, cmd, dt))
	s.MassCurrent = config.MassEmpty + s.FuelRemaining

	r := s.Position.Magnitude()
	s.Altitude = r - planet.Radius

	if r <= planet.Radius {
		if s.Speed < landingSpeed {
			s.Landed = true
		} else {
			s.Crashed = true
		}
		// Once grounded, the orbit flag must never be asserted again.
		s.InOrbit = false
		s.Velocity = Vector3{}
		s.Acceleration = Vector3{}
		return
	}

	s.InOrbit = orbitVerdict(*s, planet)
	s.Time += dt
}

// StepEarth is Step around the Earth.
func (s *RocketState) StepEarth(config RocketConfig, cmd ControlCommand, dt float64) {
	s.Step(config, cmd, Earth, dt)
}

// orbitVerdict uses the full predictor, unless the body has no usable mass.
func orbitVerdict(s RocketState, planet PlanetConfig) bool {
	if planet.GM() > 0 {
		return PredictOrbit(s, planet).IsStable
	}
	return InOrbitBySpeedRatio(s, planet)
}
