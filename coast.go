package startrek

import (
	"github.com/Andezion/StarTrek/integrator"
)

// coastArc is an integrator.Integrable of a gravity only trajectory.
type coastArc struct {
	planet  PlanetConfig
	state   []float64
	horizon float64
	impact  bool
	track   []Vector3
}

// GetState implements the integrator.Integrable interface.
func (c *coastArc) GetState() []float64 {
	return c.state
}

// SetState implements the integrator.Integrable interface.
func (c *coastArc) SetState(t float64, s []float64) {
	c.state = s
	R := vectorFromSlice(s)
	if R.Magnitude() <= c.planet.Radius {
		c.impact = true
	}
	c.track = append(c.track, R)
}

// Stop implements the integrator.Integrable interface.
func (c *coastArc) Stop(t float64) bool {
	return c.impact || t >= c.horizon
}

// Func implements the integrator.Integrable interface.
func (c *coastArc) Func(t float64, f []float64) []float64 {
	fDot := make([]float64, 6)
	// d\vec{R}/dt
	fDot[0] = f[3]
	fDot[1] = f[4]
	fDot[2] = f[5]
	// d\vec{V}/dt
	g := Gravity(vectorFromSlice(f), c.planet)
	fDot[3] = g.X
	fDot[4] = g.Y
	fDot[5] = g.Z
	return fDot
}

// PredictCoast returns the ballistic track (gravity only, engines off, no drag) of the
// vehicle sampled every step seconds, up to horizon seconds or surface impact.
// The state is not modified. Terminal states and invalid steps yield no track.
func PredictCoast(s RocketState, planet PlanetConfig, horizon, step float64) []Vector3 {
	if s.Terminal() || !(horizon > 0) {
		return nil
	}
	arc := &coastArc{
		planet:  planet,
		state:   append(s.Position.Slice(), s.Velocity.Slice()...),
		horizon: horizon,
	}
	rk, err := integrator.NewRK4(0, step, arc)
	if err != nil {
		return nil
	}
	rk.Solve()
	return arc.track
}
