package startrek

import (
	"fmt"
	"math"
	"sort"
)

// GravityTurnConfig holds the parameters of a gravity turn ascent.
type GravityTurnConfig struct {
	TargetAltitude float64 // m, altitude of the target orbit
	TurnStartAlt   float64 // m, vertical rise below this altitude
	TurnEndAlt     float64 // m, horizontal flight above this altitude
	AutoPitch      bool
}

// GravityTurnForOrbit returns the gravity turn parameters to reach the provided orbit altitude.
// The turn never ends before it starts: very low targets around airless bodies turn at once.
func GravityTurnForOrbit(planet PlanetConfig, targetAltitude float64) GravityTurnConfig {
	start := math.Max(targetAltitude*0.01, 1000)
	return GravityTurnConfig{
		TargetAltitude: targetAltitude,
		TurnStartAlt:   start,
		TurnEndAlt:     math.Max(start, math.Max(targetAltitude*0.7, planet.AtmosphereHeight*0.5)),
		AutoPitch:      true,
	}
}

// OptimalPitch returns the pitch (in degrees) advised by the gravity turn: straight up
// below the start of the turn, horizontal above its end, and an ease-out ramp in between.
// The altitude is derived from the position. This does not modify the state.
func OptimalPitch(s RocketState, planet PlanetConfig, gt GravityTurnConfig) float64 {
	if !gt.AutoPitch {
		return 0
	}
	alt := s.Position.Magnitude() - planet.Radius
	if alt < gt.TurnStartAlt {
		return 0
	}
	if alt >= gt.TurnEndAlt {
		return 90
	}
	progress := (alt - gt.TurnStartAlt) / (gt.TurnEndAlt - gt.TurnStartAlt)
	return 90 * math.Sin(progress*math.Pi/2)
}

// GuidanceLaw defines an enum of guidance laws.
type GuidanceLaw uint8

const (
	coast GuidanceLaw = iota + 1
	vertical
	gravityTurn
	pitchProgram
)

func (gl GuidanceLaw) String() string {
	switch gl {
	case coast:
		return "coast"
	case vertical:
		return "vertical"
	case gravityTurn:
		return "gravity-turn"
	case pitchProgram:
		return "pitch-program"
	}
	panic("cannot stringify unknown guidance law")
}

// Controller builds the control command of the next tick from the current state.
type Controller interface {
	Command(s RocketState) ControlCommand
	Type() GuidanceLaw
	Reason() string
}

// GenericGL partially defines a Controller.
type GenericGL struct {
	reason string
	gl     GuidanceLaw
	// engines is the number of engines of the vehicle.
	engines int
}

// Reason implements the Controller interface.
func (gl GenericGL) Reason() string {
	return gl.reason
}

// Type implements the Controller interface.
func (gl GenericGL) Type() GuidanceLaw {
	return gl.gl
}

// fullThrottle returns the full throttle command, or a cutoff once the fuel is exhausted.
func (gl GenericGL) fullThrottle(s RocketState, pitch float64) ControlCommand {
	cmd := NewControlCommand(gl.engines, 1, pitch)
	if s.FuelRemaining <= 0 {
		return cmd.Cutoff()
	}
	return cmd
}

/* Let's define some guidance laws. */

// Coast defines a guidance law which does not thrust.
type Coast struct {
	GenericGL
}

// Command implements the Controller interface.
func (gl Coast) Command(s RocketState) ControlCommand {
	return NewControlCommand(gl.engines, 0, 0)
}

// NewCoast returns a coasting guidance law for a vehicle with that many engines.
func NewCoast(engines int) Coast {
	return Coast{GenericGL{"engines off", coast, engines}}
}

// Vertical thrusts straight up at full throttle until the fuel is exhausted.
type Vertical struct {
	GenericGL
}

// Command implements the Controller interface.
func (gl Vertical) Command(s RocketState) ControlCommand {
	return gl.fullThrottle(s, 0)
}

// NewVertical returns a vertical ascent guidance law.
func NewVertical(engines int) Vertical {
	return Vertical{GenericGL{"vertical ascent", vertical, engines}}
}

// GravityTurnAscent flies the gravity turn pitch profile at full throttle until the
// predicted apoapsis reaches the target altitude. It then coasts out of the atmosphere
// up to the apoapsis, and circularizes with a horizontal burn until the orbit is stable.
type GravityTurnAscent struct {
	Planet  PlanetConfig
	Turn    GravityTurnConfig
	Vehicle RocketConfig
	GenericGL
}

// Command implements the Controller interface.
func (gl GravityTurnAscent) Command(s RocketState) ControlCommand {
	pred := PredictOrbit(s, gl.Planet)
	switch {
	case s.InOrbit || pred.IsStable:
		return NewControlCommand(gl.engines, 0, 90)
	case !pred.Closed() || pred.Apoapsis < gl.Turn.TargetAltitude:
		return gl.fullThrottle(s, OptimalPitch(s, gl.Planet, gl.Turn))
	case !gl.nearApoapsis(s, pred):
		return NewControlCommand(gl.engines, 0, 90)
	}
	return gl.fullThrottle(s, gl.holdPitch(s))
}

// nearApoapsis returns whether the circularization burn may start: out of the
// atmosphere, and either past the apoapsis or within 1% of the target below it.
func (gl GravityTurnAscent) nearApoapsis(s RocketState, pred OrbitPrediction) bool {
	alt := s.Position.Magnitude() - gl.Planet.Radius
	if alt < gl.Planet.AtmosphereHeight {
		return false
	}
	return s.Position.Normalize().Dot(s.Velocity) <= 0 || alt >= pred.Apoapsis-0.01*gl.Turn.TargetAltitude
}

// holdPitch returns the pitch of the circularization burn: horizontal, unless the vehicle
// is sinking, in which case the thrust is raised to cancel what the orbital speed does not.
func (gl GravityTurnAscent) holdPitch(s RocketState) float64 {
	r := s.Position.Magnitude()
	thrust := gl.Vehicle.MaxThrust()
	vr := s.Position.Normalize().Dot(s.Velocity)
	if vr >= 0 || r < normε || thrust < thrustε {
		return 90
	}
	vh2 := s.Velocity.Dot(s.Velocity) - vr*vr
	lift := s.MassCurrent * (gl.Planet.GM()/(r*r) - vh2/r)
	if lift <= 0 {
		return 90
	}
	return math.Acos(math.Min(1, lift/thrust)) / deg2rad
}

// NewGravityTurnAscent returns the gravity turn guidance of that vehicle to reach the provided orbit altitude.
func NewGravityTurnAscent(vehicle RocketConfig, planet PlanetConfig, targetAltitude float64) GravityTurnAscent {
	return GravityTurnAscent{planet, GravityTurnForOrbit(planet, targetAltitude), vehicle, GenericGL{fmt.Sprintf("gravity turn to %.0f km", targetAltitude/1e3), gravityTurn, len(vehicle.Engines)}}
}

// PitchPoint is one entry of a pitch program.
type PitchPoint struct {
	Altitude float64 // m
	Pitch    float64 // degrees
}

// PitchProgram interpolates the pitch linearly between altitude breakpoints,
// at full throttle. Below the first point the first pitch is used, above the last the last one.
type PitchProgram struct {
	Points []PitchPoint
	Planet PlanetConfig
	GenericGL
}

// Pitch returns the programmed pitch at the provided altitude.
func (gl PitchProgram) Pitch(altitude float64) float64 {
	pts := gl.Points
	if len(pts) == 0 {
		return 0
	}
	if altitude <= pts[0].Altitude {
		return pts[0].Pitch
	}
	for i := 1; i < len(pts); i++ {
		if altitude < pts[i].Altitude {
			prev := pts[i-1]
			progress := (altitude - prev.Altitude) / (pts[i].Altitude - prev.Altitude)
			return prev.Pitch + progress*(pts[i].Pitch-prev.Pitch)
		}
	}
	return pts[len(pts)-1].Pitch
}

// Command implements the Controller interface.
func (gl PitchProgram) Command(s RocketState) ControlCommand {
	return gl.fullThrottle(s, gl.Pitch(s.Position.Magnitude()-gl.Planet.Radius))
}

// NewPitchProgram returns a pitch program from the provided points, sorted by altitude.
func NewPitchProgram(engines int, planet PlanetConfig, points []PitchPoint) PitchProgram {
	pts := make([]PitchPoint, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Altitude < pts[j].Altitude })
	return PitchProgram{pts, planet, GenericGL{"pitch program", pitchProgram, engines}}
}

// DefaultPitchProgram is a fast low altitude pitch over: vertical up to 500 m,
// then 25° at 600 m, 60° at 700 m, 80° at 800 m and horizontal from 900 m.
func DefaultPitchProgram(engines int, planet PlanetConfig) PitchProgram {
	return NewPitchProgram(engines, planet, []PitchPoint{{500, 0}, {600, 25}, {700, 60}, {800, 80}, {900, 90}})
}

// GuidanceFromString returns the guidance law from its name.
func GuidanceFromString(name string, config RocketConfig, planet PlanetConfig, targetAltitude float64) (Controller, error) {
	engines := len(config.Engines)
	switch name {
	case "coast":
		return NewCoast(engines), nil
	case "vertical", "":
		return NewVertical(engines), nil
	case "gravity-turn":
		return NewGravityTurnAscent(config, planet, targetAltitude), nil
	case "pitch-program":
		return DefaultPitchProgram(engines, planet), nil
	default:
		return nil, fmt.Errorf("undefined guidance law '%s'", name)
	}
}
