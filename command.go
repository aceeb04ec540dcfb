package startrek

import "fmt"

// ControlCommand is the per tick input of the simulation.
// Yaw and Roll are carried for forward compatibility but the thrust model
// does not apply them: the thrust direction only depends on Pitch.
type ControlCommand struct {
	EngineThrottle []float64 // one entry per engine, in [0, 1]
	Pitch          float64   // degrees from local up toward local east
	Yaw            float64   // degrees, reserved
	Roll           float64   // degrees, reserved
}

// NewControlCommand returns a command with the same throttle on all engines.
func NewControlCommand(engines int, throttle, pitch float64) ControlCommand {
	cmd := ControlCommand{EngineThrottle: make([]float64, engines), Pitch: pitch}
	for i := range cmd.EngineThrottle {
		cmd.EngineThrottle[i] = throttle
	}
	return cmd
}

// Cutoff returns a copy of this command with all engines at zero throttle.
func (c ControlCommand) Cutoff() ControlCommand {
	off := c
	off.EngineThrottle = make([]float64, len(c.EngineThrottle))
	return off
}

// Throttle returns the bounded throttle of engine i: entries beyond the
// command are zero, and values are clamped to [0, 1].
func (c ControlCommand) Throttle(i int) float64 {
	if i < 0 || i >= len(c.EngineThrottle) {
		return 0
	}
	thr := c.EngineThrottle[i]
	if thr > 1 {
		return 1
	}
	if !(thr > 0) { // Also catches NaN.
		return 0
	}
	return thr
}

func (c ControlCommand) String() string {
	return fmt.Sprintf("throttle=%v pitch=%.2f", c.EngineThrottle, c.Pitch)
}
