package integrator

import "errors"

// RK4 defines a classical fourth order Runge Kutta integrator with a fixed step.
type RK4 struct {
	X0         float64    // The initial x0.
	StepSize   float64    // The step size.
	Integrator Integrable // What is to be integrated.
}

// NewRK4 returns a new RK4 integrator instance.
func NewRK4(x0 float64, stepSize float64, inte Integrable) (r *RK4, err error) {
	if !(stepSize > 0) {
		return nil, errors.New("step size must be positive")
	}
	if inte == nil {
		return nil, errors.New("integrable may not be nil")
	}
	return &RK4{X0: x0, StepSize: stepSize, Integrator: inte}, nil
}

// Solve solves the configured RK4.
// Returns the number of iterations performed and the last x_i.
func (r *RK4) Solve() (uint64, float64) {
	const (
		half     = 1 / 2.0
		oneSixth = 1 / 6.0
		oneThird = 1 / 3.0
	)

	iterNum := uint64(0)
	xi := r.X0
	halfStep := r.StepSize * half
	for !r.Integrator.Stop(xi) {
		state := r.Integrator.GetState()
		newState := make([]float64, len(state))
		k1 := make([]float64, len(state))
		// k2, k3, k4 are used as buffers AND result variables.
		k2 := make([]float64, len(state))
		k3 := make([]float64, len(state))
		k4 := make([]float64, len(state))
		tState := make([]float64, len(state))

		// Compute the k's.
		for i, y := range r.Integrator.Func(xi, state) {
			k1[i] = y * r.StepSize
			tState[i] = state[i] + k1[i]*half
		}
		for i, y := range r.Integrator.Func(xi+halfStep, tState) {
			k2[i] = y * r.StepSize
			tState[i] = state[i] + k2[i]*half
		}
		for i, y := range r.Integrator.Func(xi+halfStep, tState) {
			k3[i] = y * r.StepSize
			tState[i] = state[i] + k3[i]
		}
		for i, y := range r.Integrator.Func(xi+r.StepSize, tState) {
			k4[i] = y * r.StepSize
			newState[i] = state[i] + oneSixth*(k1[i]+k4[i]) + oneThird*(k2[i]+k3[i])
		}
		xi += r.StepSize
		r.Integrator.SetState(xi, newState)
		iterNum++ // Don't forget to increment the number of iterations.
	}

	return iterNum, xi
}
