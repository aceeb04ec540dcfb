package startrek

import (
	"context"
	"errors"
	"fmt"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
)

const (
	// StepSize is the default step size of the simulation.
	StepSize = 100 * time.Millisecond
	// statusEvery is the simulated time between two status reports.
	statusEvery = 10 * time.Second
)

/* Drives the flight of one vehicle. */

// Mission advances one vehicle tick by tick: it asks its Controller for the next
// command and calls Step. A Mission is not safe for concurrent use, but distinct
// missions share nothing and may run in parallel (cf. RunFleet).
type Mission struct {
	Name        string
	Vehicle     RocketConfig
	Planet      PlanetConfig
	State       *RocketState // As pointer because the state changes during the flight.
	Controller  Controller
	Epoch       time.Time     // date of the launch
	Step        time.Duration // time step
	Duration    time.Duration // maximum simulated time
	StopOnOrbit bool          // stop as soon as the vehicle is in orbit
	Export      ExportConfig
	logger      kitlog.Logger
}

// MissionState stores a simulated state, as streamed to the exporter.
type MissionState struct {
	DT         time.Time
	Name       string
	Planet     PlanetConfig
	State      RocketState
	Prediction OrbitPrediction
}

// Outcome summarizes a finished mission.
type Outcome struct {
	Name        string
	Status      FlightStatus
	State       RocketState
	Steps       uint64
	MaxAltitude float64 // m
	OrbitTime   float64 // s of simulated time at the first orbit insertion, -1 if never
}

func (o Outcome) String() string {
	return fmt.Sprintf("%s: %s after %d steps (max alt %.2f km) %s", o.Name, o.Status, o.Steps, o.MaxAltitude/1e3, o.State)
}

// NewMission returns a new mission launching the vehicle from the provided position,
// with the default step size. Use the exported fields to fine tune it.
func NewMission(name string, vehicle RocketConfig, planet PlanetConfig, position Vector3, ctrl Controller, duration time.Duration, logger kitlog.Logger) *Mission {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Mission{
		Name:       name,
		Vehicle:    vehicle,
		Planet:     planet,
		State:      InitOnPlanet(vehicle, position, planet),
		Controller: ctrl,
		Epoch:      time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		Step:       StepSize,
		Duration:   duration,
		logger:     kitlog.With(logger, "mission", name),
	}
}

// LogStatus logs the status of the flight.
func (m *Mission) LogStatus() {
	level.Info(m.logger).Log("subsys", "flight", "t(s)", m.State.Time, "alt(km)", m.State.Altitude/1e3, "speed(m/s)", m.State.Speed, "fuel(kg)", m.State.FuelRemaining, "status", m.State.Status())
}

// Run flies the mission until the vehicle lands or crashes, the duration elapses, the orbit
// is reached (if StopOnOrbit) or the context is cancelled. The returned outcome is always
// filled, even alongside an error.
func (m *Mission) Run(ctx context.Context) (out Outcome, err error) {
	out = Outcome{Name: m.Name, OrbitTime: -1}
	if m.State == nil {
		return out, errors.New("no initial state")
	}
	out.Status = m.State.Status()
	out.State = *m.State
	out.MaxAltitude = m.State.Altitude
	if m.Controller == nil {
		return out, errors.New("no controller")
	}
	if !(m.Step > 0) {
		return out, fmt.Errorf("invalid time step %s", m.Step)
	}
	if m.logger == nil {
		m.logger = kitlog.NewNopLogger()
	}

	var histChan chan MissionState
	var exportDone chan error
	if !m.Export.IsUseless() {
		histChan = make(chan MissionState, 1000) // a 1k entry buffer
		exportDone = make(chan error, 1)
		go func() {
			exportDone <- StreamStates(m.Export, histChan)
		}()
		histChan <- m.snapshot()
	}

	dt := m.Step.Seconds()
	end := m.Duration.Seconds()
	nextStatus := statusEvery.Seconds()
	m.LogStatus()

	for ; float64(out.Steps)*dt < end && !m.State.Terminal(); out.Steps++ {
		if err = ctx.Err(); err != nil {
			level.Warn(m.logger).Log("subsys", "flight", "status", "interrupted", "err", err)
			break
		}
		cmd := m.Controller.Command(*m.State)
		if m.State.FuelRemaining <= 0 {
			// Flameout: no fuel, no thrust.
			cmd = cmd.Cutoff()
		}
		prev := *m.State
		m.State.Step(m.Vehicle, cmd, m.Planet, dt)
		m.logTransitions(prev, cmd)

		if m.State.Altitude > out.MaxAltitude {
			out.MaxAltitude = m.State.Altitude
		}
		if m.State.InOrbit && out.OrbitTime < 0 {
			out.OrbitTime = m.State.Time
		}
		if histChan != nil {
			histChan <- m.snapshot()
		}
		if m.State.Time >= nextStatus {
			m.LogStatus()
			nextStatus += statusEvery.Seconds()
		}
		if m.StopOnOrbit && m.State.InOrbit {
			out.Steps++
			break
		}
	}

	out.Status = m.State.Status()
	out.State = *m.State
	level.Info(m.logger).Log("subsys", "flight", "status", "finished", "outcome", out.Status, "steps", out.Steps, "max_alt(km)", out.MaxAltitude/1e3, "fuel(kg)", m.State.FuelRemaining)

	if histChan != nil {
		close(histChan)
		if exportErr := <-exportDone; exportErr != nil && err == nil {
			err = fmt.Errorf("export of %s: %w", m.Name, exportErr)
		}
	}
	return out, err
}

func (m *Mission) snapshot() MissionState {
	return MissionState{
		DT:         m.Epoch.Add(time.Duration(m.State.Time * float64(time.Second))),
		Name:       m.Name,
		Planet:     m.Planet,
		State:      *m.State,
		Prediction: PredictOrbit(*m.State, m.Planet),
	}
}

// logTransitions logs the changes of the flight state machine.
func (m *Mission) logTransitions(prev RocketState, cmd ControlCommand) {
	cur := m.State
	if prev.Time == 0 && ThrustMagnitude(m.Vehicle, cmd) > 0 {
		level.Info(m.logger).Log("subsys", "prop", "event", "ignition", "thrust(kN)", ThrustMagnitude(m.Vehicle, cmd)/1e3, "law", m.Controller.Type(), "reason", m.Controller.Reason())
	}
	if prev.FuelRemaining > 0 && cur.FuelRemaining <= 0 {
		pred := PredictOrbit(*cur, m.Planet)
		level.Warn(m.logger).Log("subsys", "prop", "event", "fuel exhausted", "t(s)", cur.Time, "alt(km)", cur.Altitude/1e3, "speed(m/s)", cur.Speed, "orbit", pred, "circularize(m/s)", pred.CircularizationΔv(m.Planet))
	}
	switch {
	case cur.Crashed:
		level.Error(m.logger).Log("subsys", "flight", "event", "crashed", "t(s)", cur.Time, "impact(m/s)", cur.Speed, "body", m.Planet.Name)
	case cur.Landed:
		level.Info(m.logger).Log("subsys", "flight", "event", "landed", "t(s)", cur.Time, "body", m.Planet.Name)
	case cur.InOrbit && !prev.InOrbit:
		level.Info(m.logger).Log("subsys", "flight", "event", "orbit insertion", "t(s)", cur.Time, "orbit", PredictOrbit(*cur, m.Planet), "elements", Elements(*cur, m.Planet))
	case !cur.InOrbit && prev.InOrbit:
		level.Warn(m.logger).Log("subsys", "flight", "event", "orbit lost", "t(s)", cur.Time, "alt(km)", cur.Altitude/1e3)
	}
}

// RunFleet runs independent missions in parallel. The vehicles do not interact.
// The outcomes are returned in the order of the missions; the first error cancels the others.
func RunFleet(ctx context.Context, missions []*Mission) ([]Outcome, error) {
	outcomes := make([]Outcome, len(missions))
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range missions {
		g.Go(func() error {
			out, err := m.Run(ctx)
			outcomes[i] = out
			return err
		})
	}
	return outcomes, g.Wait()
}
