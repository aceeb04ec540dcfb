package startrek

import (
	"bytes"
	"context"
	"testing"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orbiterMission() *Mission {
	conf := ReferenceRocket()
	m := NewMission("orbiter", conf, Earth, Vector3{}, NewCoast(len(conf.Engines)), time.Hour, nil)
	m.State = NewStateFromElements(conf, Earth.Radius+400e3, 0.001, 51.6, 10, 20, 30, Earth)
	return m
}

func TestMissionReference(t *testing.T) {
	var buf bytes.Buffer
	m, err := ReferenceScenario().Mission(kitlog.NewLogfmtLogger(&buf))
	require.NoError(t, err)
	out, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Crashed, out.Status)
	assert.Equal(t, -1.0, out.OrbitTime)
	assert.InDelta(t, 21.8e3, out.MaxAltitude, 300)

	// The driver flies exactly like a hand written loop.
	exp, steps, maxAlt := flyReference(t)
	assert.Equal(t, *exp, out.State)
	assert.Equal(t, uint64(steps), out.Steps)
	assert.Equal(t, maxAlt, out.MaxAltitude)

	logs := buf.String()
	for _, event := range []string{"event=ignition", `event="fuel exhausted"`, "event=crashed", "mission=reference", "status=finished"} {
		assert.Contains(t, logs, event)
	}
}

func TestMissionStopOnOrbit(t *testing.T) {
	m := orbiterMission()
	require.True(t, m.State.InOrbit)
	m.StopOnOrbit = true
	out, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, InOrbit, out.Status)
	assert.Equal(t, uint64(1), out.Steps)
	assert.InDelta(t, 0.1, out.OrbitTime, 1e-12)
}

func TestMissionDuration(t *testing.T) {
	m := orbiterMission()
	m.Step = time.Second
	m.Duration = 90 * time.Second
	out, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(90), out.Steps)
	assert.Equal(t, InOrbit, out.Status)
	assert.InDelta(t, 90, out.State.Time, 1e-9)
	assert.Equal(t, ReferenceRocket().WetMass(), out.State.MassCurrent, "coasting burns no fuel")
}

func TestMissionErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := orbiterMission().Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, out.Steps)
	assert.Equal(t, InOrbit, out.Status)

	// Rejected missions still report where the vehicle is.
	m := orbiterMission()
	m.Controller = nil
	out, err = m.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, InOrbit, out.Status)
	assert.Equal(t, *m.State, out.State)
	assert.Contains(t, out.String(), "orbiter: in orbit after 0 steps")

	m = orbiterMission()
	m.Step = 0
	out, err = m.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, InOrbit, out.Status)
	assert.NotContains(t, out.String(), "PANIC")

	m = orbiterMission()
	m.State = nil
	out, err = m.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "orbiter: unknown after 0 steps (max alt 0.00 km) t=0.0s alt=0.00km v=0.0m/s fuel=0kg (flying)", out.String())
}

func TestFlightStatusString(t *testing.T) {
	for status, exp := range map[FlightStatus]string{
		Flying: "flying", InOrbit: "in orbit", Landed: "landed", Crashed: "crashed",
		0: "unknown", 42: "unknown",
	} {
		assert.Equal(t, exp, status.String())
	}
}

func TestRunFleet(t *testing.T) {
	ref, err := ReferenceScenario().Mission(nil)
	require.NoError(t, err)
	missions := []*Mission{ref, orbiterMission()}
	missions[1].Duration = time.Minute

	outcomes, err := RunFleet(context.Background(), missions)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "reference", outcomes[0].Name)
	assert.Equal(t, Crashed, outcomes[0].Status)
	assert.Equal(t, "orbiter", outcomes[1].Name)
	assert.Equal(t, InOrbit, outcomes[1].Status)

	bad := orbiterMission()
	bad.Step = -time.Second
	_, err = RunFleet(context.Background(), []*Mission{orbiterMission(), bad})
	assert.Error(t, err)
}
