package startrek

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, "xyzv") {
		return errors.New("only InterpolatedStates are supported in Cosmographia trajectory types")
	}
	return nil
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState is one record of a Cosmographia .xyzv file.
// Position is in km and velocity in km/s.
type CgInterpolatedState struct {
	JD       float64
	Position Vector3
	Velocity Vector3
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (i *CgInterpolatedState) FromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("expected 7 fields, got %d", len(record))
	}
	var vals [7]float64
	for k, field := range record {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return err
		}
		vals[k] = val
	}
	i.JD = vals[0]
	i.Position = Vector3{vals[1], vals[2], vals[3]}
	i.Velocity = Vector3{vals[4], vals[5], vals[6]}
	return nil
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position.X, i.Position.Y, i.Position.Z, i.Velocity.X, i.Velocity.Y, i.Velocity.Z)
}

// ParseInterpolatedStates reads the records of a Cosmographia .xyzv file.
func ParseInterpolatedStates(r io.Reader) ([]CgInterpolatedState, error) {
	var states []CgInterpolatedState
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.Comment = '#'
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return states, nil
		}
		if err != nil {
			return states, err
		}
		var state CgInterpolatedState
		if err := state.FromText(record); err != nil {
			return states, fmt.Errorf("line %d: %w", len(states)+1, err)
		}
		states = append(states, state)
	}
}

// ExportConfig configures the exporting of the simulation.
type ExportConfig struct {
	Dir       string // output directory, defaults to the working directory
	Filename  string
	Cosmo     bool
	AsCSV     bool
	Timestamp bool
	// Every is the simulated time between two exported records. Zero exports every step.
	// Terminal states are always exported.
	Every time.Duration
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.Cosmo && !c.AsCSV
}

func (c ExportConfig) path(prefix, ext string) string {
	name := c.Filename
	if c.Timestamp {
		name += "-" + time.Now().UTC().Format("2006-01-02T15.04.05")
	}
	return filepath.Join(c.Dir, fmt.Sprintf("%s-%s.%s", prefix, name, ext))
}

var csvHeader = []string{"time", "epoch", "x", "y", "z", "vx", "vy", "vz", "altitude", "speed", "mass", "fuel", "status", "apoapsis", "periapsis", "eccentricity"}

func csvRecord(st MissionState) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
	s := st.State
	return []string{
		f(s.Time), st.DT.UTC().Format(time.RFC3339Nano),
		f(s.Position.X), f(s.Position.Y), f(s.Position.Z),
		f(s.Velocity.X), f(s.Velocity.Y), f(s.Velocity.Z),
		f(s.Altitude), f(s.Speed), f(s.MassCurrent), f(s.FuelRemaining),
		s.Status().String(),
		f(st.Prediction.Apoapsis), f(st.Prediction.Periapsis),
		strconv.FormatFloat(st.Prediction.Eccentricity, 'f', 6, 64),
	}
}

// stateWriter writes the telemetry files of one mission.
type stateWriter struct {
	conf      ExportConfig
	fCSV      *os.File
	wCSV      *csv.Writer
	fCosmo    *os.File
	cgItem    *CgItems
	first     *MissionState
	lastSaved *MissionState
}

func (w *stateWriter) open(first MissionState) (err error) {
	w.first = &first
	if w.conf.AsCSV {
		if w.fCSV, err = os.Create(w.conf.path("telemetry", "csv")); err != nil {
			return err
		}
		w.wCSV = csv.NewWriter(w.fCSV)
		if err = w.wCSV.Write(csvHeader); err != nil {
			return err
		}
	}
	if w.conf.Cosmo {
		if w.fCosmo, err = os.Create(w.conf.path("prop", "xyzv")); err != nil {
			return err
		}
		// Header
		if _, err = fmt.Fprintf(w.fCosmo, `# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a TDB Julian date
#   Position in km
#   Velocity in km/sec
#   Simulation time start (UTC): %s`, time.Now().UTC(), first.DT.UTC()); err != nil {
			return err
		}
		color := []float64{0.6, 1, 1}
		w.cgItem = &CgItems{
			Class:           "spacecraft",
			Name:            first.Name,
			StartTime:       first.DT.UTC().String(),
			Center:          first.Planet.Name,
			TrajectoryFrame: "ICRF",
			Trajectory:      &CgTrajectory{Type: "InterpolatedStates", Source: filepath.Base(w.fCosmo.Name())},
			Label:           &CgLabel{Color: color, FadeSize: 1000000, ShowText: true},
			TrajectoryPlot:  &CgTrajectoryPlot{Color: color, LineWidth: 1, Lead: "0 d", SampleCount: 10},
		}
	}
	return nil
}

func (w *stateWriter) write(st MissionState) error {
	// Only write one datapoint per export period.
	if w.lastSaved != nil && !st.State.Terminal() && st.DT.Sub(w.lastSaved.DT) < w.conf.Every {
		return nil
	}
	w.lastSaved = &st
	if w.wCSV != nil {
		if err := w.wCSV.Write(csvRecord(st)); err != nil {
			return err
		}
	}
	if w.fCosmo != nil {
		asTxt := CgInterpolatedState{JD: julian.TimeToJD(st.DT), Position: st.State.Position.Scale(1e-3), Velocity: st.State.Velocity.Scale(1e-3)}
		if _, err := w.fCosmo.WriteString("\n" + asTxt.ToText()); err != nil {
			return err
		}
	}
	return nil
}

// close flushes the files and writes the catalog.
func (w *stateWriter) close() error {
	var errs []error
	if w.wCSV != nil {
		w.wCSV.Flush()
		errs = append(errs, w.wCSV.Error())
	}
	if w.fCSV != nil {
		errs = append(errs, w.fCSV.Close())
	}
	if w.fCosmo != nil {
		if w.lastSaved != nil {
			_, err := fmt.Fprintf(w.fCosmo, "\n# Simulation time end (UTC): %s\n", w.lastSaved.DT.UTC())
			errs = append(errs, err)
		}
		errs = append(errs, w.fCosmo.Close())
	}
	if w.cgItem != nil && w.lastSaved != nil {
		end := w.lastSaved.DT.Add(time.Hour)
		w.cgItem.EndTime = end.UTC().String()
		w.cgItem.TrajectoryPlot.Duration = fmt.Sprintf("%d d", int(end.Sub(w.first.DT).Hours()/24+1))
		errs = append(errs, w.writeCatalog())
	}
	return errors.Join(errs...)
}

func (w *stateWriter) writeCatalog() error {
	c := CgCatalog{Version: "1.0", Name: w.first.Name, Items: []*CgItems{w.cgItem}}
	marsh, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(w.conf.path("catalog", "json"), marsh, 0o644)
}

// StreamStates streams the output of the channel to the files of the export config,
// until the channel is closed. The channel is always drained, even after a write error,
// so that the sender never blocks.
func StreamStates(conf ExportConfig, stateChan <-chan MissionState) error {
	w := &stateWriter{conf: conf}
	var err error
	for state := range stateChan {
		if err != nil {
			continue
		}
		if w.first == nil {
			if err = w.open(state); err != nil {
				err = fmt.Errorf("opening export files: %w", err)
				continue
			}
		}
		if err = w.write(state); err != nil {
			err = fmt.Errorf("writing state at t=%.3f: %w", state.State.Time, err)
		}
	}
	return errors.Join(err, w.close())
}
