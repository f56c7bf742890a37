// Package trace records per-step body samples from a world and exports them.
package trace

import (
	"fmt"
	"io"
	"math"

	"github.com/gocarina/gocsv"
	"github.com/milk9111/bodybind/physics"
	"github.com/milk9111/bodybind/scene"
)

// Sample is one body's state after a world step.
type Sample struct {
	Step     int     `csv:"step"`
	Body     string  `csv:"body"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Rotation float64 `csv:"rotation"`
	VX       float64 `csv:"vx"`
	VY       float64 `csv:"vy"`
	Omega    float64 `csv:"omega"`
	Awake    bool    `csv:"awake"`
}

func (s Sample) Speed() float64 {
	return math.Hypot(s.VX, s.VY)
}

// Recorder samples every initialized body of a world each time it steps.
type Recorder struct {
	world   *physics.World
	conn    scene.Connection
	every   int
	samples []Sample

	flushed       int
	headerWritten bool
}

// NewRecorder starts recording w. every selects one step in every n; values
// below 1 record all steps.
func NewRecorder(w *physics.World, every int) *Recorder {
	if every < 1 {
		every = 1
	}
	r := &Recorder{world: w, every: every}
	r.conn = w.Stepped.Connect(r.record)
	return r
}

func (r *Recorder) record(step int) {
	if step%r.every != 0 {
		return
	}
	for _, b := range r.world.Bodies() {
		if b.State() != physics.Initialized {
			continue
		}
		v := b.LinearVelocity()
		r.samples = append(r.samples, Sample{
			Step:     step,
			Body:     b.Item.Name,
			X:        b.X(),
			Y:        b.Y(),
			Rotation: b.Rotation(),
			VX:       v.X,
			VY:       v.Y,
			Omega:    b.AngularVelocity(),
			Awake:    b.IsAwake(),
		})
	}
}

// Stop disconnects the recorder from its world. Samples are kept.
func (r *Recorder) Stop() {
	r.world.Stepped.Disconnect(r.conn)
}

// Samples returns a copy of everything recorded so far.
func (r *Recorder) Samples() []Sample {
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

func (r *Recorder) Len() int {
	return len(r.samples)
}

// WriteCSV writes the samples recorded since the previous call. The header
// is written on the first call only.
func (r *Recorder) WriteCSV(out io.Writer) error {
	pending := r.samples[r.flushed:]
	if len(pending) == 0 {
		return nil
	}
	if !r.headerWritten {
		if err := gocsv.Marshal(pending, out); err != nil {
			return fmt.Errorf("trace: writing samples: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(pending, out); err != nil {
			return fmt.Errorf("trace: writing samples: %w", err)
		}
	}
	r.flushed = len(r.samples)
	return nil
}

// ReadCSV parses samples previously written by WriteCSV.
func ReadCSV(in io.Reader) ([]Sample, error) {
	var samples []Sample
	if err := gocsv.Unmarshal(in, &samples); err != nil {
		return nil, fmt.Errorf("trace: reading samples: %w", err)
	}
	return samples, nil
}
