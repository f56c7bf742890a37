package trace

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BodyStats summarizes one body's motion over a trace.
type BodyStats struct {
	Body      string
	Samples   int
	MeanSpeed float64
	StdSpeed  float64
	MaxSpeed  float64
	// AwakeFraction is the share of samples where the body was awake.
	AwakeFraction float64
}

// Summarize groups samples by body, in order of first appearance.
func Summarize(samples []Sample) []BodyStats {
	var order []string
	speeds := make(map[string][]float64)
	awake := make(map[string]int)
	for _, s := range samples {
		if _, ok := speeds[s.Body]; !ok {
			order = append(order, s.Body)
		}
		speeds[s.Body] = append(speeds[s.Body], s.Speed())
		if s.Awake {
			awake[s.Body]++
		}
	}

	out := make([]BodyStats, 0, len(order))
	for _, name := range order {
		v := speeds[name]
		st := BodyStats{
			Body:          name,
			Samples:       len(v),
			MaxSpeed:      floats.Max(v),
			AwakeFraction: float64(awake[name]) / float64(len(v)),
		}
		if len(v) > 1 {
			st.MeanSpeed, st.StdSpeed = stat.MeanStdDev(v, nil)
		} else {
			st.MeanSpeed = v[0]
		}
		out = append(out, st)
	}
	return out
}
