package metrics

import (
	"github.com/san-kum/spherevi/internal/mdp"
	"github.com/san-kum/spherevi/internal/solver"
	"gonum.org/v1/gonum/stat"
)

// MeanValue averages the value function over non-terminal states.
type MeanValue struct {
	name   string
	labels *mdp.Labels
	buf    []float64
	last   float64
}

func NewMeanValue(labels *mdp.Labels) *MeanValue {
	return &MeanValue{
		name:   "mean_value",
		labels: labels,
	}
}

func (m *MeanValue) Name() string {
	return m.name
}

func (m *MeanValue) Observe(sw *solver.Sweep) {
	m.buf = m.buf[:0]
	for idx, v := range sw.Values {
		if !m.labels.IsTerminal(idx) {
			m.buf = append(m.buf, v)
		}
	}
	if len(m.buf) == 0 {
		m.last = 0
		return
	}
	m.last = stat.Mean(m.buf, nil)
}

func (m *MeanValue) Value() float64 {
	return m.last
}

func (m *MeanValue) Reset() {
	m.last = 0
	m.buf = m.buf[:0]
}
