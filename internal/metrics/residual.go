package metrics

import "github.com/san-kum/spherevi/internal/solver"

// Residual reports the largest absolute value change of the latest sweep.
type Residual struct {
	name string
	last float64
}

func NewResidual() *Residual {
	return &Residual{name: "residual"}
}

func (r *Residual) Name() string {
	return r.name
}

func (r *Residual) Observe(sw *solver.Sweep) {
	r.last = sw.Residual
}

func (r *Residual) Value() float64 {
	return r.last
}

func (r *Residual) Reset() {
	r.last = 0
}
