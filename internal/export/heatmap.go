package export

import (
	"fmt"
	"io"
	"math"

	"github.com/san-kum/spherevi/internal/grid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	heatmapWidth  = 8 * vg.Inch
	heatmapHeight = 7 * vg.Inch
)

// shell exposes the values of one radial shell as a plotter.GridXYZ with
// theta on the x axis and phi on the y axis.
type shell struct {
	g      *grid.Grid
	values []float64
	ring   int
}

func (s shell) Dims() (c, r int) {
	_, ntheta, nphi := s.g.Dims()
	return ntheta, nphi
}

func (s shell) Z(c, r int) float64 { return s.values[s.g.Index(s.ring, c, r)] }
func (s shell) X(c int) float64    { return s.g.Theta.Coords[c] }
func (s shell) Y(r int) float64    { return s.g.Phi.Coords[r] }

// HeatmapPlot builds a value heatmap of radial shell ring.
func HeatmapPlot(g *grid.Grid, values []float64, ring int) (*plot.Plot, error) {
	nr, _, _ := g.Dims()
	if ring < 0 || ring >= nr {
		return nil, fmt.Errorf("ring %d out of range [0,%d)", ring, nr)
	}
	if len(values) != g.Size() {
		return nil, fmt.Errorf("got %d values for %d states", len(values), g.Size())
	}

	data := shell{g: g, values: values, ring: ring}
	h := plotter.NewHeatMap(data, palette.Heat(16, 1))
	if h.Min == h.Max || math.IsInf(h.Max-h.Min, 0) {
		h.Max = h.Min + 1
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("J at r = %g", g.R.Coords[ring])
	p.X.Label.Text = "theta"
	p.Y.Label.Text = "phi"
	p.Add(h)
	return p, nil
}

// WriteHeatmap renders the shell in the given format ("png", "svg", "pdf").
func WriteHeatmap(w io.Writer, g *grid.Grid, values []float64, ring int, format string) error {
	p, err := HeatmapPlot(g, values, ring)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(heatmapWidth, heatmapHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveHeatmap writes the shell to path; the extension selects the format.
func SaveHeatmap(path string, g *grid.Grid, values []float64, ring int) error {
	p, err := HeatmapPlot(g, values, ring)
	if err != nil {
		return err
	}
	return p.Save(heatmapWidth, heatmapHeight, path)
}
