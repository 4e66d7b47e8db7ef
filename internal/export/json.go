package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/spherevi/internal/config"
	"github.com/san-kum/spherevi/internal/grid"
	"github.com/san-kum/spherevi/internal/mdp"
)

// ExportData is the self-describing dump of a solved grid. Values and Policy
// are in flat-index order: index = nr*ntheta*k + ntheta*i + j.
type ExportData struct {
	ID     string       `json:"id,omitempty"`
	Config config.Config `json:"config"`
	Dims   [3]int       `json:"dims"`
	R      []float64    `json:"r"`
	Theta  []float64    `json:"theta"`
	Phi    []float64    `json:"phi"`
	Values []float64    `json:"values"`
	Policy []mdp.Action `json:"policy"`
}

func NewExportData(id string, cfg *config.Config, g *grid.Grid, values []float64, policy []mdp.Action) *ExportData {
	nr, ntheta, nphi := g.Dims()
	return &ExportData{
		ID:     id,
		Config: *cfg,
		Dims:   [3]int{nr, ntheta, nphi},
		R:      g.R.Coords,
		Theta:  g.Theta.Coords,
		Phi:    g.Phi.Coords,
		Values: values,
		Policy: policy,
	}
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}
