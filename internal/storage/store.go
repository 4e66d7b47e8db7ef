package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/spherevi/internal/config"
	"github.com/san-kum/spherevi/internal/grid"
	"github.com/san-kum/spherevi/internal/mdp"
	"github.com/san-kum/spherevi/internal/solver"
)

const (
	metadataFile = "metadata.json"
	valuesFile   = "values.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Config    config.Config      `json:"config"`
	Dims      [3]int             `json:"dims"`
	States    int                `json:"states"`
	Sweeps    int                `json:"sweeps"`
	Converged bool               `json:"converged"`
	ElapsedMs float64            `json:"elapsed_ms"`
	Residuals []float64          `json:"residuals"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Grid rebuilds the grid the run was solved on.
func (m *RunMetadata) Grid() (*grid.Grid, error) {
	return grid.Build(m.Config.GridSpecs())
}

func (s *Store) Save(cfg *config.Config, g *grid.Grid, result *solver.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("vi_%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	nr, ntheta, nphi := g.Dims()
	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		Config:    *cfg,
		Dims:      [3]int{nr, ntheta, nphi},
		States:    g.Size(),
		Sweeps:    result.Sweeps,
		Converged: result.Converged,
		ElapsedMs: float64(result.Elapsed.Microseconds()) / 1000,
		Residuals: result.Residuals,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, valuesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteValuesCSV(csvFile, g, result.Values, result.Policy); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteValuesCSV writes one row per state in flat-index order.
func WriteValuesCSV(out io.Writer, g *grid.Grid, values []float64, policy []mdp.Action) error {
	w := csv.NewWriter(out)

	header := []string{"index", "i", "j", "k", "r", "theta", "phi", "value", "action"}
	if err := w.Write(header); err != nil {
		return err
	}

	for idx := range values {
		i, j, k := g.Coords(idx)
		r, theta, phi := g.Point(i, j, k)
		row := []string{
			strconv.Itoa(idx),
			strconv.Itoa(i),
			strconv.Itoa(j),
			strconv.Itoa(k),
			strconv.FormatFloat(r, 'f', -1, 64),
			strconv.FormatFloat(theta, 'f', -1, 64),
			strconv.FormatFloat(phi, 'f', -1, 64),
			strconv.FormatFloat(values[idx], 'g', -1, 64),
			strconv.Itoa(int(policy[idx])),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(a, b int) bool { return runs[a].Timestamp.After(runs[b].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadValues reads the value function and policy of a stored run. The file
// must hold exactly one row per state recorded in the run metadata.
func (s *Store) LoadValues(runID string) ([]float64, []mdp.Action, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, valuesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) > 0 {
		records = records[1:]
	}
	if len(records) != meta.States {
		return nil, nil, fmt.Errorf("%s: %d rows for %d states", valuesFile, len(records), meta.States)
	}

	n := meta.States
	values := make([]float64, n)
	policy := make([]mdp.Action, n)
	seen := make([]bool, n)

	for line, record := range records {
		if len(record) != 9 {
			return nil, nil, fmt.Errorf("%s line %d: expected 9 fields, got %d", valuesFile, line+2, len(record))
		}
		idx, err := strconv.Atoi(record[0])
		if err != nil || idx < 0 || idx >= n || seen[idx] {
			return nil, nil, fmt.Errorf("%s line %d: bad index %q", valuesFile, line+2, record[0])
		}
		v, err := strconv.ParseFloat(record[7], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", valuesFile, line+2, err)
		}
		a, err := strconv.Atoi(record[8])
		if err != nil || a < int(mdp.Terminal) || a >= mdp.NumActions {
			return nil, nil, fmt.Errorf("%s line %d: bad action %q", valuesFile, line+2, record[8])
		}
		seen[idx] = true
		values[idx] = v
		policy[idx] = mdp.Action(a)
	}

	return values, policy, nil
}
