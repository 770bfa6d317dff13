// Package store persists integration runs as JSON metadata plus a CSV
// grid dump, one directory per run.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/pathint/internal/config"
	"github.com/san-kum/pathint/internal/quad"
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
	ID         string    `json:"id"`
	Integrand  string    `json:"integrand"`
	Timestamp  time.Time `json:"timestamp"`
	P          int       `json:"p"`
	Atol       float64   `json:"atol"`
	Rtol       float64   `json:"rtol"`
	TInit      float64   `json:"t_init"`
	TFinal     float64   `json:"t_final"`
	Integral   []float64 `json:"integral"`
	Points     int       `json:"points"`
	Evals      int       `json:"evals"`
	Rounds     int       `json:"rounds"`
	Degenerate bool      `json:"degenerate,omitempty"`
}

func (s *Store) Save(cfg *config.Config, out *quad.IntegralOutput) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Integrand, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Integrand:  cfg.Integrand,
		Timestamp:  time.Now(),
		P:          cfg.P,
		Atol:       cfg.Atol,
		Rtol:       cfg.Rtol,
		TInit:      cfg.TInit,
		TFinal:     cfg.TFinal,
		Integral:   out.Integral,
		Points:     len(out.Times),
		Evals:      out.Evals,
		Rounds:     out.Rounds,
		Degenerate: out.Degenerate,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "grid.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(out.Samples) == 0 {
		return runID, nil
	}

	header := []string{"t"}
	for i := range out.Samples[0] {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range out.Times {
		row := []string{strconv.FormatFloat(out.Times[i], 'g', -1, 64)}
		for _, val := range out.Samples[i] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	return runID, nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadGrid reads back the times and samples of a saved run.
func (s *Store) LoadGrid(runID string) ([]float64, []quad.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "grid.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []quad.Sample{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	samples := make([]quad.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		sample := make(quad.Sample, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			sample = append(sample, val)
		}
		times = append(times, t)
		samples = append(samples, sample)
	}
	return times, samples, nil
}
