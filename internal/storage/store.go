package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/stats"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var ErrMalformedSeries = errors.New("storage: malformed series file")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	N         int                `json:"n"`
	Seed      uint32             `json:"seed"`
	Repeats   int                `json:"repeats"`
	MaxTime   int                `json:"max_time"`
	Rule      string             `json:"rule,omitempty"`
	Beta      float64            `json:"beta,omitempty"`
	Probs     []float64          `json:"probs"`
	Backend   string             `json:"backend"`
	Workers   int                `json:"workers"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Exact     bool               `json:"exact"`
	Summary   map[string]float64 `json:"summary"`
}

// Save writes meta and the magnetization series of out under a fresh run
// directory. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, out *ising.Output) (runID string, err error) {
	now := time.Now()
	name := meta.Name
	if name == "" {
		name = "run"
	}
	runID = fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
			runID = ""
		}
	}()

	meta.ID = runID
	meta.Timestamp = now
	meta.Exact = out.Exact

	// metadata.json is written last; List keys on it.
	series := stats.Series{Means: out.Means, Stddevs: out.Stddevs}
	if err := writeFile(filepath.Join(runDir, seriesFile), func(w io.Writer) error {
		return WriteSeriesCSV(w, series)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	return runID, nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

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

// LoadSeries reads the per-timestep mean and standard deviation of a run.
func (s *Store) LoadSeries(runID string) (stats.Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return stats.Series{}, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return stats.Series{}, err
	}

	series := stats.Series{Means: []float64{}, Stddevs: []float64{}}
	if len(records) < 2 {
		return series, nil
	}

	for i, record := range records[1:] {
		if len(record) != 3 {
			return stats.Series{}, fmt.Errorf("%w: row %d has %d fields", ErrMalformedSeries, i+1, len(record))
		}
		mean, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return stats.Series{}, fmt.Errorf("%w: row %d: %v", ErrMalformedSeries, i+1, err)
		}
		stddev, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return stats.Series{}, fmt.Errorf("%w: row %d: %v", ErrMalformedSeries, i+1, err)
		}
		series.Means = append(series.Means, mean)
		series.Stddevs = append(series.Stddevs, stddev)
	}

	return series, nil
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
