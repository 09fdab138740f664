package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/stats"
)

func testOutput() *ising.Output {
	return &ising.Output{
		Means:   []float64{16, 12.5, -3},
		Stddevs: []float64{0, 1.25, 0.1},
		Exact:   true,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Name:    "test",
		N:       4,
		Seed:    42,
		Repeats: 2,
		MaxTime: 3,
		Rule:    "glauber",
		Summary: map[string]float64{"final_mean": -3},
	}
	runID, err := st.Save(meta, testOutput())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", loaded.Name)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if loaded.ID != runID {
		t.Errorf("expected id %s, got %s", runID, loaded.ID)
	}
	if !loaded.Exact {
		t.Error("exact flag not stored")
	}
	if loaded.Summary["final_mean"] != -3 {
		t.Errorf("expected final_mean -3, got %f", loaded.Summary["final_mean"])
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}

	want := testOutput()
	if len(series.Means) != len(want.Means) {
		t.Fatalf("expected %d rows, got %d", len(want.Means), len(series.Means))
	}
	for i := range want.Means {
		if series.Means[i] != want.Means[i] || series.Stddevs[i] != want.Stddevs[i] {
			t.Errorf("row %d: got %f/%f, want %f/%f", i,
				series.Means[i], series.Stddevs[i], want.Means[i], want.Stddevs[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, name := range []string{"a", "b"} {
		if _, err := st.Save(RunMetadata{Name: name}, testOutput()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "a" || runs[1].Name != "b" {
		t.Errorf("runs not in save order: %s, %s", runs[0].Name, runs[1].Name)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Name: "test"}, testOutput())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "series.csv"))
	if err != nil {
		t.Fatalf("series.csv not created: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "t,mean,stddev" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(lines))
	}
}

func TestStoreSaveFailureLeavesNoRun(t *testing.T) {
	tests := []struct {
		name string
		meta RunMetadata
		out  *ising.Output
	}{
		{
			name: "series write fails",
			meta: RunMetadata{Name: "short"},
			out:  &ising.Output{Means: []float64{1, 2, 3}, Stddevs: []float64{0}},
		},
		{
			name: "metadata write fails",
			meta: RunMetadata{Name: "nan", Summary: map[string]float64{"final_mean": math.NaN()}},
			out:  testOutput(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			st := New(tmpDir)

			runID, err := st.Save(tt.meta, tt.out)
			if err == nil {
				t.Fatal("expected save to fail")
			}
			if runID != "" {
				t.Errorf("failed save returned id %q", runID)
			}

			entries, err := os.ReadDir(tmpDir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 0 {
				t.Errorf("expected empty store, found %d entries", len(entries))
			}
			runs, err := st.List()
			if err != nil {
				t.Fatal(err)
			}
			if len(runs) != 0 {
				t.Errorf("expected no listed runs, got %d", len(runs))
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Name: "gone"}, testOutput())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(runID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := st.Load(runID); err == nil {
		t.Error("run still loadable after delete")
	}
	if err := st.Delete("nope"); err == nil {
		t.Error("expected error deleting unknown run")
	}
}

func TestLoadSeriesMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runDir := filepath.Join(tmpDir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "series.csv"), []byte("t,mean,stddev\n0,x,1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadSeries("bad"); err == nil {
		t.Error("expected error for malformed series")
	}
}

func TestWriteSeriesCSVLengthMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSeriesCSV(&buf, stats.Series{Means: []float64{1, 2}, Stddevs: []float64{0}})
	if !errors.Is(err, ErrMalformedSeries) {
		t.Errorf("expected ErrMalformedSeries, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	data := NewExportData(RunMetadata{Name: "x", N: 4}, testOutput())
	if err := ExportJSON(&buf, data); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Steps != 3 || decoded.Meta.N != 4 {
		t.Errorf("unexpected export: %+v", decoded)
	}
}
