package export

import (
	"strings"
	"testing"

	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/stats"
)

func TestLatticeToSVG(t *testing.T) {
	l, err := lattice.New(3)
	if err != nil {
		t.Fatal(err)
	}
	l.Set(0, 0, -1)
	l.Set(2, 1, -1)

	svg := LatticeToSVG(l, 10)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	// background plus one square per up spin
	if got := strings.Count(svg, "<rect"); got != 1+7 {
		t.Errorf("expected 8 rects, got %d", got)
	}
	if !strings.Contains(svg, `width="30"`) {
		t.Error("canvas should be n*scale wide")
	}

	if LatticeToSVG(nil, 10) != "" || LatticeToSVG(l, 0) != "" {
		t.Error("invalid input should render empty")
	}
}

func TestSeriesToSVG(t *testing.T) {
	series := stats.Series{
		Means:   []float64{4, 2, 0, -2},
		Stddevs: []float64{0, 1, 1, 0},
	}
	svg := SeriesToSVG(series, 200, 100, "#00ff00")
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected band and line paths: %q", svg)
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color missing")
	}

	if SeriesToSVG(stats.Series{Means: []float64{1}, Stddevs: []float64{0}}, 10, 10, "#fff") != "" {
		t.Error("single point should render empty")
	}
}
