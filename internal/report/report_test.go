package report

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexiusacademia/gofd/internal/girder"
	"github.com/alexiusacademia/gofd/internal/model"
	"github.com/alexiusacademia/gofd/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		img.Set(x, 15, color.Black)
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func summary() Summary {
	moment := results.PairFor("Mz")
	return Summary{
		Title:     "Deck diagrams",
		Generated: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
		Sources:   []string{"nodes: nodes.yaml", "elements: elements.yaml"},
		Line: &girder.LineDiagram{
			Name:     "Central Girder",
			Axis:     model.AxisX,
			Stations: []float64{0, 5},
			Series:   []girder.Series{{Pair: moment, Values: []float64{1, -1}}},
		},
		Paths: []girder.PathDiagram{{
			Kind: girder.Kind{Name: "BMD", Pair: moment, Scale: 0.5},
			Axis: model.AxisY,
			Overlays: []girder.Overlay{
				{Group: "Girder 1", Nodes: []int{1, 2}, Forces: []float64{3, -4}},
			},
		}},
		Generator: "gofd test",
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "task1_BMD.png")
	writePNG(t, img)

	s := summary()
	s.Images = []string{img, filepath.Join(dir, "skipped.svg")}

	name := filepath.Join(dir, "out", "report.pdf")
	require.NoError(t, Write(s, name))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestWriteDefaults(t *testing.T) {
	name := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, Write(Summary{}, name))

	_, err := os.Stat(name)
	assert.NoError(t, err)
}

func TestWriteMissingImage(t *testing.T) {
	s := summary()
	s.Images = []string{filepath.Join(t.TempDir(), "absent.png")}

	err := Write(s, filepath.Join(t.TempDir(), "report.pdf"))
	assert.ErrorContains(t, err, "failed to render report")
}

func TestEnvelope(t *testing.T) {
	lo, hi := envelope([]float64{3, -4, 2})
	assert.Equal(t, -4.0, lo)
	assert.Equal(t, 3.0, hi)

	lo, hi = envelope(nil)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}
