// Package report writes a PDF summary of a diagram run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexiusacademia/gofd/internal/girder"
	"github.com/phpdave11/gofpdf"
)

// Summary is the content of a report
type Summary struct {
	Title     string
	Generated time.Time
	Sources   []string // one line per input, e.g. "nodes: model/nodes.yaml"

	Line      *girder.LineDiagram
	Paths     []girder.PathDiagram
	Images    []string // diagrams to embed; only png and jpg are embedded
	Generator string
}

const (
	pageWidth = 190.0 // A4 minus margins, mm
	rowHeight = 6.0
)

// Write renders the summary to filename
func Write(s Summary, filename string) error {
	if s.Title == "" {
		s.Title = "Force Diagram Report"
	}
	if s.Generated.IsZero() {
		s.Generated = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(s.Title, false)
	if s.Generator != "" {
		pdf.SetCreator(s.Generator, false)
	}
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, s.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", s.Generated.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	for _, src := range s.Sources {
		pdf.Cell(0, 6, src)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	if s.Line != nil {
		lineTable(pdf, s.Line)
	}
	if len(s.Paths) > 0 {
		pathTable(pdf, s.Paths)
	}
	for _, img := range s.Images {
		embed(pdf, img)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return pdf.OutputFileAndClose(filename)
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, text)
	pdf.Ln(9)
}

func header(pdf *gofpdf.Fpdf, cols []string, width float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	for _, c := range cols {
		pdf.CellFormat(width, rowHeight, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
}

// lineTable lists every station with the value of each series
func lineTable(pdf *gofpdf.Fpdf, d *girder.LineDiagram) {
	heading(pdf, fmt.Sprintf("%s: station table", d.Name))

	cols := []string{fmt.Sprintf("Station (%s)", d.Axis)}
	for _, s := range d.Series {
		cols = append(cols, s.Pair.String())
	}
	width := pageWidth / float64(len(cols))
	header(pdf, cols, width)

	for i, station := range d.Stations {
		pdf.CellFormat(width, rowHeight, fmt.Sprintf("%.3f", station), "1", 0, "R", false, 0, "")
		for _, s := range d.Series {
			pdf.CellFormat(width, rowHeight, fmt.Sprintf("%.4g", s.Values[i]), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

// pathTable lists the force range of every group for every diagram kind
func pathTable(pdf *gofpdf.Fpdf, paths []girder.PathDiagram) {
	heading(pdf, "Girder force envelopes")

	cols := []string{"Diagram", "Group", "Nodes", "Min", "Max", "Scale"}
	width := pageWidth / float64(len(cols))
	header(pdf, cols, width)

	for _, d := range paths {
		for _, o := range d.Overlays {
			lo, hi := envelope(o.Forces)
			cells := []string{
				d.Kind.Name,
				o.Group,
				fmt.Sprintf("%d", len(o.Nodes)),
				fmt.Sprintf("%.4g", lo),
				fmt.Sprintf("%.4g", hi),
				fmt.Sprintf("%.4g", d.Kind.Scale),
			}
			for i, c := range cells {
				align := "R"
				if i < 2 {
					align = "L"
				}
				pdf.CellFormat(width, rowHeight, c, "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}
	pdf.Ln(6)
}

func envelope(values []float64) (lo, hi float64) {
	for i, v := range values {
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}

// embed places an image on its own page, scaled to the page width
func embed(pdf *gofpdf.Fpdf, path string) {
	var kind string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		kind = "PNG"
	case ".jpg", ".jpeg":
		kind = "JPG"
	default:
		return
	}

	pdf.AddPage()
	heading(pdf, filepath.Base(path))
	opt := gofpdf.ImageOptions{ImageType: kind, ReadDpi: true}
	pdf.ImageOptions(path, 10, pdf.GetY(), pageWidth, 0, false, opt, 0, "")
}
