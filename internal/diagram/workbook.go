package diagram

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexiusacademia/gofd/internal/girder"
	"github.com/xuri/excelize/v2"
)

// LineSheet is the worksheet holding the station table
const LineSheet = "line"

// ExportWorkbook writes the line diagram and the path diagrams to an xlsx
// file. The line sheet has one row per station and a chart per series;
// each path diagram gets its own sheet with one row per node.
// Either input may be empty.
func ExportWorkbook(line *girder.LineDiagram, paths []girder.PathDiagram, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	sheets := 0

	if line != nil {
		if err := f.SetSheetName(first, LineSheet); err != nil {
			return err
		}
		if err := writeLineSheet(f, line); err != nil {
			return fmt.Errorf("sheet %s: %w", LineSheet, err)
		}
		sheets++
	}

	for _, d := range paths {
		name := d.Kind.Name
		if sheets == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		if err := writePathSheet(f, name, &d); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		sheets++
	}

	if sheets == 0 {
		return fmt.Errorf("nothing to export")
	}

	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return f.SaveAs(filename)
}

func writeLineSheet(f *excelize.File, d *girder.LineDiagram) error {
	header := []interface{}{fmt.Sprintf("Station (%s)", d.Axis)}
	for _, s := range d.Series {
		header = append(header, s.Pair.Start+" / "+s.Pair.End)
	}
	if err := f.SetSheetRow(LineSheet, "A1", &header); err != nil {
		return err
	}

	for i, station := range d.Stations {
		row := []interface{}{station}
		for _, s := range d.Series {
			row = append(row, s.Values[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(LineSheet, cell, &row); err != nil {
			return err
		}
	}

	if len(d.Stations) == 0 {
		return nil
	}

	// One chart per series, stacked to the right of the table
	last := len(d.Stations) + 1
	for k, s := range d.Series {
		col, err := excelize.ColumnNumberToName(k + 2)
		if err != nil {
			return err
		}
		anchor, err := excelize.CoordinatesToCellName(len(d.Series)+3, 1+k*16)
		if err != nil {
			return err
		}
		chart := &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("'%s'!$%s$1", LineSheet, col),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", LineSheet, last),
				Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", LineSheet, col, col, last),
			}},
		}
		if err := f.AddChart(LineSheet, anchor, chart); err != nil {
			return fmt.Errorf("chart %s: %w", s.Pair, err)
		}
	}
	return nil
}

func writePathSheet(f *excelize.File, sheet string, d *girder.PathDiagram) error {
	header := []interface{}{
		"Group", "Node", "X", "Y", "Z", d.Kind.Pair.Quantity(), "Scale", "Displaced X", "Displaced Y", "Displaced Z",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	r := 2
	for _, o := range d.Overlays {
		for k, node := range o.Nodes {
			b, p := o.Base[k], o.Displaced[k]
			row := []interface{}{o.Group, node, b.X, b.Y, b.Z, o.Forces[k], d.Kind.Scale, p.X, p.Y, p.Z}
			cell, err := excelize.CoordinatesToCellName(1, r)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return err
			}
			r++
		}
	}
	return nil
}
