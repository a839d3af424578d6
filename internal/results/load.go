package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ForcesSheet is the workbook sheet read when present; otherwise the first
// sheet is used.
const ForcesSheet = "forces"

var validate = validator.New()

// Load opens a results file, picking the reader from the extension:
// .yaml/.yml/.json documents, .xlsx workbooks and .csv tables.
func Load(path string) (*Dataset, error) {
	var (
		d   *Dataset
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		d, err = loadDocument(path)
	case ".xlsx":
		d, err = loadWorkbook(path)
	case ".csv":
		d, err = loadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported results format %q (want .yaml, .json, .xlsx or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("load results %s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// document mirrors the forces variable of the analysis dataset:
// a component axis, an element axis and a [element][component] grid,
// or alternatively a list of long-form records.
type document struct {
	Components []string    `yaml:"components" validate:"omitempty,unique,dive,required"`
	Elements   []int       `yaml:"elements" validate:"omitempty,unique"`
	Forces     [][]float64 `yaml:"forces"`
	Records    []Record    `yaml:"records" validate:"omitempty,dive"`
}

func loadDocument(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// ParseDocument decodes a YAML or JSON dataset document
func ParseDocument(data []byte) (*Dataset, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	switch {
	case len(doc.Records) > 0 && len(doc.Components) > 0:
		return nil, fmt.Errorf("invalid dataset: use either records or components/elements/forces, not both")
	case len(doc.Records) > 0:
		return NewDatasetFromRecords(doc.Records)
	case len(doc.Components) > 0:
		return NewDataset(doc.Elements, doc.Components, doc.Forces)
	}
	return nil, fmt.Errorf("invalid dataset: no components or records")
}

func loadWorkbook(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, ForcesSheet) {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return parseTable(rows, "sheet "+sheet)
}

func loadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return parseTable(rows, "table")
}

// parseTable reads the wide layout shared by workbooks and CSV files:
// a header row "Element, <component>..." followed by one row per element.
// Blank cells are absent samples.
func parseTable(rows [][]string, where string) (*Dataset, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one element row", where)
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("%s: header needs an element column and at least one component", where)
	}
	components := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		components = append(components, strings.TrimSpace(h))
	}

	var records []Record
	var elements []int
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		elem, err := parseElementID(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", where, i+2, err)
		}
		elements = append(elements, elem)
		for j, cell := range row[1:] {
			if j >= len(components) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d, %s: %q is not a number", where, i+2, components[j], cell)
			}
			records = append(records, Record{Element: elem, Component: components[j], Value: v})
		}
	}

	d, err := newEmptyDataset(elements, components)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	for _, r := range records {
		i, j := d.elemIndex[r.Element], d.compIndex[r.Component]
		d.values[i][j] = r.Value
		d.present[i][j] = true
	}
	return d, nil
}

func parseElementID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("element id %q is not an integer", s)
	}
	return int(f), nil
}
