package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/patterndrill/internal/pattern"
)

// ImportConfig defines where stimulus rows come from.
type ImportConfig struct {
	FilePath  string // .xlsx, .csv or .json
	SheetName string // xlsx sheet; empty means the first sheet
	Version   string // version stamped on the produced file
}

// ImportResult summarizes an import run. Row errors do not abort the run.
type ImportResult struct {
	File     File
	Imported int
	Skipped  int
	Errors   []string
}

// Column headers recognized in tabular imports. Matching is case-insensitive.
var importColumns = []string{"id", "text", "level", "pattern", "tags", "summary", "trap"}

// Import reads a stimulus bank and converts it into a catalog File.
// Entities are carried over only from JSON input; tabular files hold stimuli.
func Import(cfg ImportConfig) (*ImportResult, error) {
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	if err := CheckVersion(cfg.Version); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".json":
		return importJSON(cfg)
	case ".csv":
		return importCSV(cfg)
	case ".xlsx", ".xlsm":
		return importExcel(cfg)
	default:
		return nil, fmt.Errorf("unsupported import format %q", filepath.Ext(cfg.FilePath))
	}
}

func importJSON(cfg ImportConfig) (*ImportResult, error) {
	data, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode import file: %w", err)
	}

	result := &ImportResult{File: File{Version: cfg.Version}}
	seen := make(map[string]bool)
	for i, s := range f.Stimuli {
		if err := s.validate(); err != nil {
			result.reject(i+1, err)
			continue
		}
		if seen[s.ID] {
			result.reject(i+1, fmt.Errorf("duplicate id %q", s.ID))
			continue
		}
		seen[s.ID] = true
		result.File.Stimuli = append(result.File.Stimuli, s)
		result.Imported++
	}
	for _, e := range f.Entities {
		if _, err := NewEntity(e.ID, e.Meaning, e.TypicalPattern, e.Rarity); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.File.Entities = append(result.File.Entities, e)
	}
	return result, nil
}

func importCSV(cfg ImportConfig) (*ImportResult, error) {
	file, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		rows = append(rows, rec)
	}
	return importRows(cfg, rows)
}

func importExcel(cfg ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows from %q: %w", sheet, err)
	}
	return importRows(cfg, rows)
}

// importRows maps the header row onto importColumns and converts each
// following row into a stimulus.
func importRows(cfg ImportConfig, rows [][]string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, errors.New("import file is empty")
	}

	idx := make(map[string]int)
	for i, h := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"id", "text", "level", "pattern", "summary"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q (want %s)", col, strings.Join(importColumns, ", "))
		}
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := &ImportResult{File: File{Version: cfg.Version}}
	seen := make(map[string]bool)
	for n, row := range rows[1:] {
		line := n + 2
		if isBlank(row) {
			continue
		}

		level, err := strconv.Atoi(cell(row, "level"))
		if err != nil {
			result.reject(line, fmt.Errorf("level: %w", err))
			continue
		}
		p, err := pattern.Parse(cell(row, "pattern"))
		if err != nil {
			result.reject(line, err)
			continue
		}
		s, err := NewStimulus(cell(row, "id"), cell(row, "text"), level, p,
			splitTags(cell(row, "tags"), p),
			Explanation{Summary: cell(row, "summary"), Trap: cell(row, "trap")})
		if err != nil {
			result.reject(line, err)
			continue
		}
		if seen[s.ID] {
			result.reject(line, fmt.Errorf("duplicate id %q", s.ID))
			continue
		}
		seen[s.ID] = true
		result.File.Stimuli = append(result.File.Stimuli, s)
		result.Imported++
	}
	return result, nil
}

// splitTags accepts tags separated by commas, semicolons or spaces and makes
// sure the pattern label is present.
func splitTags(raw string, p pattern.Pattern) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
	tags := []string{p.String()}
	for _, f := range fields {
		if f != p.String() {
			tags = append(tags, f)
		}
	}
	return tags
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r *ImportResult) reject(row int, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %v", row, err))
}
