// Package importer reads block lists from CSV, Excel, JSON, TOML and DXF
// files. Tabular formats support automatic delimiter detection, flexible
// column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BlockFit/internal/model"
)

// maxQuantity bounds how many copies a single row may expand into.
const maxQuantity = 10000

// ImportResult holds the results of an import operation. Container and
// Settings are only set by formats that can carry them.
type ImportResult struct {
	Name      string
	Blocks    []model.Block
	Container *model.Container
	Settings  *model.Settings
	Errors    []string
	Warnings  []string
}

// OK reports whether the import produced blocks without errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Blocks) > 0
}

// Job assembles a job from the imported data, falling back to the given
// container and settings where the file did not provide them.
func (r ImportResult) Job(container model.Container, settings model.Settings) model.Job {
	job := model.Job{
		Name:      r.Name,
		Container: container,
		Blocks:    r.Blocks,
		Settings:  settings,
	}
	if r.Container != nil {
		job.Container = *r.Container
	}
	if r.Settings != nil {
		job.Settings = *r.Settings
	}
	return job
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Quantity int
	Locked   int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "block", "block name", "description", "desc", "item"},
	"width":    {"width", "w", "length", "len", "x"},
	"height":   {"height", "h", "depth", "d", "y"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"locked":   {"locked", "lock", "fixed", "no rotate", "norotate"},
}

// ImportFile picks an importer from the file extension.
func ImportFile(path string) ImportResult {
	var result ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		result = ImportCSV(path)
	case ".xlsx", ".xlsm", ".xls":
		result = ImportExcel(path)
	case ".json":
		result = ImportJSON(path)
	case ".toml":
		result = ImportTOML(path)
	case ".dxf":
		result = ImportDXF(path)
	default:
		result.Errors = append(result.Errors, fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(path)))
		return result
	}
	if result.Name == "" {
		result.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return result
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (label, width, height, quantity, locked) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Quantity: -1, Locked: -1}
	slots := map[string]*int{
		"label":    &mapping.Label,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"quantity": &mapping.Quantity,
		"locked":   &mapping.Locked,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3, Locked: 4}, false
	}
	return mapping, true
}

// parseLocked converts a cell to a lock flag. ok is false for unrecognised text.
func parseLocked(s string) (locked bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "x", "locked":
		return true, true
	case "", "no", "n", "false", "0", "-":
		return false, true
	default:
		return false, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDimension reads a positive whole number of grid units.
func parseDimension(s, name, rowLabel string) (int, string) {
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	if v <= 0 {
		return 0, fmt.Sprintf("%s: %s must be positive", rowLabel, strings.ToUpper(name[:1])+name[1:])
	}
	return v, ""
}

// parseRow extracts the blocks described by one row. A quantity greater than
// one yields that many copies, each with its own ID.
// Returns the blocks, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, blockCount int) ([]model.Block, string, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Block %d", blockCount+1)
	}

	width, errMsg := parseDimension(getCell(row, mapping.Width), "width", rowLabel)
	if errMsg != "" {
		return nil, errMsg, ""
	}
	height, errMsg := parseDimension(getCell(row, mapping.Height), "height", rowLabel)
	if errMsg != "" {
		return nil, errMsg, ""
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		q, err := strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		if q <= 0 || q > maxQuantity {
			return nil, fmt.Sprintf("%s: Quantity must be between 1 and %d", rowLabel, maxQuantity), ""
		}
		qty = q
	}

	var warning string
	locked := false
	if lockStr := getCell(row, mapping.Locked); lockStr != "" {
		l, ok := parseLocked(lockStr)
		if ok {
			locked = l
		} else {
			warning = fmt.Sprintf("%s: Unknown locked value '%s', block stays rotatable", rowLabel, lockStr)
		}
	}

	blocks := make([]model.Block, 0, qty)
	for i := 0; i < qty; i++ {
		b := model.NewBlock(label, width, height)
		b.Locked = locked
		blocks = append(blocks, b)
	}
	return blocks, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports blocks from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports blocks from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports blocks from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognised header still has a non-numeric width column.
		if _, err := strconv.Atoi(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		blocks, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Blocks))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Blocks = append(result.Blocks, blocks...)
	}

	return result
}
