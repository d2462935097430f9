package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"docufill-cli/pkg/models"
)

// Spreadsheet column names, case-sensitive. label and key are required;
// multiple or type (first present wins) marks multi-value fields; note
// carries help text shown next to the field. Extra columns are ignored.
const (
	ColumnLabel    = "label"
	ColumnKey      = "key"
	ColumnMultiple = "multiple"
	ColumnType     = "type"
	ColumnNote     = "note"
)

// DefaultConfigFileName is the preferred configuration filename inside a
// template folder.
const DefaultConfigFileName = "config.xlsx"

var (
	requiredColumns = []string{ColumnLabel, ColumnKey}
	multipleColumns = []string{ColumnMultiple, ColumnType}
	keyPattern      = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// SchemaError reports a configuration file that cannot be used at all:
// missing file, unrecognized format, unreadable workbook, or missing
// required columns.
type SchemaError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Reader parses an Excel configuration file into field descriptors.
// Descriptors are re-derived on every read; the reader holds no state beyond
// the file path.
type Reader struct {
	path string
}

// NewReader creates a reader for the given configuration file
func NewReader(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &SchemaError{Path: path, Reason: "configuration file not found", Cause: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
	default:
		return nil, &SchemaError{Path: path, Reason: "file must be Excel format (.xlsx or .xls)"}
	}

	return &Reader{path: path}, nil
}

// Path returns the configuration file path
func (r *Reader) Path() string {
	return r.path
}

// ReadFields reads the template fields from the configuration file, one
// descriptor per row with a usable key, in spreadsheet row order.
func (r *Reader) ReadFields() ([]models.FieldDescriptor, error) {
	header, rows, err := r.readRows()
	if err != nil {
		return nil, err
	}

	cols, err := r.requireColumns(header)
	if err != nil {
		return nil, err
	}

	fields := make([]models.FieldDescriptor, 0, len(rows))
	for _, row := range rows {
		key := strings.TrimSpace(cellAt(row, cols[ColumnKey]))

		// An empty cell and the literal nan sentinel both mean "no key here";
		// the row carries no field.
		if key == "" || strings.EqualFold(key, "nan") {
			continue
		}

		label := cellAt(row, cols[ColumnLabel])
		if label == "" {
			label = key
		}

		fields = append(fields, models.FieldDescriptor{
			Label:    label,
			Key:      key,
			Multiple: r.multipleValue(header, row),
			Note:     cellAt(row, columnIndex(header, ColumnNote)),
		})
	}

	return fields, nil
}

// ValidateConfig runs the strict validation pass over the raw rows. Unlike
// ReadFields it refuses loose boolean shorthand in the multiple column, and
// it accumulates every finding instead of stopping at the first.
func (r *Reader) ValidateConfig() *models.ValidationReport {
	report := models.NewValidationReport()

	header, rows, err := r.readRows()
	if err != nil {
		report.AddError(fmt.Sprintf("validation error: %v", err))
		return report.Finalize()
	}

	r.checkMultipleColumn(header, rows, report)

	fields, err := r.ReadFields()
	if err != nil {
		report.AddError(fmt.Sprintf("validation error: %v", err))
		return report.Finalize()
	}

	if len(fields) == 0 {
		report.AddError("no valid fields found in configuration")
	}

	if dups := duplicateKeys(fields); len(dups) > 0 {
		report.AddError(fmt.Sprintf("duplicate field keys found: %s", strings.Join(dups, ", ")))
	}

	var blankLabels []string
	for _, field := range fields {
		if strings.TrimSpace(field.Label) == "" {
			blankLabels = append(blankLabels, field.Key)
		}
	}
	if len(blankLabels) > 0 {
		report.AddWarning(fmt.Sprintf("fields with empty labels: %s", strings.Join(blankLabels, ", ")))
	}

	for _, field := range fields {
		if !keyPattern.MatchString(field.Key) {
			report.AddError(fmt.Sprintf("invalid key format %q - use only letters, numbers, and underscores", field.Key))
		}
	}

	return report.Finalize()
}

// FieldKeys returns the keys of all fields in row order
func (r *Reader) FieldKeys() ([]string, error) {
	fields, err := r.ReadFields()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(fields))
	for i, field := range fields {
		keys[i] = field.Key
	}
	return keys, nil
}

// FieldByKey returns the field with the given key, or nil if absent
func (r *Reader) FieldByKey(key string) (*models.FieldDescriptor, error) {
	fields, err := r.ReadFields()
	if err != nil {
		return nil, err
	}

	for i := range fields {
		if fields[i].Key == key {
			return &fields[i], nil
		}
	}
	return nil, nil
}

// MultipleValueFields returns the fields that accept multiple values
func (r *Reader) MultipleValueFields() ([]models.FieldDescriptor, error) {
	return r.filterFields(func(f models.FieldDescriptor) bool { return f.Multiple })
}

// SingleValueFields returns the fields that accept a single value
func (r *Reader) SingleValueFields() ([]models.FieldDescriptor, error) {
	return r.filterFields(func(f models.FieldDescriptor) bool { return !f.Multiple })
}

func (r *Reader) filterFields(keep func(models.FieldDescriptor) bool) ([]models.FieldDescriptor, error) {
	fields, err := r.ReadFields()
	if err != nil {
		return nil, err
	}

	var out []models.FieldDescriptor
	for _, field := range fields {
		if keep(field) {
			out = append(out, field)
		}
	}
	return out, nil
}

// readRows opens the workbook and returns the header row and the data rows
// of the first sheet
func (r *Reader) readRows() ([]string, [][]string, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, nil, &SchemaError{Path: r.path, Reason: "error reading Excel file", Cause: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, &SchemaError{Path: r.path, Reason: "workbook contains no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, &SchemaError{Path: r.path, Reason: "error reading Excel file", Cause: err}
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}

// requireColumns verifies the required columns exist and returns the column
// index for every known column name
func (r *Reader) requireColumns(header []string) (map[string]int, error) {
	var missing []string
	for _, name := range requiredColumns {
		if columnIndex(header, name) < 0 {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		reason := fmt.Sprintf("missing required columns: %s (required: %s; found: %s)",
			strings.Join(missing, ", "),
			strings.Join(requiredColumns, ", "),
			strings.Join(header, ", "))
		return nil, &SchemaError{Path: r.path, Reason: reason}
	}

	cols := make(map[string]int)
	for _, name := range []string{ColumnLabel, ColumnKey, ColumnMultiple, ColumnType, ColumnNote} {
		cols[name] = columnIndex(header, name)
	}
	return cols, nil
}

// multipleValue resolves the multi-value indicator for a row, checking the
// accepted column names in preference order
func (r *Reader) multipleValue(header []string, row []string) bool {
	for _, name := range multipleColumns {
		idx := columnIndex(header, name)
		if idx < 0 {
			continue
		}

		value := strings.TrimSpace(cellAt(row, idx))
		if value == "" || strings.EqualFold(value, "nan") {
			continue
		}
		return ParseMultipleFlag(value)
	}
	return false
}

// checkMultipleColumn enforces the strict TRUE/FALSE contract on the
// multiple column. Blank cells pass; every other token outside the two
// literals is an error with its spreadsheet row number.
func (r *Reader) checkMultipleColumn(header []string, rows [][]string, report *models.ValidationReport) {
	idx := columnIndex(header, ColumnMultiple)
	if idx < 0 {
		return
	}

	for i, row := range rows {
		value := strings.TrimSpace(cellAt(row, idx))
		if value == "" {
			continue
		}

		if upper := strings.ToUpper(value); upper != "TRUE" && upper != "FALSE" {
			// Row numbers are 1-based and account for the header row.
			report.AddError(fmt.Sprintf("row %d: invalid 'multiple' value %q - must be TRUE or FALSE", i+2, value))
		}
	}
}

// duplicateKeys returns the distinct keys that occur more than once, in
// first-seen order
func duplicateKeys(fields []models.FieldDescriptor) []string {
	counts := make(map[string]int)
	for _, field := range fields {
		counts[field.Key]++
	}

	var dups []string
	reported := make(map[string]bool)
	for _, field := range fields {
		if counts[field.Key] > 1 && !reported[field.Key] {
			reported[field.Key] = true
			dups = append(dups, field.Key)
		}
	}
	return dups
}

// columnIndex returns the index of a column name in the header, or -1
func columnIndex(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}

// cellAt returns the cell value at idx, tolerating short rows. excelize
// trims trailing empty cells from GetRows output, so rows are routinely
// shorter than the header.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
