package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/syssam/sqlauto/compiler/load"
)

// ValidationError represents an issue found in inspected table data.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of table data validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	write := func(title string, errs []*ValidationError) {
		if len(errs) == 0 {
			return
		}
		sb.WriteString(title + ":\n")
		for _, e := range errs {
			sb.WriteString("  - " + e.Error() + "\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateTable validates a single table and its key specs.
func ValidateTable(t *load.Table, fks map[string]*load.ForeignKey) *ValidationResult {
	result := &ValidationResult{}
	if t.View {
		return result
	}

	cols := make(map[string]bool, len(t.Columns))
	hasPK := false
	for _, c := range t.Columns {
		if cols[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		cols[c.Name] = true
		hasPK = hasPK || c.PrimaryKey
	}
	if !hasPK {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.Name,
			Message: "table has no primary key",
		})
	}

	for _, name := range sortedKeys(fks) {
		if !cols[name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  name,
				Message: "key references non-existent column",
			})
		}
	}
	return result
}

// ValidateTableData validates every table of td. Foreign keys to tables
// outside td are reported as warnings: no association is generated for them.
func ValidateTableData(td *load.TableData) *ValidationResult {
	result := &ValidationResult{}
	names := make([]string, 0, len(td.Tables))
	for q := range td.Tables {
		names = append(names, q)
	}
	sort.Strings(names)

	for _, q := range names {
		t := td.Tables[q]
		tableResult := ValidateTable(t, td.ForeignKeys[t.Name])
		result.Errors = append(result.Errors, tableResult.Errors...)
		result.Warnings = append(result.Warnings, tableResult.Warnings...)

		fks := td.ForeignKeys[t.Name]
		for _, col := range sortedKeys(fks) {
			fk := fks[col]
			if !fk.IsForeignKey {
				continue
			}
			if _, ok := td.ForeignKeys[fk.TargetTable]; !ok {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   t.Name,
					Column:  col,
					Message: fmt.Sprintf("foreign key references table %q outside the inspected set", fk.TargetTable),
				})
			}
		}
	}
	return result
}

func sortedKeys(m map[string]*load.ForeignKey) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
