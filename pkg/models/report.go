package models

// ValidationReport collects the outcome of a validation pass. Errors are
// fatal for the operation being validated, warnings are advisory. Valid is
// derived from Errors via Finalize and must not be set by callers.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewValidationReport creates an empty report with non-nil slices so the
// result serializes as [] rather than null across the UI boundary.
func NewValidationReport() *ValidationReport {
	return &ValidationReport{
		Errors:   []string{},
		Warnings: []string{},
	}
}

// AddError appends a fatal finding to the report.
func (r *ValidationReport) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning appends an advisory finding to the report.
func (r *ValidationReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Finalize computes Valid from the accumulated errors and returns the report
// for chaining.
func (r *ValidationReport) Finalize() *ValidationReport {
	r.Valid = len(r.Errors) == 0
	return r
}
