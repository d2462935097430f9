package models

// FieldValues maps field keys to user-supplied values. A value is either a
// string or an ordered list of strings ([]string or []any after JSON
// decoding); anything else is stringified by the fill engine.
type FieldValues map[string]any

// FillRequest describes one batch fill operation. Requests are ephemeral and
// constructed per operation; the engine never mutates the template folder.
type FillRequest struct {
	TemplateDir   string
	OutputRoot    string
	DocumentFiles []string
	Values        FieldValues
	Timestamp     string
	TemplateName  string
}

// RunRequest represents the CLI state for a single docufill invocation.
type RunRequest struct {
	TemplateName        string
	ConfigPath          string
	ValuesFile          string
	SetValues           []string
	Target              string
	JSON                bool
	Interactive         bool
	ForceInteractive    bool
	ForceNonInteractive bool
	NumberSelect        bool
}

// NewRunRequest creates a run request with defaults suitable for flag parsing.
func NewRunRequest() *RunRequest {
	return &RunRequest{
		SetValues:   []string{},
		Interactive: true,
	}
}
