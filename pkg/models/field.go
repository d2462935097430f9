package models

// FieldDescriptor describes one fillable placeholder declared by a template's
// spreadsheet configuration. Descriptors are created fresh on every read and
// keep the spreadsheet's row order, which is what the UI displays.
type FieldDescriptor struct {
	Label    string `json:"label"`
	Key      string `json:"key"`
	Multiple bool   `json:"multiple"`
	Note     string `json:"note"`
}
