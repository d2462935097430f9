package models

// FillResult reports the outcome of one FillRequest. Partial success is
// first-class: a batch with some failed files and some filled files has
// Success true with both FilledFiles and Errors populated. Only a batch with
// zero produced files reports Success false.
type FillResult struct {
	Success      bool     `json:"success"`
	FilledFiles  []string `json:"filled_files"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
	OutputFolder string   `json:"output_folder"`
}

// NewFillResult creates a result with non-nil slices for clean serialization.
func NewFillResult() *FillResult {
	return &FillResult{
		FilledFiles: []string{},
		Errors:      []string{},
		Warnings:    []string{},
	}
}
