package interfaces

import "docufill-cli/pkg/models"

// SchemaReader parses a template's spreadsheet configuration into field
// descriptors
type SchemaReader interface {
	// ReadFields returns one descriptor per usable row, in row order
	ReadFields() ([]models.FieldDescriptor, error)

	// ValidateConfig runs the strict validation pass over the raw rows
	ValidateConfig() *models.ValidationReport
}
