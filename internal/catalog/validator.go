package catalog

import (
	"fmt"
	"os"

	"docufill-cli/internal/schema"
	"docufill-cli/pkg/models"
)

// Validate checks a named template's configuration and documents, gathering
// every finding into one report
func (c *Catalog) Validate(name string) *models.ValidationReport {
	dir := c.TemplateDir(name)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		report := models.NewValidationReport()
		report.AddError("template folder not found")
		return report.Finalize()
	}

	return ValidateFolder(dir)
}

// ValidateFolder validates a template folder. Config findings and document
// findings accumulate independently so each kind of problem is discoverable
// even when the other kind is fatal; only a missing config short-circuits,
// since no further config checks are possible without one.
func ValidateFolder(dir string) *models.ValidationReport {
	configPath := FindConfigFile(dir)
	if configPath == "" {
		report := models.NewValidationReport()
		report.AddError(fmt.Sprintf("no %s file found in template folder", schema.DefaultConfigFileName))
		return report.Finalize()
	}

	report := validateConfigFile(configPath)

	docx, legacy, err := ListDocuments(dir)
	if err != nil {
		report.AddError(fmt.Sprintf("error listing documents: %v", err))
		return report.Finalize()
	}

	if len(docx)+len(legacy) == 0 {
		report.AddError("no Word documents (.doc or .docx) found in template folder")
	}
	if len(legacy) > 0 {
		report.AddWarning(fmt.Sprintf("found %d .doc file(s) - these cannot be filled automatically, convert to .docx for full functionality", len(legacy)))
	}
	if len(docx) == 0 {
		report.AddError("no .docx files found - at least one .docx file is required for document filling")
	}

	return report.Finalize()
}

func validateConfigFile(configPath string) *models.ValidationReport {
	reader, err := schema.NewReader(configPath)
	if err != nil {
		report := models.NewValidationReport()
		report.AddError(err.Error())
		return report
	}
	return reader.ValidateConfig()
}
