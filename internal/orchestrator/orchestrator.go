package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docufill-cli/internal/catalog"
	"docufill-cli/internal/config"
	"docufill-cli/internal/fill"
	"docufill-cli/internal/interfaces"
	"docufill-cli/internal/schema"
	"docufill-cli/pkg/models"
)

// Orchestrator coordinates the catalog, schema reader and fill engine behind
// the CLI surface. Low-level faults from any of them are caught here and
// re-expressed as structured errors or report entries; nothing escapes as an
// unhandled fault.
type Orchestrator struct {
	configManager interfaces.ConfigManager
	outputHandler interfaces.OutputHandler
}

// New creates a new orchestrator with all required components
func New() *Orchestrator {
	return &Orchestrator{
		configManager: config.NewManager(),
		outputHandler: NewOutputHandler(),
	}
}

// LoadConfiguration loads, resolves and validates configuration
func (o *Orchestrator) LoadConfiguration(configPath string) (*interfaces.Config, error) {
	if _, err := o.configManager.Load(configPath); err != nil {
		return nil, RecoverFromError(NewConfigurationError("failed to load configuration", err))
	}

	cfg, err := o.configManager.Resolve()
	if err != nil {
		return nil, RecoverFromError(NewConfigurationError("failed to resolve configuration", err))
	}

	if err := o.configManager.Validate(cfg); err != nil {
		return nil, RecoverFromError(NewConfigurationError(err.Error(), err))
	}

	return cfg, nil
}

// Catalog returns the template catalog for the given configuration
func (o *Orchestrator) Catalog(cfg *interfaces.Config) *catalog.Catalog {
	return catalog.New(cfg.TemplatesLocation)
}

// ListTemplates lists all templates under the configured templates root
func (o *Orchestrator) ListTemplates(cfg *interfaces.Config) ([]models.TemplateInfo, error) {
	templates, err := o.Catalog(cfg).Templates()
	if err != nil {
		return nil, RecoverFromError(NewConfigurationError(err.Error(), err))
	}
	return templates, nil
}

// ValidateTemplate validates a named template's configuration and documents
func (o *Orchestrator) ValidateTemplate(cfg *interfaces.Config, name string) *models.ValidationReport {
	return o.Catalog(cfg).Validate(name)
}

// TemplateFields returns a template's field descriptors. The template must
// pass validation first: an invalid template yields a structured error
// carrying the report findings rather than a possibly misleading field list.
func (o *Orchestrator) TemplateFields(cfg *interfaces.Config, name string) ([]models.FieldDescriptor, error) {
	report := o.ValidateTemplate(cfg, name)
	if !report.Valid {
		return nil, RecoverFromError(NewTemplateError(name, report.Errors))
	}

	reader, err := o.schemaReader(cfg, name)
	if err != nil {
		return nil, err
	}

	fields, err := reader.ReadFields()
	if err != nil {
		return nil, RecoverFromError(NewTemplateError(name, []string{err.Error()}))
	}
	return fields, nil
}

// FillDocuments fills every document of a named template with the given
// values and returns the batch result. Per-file failures live inside the
// result; the returned error covers only conditions that prevent the batch
// from starting at all.
func (o *Orchestrator) FillDocuments(cfg *interfaces.Config, name string, values models.FieldValues) (*models.FillResult, error) {
	cat := o.Catalog(cfg)

	dir := cat.TemplateDir(name)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, RecoverFromError(NewTemplateNotFoundError(name))
	}

	documents, err := cat.DocumentFiles(name)
	if err != nil {
		return nil, RecoverFromError(NewFillError(name, err))
	}
	if len(documents) == 0 {
		return nil, RecoverFromError(NewFillError(name, fmt.Errorf("no Word documents found in template folder")))
	}

	values = o.seedDefaults(cfg, name, values)

	engine := fill.NewEngine(fill.NewDocxRenderer(), fill.NewSofficeConverter(cfg.ConverterPath))
	engine.SetConvertTimeout(time.Duration(cfg.ConvertTimeoutSeconds) * time.Second)

	result := engine.FillMany(models.FillRequest{
		TemplateDir:   dir,
		OutputRoot:    cfg.OutputLocation,
		DocumentFiles: documents,
		Values:        values,
		Timestamp:     time.Now().Format(fill.TimestampLayout),
		TemplateName:  name,
	})

	for _, doc := range documents {
		if strings.EqualFold(filepath.Ext(doc), ".doc") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("note: %s is a .doc file and cannot be filled automatically; convert to .docx for full functionality", doc))
		}
	}

	return result, nil
}

// OutputResult writes rendered output to the requested target, falling back
// to stdout when the clipboard is unavailable
func (o *Orchestrator) OutputResult(content, target string) error {
	if target == "" {
		target = "stdout"
	}

	switch {
	case target == "clipboard":
		if err := o.outputHandler.WriteToClipboard(content); err != nil {
			outputErr := NewOutputError(target, err)
			if IsRecoverableError(outputErr) {
				fmt.Fprintf(os.Stderr, "Warning: %s\nFalling back to stdout:\n\n", outputErr.Error())
				return o.outputHandler.WriteToStdout(content)
			}
			return RecoverFromError(outputErr)
		}
		fmt.Println("Result copied to clipboard")

	case target == "stdout":
		if err := o.outputHandler.WriteToStdout(content); err != nil {
			return RecoverFromError(NewOutputError(target, err))
		}

	case strings.HasPrefix(target, "file:"):
		filePath := strings.TrimPrefix(target, "file:")
		if err := o.outputHandler.WriteToFile(content, filePath); err != nil {
			return RecoverFromError(NewOutputError(target, err))
		}
		fmt.Printf("Result written to %s\n", filePath)

	default:
		return RecoverFromError(NewValidationError("target", target, "unsupported output target"))
	}

	return nil
}

// schemaReader opens the schema reader for a template's config file
func (o *Orchestrator) schemaReader(cfg *interfaces.Config, name string) (*schema.Reader, error) {
	configPath := catalog.FindConfigFile(o.Catalog(cfg).TemplateDir(name))
	if configPath == "" {
		return nil, RecoverFromError(NewTemplateError(name, []string{"no config.xlsx file found in template folder"}))
	}

	reader, err := schema.NewReader(configPath)
	if err != nil {
		return nil, RecoverFromError(NewTemplateError(name, []string{err.Error()}))
	}
	return reader, nil
}

// seedDefaults fills in an empty value for every schema field the caller
// left out, so untouched placeholders render as blanks instead of leaking
// template syntax into the output.
func (o *Orchestrator) seedDefaults(cfg *interfaces.Config, name string, values models.FieldValues) models.FieldValues {
	reader, err := o.schemaReader(cfg, name)
	if err != nil {
		return values
	}
	fields, err := reader.ReadFields()
	if err != nil {
		return values
	}

	seeded := make(models.FieldValues, len(fields))
	for k, v := range values {
		seeded[k] = v
	}
	for _, field := range fields {
		if _, ok := seeded[field.Key]; ok {
			continue
		}
		if field.Multiple {
			seeded[field.Key] = []string{}
		} else {
			seeded[field.Key] = ""
		}
	}
	return seeded
}
