package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"docufill-cli/internal/interactive"
	"docufill-cli/internal/interfaces"
	"docufill-cli/internal/orchestrator"
	"docufill-cli/pkg/models"
)

// Run executes the fill flow: pick a template, gather values, fill its
// documents and report the outcome
func Run(request *models.RunRequest) error {
	orch := orchestrator.New()

	cfg, err := orch.LoadConfiguration(request.ConfigPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	resolveInteractiveMode(request, cfg)

	prompter := interactive.NewPrompter()

	name := request.TemplateName
	if name == "" {
		if !request.Interactive {
			return orchestrator.RecoverFromError(
				orchestrator.NewValidationError("template_name", "", "required in noninteractive mode"))
		}

		templates, err := orch.ListTemplates(cfg)
		if err != nil {
			return err
		}
		if name, err = prompter.SelectTemplate(templates, request.NumberSelect); err != nil {
			return fmt.Errorf("failed to select template: %w", err)
		}
	}

	// Fields are validation-gated: an invalid template fails here with the
	// report findings instead of producing a half-filled batch later.
	fields, err := orch.TemplateFields(cfg, name)
	if err != nil {
		return err
	}

	values, err := parseValues(request)
	if err != nil {
		return err
	}

	if request.Interactive {
		if missing := missingFields(fields, values); len(missing) > 0 {
			collected, err := prompter.CollectValues(missing)
			if err != nil {
				return fmt.Errorf("failed to collect values: %w", err)
			}
			for k, v := range collected {
				values[k] = v
			}
		}

		documents, err := orch.Catalog(cfg).DocumentFiles(name)
		if err != nil {
			return err
		}
		confirmed, err := prompter.ConfirmFill(name, len(documents), request.NumberSelect)
		if err != nil {
			return fmt.Errorf("failed to confirm fill: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("fill cancelled")
		}
	}

	result, err := orch.FillDocuments(cfg, name, values)
	if err != nil {
		return err
	}

	output, err := renderResult(result, request.JSON)
	if err != nil {
		return err
	}

	return orch.OutputResult(output, resolveTarget(request, cfg))
}

// ListTemplates lists all available templates
func ListTemplates(request *models.RunRequest) error {
	orch := orchestrator.New()

	cfg, err := orch.LoadConfiguration(request.ConfigPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	templates, err := orch.ListTemplates(cfg)
	if err != nil {
		return err
	}

	if request.JSON {
		payload, err := json.MarshalIndent(templates, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode templates: %w", err)
		}
		return orch.OutputResult(string(payload), resolveTarget(request, cfg))
	}

	fmt.Printf("Templates location: %s\n\n", cfg.TemplatesLocation)

	if len(templates) == 0 {
		fmt.Println("Templates: (none found)")
		return nil
	}

	fmt.Println("Templates:")
	for _, tmpl := range templates {
		marker := ""
		if !tmpl.HasConfig {
			marker = " [no config]"
		}
		fmt.Printf("  - %s (%d document(s))%s\n", tmpl.Name, tmpl.FileCount, marker)
	}

	return nil
}

// ShowFields prints the field descriptors of a template
func ShowFields(request *models.RunRequest) error {
	orch := orchestrator.New()

	cfg, err := orch.LoadConfiguration(request.ConfigPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	fields, err := orch.TemplateFields(cfg, request.TemplateName)
	if err != nil {
		return err
	}

	if request.JSON {
		payload, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode fields: %w", err)
		}
		return orch.OutputResult(string(payload), resolveTarget(request, cfg))
	}

	fmt.Printf("Found %d field(s) in template '%s':\n", len(fields), request.TemplateName)
	for _, field := range fields {
		kind := "single"
		if field.Multiple {
			kind = "multiple"
		}
		fmt.Printf("  - %s ({%s}, %s)\n", field.Label, field.Key, kind)
		if field.Note != "" {
			fmt.Printf("      note: %s\n", field.Note)
		}
	}

	return nil
}

// ValidateTemplate prints a template's validation report and fails when the
// template is invalid
func ValidateTemplate(request *models.RunRequest) error {
	orch := orchestrator.New()

	cfg, err := orch.LoadConfiguration(request.ConfigPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	report := orch.ValidateTemplate(cfg, request.TemplateName)

	if request.JSON {
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := orch.OutputResult(string(payload), resolveTarget(request, cfg)); err != nil {
			return err
		}
	} else {
		printReport(request.TemplateName, report)
	}

	if !report.Valid {
		return fmt.Errorf("template '%s' is invalid", request.TemplateName)
	}
	return nil
}

func printReport(name string, report *models.ValidationReport) {
	if report.Valid {
		fmt.Printf("Template '%s' is valid\n", name)
	} else {
		fmt.Printf("Template '%s' failed validation:\n", name)
		for _, msg := range report.Errors {
			fmt.Printf("  error: %s\n", msg)
		}
	}
	for _, msg := range report.Warnings {
		fmt.Printf("  warning: %s\n", msg)
	}
}

// renderResult formats a fill result as text or JSON
func renderResult(result *models.FillResult, asJSON bool) (string, error) {
	if asJSON {
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode result: %w", err)
		}
		return string(payload), nil
	}

	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "Successfully filled %d document(s)", len(result.FilledFiles))
		if len(result.Errors) > 0 {
			fmt.Fprintf(&b, " with %d error(s)", len(result.Errors))
		}
		b.WriteString("\n")
		for _, file := range result.FilledFiles {
			fmt.Fprintf(&b, "  - %s\n", file)
		}
	} else {
		b.WriteString("No documents were filled\n")
	}

	for _, msg := range result.Errors {
		fmt.Fprintf(&b, "  error: %s\n", msg)
	}
	for _, msg := range result.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", msg)
	}

	fmt.Fprintf(&b, "Output folder: %s", result.OutputFolder)
	return b.String(), nil
}

// parseValues builds the value mapping from the --values file and --set
// flags; --set wins on conflicts and repeated keys accumulate into a list
func parseValues(request *models.RunRequest) (models.FieldValues, error) {
	values := models.FieldValues{}

	if request.ValuesFile != "" {
		content, err := os.ReadFile(request.ValuesFile)
		if err != nil {
			return nil, orchestrator.RecoverFromError(
				orchestrator.NewValidationError("values", request.ValuesFile, "cannot read values file"))
		}
		if err := json.Unmarshal(content, &values); err != nil {
			return nil, orchestrator.RecoverFromError(
				orchestrator.NewValidationError("values", request.ValuesFile, "values file must be a JSON object"))
		}
	}

	seen := make(map[string]bool)
	for _, pair := range request.SetValues {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, orchestrator.RecoverFromError(
				orchestrator.NewValidationError("values", pair, "expected key=value"))
		}

		if !seen[key] {
			// First --set for a key replaces whatever the values file had.
			seen[key] = true
			values[key] = value
			continue
		}

		switch existing := values[key].(type) {
		case string:
			values[key] = []string{existing, value}
		case []string:
			values[key] = append(existing, value)
		default:
			values[key] = value
		}
	}

	return values, nil
}

// missingFields returns the fields with no value yet, in field order
func missingFields(fields []models.FieldDescriptor, values models.FieldValues) []models.FieldDescriptor {
	var missing []models.FieldDescriptor
	for _, field := range fields {
		if _, ok := values[field.Key]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// resolveInteractiveMode determines the interactive mode from flags and config
func resolveInteractiveMode(request *models.RunRequest, cfg *interfaces.Config) {
	switch {
	case request.ForceNonInteractive:
		request.Interactive = false
	case request.ForceInteractive:
		request.Interactive = true
	default:
		request.Interactive = cfg.InteractiveDefault
	}
}

func resolveTarget(request *models.RunRequest, cfg *interfaces.Config) string {
	if request.Target != "" {
		return request.Target
	}
	return cfg.Target
}
