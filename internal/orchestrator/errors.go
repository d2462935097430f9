package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for different categories of failures
var (
	ErrConfigurationInvalid = errors.New("configuration error")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrTemplateInvalid      = errors.New("template error")
	ErrFillFailed           = errors.New("fill error")
	ErrOutputFailed         = errors.New("output error")
	ErrValidationFailed     = errors.New("validation error")
)

// DocuFillError represents a structured error with actionable guidance
type DocuFillError struct {
	Type     error
	Message  string
	Guidance string
	Cause    error
}

func (e *DocuFillError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("%s: %s\n\nSuggestion: %s", e.Type, e.Message, e.Guidance)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DocuFillError) Unwrap() error {
	return e.Cause
}

// Error constructors with actionable guidance

func NewConfigurationError(message string, cause error) *DocuFillError {
	guidance := "Check your configuration file syntax and ensure all paths exist. " +
		"Use 'docufill --config /path/to/config.toml' to specify a different config file."

	if strings.Contains(message, "permission") {
		guidance = "Check file permissions for your configuration directory. " +
			"Ensure you have read/write access to ~/.config/docufill/"
	} else if strings.Contains(message, "not found") || strings.Contains(message, "does not exist") {
		guidance = "The configuration file doesn't exist. Create ~/.config/docufill/config.toml " +
			"or specify a different path with --config flag."
	}

	return &DocuFillError{
		Type:     ErrConfigurationInvalid,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewTemplateNotFoundError(name string) *DocuFillError {
	return &DocuFillError{
		Type:    ErrTemplateNotFound,
		Message: fmt.Sprintf("template folder '%s' not found", name),
		Guidance: "Each template is a folder under the templates root containing a config.xlsx " +
			"and at least one .docx document. Run 'docufill list' to see available templates.",
	}
}

func NewTemplateError(name string, report []string) *DocuFillError {
	message := fmt.Sprintf("template '%s' failed validation", name)
	guidance := "Run 'docufill validate " + name + "' for the full report. " +
		"The config spreadsheet needs 'label' and 'key' columns, unique keys of letters, " +
		"numbers and underscores, and the folder needs at least one .docx document."

	return &DocuFillError{
		Type:     ErrTemplateInvalid,
		Message:  message,
		Guidance: guidance,
		Cause:    errors.New(strings.Join(report, "; ")),
	}
}

func NewFillError(name string, cause error) *DocuFillError {
	message := fmt.Sprintf("failed to fill documents for template '%s'", name)
	guidance := "Check that the template's documents exist and the output location is writable."

	if cause != nil && strings.Contains(cause.Error(), "no Word documents") {
		guidance = fmt.Sprintf("Template '%s' contains no .doc or .docx files. "+
			"Add at least one .docx document to the template folder.", name)
	}

	return &DocuFillError{
		Type:     ErrFillFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewOutputError(target string, cause error) *DocuFillError {
	message := fmt.Sprintf("failed to output to target '%s'", target)
	guidance := "Check that the output target is valid and accessible."

	if target == "clipboard" {
		guidance = "Clipboard access failed. Ensure you're running in a graphical environment " +
			"or try using --target stdout instead."
	} else if strings.HasPrefix(target, "file:") {
		filePath := strings.TrimPrefix(target, "file:")
		guidance = fmt.Sprintf("Failed to write to file '%s'. Check that the directory exists "+
			"and you have write permissions.", filePath)
	}

	return &DocuFillError{
		Type:     ErrOutputFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewValidationError(field string, value interface{}, reason string) *DocuFillError {
	message := fmt.Sprintf("validation failed for %s: %v (%s)", field, value, reason)
	guidance := "Check the input value and ensure it meets the required format."

	switch field {
	case "template_name":
		guidance = "A template name is required in non-interactive mode. Pass it as an argument " +
			"or remove --yes to pick one interactively."
	case "target":
		guidance = "Target must be 'clipboard', 'stdout', or 'file:/path/to/file'. " +
			"Example: --target file:/tmp/result.json"
	case "config_path":
		guidance = "Configuration file path must be valid and accessible. " +
			"Ensure the file exists and you have read permissions."
	case "values":
		guidance = "Values are given as repeated --set key=value flags or a --values file " +
			"holding a JSON object of strings or string lists keyed by field key."
	}

	return &DocuFillError{
		Type:     ErrValidationFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    nil,
	}
}

// RecoverFromError wraps unknown errors and augments known ones with
// recovery guidance
func RecoverFromError(err error) error {
	if err == nil {
		return nil
	}

	var dfErr *DocuFillError
	if !errors.As(err, &dfErr) {
		return &DocuFillError{
			Type:     errors.New("unknown error"),
			Message:  err.Error(),
			Guidance: "An unexpected error occurred. Please check your inputs and try again.",
			Cause:    err,
		}
	}

	switch dfErr.Type {
	case ErrOutputFailed:
		if strings.Contains(dfErr.Message, "clipboard") {
			dfErr.Guidance += "\n\nTry using --target stdout as a fallback."
		}
	case ErrTemplateInvalid:
		if dfErr.Cause != nil {
			dfErr.Guidance += "\n\nFindings: " + dfErr.Cause.Error()
		}
	}

	return dfErr
}

// IsRecoverableError checks if an error can be recovered from
func IsRecoverableError(err error) bool {
	var dfErr *DocuFillError
	if !errors.As(err, &dfErr) {
		return false
	}

	// Clipboard failures fall back to stdout.
	return dfErr.Type == ErrOutputFailed && strings.Contains(dfErr.Message, "clipboard")
}
