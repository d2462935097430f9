package interfaces

import "context"

// DocumentRenderer substitutes a placeholder context into a template
// document and writes the filled copy. Implementations own the templating
// syntax; callers only supply the key to value mapping.
type DocumentRenderer interface {
	// Render fills templatePath with data and writes the result to outputPath
	Render(templatePath, outputPath string, data map[string]any) error
}

// LegacyConverter converts a legacy-format document to the modern format.
// Absence or failure of the underlying tool is a normal, recoverable
// condition, not a hard dependency.
type LegacyConverter interface {
	// Convert converts docPath into outDir and returns the converted path
	Convert(ctx context.Context, docPath, outDir string) (string, error)
}
