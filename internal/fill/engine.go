package fill

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docufill-cli/internal/catalog"
	"docufill-cli/internal/interfaces"
	"docufill-cli/pkg/models"
)

// TimestampLayout names output folders at one-second resolution. Two fills
// of the same template within the same second share a folder name; the
// collision window is a known limitation and retries simply produce a new
// timestamp.
const TimestampLayout = "2006-01-02_15-04-05"

// DefaultConvertTimeout bounds the external legacy-conversion subprocess.
const DefaultConvertTimeout = 30 * time.Second

// Engine fills batches of Word documents with field values. The rendering
// and legacy-conversion capabilities are injected so both can be replaced in
// tests, and so a missing converter is a normal failure path.
type Engine struct {
	renderer       interfaces.DocumentRenderer
	converter      interfaces.LegacyConverter
	convertTimeout time.Duration
}

// NewEngine creates a fill engine with the given renderer and converter
func NewEngine(renderer interfaces.DocumentRenderer, converter interfaces.LegacyConverter) *Engine {
	return &Engine{
		renderer:       renderer,
		converter:      converter,
		convertTimeout: DefaultConvertTimeout,
	}
}

// SetConvertTimeout overrides the legacy-conversion timeout
func (e *Engine) SetConvertTimeout(d time.Duration) {
	if d > 0 {
		e.convertTimeout = d
	}
}

// FillMany fills every requested document into a fresh timestamped output
// folder. A failure on one file never aborts the batch: it becomes a
// per-file error and the remaining files are still processed. The batch is
// successful when at least one file was produced.
func (e *Engine) FillMany(req models.FillRequest) *models.FillResult {
	result := models.NewFillResult()

	timestamp := req.Timestamp
	if timestamp == "" {
		timestamp = time.Now().Format(TimestampLayout)
	}

	outputFolder := req.OutputRoot
	folderName := ""
	if req.TemplateName != "" {
		folderName = fmt.Sprintf("%s_%s", timestamp, req.TemplateName)
		outputFolder = filepath.Join(req.OutputRoot, folderName)
	}
	result.OutputFolder = outputFolder

	if err := os.MkdirAll(outputFolder, 0o755); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to create output folder: %v", err))
		return result
	}

	data := buildContext(req.Values)

	for _, name := range req.DocumentFiles {
		if strings.HasPrefix(name, catalog.TempFilePrefix) {
			continue
		}

		src := filepath.Join(req.TemplateDir, name)
		if _, err := os.Stat(src); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("template not found: %s", name))
			continue
		}

		dst := filepath.Join(outputFolder, name)
		warning, err := e.fillDocument(src, dst, data)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error filling %s: %v", name, err))
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		if folderName != "" {
			result.FilledFiles = append(result.FilledFiles, folderName+"/"+name)
		} else {
			result.FilledFiles = append(result.FilledFiles, name)
		}
	}

	result.Success = len(result.FilledFiles) > 0
	return result
}

// fillDocument dispatches one source file by extension
func (e *Engine) fillDocument(src, dst string, data map[string]any) (warning string, err error) {
	if strings.EqualFold(filepath.Ext(src), ".doc") {
		return e.fillLegacyDocument(src, dst, data)
	}
	return "", e.renderer.Render(src, dst, data)
}

// fillLegacyDocument converts a .doc file and fills the converted copy. When
// conversion fails for any reason the original bytes are copied out unfilled
// and the caller gets a warning; a usable artifact still counts as filled.
func (e *Engine) fillLegacyDocument(src, dst string, data map[string]any) (string, error) {
	tmpDir, err := os.MkdirTemp("", "docufill-convert-")
	if err != nil {
		return "", fmt.Errorf("failed to create conversion workspace: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	ctx, cancel := context.WithTimeout(context.Background(), e.convertTimeout)
	defer cancel()

	converted, err := e.converter.Convert(ctx, src, tmpDir)
	if err != nil {
		if copyErr := copyFile(src, dst); copyErr != nil {
			return "", copyErr
		}
		return fmt.Sprintf("%s: conversion to .docx failed (%v); copied without filling placeholders", filepath.Base(src), err), nil
	}

	return "", e.renderer.Render(converted, dst, data)
}

// buildContext projects request values into the substitution context.
// Multi-value entries become ordered lists of stringified non-empty items,
// scalars are stringified, and nil becomes the empty string.
func buildContext(values models.FieldValues) map[string]any {
	data := make(map[string]any, len(values))
	for key, value := range values {
		switch v := value.(type) {
		case nil:
			data[key] = ""
		case string:
			data[key] = v
		case []string:
			items := make([]string, 0, len(v))
			for _, item := range v {
				if item != "" {
					items = append(items, item)
				}
			}
			data[key] = items
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				if item == nil {
					continue
				}
				if s := fmt.Sprintf("%v", item); s != "" {
					items = append(items, s)
				}
			}
			data[key] = items
		default:
			data[key] = fmt.Sprintf("%v", v)
		}
	}
	return data
}

// copyFile copies src to dst byte for byte
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
