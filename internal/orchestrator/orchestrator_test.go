package orchestrator

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"docufill-cli/internal/interfaces"
	"docufill-cli/pkg/models"
)

func testConfig(t *testing.T, templatesRoot string) *interfaces.Config {
	t.Helper()
	return &interfaces.Config{
		TemplatesLocation:     templatesRoot,
		OutputLocation:        t.TempDir(),
		ConverterPath:         "docufill-test-no-such-converter",
		ConvertTimeoutSeconds: 5,
		Target:                "stdout",
		InteractiveDefault:    true,
	}
}

func writeSchema(t *testing.T, path string, rows [][]string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func writeDocx(t *testing.T, path, body string) {
	t.Helper()

	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	for name, content := range map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   `<w:document><w:body>` + body + `</w:body></w:document>`,
	} {
		w, err := writer.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
}

func readDocumentXML(t *testing.T, path string) string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	for _, part := range reader.File {
		if part.Name != "word/document.xml" {
			continue
		}
		src, err := part.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer src.Close()
		content, err := io.ReadAll(src)
		if err != nil {
			t.Fatal(err)
		}
		return string(content)
	}
	t.Fatalf("word/document.xml not found in %s", path)
	return ""
}

// makeContractTemplate builds a valid template folder named "contract"
func makeContractTemplate(t *testing.T, root string) {
	t.Helper()

	dir := filepath.Join(root, "contract")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSchema(t, filepath.Join(dir, "config.xlsx"), [][]string{
		{"label", "key", "multiple"},
		{"Client Name", "client_name", ""},
		{"Items", "items", "TRUE"},
		{"Notes", "notes", ""},
	})
	writeDocx(t, filepath.Join(dir, "agreement.docx"),
		`<w:t>Client: {{.client_name}}</w:t>{{range .items}}<w:t>* {{.}}</w:t>{{end}}<w:t>Notes: {{.notes}}.</w:t>`)
}

func TestOrchestrator_ListTemplates(t *testing.T) {
	root := t.TempDir()
	makeContractTemplate(t, root)

	orch := New()
	templates, err := orch.ListTemplates(testConfig(t, root))
	if err != nil {
		t.Fatalf("ListTemplates() failed: %v", err)
	}

	if len(templates) != 1 || templates[0].Name != "contract" {
		t.Fatalf("unexpected templates: %+v", templates)
	}
	if !templates[0].HasConfig || templates[0].FileCount != 1 {
		t.Errorf("unexpected template info: %+v", templates[0])
	}
}

func TestOrchestrator_ListTemplates_MissingRoot(t *testing.T) {
	orch := New()
	cfg := testConfig(t, filepath.Join(t.TempDir(), "nope"))

	_, err := orch.ListTemplates(cfg)
	if err == nil {
		t.Fatal("expected error for missing templates root")
	}

	var dfErr *DocuFillError
	if !errors.As(err, &dfErr) {
		t.Fatalf("expected *DocuFillError, got %T", err)
	}
}

func TestOrchestrator_TemplateFields(t *testing.T) {
	root := t.TempDir()
	makeContractTemplate(t, root)

	orch := New()
	fields, err := orch.TemplateFields(testConfig(t, root), "contract")
	if err != nil {
		t.Fatalf("TemplateFields() failed: %v", err)
	}

	if len(fields) != 3 {
		t.Fatalf("got %d fields, want 3: %+v", len(fields), fields)
	}
	if fields[0].Key != "client_name" || fields[0].Label != "Client Name" {
		t.Errorf("unexpected first field: %+v", fields[0])
	}
	if !fields[1].Multiple {
		t.Errorf("items field should be multiple: %+v", fields[1])
	}
}

func TestOrchestrator_TemplateFields_InvalidTemplate(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "broken")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSchema(t, filepath.Join(dir, "config.xlsx"), [][]string{
		{"label", "key"},
		{"A", "dup"},
		{"B", "dup"},
	})
	writeDocx(t, filepath.Join(dir, "a.docx"), `<w:t>x</w:t>`)

	orch := New()
	_, err := orch.TemplateFields(testConfig(t, root), "broken")
	if err == nil {
		t.Fatal("expected error for invalid template")
	}

	var dfErr *DocuFillError
	if !errors.As(err, &dfErr) {
		t.Fatalf("expected *DocuFillError, got %T", err)
	}
	if !errors.Is(dfErr.Type, ErrTemplateInvalid) {
		t.Errorf("Type = %v, want %v", dfErr.Type, ErrTemplateInvalid)
	}
	if !strings.Contains(dfErr.Guidance, "duplicate field keys found: dup") {
		t.Errorf("Guidance should carry the findings: %q", dfErr.Guidance)
	}
}

func TestOrchestrator_FillDocuments(t *testing.T) {
	root := t.TempDir()
	makeContractTemplate(t, root)
	cfg := testConfig(t, root)

	orch := New()
	result, err := orch.FillDocuments(cfg, "contract", models.FieldValues{
		"client_name": "Acme Corp",
		"items":       []string{"one", "two"},
		// notes is deliberately left out
	})
	if err != nil {
		t.Fatalf("FillDocuments() failed: %v", err)
	}

	if !result.Success || len(result.FilledFiles) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	filled := readDocumentXML(t, filepath.Join(result.OutputFolder, "agreement.docx"))
	for _, want := range []string{"Client: Acme Corp", "* one", "* two"} {
		if !strings.Contains(filled, want) {
			t.Errorf("filled document missing %q:\n%s", want, filled)
		}
	}
	// the omitted field renders as a blank, not as template syntax
	if !strings.Contains(filled, "Notes: .") {
		t.Errorf("omitted field did not render blank:\n%s", filled)
	}
	if strings.Contains(filled, "{{") {
		t.Errorf("unsubstituted placeholders remain:\n%s", filled)
	}
}

func TestOrchestrator_FillDocuments_TemplateNotFound(t *testing.T) {
	orch := New()
	_, err := orch.FillDocuments(testConfig(t, t.TempDir()), "absent", models.FieldValues{})
	if err == nil {
		t.Fatal("expected error for missing template")
	}

	var dfErr *DocuFillError
	if !errors.As(err, &dfErr) {
		t.Fatalf("expected *DocuFillError, got %T", err)
	}
	if !errors.Is(dfErr.Type, ErrTemplateNotFound) {
		t.Errorf("Type = %v, want %v", dfErr.Type, ErrTemplateNotFound)
	}
}

func TestOrchestrator_FillDocuments_NoDocuments(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "empty")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSchema(t, filepath.Join(dir, "config.xlsx"), [][]string{
		{"label", "key"},
		{"A", "a"},
	})

	orch := New()
	_, err := orch.FillDocuments(testConfig(t, root), "empty", models.FieldValues{})
	if err == nil {
		t.Fatal("expected error for a template without documents")
	}

	var dfErr *DocuFillError
	if !errors.As(err, &dfErr) {
		t.Fatalf("expected *DocuFillError, got %T", err)
	}
	if !errors.Is(dfErr.Type, ErrFillFailed) {
		t.Errorf("Type = %v, want %v", dfErr.Type, ErrFillFailed)
	}
}

func TestOrchestrator_FillDocuments_LegacyWarning(t *testing.T) {
	root := t.TempDir()
	makeContractTemplate(t, root)
	if err := os.WriteFile(filepath.Join(root, "contract", "old.doc"), []byte("legacy"), 0o644); err != nil {
		t.Fatal(err)
	}

	orch := New()
	result, err := orch.FillDocuments(testConfig(t, root), "contract", models.FieldValues{
		"client_name": "Acme",
	})
	if err != nil {
		t.Fatalf("FillDocuments() failed: %v", err)
	}

	// the missing converter makes the copy fallback kick in, so both files
	// are produced
	if len(result.FilledFiles) != 2 {
		t.Errorf("FilledFiles = %v, want 2 entries", result.FilledFiles)
	}

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "old.doc is a .doc file and cannot be filled automatically") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a legacy-file warning, got %v", result.Warnings)
	}
}

func TestOrchestrator_OutputResult(t *testing.T) {
	orch := New()

	t.Run("file target", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		if err := orch.OutputResult("content here", "file:"+path); err != nil {
			t.Fatalf("OutputResult() failed: %v", err)
		}

		written, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(written) != "content here" {
			t.Errorf("file content = %q", written)
		}
	})

	t.Run("stdout target", func(t *testing.T) {
		if err := orch.OutputResult("content", "stdout"); err != nil {
			t.Fatalf("OutputResult() failed: %v", err)
		}
	})

	t.Run("empty target defaults to stdout", func(t *testing.T) {
		if err := orch.OutputResult("content", ""); err != nil {
			t.Fatalf("OutputResult() failed: %v", err)
		}
	})

	t.Run("unsupported target", func(t *testing.T) {
		err := orch.OutputResult("content", "printer")
		if err == nil {
			t.Fatal("expected error for unsupported target")
		}

		var dfErr *DocuFillError
		if !errors.As(err, &dfErr) {
			t.Fatalf("expected *DocuFillError, got %T", err)
		}
		if !errors.Is(dfErr.Type, ErrValidationFailed) {
			t.Errorf("Type = %v, want %v", dfErr.Type, ErrValidationFailed)
		}
	})
}

func TestOrchestrator_SeedDefaults(t *testing.T) {
	root := t.TempDir()
	makeContractTemplate(t, root)
	cfg := testConfig(t, root)

	orch := New()
	seeded := orch.seedDefaults(cfg, "contract", models.FieldValues{
		"client_name": "Acme",
	})

	if seeded["client_name"] != "Acme" {
		t.Errorf("provided value was altered: %v", seeded["client_name"])
	}
	if v, ok := seeded["notes"].(string); !ok || v != "" {
		t.Errorf("scalar default = %#v, want empty string", seeded["notes"])
	}
	if v, ok := seeded["items"].([]string); !ok || len(v) != 0 {
		t.Errorf("multi-value default = %#v, want empty list", seeded["items"])
	}
}
