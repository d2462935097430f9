package fill

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestHealPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "intact placeholder passes through",
			xml:  `<w:t>{{.client_name}}</w:t>`,
			want: `<w:t>{{.client_name}}</w:t>`,
		},
		{
			name: "delimiters split across runs are merged",
			xml:  `<w:t>{</w:t></w:r><w:r><w:t>{.client_name}</w:t></w:r><w:r><w:t>}</w:t>`,
			want: `<w:t>{{.client_name}}</w:t>`,
		},
		{
			name: "markup inside a placeholder is stripped",
			xml:  `{{.client</w:t></w:r><w:r><w:t>_name}}`,
			want: `{{.client_name}}`,
		},
		{
			name: "entities inside a placeholder are restored",
			xml:  `{{if eq .mode &quot;draft&quot;}}x{{end}}`,
			want: `{{if eq .mode "draft"}}x{{end}}`,
		},
		{
			name: "smart quotes inside a placeholder become straight quotes",
			xml:  `{{if eq .mode “draft”}}x{{end}}`,
			want: `{{if eq .mode "draft"}}x{{end}}`,
		},
		{
			name: "text outside placeholders is untouched",
			xml:  `<w:t>&quot;quoted&quot; {x} text</w:t>`,
			want: `<w:t>&quot;quoted&quot; {x} text</w:t>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := healPlaceholders(tt.xml); got != tt.want {
				t.Errorf("healPlaceholders() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderablePart(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"word/document.xml", true},
		{"word/header1.xml", true},
		{"word/header2.xml", true},
		{"word/footer1.xml", true},
		{"word/styles.xml", false},
		{"word/media/image1.png", false},
		{"[Content_Types].xml", false},
		{"docProps/core.xml", false},
	}

	for _, tt := range tests {
		if got := renderablePart(tt.name); got != tt.want {
			t.Errorf("renderablePart(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEscapeValues(t *testing.T) {
	got := escapeValues(map[string]any{
		"scalar": "a < b & c > d",
		"items":  []string{"<x>", "plain"},
	})

	want := map[string]any{
		"scalar": "a &lt; b &amp; c &gt; d",
		"items":  []string{"&lt;x&gt;", "plain"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("escapeValues() = %#v, want %#v", got, want)
	}
}

func TestDocxRenderer_Render_HeadersAndFooters(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.docx")
	dst := filepath.Join(dir, "out", "dst.docx")

	makeDocx(t, src, map[string]string{
		"[Content_Types].xml": documentHeader + `<Types/>`,
		"word/document.xml":   documentHeader + `<w:t>{{.client_name}}</w:t>`,
		"word/header1.xml":    documentHeader + `<w:t>Header for {{.client_name}}</w:t>`,
		"word/footer1.xml":    documentHeader + `<w:t>Footer {{.client_name}}</w:t>`,
		"word/styles.xml":     documentHeader + `<w:styles>{{not a placeholder}}</w:styles>`,
	})

	renderer := NewDocxRenderer()
	data := map[string]any{"client_name": "Acme"}
	if err := renderer.Render(src, dst, escapeValues(data)); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	if got := readPart(t, dst, "word/header1.xml"); !strings.Contains(got, "Header for Acme") {
		t.Errorf("header not rendered: %s", got)
	}
	if got := readPart(t, dst, "word/footer1.xml"); !strings.Contains(got, "Footer Acme") {
		t.Errorf("footer not rendered: %s", got)
	}
	// non-content parts are copied verbatim even when they contain braces
	if got := readPart(t, dst, "word/styles.xml"); !strings.Contains(got, "{{not a placeholder}}") {
		t.Errorf("styles part was altered: %s", got)
	}
}

func TestSeedMissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
		data    map[string]any
		want    string
	}{
		{
			name:    "bare absent field renders blank",
			content: `Hello {{.unset_key}}!`,
			data:    map[string]any{},
			want:    "Hello !",
		},
		{
			name:    "present keys are untouched",
			content: `Hello {{.client_name}}{{.unset_key}}!`,
			data:    map[string]any{"client_name": "Acme"},
			want:    "Hello Acme!",
		},
		{
			name:    "absent field inside a conditional",
			content: `{{if .flag}}yes{{else}}no {{.other}}{{end}}`,
			data:    map[string]any{},
			want:    "no ",
		},
		{
			name:    "absent field inside a pipeline",
			content: `{{.unset_key | upper}}done`,
			data:    map[string]any{},
			want:    "done",
		},
		{
			name:    "absent range target produces no iterations",
			content: `before{{range .missing_items}} {{.}}{{end}} after`,
			data:    map[string]any{},
			want:    "before after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderPart("part", tt.content, tt.data)
			if err != nil {
				t.Fatalf("renderPart() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("renderPart() = %q, want %q", got, tt.want)
			}
			if strings.Contains(got, "<no value>") {
				t.Errorf("placeholder marker leaked: %q", got)
			}
		})
	}
}

func TestDocxRenderer_Render_SplitPlaceholder(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.docx")
	dst := filepath.Join(dir, "dst.docx")

	makeDocument(t, src,
		`<w:r><w:t>{</w:t></w:r><w:r><w:rPr/><w:t>{.client_name}</w:t></w:r><w:r><w:t>}</w:t></w:r>`)

	if err := NewDocxRenderer().Render(src, dst, map[string]any{"client_name": "Acme"}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	filled := readPart(t, dst, "word/document.xml")
	if !strings.Contains(filled, "Acme") {
		t.Errorf("split placeholder was not substituted:\n%s", filled)
	}
	if strings.Contains(filled, "{{") {
		t.Errorf("unsubstituted placeholder remains:\n%s", filled)
	}
}

func TestDocxRenderer_Render_InvalidSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notzip.docx")
	if err := os.WriteFile(src, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewDocxRenderer().Render(src, filepath.Join(dir, "dst.docx"), nil)
	if err == nil {
		t.Fatal("expected error for a non-zip source")
	}
	if !strings.Contains(err.Error(), "failed to open document") {
		t.Errorf("unexpected error: %v", err)
	}
}
