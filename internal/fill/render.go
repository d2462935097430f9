package fill

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/Masterminds/sprig/v3"
)

// DocxRenderer fills .docx files by running their XML parts through Go's
// text/template engine with the sprig function set. Placeholders reference
// field keys through the template dot: {{.client_name}} for a scalar field,
// {{range .items}}...{{end}} for a multi-value field. The body, headers and
// footers are rendered; everything else in the container is copied through
// untouched.
type DocxRenderer struct{}

// NewDocxRenderer creates a docx renderer
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

var (
	// Word splits text runs at arbitrary points, so a placeholder typed as
	// {{key}} can arrive as {<tags>{key}<tags>}. The first two patterns glue
	// delimiters back together, the third cleans markup out of the healed
	// placeholder body.
	splitOpenPattern  = regexp.MustCompile(`\{(?:<[^>]*>)+\{`)
	splitClosePattern = regexp.MustCompile(`\}(?:<[^>]*>)+\}`)
	placeholderBody   = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
	xmlTag            = regexp.MustCompile(`<[^>]*>`)

	placeholderUnescaper = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
	)

	xmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
)

// Render fills templatePath with data and writes the result to outputPath
func (r *DocxRenderer) Render(templatePath, outputPath string, data map[string]any) error {
	reader, err := zip.OpenReader(templatePath)
	if err != nil {
		return fmt.Errorf("failed to open document %s: %w", templatePath, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	writer := zip.NewWriter(out)

	escaped := escapeValues(data)

	for _, part := range reader.File {
		if err := r.writePart(writer, part, escaped); err != nil {
			writer.Close()
			out.Close()
			os.Remove(outputPath)
			return err
		}
	}

	if err := writer.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to finalize %s: %w", outputPath, err)
	}
	return out.Close()
}

func (r *DocxRenderer) writePart(writer *zip.Writer, part *zip.File, data map[string]any) error {
	src, err := part.Open()
	if err != nil {
		return fmt.Errorf("failed to read part %s: %w", part.Name, err)
	}
	defer src.Close()

	dst, err := writer.Create(part.Name)
	if err != nil {
		return fmt.Errorf("failed to write part %s: %w", part.Name, err)
	}

	if !renderablePart(part.Name) {
		_, err := io.Copy(dst, src)
		return err
	}

	content, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read part %s: %w", part.Name, err)
	}

	rendered, err := renderPart(part.Name, string(content), data)
	if err != nil {
		return err
	}

	_, err = io.WriteString(dst, rendered)
	return err
}

// renderablePart reports whether a container part carries template content:
// the document body plus headers and footers.
func renderablePart(name string) bool {
	if name == "word/document.xml" {
		return true
	}
	if !strings.HasSuffix(name, ".xml") {
		return false
	}
	return strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")
}

func renderPart(name, content string, data map[string]any) (string, error) {
	healed := healPlaceholders(content)

	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=zero").
		Parse(healed)
	if err != nil {
		return "", fmt.Errorf("invalid placeholders in %s: %w", name, err)
	}

	seedMissingKeys(tmpl.Tree.Root, data)

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to substitute placeholders in %s: %w", name, err)
	}
	return buf.String(), nil
}

// seedMissingKeys gives every field the part references a value when
// the mapping has no entry for it. A map context makes a missing key
// execute as a nil interface, which prints the literal "<no value>";
// stray placeholders must render blank instead. Fields iterated with
// range get an empty list, since range over a string is an execution
// error, everything else gets an empty string.
func seedMissingKeys(root parse.Node, data map[string]any) {
	scalars := map[string]bool{}
	ranged := map[string]bool{}

	var walk func(node parse.Node, rangePipe bool)
	walk = func(node parse.Node, rangePipe bool) {
		switch n := node.(type) {
		case *parse.ListNode:
			if n == nil {
				return
			}
			for _, item := range n.Nodes {
				walk(item, rangePipe)
			}
		case *parse.ActionNode:
			walk(n.Pipe, rangePipe)
		case *parse.PipeNode:
			if n == nil {
				return
			}
			for _, cmd := range n.Cmds {
				walk(cmd, rangePipe)
			}
		case *parse.CommandNode:
			for _, arg := range n.Args {
				walk(arg, rangePipe)
			}
		case *parse.ChainNode:
			walk(n.Node, rangePipe)
		case *parse.IfNode:
			walk(n.Pipe, false)
			walk(n.List, false)
			walk(n.ElseList, false)
		case *parse.WithNode:
			walk(n.Pipe, false)
			walk(n.List, false)
			walk(n.ElseList, false)
		case *parse.RangeNode:
			walk(n.Pipe, true)
			walk(n.List, false)
			walk(n.ElseList, false)
		case *parse.FieldNode:
			if len(n.Ident) == 0 {
				return
			}
			if rangePipe {
				ranged[n.Ident[0]] = true
			} else {
				scalars[n.Ident[0]] = true
			}
		}
	}
	walk(root, false)

	for key := range ranged {
		if _, ok := data[key]; !ok {
			data[key] = []string{}
		}
	}
	for key := range scalars {
		if _, ok := data[key]; !ok {
			data[key] = ""
		}
	}
}

// healPlaceholders repairs placeholders the word processor fragmented:
// delimiters split across runs are merged, then run markup and XML entities
// inside each placeholder are stripped so the expression parses.
func healPlaceholders(xml string) string {
	xml = splitOpenPattern.ReplaceAllString(xml, "{{")
	xml = splitClosePattern.ReplaceAllString(xml, "}}")

	return placeholderBody.ReplaceAllStringFunc(xml, func(m string) string {
		m = xmlTag.ReplaceAllString(m, "")
		return placeholderUnescaper.Replace(m)
	})
}

// escapeValues XML-escapes every substituted value so user input can never
// produce malformed document parts.
func escapeValues(data map[string]any) map[string]any {
	escaped := make(map[string]any, len(data))
	for key, value := range data {
		switch v := value.(type) {
		case string:
			escaped[key] = xmlEscaper.Replace(v)
		case []string:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = xmlEscaper.Replace(item)
			}
			escaped[key] = items
		default:
			escaped[key] = v
		}
	}
	return escaped
}
