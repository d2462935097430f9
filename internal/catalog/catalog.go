package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docufill-cli/internal/schema"
	"docufill-cli/pkg/models"
)

// TempFilePrefix marks the lock/scratch files word processors leave next to
// an open document. They are never real content and are ignored everywhere.
const TempFilePrefix = "~$"

// Catalog enumerates template folders under a templates root. Each template
// is a directory holding one spreadsheet configuration and one or more Word
// documents.
type Catalog struct {
	templatesDir string
}

// New creates a catalog over the given templates root
func New(templatesDir string) *Catalog {
	return &Catalog{templatesDir: templatesDir}
}

// TemplatesDir returns the templates root
func (c *Catalog) TemplatesDir() string {
	return c.templatesDir
}

// TemplateDir returns the folder for a named template
func (c *Catalog) TemplateDir(name string) string {
	return filepath.Join(c.templatesDir, name)
}

// Templates lists all template folders with their configuration and
// document files. Hidden folders are skipped; plain files in the root are
// ignored. A folder that cannot be read is listed without contents rather
// than failing the whole enumeration.
func (c *Catalog) Templates() ([]models.TemplateInfo, error) {
	entries, err := os.ReadDir(c.templatesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates directory %s: %w", c.templatesDir, err)
	}

	templates := []models.TemplateInfo{}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		dir := filepath.Join(c.templatesDir, entry.Name())

		docx, legacy, err := ListDocuments(dir)
		if err != nil {
			// an unreadable folder still shows up in the listing,
			// just with nothing in it
			templates = append(templates, models.TemplateInfo{
				Name: entry.Name(),
				Path: dir,
			})
			continue
		}
		documents := append(docx, legacy...)

		configPath := FindConfigFile(dir)
		configFile := ""
		if configPath != "" {
			configFile = filepath.Base(configPath)
		}

		templates = append(templates, models.TemplateInfo{
			Name:          entry.Name(),
			Path:          dir,
			HasConfig:     configPath != "",
			ConfigFile:    configFile,
			DocumentFiles: documents,
			FileCount:     len(documents),
		})
	}

	return templates, nil
}

// DocumentFiles returns all fillable and legacy documents of a named
// template, modern format first
func (c *Catalog) DocumentFiles(name string) ([]string, error) {
	docx, legacy, err := ListDocuments(c.TemplateDir(name))
	if err != nil {
		return nil, err
	}
	return append(docx, legacy...), nil
}

// FindConfigFile locates the spreadsheet configuration in a template
// folder: the exact default name wins, then the first .xlsx, then the first
// .xls. Returns "" when the folder holds no spreadsheet.
func FindConfigFile(dir string) string {
	preferred := filepath.Join(dir, schema.DefaultConfigFileName)
	if _, err := os.Stat(preferred); err == nil {
		return preferred
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	for _, ext := range []string{".xlsx", ".xls"} {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if strings.HasPrefix(name, TempFilePrefix) {
				continue
			}
			if strings.EqualFold(filepath.Ext(name), ext) {
				return filepath.Join(dir, name)
			}
		}
	}

	return ""
}

// ListDocuments enumerates the Word documents in a folder by extension,
// split into modern (.docx) and legacy (.doc) files. Temp-marker files are
// excluded.
func ListDocuments(dir string) (docx, legacy []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read template folder %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, TempFilePrefix) {
			continue
		}

		switch strings.ToLower(filepath.Ext(name)) {
		case ".docx":
			docx = append(docx, name)
		case ".doc":
			legacy = append(legacy, name)
		}
	}

	return docx, legacy, nil
}
