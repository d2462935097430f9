package fill

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// SofficeConverter converts legacy .doc files to .docx with a headless
// LibreOffice invocation. The binary may be missing entirely; every failure
// mode comes back as an ordinary error the engine falls back from.
type SofficeConverter struct {
	binary string
}

// NewSofficeConverter creates a converter using the given LibreOffice
// binary, defaulting to "libreoffice" on the PATH
func NewSofficeConverter(binary string) *SofficeConverter {
	if binary == "" {
		binary = "libreoffice"
	}
	return &SofficeConverter{binary: binary}
}

// Convert converts docPath into outDir and returns the converted file path.
// The caller bounds the subprocess through ctx.
func (c *SofficeConverter) Convert(ctx context.Context, docPath, outDir string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary,
		"--headless",
		"--convert-to", "docx",
		"--outdir", outDir,
		docPath,
	)

	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("conversion timed out")
	}
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg != "" {
			return "", fmt.Errorf("converter failed: %v: %s", err, msg)
		}
		return "", fmt.Errorf("converter failed: %v", err)
	}

	// LibreOffice writes <stem>.docx into the output directory.
	stem := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	converted := filepath.Join(outDir, stem+".docx")
	if _, err := os.Stat(converted); err != nil {
		return "", fmt.Errorf("converter produced no output for %s", filepath.Base(docPath))
	}
	return converted, nil
}
