package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"docufill-cli/internal/app"
	"docufill-cli/pkg/models"
)

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
	goVersion = runtime.Version()
)

var rootCmd = &cobra.Command{
	Use:   "docufill [template]",
	Short: "Fill Word document templates from a spreadsheet-declared schema",
	Long: `DocuFill fills Word document templates with user-supplied values. Each
template is a folder holding a config.xlsx that declares the fields (label,
key, multiple, note columns) and one or more .docx documents carrying the
placeholders. Filled copies land in a fresh timestamped folder under the
output location.

Values can be supplied with repeated --set key=value flags or a --values JSON
file; in interactive mode any remaining fields are prompted for. Legacy .doc
files are converted through LibreOffice when available and copied unfilled
otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			versionCmd.Run(cmd, args)
			return nil
		}

		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}

		return app.Run(request)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version information including build version, commit, date, and platform details.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docufill version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		fmt.Printf("  go version: %s\n", goVersion)
		fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Long:  "List every template folder under the configured templates location with its document count.",
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return app.ListTemplates(request)
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields <template>",
	Short: "Show the fields a template declares",
	Long:  "Read a template's config spreadsheet and print its field descriptors in row order. The template must pass validation first.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return app.ShowFields(request)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <template>",
	Short: "Validate a template's configuration and documents",
	Long:  "Check a template folder for a usable config spreadsheet and fillable documents, printing every error and warning found.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return app.ValidateTemplate(request)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(validateCmd)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (default ~/.config/docufill/config.toml)")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "noninteractive mode - use defaults without prompts")
	rootCmd.PersistentFlags().BoolP("interactive", "i", false, "force interactive mode (overrides config default)")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "emit machine-readable JSON instead of text")
	rootCmd.PersistentFlags().StringP("target", "t", "", "output target (stdout, clipboard, file:/path)")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "print version information")

	// Fill flags
	rootCmd.Flags().StringArrayP("set", "s", []string{}, "field value as key=value (repeat for multi-value fields)")
	rootCmd.Flags().String("values", "", "JSON file holding a field-key to value object")
	rootCmd.Flags().BoolP("numbers", "n", false, "enable number key selection in interactive prompts")
}

// buildRequestFromFlags constructs a RunRequest from command flags and arguments
func buildRequestFromFlags(cmd *cobra.Command, args []string) (*models.RunRequest, error) {
	request := models.NewRunRequest()

	if len(args) > 0 {
		request.TemplateName = strings.TrimSpace(args[0])
	}

	var err error

	if request.ConfigPath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}

	if request.ForceNonInteractive, err = cmd.Flags().GetBool("yes"); err != nil {
		return nil, fmt.Errorf("invalid yes flag: %w", err)
	}

	if request.ForceInteractive, err = cmd.Flags().GetBool("interactive"); err != nil {
		return nil, fmt.Errorf("invalid interactive flag: %w", err)
	}

	if request.ForceInteractive && request.ForceNonInteractive {
		return nil, fmt.Errorf("cannot use both --interactive and --yes flags")
	}

	if request.JSON, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, fmt.Errorf("invalid json flag: %w", err)
	}

	if request.Target, err = cmd.Flags().GetString("target"); err != nil {
		return nil, fmt.Errorf("invalid target flag: %w", err)
	}

	// The fill-only flags exist only on the root command.
	if cmd.Flags().Lookup("set") != nil {
		if request.SetValues, err = cmd.Flags().GetStringArray("set"); err != nil {
			return nil, fmt.Errorf("invalid set flag: %w", err)
		}
	}

	if cmd.Flags().Lookup("values") != nil {
		if request.ValuesFile, err = cmd.Flags().GetString("values"); err != nil {
			return nil, fmt.Errorf("invalid values flag: %w", err)
		}
	}

	if cmd.Flags().Lookup("numbers") != nil {
		if request.NumberSelect, err = cmd.Flags().GetBool("numbers"); err != nil {
			return nil, fmt.Errorf("invalid numbers flag: %w", err)
		}
	}

	return request, nil
}

func main() {
	// Disable usage on error to show only our custom error messages
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
