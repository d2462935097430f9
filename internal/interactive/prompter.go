package interactive

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"

	"docufill-cli/pkg/models"
)

// Prompter handles interactive user input collection
type Prompter struct{}

// NewPrompter creates a new interactive prompter
func NewPrompter() *Prompter {
	return &Prompter{}
}

// SelectTemplate asks the user to pick a template from the catalog
func (p *Prompter) SelectTemplate(templates []models.TemplateInfo, numberSelect bool) (string, error) {
	if len(templates) == 0 {
		return "", fmt.Errorf("no templates found in the templates directory")
	}

	options := make([]string, len(templates))
	byOption := make(map[string]string, len(templates))
	for i, tmpl := range templates {
		label := fmt.Sprintf("%s (%d document(s))", tmpl.Name, tmpl.FileCount)
		if !tmpl.HasConfig {
			label += " [no config]"
		}
		options[i] = label
		byOption[label] = tmpl.Name
	}

	if numberSelect {
		selected, err := p.selectWithNumbers(options, "Select a template:", "Each template is a folder of documents plus a config spreadsheet")
		if err != nil {
			return "", err
		}
		return byOption[selected], nil
	}

	prompt := &survey.Select{
		Message: "Select a template:",
		Options: options,
		Help:    "Each template is a folder of documents plus a config spreadsheet",
	}

	var selected string
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return byOption[selected], nil
}

// CollectValues prompts for a value per field, in field order. Multi-value
// fields take one item per line; blank lines are dropped.
func (p *Prompter) CollectValues(fields []models.FieldDescriptor) (models.FieldValues, error) {
	values := make(models.FieldValues, len(fields))

	for _, field := range fields {
		if field.Multiple {
			items, err := p.collectMultiple(field)
			if err != nil {
				return nil, err
			}
			values[field.Key] = items
			continue
		}

		prompt := &survey.Input{
			Message: field.Label + ":",
			Help:    field.Note,
		}

		var value string
		if err := survey.AskOne(prompt, &value); err != nil {
			return nil, err
		}
		values[field.Key] = value
	}

	return values, nil
}

// ConfirmFill shows a summary and asks the user to confirm the fill
func (p *Prompter) ConfirmFill(templateName string, fileCount int, numberSelect bool) (bool, error) {
	return p.selectYesNo(
		fmt.Sprintf("Fill %d document(s) of template '%s'?", fileCount, templateName),
		"Filled copies are written to a new timestamped folder under the output location",
		true, // default to Yes
		numberSelect,
	)
}

func (p *Prompter) collectMultiple(field models.FieldDescriptor) ([]string, error) {
	help := "One value per line"
	if field.Note != "" {
		help = field.Note + " (one value per line)"
	}

	prompt := &survey.Multiline{
		Message: field.Label + " (multiple values):",
		Help:    help,
	}

	var raw string
	if err := survey.AskOne(prompt, &raw); err != nil {
		return nil, err
	}

	var items []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items, nil
}

// selectYesNo handles yes/no selection with optional number key support
func (p *Prompter) selectYesNo(message, help string, defaultValue, numberSelect bool) (bool, error) {
	if numberSelect {
		return p.selectYesNoWithNumbers(message, help, defaultValue)
	}

	prompt := &survey.Confirm{
		Message: message,
		Help:    help,
		Default: defaultValue,
	}

	var result bool
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}

	return result, nil
}

// selectYesNoWithNumbers displays numbered yes/no options and allows instant selection
func (p *Prompter) selectYesNoWithNumbers(message, help string, defaultValue bool) (bool, error) {
	fmt.Printf("\n%s\n", message)
	if help != "" {
		fmt.Printf("  %s (Press number key for instant selection)\n", help)
	}
	fmt.Println()

	if defaultValue {
		fmt.Println("  1. Yes (default)")
		fmt.Println("  2. No")
	} else {
		fmt.Println("  1. Yes")
		fmt.Println("  2. No (default)")
	}
	fmt.Println()

	if !term.IsTerminal(int(syscall.Stdin)) {
		return p.fallbackYesNoSelection(defaultValue)
	}

	oldState, err := term.MakeRaw(int(syscall.Stdin))
	if err != nil {
		return p.fallbackYesNoSelection(defaultValue)
	}
	defer term.Restore(int(syscall.Stdin), oldState)

	fmt.Print("Select option: ")

	buffer := make([]byte, 1)
	for {
		_, err := os.Stdin.Read(buffer)
		if err != nil {
			return false, err
		}

		char := buffer[0]

		if char == '1' {
			fmt.Printf("1\n")
			return true, nil
		}
		if char == '2' {
			fmt.Printf("2\n")
			return false, nil
		}

		// Enter takes the default.
		if char == '\r' || char == '\n' {
			fmt.Println()
			return defaultValue, nil
		}

		// Escape or Ctrl+C cancels.
		if char == 27 || char == 3 {
			fmt.Println()
			return false, fmt.Errorf("selection cancelled")
		}
	}
}

// fallbackYesNoSelection provides a fallback when raw terminal mode is not available
func (p *Prompter) fallbackYesNoSelection(defaultValue bool) (bool, error) {
	defaultText := "No"
	if defaultValue {
		defaultText = "Yes"
	}

	fmt.Printf("Enter 1 for Yes, 2 for No, or press Enter for default (%s): ", defaultText)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}

	switch strings.TrimSpace(input) {
	case "":
		return defaultValue, nil
	case "1":
		return true, nil
	case "2":
		return false, nil
	default:
		return false, fmt.Errorf("invalid input: please enter 1 for Yes or 2 for No")
	}
}

// selectWithNumbers displays numbered options and reads a single digit in
// raw mode, falling back to buffered input outside a terminal
func (p *Prompter) selectWithNumbers(options []string, message, help string) (string, error) {
	if len(options) > 9 {
		// Single-keystroke selection only works for one digit.
		return "", fmt.Errorf("number selection supports at most 9 options, got %d", len(options))
	}

	fmt.Printf("\n%s\n", message)
	if help != "" {
		fmt.Printf("  %s (Press number key for instant selection)\n", help)
	}
	fmt.Println()

	for i, option := range options {
		fmt.Printf("  %d. %s\n", i+1, option)
	}
	fmt.Println()

	if !term.IsTerminal(int(syscall.Stdin)) {
		return p.fallbackNumberSelection(options)
	}

	oldState, err := term.MakeRaw(int(syscall.Stdin))
	if err != nil {
		return p.fallbackNumberSelection(options)
	}
	defer term.Restore(int(syscall.Stdin), oldState)

	fmt.Print("Select option: ")

	buffer := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buffer); err != nil {
			return "", err
		}

		char := buffer[0]

		if char >= '1' && int(char-'0') <= len(options) {
			fmt.Printf("%c\n", char)
			return options[char-'1'], nil
		}

		if char == 27 || char == 3 {
			fmt.Println()
			return "", fmt.Errorf("selection cancelled")
		}
	}
}

func (p *Prompter) fallbackNumberSelection(options []string) (string, error) {
	fmt.Printf("Enter a number between 1 and %d: ", len(options))

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	input = strings.TrimSpace(input)
	for i := range options {
		if input == fmt.Sprintf("%d", i+1) {
			return options[i], nil
		}
	}
	return "", fmt.Errorf("invalid selection: %s", input)
}
