package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"docufill-cli/internal/config"
)

func main() {
	fmt.Println("Testing DocuFill CLI Configuration System")
	fmt.Println("=========================================")

	// Create a test config file
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, ".config", "docufill")
	os.MkdirAll(configDir, 0755)

	configPath := filepath.Join(configDir, "test-config.toml")
	testConfig := `
templates_location = "~/custom/templates"
output_location = "~/custom/output"
converter_path = "/usr/bin/soffice"
convert_timeout_seconds = 45
target = "stdout"
interactive_default = false
`

	err := os.WriteFile(configPath, []byte(testConfig), 0644)
	if err != nil {
		log.Fatalf("Failed to create test config: %v", err)
	}
	defer os.Remove(configPath)

	// Test 1: Load config from file
	fmt.Println("\n1. Testing config file loading:")
	manager := config.NewManager()
	cfg, err := manager.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("   Templates Location: %s\n", cfg.TemplatesLocation)
	fmt.Printf("   Converter Path: %s\n", cfg.ConverterPath)
	fmt.Printf("   Convert Timeout: %d seconds\n", cfg.ConvertTimeoutSeconds)
	fmt.Printf("   Target: %s\n", cfg.Target)

	// Test 2: Environment variable precedence
	fmt.Println("\n2. Testing environment variable precedence:")
	os.Setenv("DOCUFILL_CONVERTER_PATH", "/opt/libreoffice/soffice")
	os.Setenv("DOCUFILL_TARGET", "clipboard")
	defer func() {
		os.Unsetenv("DOCUFILL_CONVERTER_PATH")
		os.Unsetenv("DOCUFILL_TARGET")
	}()

	manager2 := config.NewManager()
	cfg2, err := manager2.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("   Converter Path (env override): %s\n", cfg2.ConverterPath)
	fmt.Printf("   Target (env override): %s\n", cfg2.Target)
	fmt.Printf("   Convert Timeout (from config): %d seconds\n", cfg2.ConvertTimeoutSeconds)

	// Test 3: Flag precedence
	fmt.Println("\n3. Testing flag precedence:")
	manager3 := config.NewManager()
	manager3.Load(configPath)
	manager3.SetFlag("converter_path", "libreoffice")
	manager3.SetFlag("convert_timeout_seconds", 60)

	cfg3, err := manager3.Resolve()
	if err != nil {
		log.Fatalf("Failed to resolve config: %v", err)
	}

	fmt.Printf("   Converter Path (flag override): %s\n", cfg3.ConverterPath)
	fmt.Printf("   Convert Timeout (flag override): %d seconds\n", cfg3.ConvertTimeoutSeconds)
	fmt.Printf("   Target (from env): %s\n", cfg3.Target)

	// Test 4: Validation
	fmt.Println("\n4. Testing validation:")
	err = manager3.Validate(cfg3)
	if err != nil {
		fmt.Printf("   Validation failed: %v\n", err)
	} else {
		fmt.Printf("   ✓ Configuration is valid\n")
	}

	// Test 5: Invalid config
	fmt.Println("\n5. Testing invalid configuration:")
	invalidCfg := *cfg3
	invalidCfg.ConvertTimeoutSeconds = -1
	invalidCfg.Target = "printer"

	err = manager3.Validate(&invalidCfg)
	if err != nil {
		fmt.Printf("   ✓ Validation correctly caught errors: %v\n", err)
	} else {
		fmt.Printf("   ✗ Validation should have failed\n")
	}

	fmt.Println("\n✓ Configuration system test completed successfully!")
}
