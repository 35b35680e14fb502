package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/provnet/ztp/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// isTerminal reports whether stdin is an interactive terminal.
	isTerminal = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// runWizard runs the interactive configuration wizard.
	runWizard = config.RunWizard

	// writeConfig writes the run configuration to a file.
	writeConfig = config.WriteYAML
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if !isTerminal() {
		return fmt.Errorf("init requires an interactive terminal; write %s by hand in non-interactive environments", outputPath)
	}

	if fileExists(outputPath) {
		fmt.Fprintf(output, "Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := result.ToConfig()

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Fprintln(output)
	fmt.Fprintln(output, "ztp - zero-touch network provisioning")
	fmt.Fprintln(output, "=====================================")
	fmt.Fprintln(output)
	fmt.Fprintln(output, "This wizard creates a run configuration with sensible defaults.")
	fmt.Fprintln(output, "Add more devices later by editing the targets list.")
	fmt.Fprintln(output)
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(output)
	fmt.Fprintln(output, "Configuration saved!")
	fmt.Fprintln(output)
	fmt.Fprintf(output, "  File: %s\n", outputPath)
	fmt.Fprintln(output)

	fmt.Fprintln(output, "Run Summary")
	fmt.Fprintln(output, "-----------")
	if cfg.Source.URL != "" {
		fmt.Fprintf(output, "  Source:   %s\n", cfg.Source.URL)
	} else {
		fmt.Fprintf(output, "  Source:   %s (local file)\n", cfg.Source.File)
	}
	for _, t := range cfg.Targets {
		fmt.Fprintf(output, "  Device:   %s (%s, %s)\n", t.Name, t.Address, t.Kind)
	}
	fmt.Fprintf(output, "  FailFast: %t\n", cfg.Deploy.FailFast)
	fmt.Fprintln(output)

	fmt.Fprintln(output, "Next steps:")
	fmt.Fprintf(output, "  ztp validate -c %s\n", outputPath)
	fmt.Fprintf(output, "  ztp plan     -c %s\n", outputPath)
	fmt.Fprintf(output, "  ztp apply    -c %s\n", outputPath)
}
