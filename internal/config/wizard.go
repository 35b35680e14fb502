package config

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"
)

// WizardResult holds the user's choices from the init wizard.
type WizardResult struct {
	SourceKind string // "url" or "file"
	SourceURL  string
	SourceFile string
	Token      string

	TargetName    string
	TargetAddress string
	TargetKind    string
	TargetUser    string
	TargetKeyFile string

	FailFast bool
}

// RunWizard runs the interactive configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		// Defaults
		SourceKind: "url",
		TargetKind: DefaultKind,
		TargetUser: DefaultUser,
	}

	form := huh.NewForm(
		// Configuration source
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Configuration source").
				Description("Where the network configuration document lives").
				Options(
					huh.NewOption("Configuration API (HTTP)", "url"),
					huh.NewOption("Local JSON file", "file"),
				).
				Value(&result.SourceKind),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("API endpoint").
				Placeholder("https://config.example.com/network.json").
				Value(&result.SourceURL).
				Validate(validateURL),
			huh.NewInput().
				Title("API token (optional)").
				Description("Sent as a bearer credential. Leave empty for unauthenticated sources.").
				EchoMode(huh.EchoModePassword).
				Value(&result.Token),
		).WithHideFunc(func() bool { return result.SourceKind != "url" }),

		huh.NewGroup(
			huh.NewInput().
				Title("Configuration file").
				Placeholder("config.json").
				Value(&result.SourceFile).
				Validate(requireValue("configuration file path")),
		).WithHideFunc(func() bool { return result.SourceKind != "file" }),

		// First deployment target
		huh.NewGroup(
			huh.NewInput().
				Title("Device name").
				Description("A label for the first deployment target").
				Placeholder("edge-router-1").
				Value(&result.TargetName).
				Validate(validateTargetName),
			huh.NewInput().
				Title("Device address").
				Placeholder("10.0.0.1").
				Value(&result.TargetAddress).
				Validate(validateAddress),
			huh.NewSelect[string]().
				Title("Device kind").
				Description("Selects which configuration sections the device receives").
				Options(
					huh.NewOption("Router (DHCP, DNS, firewall)", "router"),
					huh.NewOption("Switch (VLANs)", "switch"),
					huh.NewOption("Generic (everything)", "generic"),
				).
				Value(&result.TargetKind),
			huh.NewInput().
				Title("SSH user").
				Placeholder(DefaultUser).
				Value(&result.TargetUser),
			huh.NewInput().
				Title("SSH private key file").
				Placeholder("~/.ssh/id_ed25519").
				Value(&result.TargetKeyFile).
				Validate(requireValue("key file path")),
		),

		// Failure behavior
		huh.NewGroup(
			huh.NewConfirm().
				Title("Stop on first failure?").
				Description("Default is best-effort: keep deploying to remaining devices when one fails.").
				Value(&result.FailFast),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToConfig converts the wizard result to a Config.
// Populates deploy tuning so the output YAML is explicit and self-documenting.
func (r *WizardResult) ToConfig() *Config {
	cfg := &Config{
		Targets: []TargetConfig{
			{
				Name:    r.TargetName,
				Address: r.TargetAddress,
				Kind:    r.TargetKind,
				User:    r.TargetUser,
				KeyFile: r.TargetKeyFile,
			},
		},
		Deploy: DeployConfig{
			MaxAttempts:    DefaultMaxAttempts,
			RetryDelay:     DefaultRetryDelay.String(),
			MaxDelay:       DefaultMaxDelay.String(),
			AttemptTimeout: DefaultAttemptTimeout.String(),
			Concurrency:    DefaultConcurrency,
			FailFast:       r.FailFast,
		},
	}

	if r.SourceKind == "file" {
		cfg.Source.File = r.SourceFile
	} else {
		cfg.Source.URL = r.SourceURL
		cfg.Source.Token = r.Token
	}

	return cfg
}

// validateTargetName validates the device name.
func validateTargetName(s string) error {
	if s == "" {
		return fmt.Errorf("device name is required")
	}
	if strings.ContainsAny(s, " \t") {
		return fmt.Errorf("device name must not contain whitespace")
	}
	return nil
}

// validateAddress accepts an IP address or hostname.
func validateAddress(s string) error {
	if s == "" {
		return fmt.Errorf("device address is required")
	}
	if net.ParseIP(s) != nil {
		return nil
	}
	if strings.ContainsAny(s, " /") {
		return fmt.Errorf("invalid device address")
	}
	return nil
}

// validateURL does a basic sanity check on the endpoint.
func validateURL(s string) error {
	if s == "" {
		return fmt.Errorf("endpoint is required")
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("endpoint must start with http:// or https://")
	}
	return nil
}

// requireValue returns a validator that rejects empty input.
func requireValue(what string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

// WriteYAML writes the run configuration to a YAML file.
func WriteYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
