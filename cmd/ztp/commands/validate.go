package commands

import (
	"github.com/spf13/cobra"

	"github.com/provnet/ztp/cmd/ztp/handlers"
)

// Validate returns the command for checking a configuration document
// without touching any device.
//
// Flags:
//
//	--config, -c: Path to run configuration YAML file (default "ztp.yaml")
//	--json: Emit findings as JSON instead of styled text
func Validate() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Fetch and validate the configuration document",
		Long: `Fetch the configuration document and validate it.

The document is checked structurally (well-formed JSON, required fields,
correct types) and semantically (address formats, subnet membership,
overlaps, duplicate definitions, shadowed firewall rules). No device is
contacted.

The command exits non-zero if the document has validation errors.
Warnings are reported but do not affect the exit status.

Examples:
  # Validate using ztp.yaml in the current directory
  ztp validate

  # Validate with a specific run configuration
  ztp validate -c production.yaml

  # Machine-readable output
  ztp validate --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "ztp.yaml", "Path to run configuration file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit findings as JSON")

	return cmd
}
