package commands

import (
	"github.com/spf13/cobra"

	"github.com/provnet/ztp/cmd/ztp/handlers"
)

// Plan returns the command for previewing a deployment without executing it.
//
// Flags:
//
//	--config, -c: Path to run configuration YAML file (default "ztp.yaml")
//	--json: Emit the plan as JSON instead of styled text
func Plan() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what apply would deploy, without deploying",
		Long: `Fetch and validate the configuration document, then show the
deployment plan: which devices would be configured, what each device
kind receives, and the retry policy that would apply.

Validation errors abort planning; a document that cannot be deployed
has no plan.

Examples:
  # Preview the deployment
  ztp plan

  # Machine-readable plan
  ztp plan --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "ztp.yaml", "Path to run configuration file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the plan as JSON")

	return cmd
}
