package commands

import (
	"github.com/spf13/cobra"

	"github.com/provnet/ztp/cmd/ztp/handlers"
)

// Init returns the command for interactively creating a run configuration.
//
// This command guides users through creating a ztp.yaml file using an
// interactive wizard with text inputs, single-select prompts, and confirms.
//
// Flags:
//
//	--output, -o: Path to output file (default "ztp.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a run configuration",
		Long: `Interactively create a run configuration file.

This command walks you through setting up ztp step by step. It will
ask about:

  - Where the network configuration document lives (API or local file)
  - The first device to deploy to (name, address, kind, SSH access)
  - Whether to stop on the first failed device

The generated YAML includes explicit retry and concurrency defaults
so it can be tuned by hand afterwards. Add further devices by editing
the targets list.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "ztp.yaml", "Output file path")

	return cmd
}
