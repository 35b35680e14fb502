package commands

import (
	"github.com/spf13/cobra"

	"github.com/provnet/ztp/cmd/ztp/handlers"
)

// Apply returns the command for running a full provisioning pass: fetch,
// validate, plan, and deploy to every configured device.
//
// Flags:
//
//	--config, -c: Path to run configuration YAML file (default "ztp.yaml")
//	--fail-fast: Stop launching new deployments after the first failure
//	--json: Emit the run report as JSON instead of styled text
//	--log-json: Emit structured JSON progress logs
//	--metrics-listen: Serve Prometheus metrics on the given address for
//	  the duration of the run (e.g. ":9090")
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Deploy the configuration to all devices",
		Long: `Run a full provisioning pass.

The configuration document is fetched and validated; validation errors
abort the run before any device is touched. The validated document is
rendered into per-device payloads and deployed concurrently, with
retries and exponential backoff per device.

By default the run is best-effort: a failed device does not stop
deployment to the others. Use --fail-fast (or fail_fast in the run
configuration) to stop launching new deployments after the first
failure; deployments already in flight are finished either way.

The command exits non-zero unless every device succeeded and the
document had no validation errors.

Examples:
  # Deploy using ztp.yaml in the current directory
  ztp apply

  # Stop at the first failed device
  ztp apply --fail-fast

  # Machine-readable run report
  ztp apply --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "ztp.yaml", "Path to run configuration file")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "Stop launching new deployments after the first failure")
	cmd.Flags().BoolVar(&opts.JSONReport, "json", false, "Emit the run report as JSON")
	cmd.Flags().BoolVar(&opts.JSONLogs, "log-json", false, "Emit structured JSON progress logs")
	cmd.Flags().StringVar(&opts.MetricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address during the run")

	return cmd
}
