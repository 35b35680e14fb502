package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/provnet/ztp/internal/deploy"
	"github.com/provnet/ztp/internal/device"
	"github.com/provnet/ztp/internal/plan"
)

// ApplyOptions collects the apply command's flags.
type ApplyOptions struct {
	ConfigPath    string
	FailFast      bool
	JSONReport    bool
	JSONLogs      bool
	MetricsListen string
}

// Factory function variables for apply - can be replaced in tests.
var (
	// newDeviceClient creates the device client deployments go through.
	newDeviceClient = func() (device.Client, error) {
		return device.NewSSHClient(&device.SSHConfig{})
	}

	// newObserver creates the progress observer for a run.
	newObserver = func(jsonLogs bool) deploy.Observer {
		if jsonLogs {
			return deploy.NewLogrObserver(funcr.NewJSON(
				func(obj string) { fmt.Fprintln(os.Stderr, obj) },
				funcr.Options{LogTimestamp: true},
			))
		}
		return deploy.NewConsoleObserver()
	}
)

// Apply runs a full provisioning pass.
//
// This function orchestrates the complete deployment workflow:
//  1. Loads and validates the run configuration
//  2. Fetches the configuration document from its source
//  3. Validates the document; errors abort before any device is touched
//  4. Renders the deployment plan (one payload per configured device)
//  5. Executes the plan concurrently with per-device retries
//  6. Emits the run report and maps its outcome to the exit status
//
// The run report is emitted even when devices fail: partial failure is an
// expected outcome, and the report is how operators see which devices need
// attention.
func Apply(ctx context.Context, opts *ApplyOptions) error {
	cfg, err := loadRunConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	doc, errs, warns, err := validatedDocument(ctx, cfg)
	if err != nil {
		return err
	}

	if len(errs) > 0 {
		// Nothing was deployed; the report carries only validation findings.
		if err := emitReport(deploy.Summarize(errs, warns, nil), opts.JSONReport); err != nil {
			return err
		}
		return fmt.Errorf("aborted: document has %d validation error(s)", len(errs))
	}

	p := plan.Build(doc, toTargets(cfg.Targets), retryPolicy(cfg.Deploy))

	metrics, stopMetrics, err := startMetrics(opts.MetricsListen)
	if err != nil {
		return err
	}
	defer stopMetrics()

	client, err := newDeviceClient()
	if err != nil {
		return fmt.Errorf("failed to create device client: %w", err)
	}

	executor := deploy.NewExecutor(client, newObserver(opts.JSONLogs), metrics, deploy.Options{
		Concurrency: cfg.Deploy.Concurrency,
		FailFast:    opts.FailFast || cfg.Deploy.FailFast,
	})
	results := executor.Run(ctx, p)

	report := deploy.Summarize(nil, warns, results)
	if err := emitReport(report, opts.JSONReport); err != nil {
		return err
	}

	if !report.Success {
		return fmt.Errorf("run failed: %d of %d device(s) not configured",
			report.Failed+report.Skipped, len(report.Results))
	}
	return nil
}

// emitReport writes the run report in the requested format.
func emitReport(report *deploy.Report, jsonOutput bool) error {
	if !jsonOutput {
		fmt.Fprint(output, renderReport(report))
		return nil
	}

	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// startMetrics optionally serves Prometheus metrics for the duration of
// the run. Returns a nil *deploy.Metrics (valid, records nothing) when no
// listen address is configured.
func startMetrics(listen string) (*deploy.Metrics, func(), error) {
	if listen == "" {
		return nil, func() {}, nil
	}

	reg := prometheus.NewRegistry()
	metrics := deploy.NewMetrics(reg)

	srv := &http.Server{
		Addr:              listen,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
		}
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return metrics, stop, nil
}
