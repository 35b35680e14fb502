// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"

	"github.com/provnet/ztp/internal/config"
	"github.com/provnet/ztp/internal/device"
	"github.com/provnet/ztp/internal/fetch"
	"github.com/provnet/ztp/internal/plan"
	"github.com/provnet/ztp/internal/schema"
	"github.com/provnet/ztp/internal/validate"
)

// documentFetcher matches fetch.Client for testing.
type documentFetcher interface {
	FetchDocument(ctx context.Context) (*schema.Document, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadRunConfig loads the run configuration from file.
	loadRunConfig = config.LoadFile

	// newFetchClient creates a client for the configuration API.
	newFetchClient = func(endpoint, token string) documentFetcher {
		return fetch.NewClient(endpoint, token)
	}

	// loadDocumentFile loads a configuration document from a local file.
	loadDocumentFile = fetch.LoadFile
)

// fetchDocument obtains the configuration document from the configured
// source. Structural parse failures surface here; a non-nil document is
// always structurally sound.
func fetchDocument(ctx context.Context, cfg *config.Config) (*schema.Document, error) {
	if cfg.Source.File != "" {
		return loadDocumentFile(cfg.Source.File)
	}
	return newFetchClient(cfg.Source.URL, cfg.Source.Token).FetchDocument(ctx)
}

// validatedDocument runs the fetch and validation steps shared by the
// validate, plan, and apply handlers. Warnings are returned alongside the
// document; validation errors reject it.
func validatedDocument(ctx context.Context, cfg *config.Config) (*schema.Document, []validate.Violation, []validate.Violation, error) {
	doc, err := fetchDocument(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to obtain configuration document: %w", err)
	}

	errs, warns := validate.Validate(doc)
	return doc, errs, warns, nil
}

// toTargets converts configured targets to deployment targets.
func toTargets(cfgs []config.TargetConfig) []device.Target {
	targets := make([]device.Target, len(cfgs))
	for i, t := range cfgs {
		targets[i] = device.Target{
			Identifier:  t.Name,
			Address:     t.Address,
			Kind:        device.Kind(t.Kind),
			User:        t.User,
			Credentials: t.KeyFile,
		}
	}
	return targets
}

// retryPolicy builds the plan retry policy from the deploy tuning section.
func retryPolicy(d config.DeployConfig) plan.RetryPolicy {
	return plan.RetryPolicy{
		MaxAttempts:    d.MaxAttempts,
		InitialDelay:   d.RetryDelayDuration(),
		MaxDelay:       d.MaxDelayDuration(),
		AttemptTimeout: d.AttemptTimeoutDuration(),
	}
}
