package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/provnet/ztp/internal/plan"
)

// Plan fetches and validates the configuration document, then prints the
// deployment plan without contacting any device. Validation errors abort
// planning.
func Plan(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadRunConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	doc, errs, warns, err := validatedDocument(ctx, cfg)
	if err != nil {
		return err
	}

	if len(errs) > 0 {
		fmt.Fprint(output, renderFindings(errs, warns))
		return fmt.Errorf("cannot plan: document has %d validation error(s)", len(errs))
	}

	p := plan.Build(doc, toTargets(cfg.Targets), retryPolicy(cfg.Deploy))

	if jsonOutput {
		return writePlanJSON(p)
	}

	if len(warns) > 0 {
		fmt.Fprint(output, renderFindings(errs, warns))
	}
	fmt.Fprint(output, renderPlan(p))
	return nil
}

// planJSON is the machine-readable shape of a deployment plan.
type planJSON struct {
	Targets []planTargetJSON `json:"targets"`
	Retry   planRetryJSON    `json:"retry"`
}

type planTargetJSON struct {
	Identifier string      `json:"identifier"`
	Address    string      `json:"address"`
	Kind       string      `json:"kind"`
	Payload    interface{} `json:"payload"`
}

type planRetryJSON struct {
	MaxAttempts    int    `json:"max_attempts"`
	InitialDelay   string `json:"initial_delay"`
	MaxDelay       string `json:"max_delay"`
	AttemptTimeout string `json:"attempt_timeout"`
}

func writePlanJSON(p *plan.Plan) error {
	view := planJSON{
		Targets: make([]planTargetJSON, len(p.Targets)),
		Retry: planRetryJSON{
			MaxAttempts:    p.Retry.MaxAttempts,
			InitialDelay:   p.Retry.InitialDelay.String(),
			MaxDelay:       p.Retry.MaxDelay.String(),
			AttemptTimeout: p.Retry.AttemptTimeout.String(),
		},
	}
	for i, tp := range p.Targets {
		view.Targets[i] = planTargetJSON{
			Identifier: tp.Target.Identifier,
			Address:    tp.Target.Address,
			Kind:       string(tp.Target.Kind),
			Payload:    tp.Payload,
		}
	}

	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return nil
}
