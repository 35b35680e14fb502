package deploy

import (
	"time"

	"github.com/provnet/ztp/internal/validate"
)

// Report is the immutable aggregate of one provisioning run: validation
// findings plus every target's terminal outcome. It is shaped for direct
// JSON serialization by the output layer.
type Report struct {
	Success     bool                 `json:"success"`
	Succeeded   int                  `json:"succeeded"`
	Failed      int                  `json:"failed"`
	Skipped     int                  `json:"skipped"`
	Results     []Result             `json:"results"`
	Errors      []validate.Violation `json:"errors,omitempty"`
	Warnings    []validate.Violation `json:"warnings,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Summarize aggregates validation findings and deployment results into a
// run report. The run is successful iff there were zero validation errors
// and zero failed targets. When validation errors exist, results is empty:
// nothing was deployed.
func Summarize(errors, warnings []validate.Violation, results []Result) *Report {
	report := &Report{
		Results:     results,
		Errors:      errors,
		Warnings:    warnings,
		GeneratedAt: time.Now(),
	}

	for _, r := range results {
		switch r.State {
		case StateSucceeded:
			report.Succeeded++
		case StateFailed:
			report.Failed++
		case StateSkipped:
			report.Skipped++
		}
	}

	report.Success = len(errors) == 0 && report.Failed == 0
	return report
}
