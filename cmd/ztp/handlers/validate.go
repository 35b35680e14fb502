package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/provnet/ztp/internal/validate"
)

// output is where handlers write user-facing text. Tests redirect it.
var output io.Writer = os.Stdout

// Validate fetches the configuration document and validates it without
// touching any device. Returns an error when the document is structurally
// broken or has validation errors, so the CLI exits non-zero.
func Validate(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadRunConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	_, errs, warns, err := validatedDocument(ctx, cfg)
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := writeFindingsJSON(errs, warns); err != nil {
			return err
		}
	} else {
		fmt.Fprint(output, renderFindings(errs, warns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("document has %d validation error(s)", len(errs))
	}
	return nil
}

// findingsJSON is the machine-readable shape of validation output.
type findingsJSON struct {
	Valid    bool                 `json:"valid"`
	Errors   []validate.Violation `json:"errors"`
	Warnings []validate.Violation `json:"warnings"`
}

func writeFindingsJSON(errs, warns []validate.Violation) error {
	// Empty slices serialize as [], not null.
	if errs == nil {
		errs = []validate.Violation{}
	}
	if warns == nil {
		warns = []validate.Violation{}
	}

	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(findingsJSON{Valid: len(errs) == 0, Errors: errs, Warnings: warns}); err != nil {
		return fmt.Errorf("failed to encode findings: %w", err)
	}
	return nil
}
