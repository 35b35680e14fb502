package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/provnet/ztp/internal/deploy"
	"github.com/provnet/ztp/internal/plan"
	"github.com/provnet/ztp/internal/validate"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	greenStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	redStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	yellowStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// renderFindings produces a styled summary of validation findings.
func renderFindings(errs, warns []validate.Violation) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  ztp validate"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	if len(errs) == 0 && len(warns) == 0 {
		b.WriteString("\n")
		b.WriteString(greenStyle.Render("  ✓ Document is valid"))
		b.WriteString("\n")
		return b.String()
	}

	if len(errs) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(fmt.Sprintf("  Errors (%d)", len(errs))))
		b.WriteString("\n")
		renderViolations(&b, errs, redStyle)
	}

	if len(warns) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(fmt.Sprintf("  Warnings (%d)", len(warns))))
		b.WriteString("\n")
		renderViolations(&b, warns, yellowStyle)
	}

	return b.String()
}

func renderViolations(b *strings.Builder, violations []validate.Violation, style lipgloss.Style) {
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 50)))
	b.WriteString("\n")
	for _, v := range violations {
		b.WriteString(style.Render(fmt.Sprintf("  %-34s %s", v.FieldPath, v.Rule)))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("      %s\n", v.Message))
	}
}

// renderPlan produces a styled preview of a deployment plan.
func renderPlan(p *plan.Plan) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  ztp plan"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render(fmt.Sprintf("  Targets (%d)", len(p.Targets))))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 50)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-20s %-18s %s", "Device", "Address", "Kind")))
	b.WriteString("\n")
	for _, tp := range p.Targets {
		b.WriteString(fmt.Sprintf("  %-20s %-18s %s\n", tp.Target.Identifier, tp.Target.Address, tp.Target.Kind))
	}

	if len(p.Targets) > 0 {
		payload := p.Targets[0].Payload
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Payload"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 50)))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("    DHCP subnet:    %s (gateway %s, %d reservations)\n",
			payload.DHCP.Subnet, payload.DHCP.Gateway, len(payload.DHCP.Reservations)))
		b.WriteString(fmt.Sprintf("    VLANs:          %d\n", len(payload.VLANs)))
		b.WriteString(fmt.Sprintf("    DNS servers:    %s\n", strings.Join(payload.DNSServers, ", ")))
		b.WriteString(fmt.Sprintf("    Firewall rules: %d\n", len(payload.FirewallRules)))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Retry policy"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 50)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    Attempts per device: %d\n", p.Retry.MaxAttempts))
	b.WriteString(fmt.Sprintf("    Backoff:             %s initial, %s cap\n", p.Retry.InitialDelay, p.Retry.MaxDelay))
	b.WriteString(fmt.Sprintf("    Attempt timeout:     %s\n", p.Retry.AttemptTimeout))

	return b.String()
}

// renderReport produces a styled run report.
func renderReport(report *deploy.Report) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  ztp run report"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	if len(report.Results) > 0 {
		b.WriteString(sectionStyle.Render("  Devices"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 60)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %-20s %-12s %8s  %s", "Device", "State", "Attempts", "Detail")))
		b.WriteString("\n")
		for _, r := range report.Results {
			detail := ""
			if r.LastError != "" {
				detail = r.LastError
			}
			line := fmt.Sprintf("  %-20s %-12s %8d  %s", r.Target.Identifier, r.State, r.Attempts, detail)
			b.WriteString(stateStyle(r.State).Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Summary"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 35)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    Succeeded: %d\n", report.Succeeded))
	b.WriteString(fmt.Sprintf("    Failed:    %d\n", report.Failed))
	b.WriteString(fmt.Sprintf("    Skipped:   %d\n", report.Skipped))
	b.WriteString(fmt.Sprintf("    Warnings:  %d\n", len(report.Warnings)))

	b.WriteString("\n")
	if report.Success {
		b.WriteString(greenStyle.Render("  ✓ Run succeeded"))
	} else {
		b.WriteString(redStyle.Render("  ✗ Run failed"))
	}
	b.WriteString("\n")

	return b.String()
}

func stateStyle(state deploy.State) lipgloss.Style {
	switch state {
	case deploy.StateSucceeded:
		return greenStyle
	case deploy.StateFailed:
		return redStyle
	case deploy.StateSkipped:
		return yellowStyle
	default:
		return dimStyle
	}
}
