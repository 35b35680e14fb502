// Package plan turns a validated configuration document and a target list
// into an ordered deployment plan: one payload per target, a fixed
// execution order, and the retry policy the executor applies.
//
// The planner does not re-validate. Callers must check the document with
// the validate package first; planning an invalid document produces a plan
// that would push a broken configuration to live devices.
package plan

import (
	"time"

	"github.com/provnet/ztp/internal/device"
	"github.com/provnet/ztp/internal/schema"
)

// RetryPolicy configures per-target deployment attempts. Values come from
// run configuration, never from hardcoded policy.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget per target, first try included.
	MaxAttempts int
	// InitialDelay is the backoff before the second attempt; it doubles up
	// to MaxDelay on each subsequent attempt.
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// AttemptTimeout bounds a single device apply call. Zero means no
	// per-attempt timeout beyond the caller's context.
	AttemptTimeout time.Duration
}

// TargetPlan pairs one target with the payload planned for it.
type TargetPlan struct {
	Target  device.Target
	Payload device.Payload
}

// Plan is an ordered deployment plan. Execution order equals the input
// target order; the planner never reorders or prioritizes.
type Plan struct {
	Targets []TargetPlan
	Retry   RetryPolicy
}

// Build renders the deployment plan for a validated document. Every target
// is planned the same logical configuration — device addressing is the only
// per-target variable. The payload preserves the document's canonical
// order, so planning is deterministic.
func Build(doc *schema.Document, targets []device.Target, policy RetryPolicy) *Plan {
	payload := renderPayload(doc)

	plans := make([]TargetPlan, len(targets))
	for i, target := range targets {
		plans[i] = TargetPlan{Target: target, Payload: payload}
	}

	return &Plan{Targets: plans, Retry: policy}
}

func renderPayload(doc *schema.Document) device.Payload {
	dhcp := doc.DHCP()
	reservations := make(map[string]string)
	for _, r := range dhcp.Reservations() {
		reservations[r.MAC()] = r.IP()
	}

	vlans := doc.VLANs()
	vlanPayloads := make([]device.VLANPayload, len(vlans))
	for i, v := range vlans {
		vlanPayloads[i] = device.VLANPayload{ID: v.ID(), Name: v.Name(), Subnet: v.Subnet()}
	}

	rules := doc.FirewallRules()
	rulePayloads := make([]device.RulePayload, len(rules))
	for i, r := range rules {
		rulePayloads[i] = device.RulePayload{
			Action:      string(r.Action()),
			Source:      r.Source(),
			Destination: r.Destination(),
			Protocol:    string(r.Protocol()),
		}
		if p := r.Ports(); p != nil {
			rulePayloads[i].PortMin = p.Min()
			rulePayloads[i].PortMax = p.Max()
		}
	}

	return device.Payload{
		DHCP: device.DHCPPayload{
			Subnet:       dhcp.Subnet(),
			Gateway:      dhcp.Gateway(),
			Reservations: reservations,
		},
		VLANs:         vlanPayloads,
		DNSServers:    doc.DNSServers(),
		FirewallRules: rulePayloads,
	}
}
