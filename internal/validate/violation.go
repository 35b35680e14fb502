// Package validate performs semantic validation of a configuration
// document: range and format checks, uniqueness, subnet membership,
// subnet overlap, and firewall rule shadowing.
//
// Validation is a pure function over an immutable document. It never
// mutates its input, never stops at the first finding, and never panics
// for any structurally well-formed document.
package validate

import "fmt"

// Severity classifies a finding. Errors block deployment; warnings do not.
type Severity string

// Finding severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rules that a finding can reference.
const (
	RuleInvalidCIDR              = "invalid-cidr"
	RuleInvalidIP                = "invalid-ip"
	RuleInvalidMAC               = "invalid-mac"
	RuleVLANIDRange              = "vlan-id-out-of-range"
	RulePortRange                = "port-range-invalid"
	RuleDNSEmpty                 = "dns-servers-empty"
	RuleDuplicateDNS             = "duplicate-dns-server"
	RuleDuplicateVLANID          = "duplicate-vlan-id"
	RuleDuplicateVLANName        = "duplicate-vlan-name"
	RuleDuplicateReservation     = "duplicate-reservation-ip"
	RuleGatewayOutsideSubnet     = "gateway-outside-subnet"
	RuleGatewayReserved          = "gateway-reserved"
	RuleReservationOutsideSubnet = "reservation-outside-subnet"
	RuleSubnetOverlap            = "subnet-overlap"
	RuleShadowedRule             = "rule-shadowed"
)

// Violation is one structured validation finding.
type Violation struct {
	FieldPath string   `json:"field_path"`
	Rule      string   `json:"rule_violated"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
}

// Error implements the error interface.
func (v Violation) Error() string {
	return fmt.Sprintf("[%s] %s: %s", v.Severity, v.FieldPath, v.Message)
}

// IsError returns true if this finding blocks deployment.
func (v Violation) IsError() bool {
	return v.Severity == SeverityError
}

func errorf(fieldPath, rule, format string, args ...any) Violation {
	return Violation{
		FieldPath: fieldPath,
		Rule:      rule,
		Message:   fmt.Sprintf(format, args...),
		Severity:  SeverityError,
	}
}

func warningf(fieldPath, rule, format string, args ...any) Violation {
	return Violation{
		FieldPath: fieldPath,
		Rule:      rule,
		Message:   fmt.Sprintf(format, args...),
		Severity:  SeverityWarning,
	}
}
