// Package device defines the device-client capability the deployment
// engine consumes: a single Apply operation that pushes a configuration
// payload to one network device.
//
// The engine assumes nothing about the transport. The SSH implementation
// in this package is the default; the interface exists so tests and other
// transports (NETCONF, vendor APIs) can stand in. A device either ends
// fully configured or unchanged — per-device atomicity is this layer's
// guarantee, not the executor's.
package device

import "context"

// Kind selects which payload sections a device consumes.
type Kind string

// Device kinds. A router takes DHCP, DNS, and firewall configuration;
// a switch takes VLANs; a generic device takes everything.
const (
	KindRouter  Kind = "router"
	KindSwitch  Kind = "switch"
	KindGeneric Kind = "generic"
)

// Target identifies one device a configuration is deployed to.
// Credentials is an opaque handle resolved by the device client; the
// deployment engine never interprets it.
type Target struct {
	Identifier  string `json:"identifier"`
	Address     string `json:"address"`
	Kind        Kind   `json:"kind"`
	User        string `json:"user,omitempty"`
	Credentials string `json:"credentials,omitempty"`
}

// Payload is the device-facing rendering of a validated configuration
// document. Field order mirrors the document's canonical order.
type Payload struct {
	DHCP          DHCPPayload   `json:"dhcp"`
	VLANs         []VLANPayload `json:"vlans"`
	DNSServers    []string      `json:"dns_servers"`
	FirewallRules []RulePayload `json:"firewall_rules"`
}

// DHCPPayload carries the DHCP scope for a device.
type DHCPPayload struct {
	Subnet       string            `json:"subnet"`
	Gateway      string            `json:"gateway"`
	Reservations map[string]string `json:"reservations"`
}

// VLANPayload carries one VLAN definition for a device.
type VLANPayload struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Subnet string `json:"subnet"`
}

// RulePayload carries one firewall rule for a device. Rules apply in
// list order with first-match semantics.
type RulePayload struct {
	Action      string `json:"action"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Protocol    string `json:"protocol"`
	PortMin     int    `json:"port_min,omitempty"`
	PortMax     int    `json:"port_max,omitempty"`
}

// Client applies a configuration payload to a device. Implementations own
// transport concerns (connection, authentication, atomic apply) and must
// respect ctx cancellation and deadlines.
type Client interface {
	Apply(ctx context.Context, target Target, payload Payload) error
}
