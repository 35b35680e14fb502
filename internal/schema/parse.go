package schema

import (
	"encoding/json"
	"fmt"
)

// Wire shapes for the JSON configuration document. These exist only for
// decoding; all invariants live on the model constructors.
type documentJSON struct {
	DHCP          *dhcpJSON          `json:"dhcp"`
	VLANs         []vlanJSON         `json:"vlans"`
	DNSServers    []string           `json:"dns_servers"`
	FirewallRules []firewallRuleJSON `json:"firewall_rules"`
}

type dhcpJSON struct {
	Subnet       string            `json:"subnet"`
	Gateway      string            `json:"gateway"`
	Reservations map[string]string `json:"reservations"`
}

type vlanJSON struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Subnet string `json:"subnet"`
}

type firewallRuleJSON struct {
	Action      string         `json:"action"`
	Source      string         `json:"source"`
	Destination string         `json:"destination"`
	Protocol    string         `json:"protocol"`
	PortRange   *portRangeJSON `json:"port_range"`
}

type portRangeJSON struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ParseDocument decodes a JSON configuration document and builds the
// immutable model. It fails on any structural problem: malformed JSON,
// a missing DHCP block, unparseable addresses, or unknown enum values.
// No partial document is ever returned.
func ParseDocument(data []byte) (*Document, error) {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode configuration document: %w", err)
	}

	if raw.DHCP == nil {
		return nil, fmt.Errorf("configuration document: dhcp block is required")
	}

	dhcp, err := NewDHCPBlock(raw.DHCP.Subnet, raw.DHCP.Gateway, raw.DHCP.Reservations)
	if err != nil {
		return nil, err
	}

	vlans := make([]VLAN, 0, len(raw.VLANs))
	for i, v := range raw.VLANs {
		vlan, err := NewVLAN(v.ID, v.Name, v.Subnet)
		if err != nil {
			return nil, fmt.Errorf("vlans[%d]: %w", i, err)
		}
		vlans = append(vlans, vlan)
	}

	rules := make([]FirewallRule, 0, len(raw.FirewallRules))
	for i, r := range raw.FirewallRules {
		var ports *PortRange
		if r.PortRange != nil {
			p := NewPortRange(r.PortRange.Min, r.PortRange.Max)
			ports = &p
		}
		rule, err := NewFirewallRule(Action(r.Action), r.Source, r.Destination, Protocol(r.Protocol), ports)
		if err != nil {
			return nil, fmt.Errorf("firewall_rules[%d]: %w", i, err)
		}
		rules = append(rules, rule)
	}

	doc, err := NewDocument(dhcp, vlans, raw.DNSServers, rules)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
