// Package schema holds the in-memory model of a network configuration
// document: DHCP block, VLANs, DNS servers, and firewall rules.
//
// Constructors reject structurally malformed input (unparseable addresses,
// unknown enum values). Semantic consistency — subnet overlap, uniqueness,
// membership — is the validate package's job. Documents are immutable once
// constructed: all fields are unexported and accessors return copies.
package schema

import (
	"fmt"
	"net"
	"sort"
	"strings"
)

// Action is a firewall rule verdict.
type Action string

// Firewall rule actions.
const (
	ActionAllow Action = "allow"
	ActionDeny  Action = "deny"
)

// Protocol is a firewall rule transport protocol.
type Protocol string

// Firewall rule protocols. ProtocolAny matches every protocol.
const (
	ProtocolTCP  Protocol = "tcp"
	ProtocolUDP  Protocol = "udp"
	ProtocolICMP Protocol = "icmp"
	ProtocolAny  Protocol = "any"
)

// ScopeAny is the wildcard source/destination matching every address.
const ScopeAny = "any"

// ParseAction parses a firewall action string.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionAllow, ActionDeny:
		return Action(s), nil
	}
	return "", fmt.Errorf("invalid firewall action %q: must be allow or deny", s)
}

// ParseProtocol parses a firewall protocol string.
func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(s) {
	case ProtocolTCP, ProtocolUDP, ProtocolICMP, ProtocolAny:
		return Protocol(s), nil
	}
	return "", fmt.Errorf("invalid firewall protocol %q: must be tcp, udp, icmp, or any", s)
}

// Reservation maps one hardware address to a fixed IP assignment.
type Reservation struct {
	mac string
	ip  string
}

// MAC returns the normalized hardware address.
func (r Reservation) MAC() string { return r.mac }

// IP returns the reserved IP address.
func (r Reservation) IP() string { return r.ip }

// DHCPBlock describes the DHCP scope for the managed network.
type DHCPBlock struct {
	subnet       string
	gateway      string
	reservations []Reservation
}

// NewDHCPBlock builds a DHCP block. The subnet must be a parseable IPv4
// CIDR, the gateway a parseable IP, and every reservation a valid
// MAC-to-IP pair. Reservations are normalized and sorted by MAC so that
// iteration order is deterministic.
func NewDHCPBlock(subnet, gateway string, reservations map[string]string) (DHCPBlock, error) {
	if _, _, err := net.ParseCIDR(subnet); err != nil {
		return DHCPBlock{}, fmt.Errorf("dhcp subnet: invalid CIDR %q: %w", subnet, err)
	}
	if net.ParseIP(gateway) == nil {
		return DHCPBlock{}, fmt.Errorf("dhcp gateway: invalid IP address %q", gateway)
	}

	parsed := make([]Reservation, 0, len(reservations))
	for mac, ip := range reservations {
		hw, err := net.ParseMAC(mac)
		if err != nil {
			return DHCPBlock{}, fmt.Errorf("dhcp reservation: invalid MAC address %q: %w", mac, err)
		}
		if net.ParseIP(ip) == nil {
			return DHCPBlock{}, fmt.Errorf("dhcp reservation %s: invalid IP address %q", mac, ip)
		}
		parsed = append(parsed, Reservation{mac: hw.String(), ip: ip})
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].mac < parsed[j].mac })

	for i := 1; i < len(parsed); i++ {
		if parsed[i].mac == parsed[i-1].mac {
			return DHCPBlock{}, fmt.Errorf("dhcp reservation: duplicate MAC address %q", parsed[i].mac)
		}
	}

	return DHCPBlock{subnet: subnet, gateway: gateway, reservations: parsed}, nil
}

// Subnet returns the DHCP scope in CIDR notation.
func (d DHCPBlock) Subnet() string { return d.subnet }

// Gateway returns the gateway IP address.
func (d DHCPBlock) Gateway() string { return d.gateway }

// Reservations returns the MAC reservations sorted by hardware address.
func (d DHCPBlock) Reservations() []Reservation {
	out := make([]Reservation, len(d.reservations))
	copy(out, d.reservations)
	return out
}

// VLAN describes one virtual LAN.
type VLAN struct {
	id     int
	name   string
	subnet string
}

// NewVLAN builds a VLAN entry. The subnet must be a parseable CIDR and the
// name non-empty. ID range and cross-VLAN consistency are semantic checks
// left to the validator.
func NewVLAN(id int, name, subnet string) (VLAN, error) {
	if strings.TrimSpace(name) == "" {
		return VLAN{}, fmt.Errorf("vlan %d: name must not be empty", id)
	}
	if _, _, err := net.ParseCIDR(subnet); err != nil {
		return VLAN{}, fmt.Errorf("vlan %d: invalid subnet %q: %w", id, subnet, err)
	}
	return VLAN{id: id, name: name, subnet: subnet}, nil
}

// ID returns the VLAN identifier.
func (v VLAN) ID() int { return v.id }

// Name returns the VLAN name.
func (v VLAN) Name() string { return v.name }

// Subnet returns the VLAN subnet in CIDR notation.
func (v VLAN) Subnet() string { return v.subnet }

// PortRange is an inclusive TCP/UDP port interval.
type PortRange struct {
	min int
	max int
}

// NewPortRange builds a port range. Bounds and ordering are semantic
// checks left to the validator.
func NewPortRange(min, max int) PortRange {
	return PortRange{min: min, max: max}
}

// Min returns the low end of the range.
func (p PortRange) Min() int { return p.min }

// Max returns the high end of the range.
func (p PortRange) Max() int { return p.max }

func (p PortRange) String() string {
	if p.min == p.max {
		return fmt.Sprintf("%d", p.min)
	}
	return fmt.Sprintf("%d-%d", p.min, p.max)
}

// FirewallRule is one entry of the ordered rule list. Rules are evaluated
// in declaration order with first-match semantics.
type FirewallRule struct {
	action      Action
	source      string
	destination string
	protocol    Protocol
	ports       *PortRange
}

// NewFirewallRule builds a firewall rule. Source and destination must each
// be a parseable CIDR or the wildcard "any". A nil ports range matches all
// ports.
func NewFirewallRule(action Action, source, destination string, protocol Protocol, ports *PortRange) (FirewallRule, error) {
	if _, err := ParseAction(string(action)); err != nil {
		return FirewallRule{}, err
	}
	if _, err := ParseProtocol(string(protocol)); err != nil {
		return FirewallRule{}, err
	}
	for _, scope := range []string{source, destination} {
		if scope == ScopeAny {
			continue
		}
		if _, _, err := net.ParseCIDR(scope); err != nil {
			return FirewallRule{}, fmt.Errorf("firewall rule: invalid scope %q: must be a CIDR or %q", scope, ScopeAny)
		}
	}
	var p *PortRange
	if ports != nil {
		copied := *ports
		p = &copied
	}
	return FirewallRule{action: action, source: source, destination: destination, protocol: protocol, ports: p}, nil
}

// Action returns the rule verdict.
func (r FirewallRule) Action() Action { return r.action }

// Source returns the source scope (CIDR or "any").
func (r FirewallRule) Source() string { return r.source }

// Destination returns the destination scope (CIDR or "any").
func (r FirewallRule) Destination() string { return r.destination }

// Protocol returns the rule protocol.
func (r FirewallRule) Protocol() Protocol { return r.protocol }

// Ports returns the port range, or nil if the rule matches all ports.
func (r FirewallRule) Ports() *PortRange {
	if r.ports == nil {
		return nil
	}
	copied := *r.ports
	return &copied
}

func (r FirewallRule) String() string {
	s := fmt.Sprintf("%s %s %s -> %s", r.action, r.protocol, r.source, r.destination)
	if r.ports != nil {
		s += ":" + r.ports.String()
	}
	return s
}

// Document is the root of one provisioning run's configuration.
type Document struct {
	dhcp     DHCPBlock
	vlans    []VLAN
	dns      []string
	firewall []FirewallRule
}

// NewDocument assembles a document from its parts. Each DNS server must be
// a parseable IP address. VLAN and firewall slices keep declaration order.
func NewDocument(dhcp DHCPBlock, vlans []VLAN, dnsServers []string, rules []FirewallRule) (*Document, error) {
	for _, dns := range dnsServers {
		if net.ParseIP(dns) == nil {
			return nil, fmt.Errorf("dns server: invalid IP address %q", dns)
		}
	}
	doc := &Document{
		dhcp:     dhcp,
		vlans:    make([]VLAN, len(vlans)),
		dns:      make([]string, len(dnsServers)),
		firewall: make([]FirewallRule, len(rules)),
	}
	copy(doc.vlans, vlans)
	copy(doc.dns, dnsServers)
	copy(doc.firewall, rules)
	return doc, nil
}

// DHCP returns the DHCP block.
func (d *Document) DHCP() DHCPBlock { return d.dhcp }

// VLANs returns the VLANs in declaration order.
func (d *Document) VLANs() []VLAN {
	out := make([]VLAN, len(d.vlans))
	copy(out, d.vlans)
	return out
}

// DNSServers returns the DNS server list in declaration order.
func (d *Document) DNSServers() []string {
	out := make([]string, len(d.dns))
	copy(out, d.dns)
	return out
}

// FirewallRules returns the firewall rules in declaration order.
func (d *Document) FirewallRules() []FirewallRule {
	out := make([]FirewallRule, len(d.firewall))
	copy(out, d.firewall)
	return out
}
