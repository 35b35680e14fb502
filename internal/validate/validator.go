package validate

import (
	"fmt"
	"net"
	"strings"

	"github.com/provnet/ztp/internal/netutil"
	"github.com/provnet/ztp/internal/schema"
)

// VLAN IDs 0 and 4095 are reserved by 802.1Q.
const (
	minVLANID = 1
	maxVLANID = 4094
)

const (
	minPort = 1
	maxPort = 65535
)

// Validate runs every semantic check against the document and returns the
// complete list of findings, split into deployment-blocking errors and
// informational warnings. It is deterministic and side-effect-free.
//
// Format checks duplicate the schema constructors' parse-time enforcement
// on purpose: they make the validator total and independently testable
// against documents however they were built.
func Validate(doc *schema.Document) (errors, warnings []Violation) {
	if doc == nil {
		return []Violation{errorf("document", RuleInvalidCIDR, "document is nil")}, nil
	}

	var findings []Violation
	findings = append(findings, checkDHCP(doc.DHCP())...)
	findings = append(findings, checkDNS(doc.DNSServers())...)
	findings = append(findings, checkVLANs(doc.VLANs())...)
	findings = append(findings, checkOverlap(doc.DHCP(), doc.VLANs())...)
	findings = append(findings, checkFirewall(doc.FirewallRules())...)

	for _, f := range findings {
		if f.IsError() {
			errors = append(errors, f)
		} else {
			warnings = append(warnings, f)
		}
	}
	return errors, warnings
}

// checkDHCP validates the DHCP block: address formats, gateway and
// reservation membership in the subnet, and reservation conflicts.
func checkDHCP(dhcp schema.DHCPBlock) []Violation {
	var findings []Violation

	subnet, err := netutil.ParseCIDR(dhcp.Subnet())
	if err != nil {
		findings = append(findings, errorf("dhcp.subnet", RuleInvalidCIDR, "%v", err))
	}

	gateway, err := netutil.ParseIP(dhcp.Gateway())
	if err != nil {
		findings = append(findings, errorf("dhcp.gateway", RuleInvalidIP, "%v", err))
	}

	if subnet != nil && gateway != nil && !netutil.ContainsHost(subnet, gateway) {
		findings = append(findings, errorf("dhcp.gateway", RuleGatewayOutsideSubnet,
			"gateway %s is not a usable host address in subnet %s", dhcp.Gateway(), dhcp.Subnet()))
	}

	seenIPs := make(map[string]string) // ip -> first MAC that reserved it
	for _, r := range dhcp.Reservations() {
		path := fmt.Sprintf("dhcp.reservations[%s]", r.MAC())

		if _, err := net.ParseMAC(r.MAC()); err != nil {
			findings = append(findings, errorf(path, RuleInvalidMAC, "invalid MAC address %q", r.MAC()))
		}

		ip, err := netutil.ParseIP(r.IP())
		if err != nil {
			findings = append(findings, errorf(path, RuleInvalidIP, "%v", err))
			continue
		}

		if subnet != nil && !netutil.ContainsHost(subnet, ip) {
			findings = append(findings, errorf(path, RuleReservationOutsideSubnet,
				"reserved IP %s is not a usable host address in subnet %s", r.IP(), dhcp.Subnet()))
		}

		if dhcp.Gateway() != "" && r.IP() == dhcp.Gateway() {
			findings = append(findings, errorf(path, RuleGatewayReserved,
				"gateway %s must not appear as a reservation", dhcp.Gateway()))
		}

		if first, dup := seenIPs[r.IP()]; dup {
			findings = append(findings, errorf(path, RuleDuplicateReservation,
				"IP %s is already reserved for %s", r.IP(), first))
		} else {
			seenIPs[r.IP()] = r.MAC()
		}
	}

	return findings
}

// checkDNS validates the DNS server list: non-empty, parseable, unique.
func checkDNS(servers []string) []Violation {
	var findings []Violation

	if len(servers) == 0 {
		findings = append(findings, errorf("dns_servers", RuleDNSEmpty, "at least one DNS server is required"))
		return findings
	}

	seen := make(map[string]bool)
	for i, s := range servers {
		path := fmt.Sprintf("dns_servers[%d]", i)
		if _, err := netutil.ParseIP(s); err != nil {
			findings = append(findings, errorf(path, RuleInvalidIP, "%v", err))
			continue
		}
		if seen[s] {
			findings = append(findings, errorf(path, RuleDuplicateDNS, "duplicate DNS server %s", s))
		}
		seen[s] = true
	}

	return findings
}

// checkVLANs validates each VLAN's ID range and subnet format, plus
// document-wide ID and name uniqueness.
func checkVLANs(vlans []schema.VLAN) []Violation {
	var findings []Violation

	seenIDs := make(map[int]int)      // id -> first index
	seenNames := make(map[string]int) // lowercase name -> first index
	for i, v := range vlans {
		if v.ID() < minVLANID || v.ID() > maxVLANID {
			findings = append(findings, errorf(fmt.Sprintf("vlans[%d].id", i), RuleVLANIDRange,
				"VLAN ID %d is out of range %d-%d", v.ID(), minVLANID, maxVLANID))
		}

		if _, err := netutil.ParseCIDR(v.Subnet()); err != nil {
			findings = append(findings, errorf(fmt.Sprintf("vlans[%d].subnet", i), RuleInvalidCIDR, "%v", err))
		}

		if first, dup := seenIDs[v.ID()]; dup {
			findings = append(findings, errorf(fmt.Sprintf("vlans[%d].id", i), RuleDuplicateVLANID,
				"VLAN ID %d is already used by vlans[%d]", v.ID(), first))
		} else {
			seenIDs[v.ID()] = i
		}

		name := strings.ToLower(v.Name())
		if first, dup := seenNames[name]; dup {
			findings = append(findings, errorf(fmt.Sprintf("vlans[%d].name", i), RuleDuplicateVLANName,
				"VLAN name %q is already used by vlans[%d] (names are case-insensitive)", v.Name(), first))
		} else {
			seenNames[name] = i
		}
	}

	return findings
}

// checkOverlap runs the pairwise overlap test between the DHCP subnet and
// every VLAN subnet, and between every pair of VLAN subnets. Overlapping
// ranges are ambiguous routing and always an error. Subnets that failed to
// parse are skipped here; the format check already reported them.
func checkOverlap(dhcp schema.DHCPBlock, vlans []schema.VLAN) []Violation {
	var findings []Violation

	dhcpNet, _ := netutil.ParseCIDR(dhcp.Subnet())

	nets := make([]*net.IPNet, len(vlans))
	for i, v := range vlans {
		nets[i], _ = netutil.ParseCIDR(v.Subnet())
	}

	for i, v := range vlans {
		if nets[i] == nil {
			continue
		}
		if dhcpNet != nil && netutil.Overlaps(dhcpNet, nets[i]) {
			findings = append(findings, errorf(fmt.Sprintf("vlans[%d].subnet", i), RuleSubnetOverlap,
				"VLAN %d subnet %s overlaps the DHCP subnet %s", v.ID(), v.Subnet(), dhcp.Subnet()))
		}
		for j := i + 1; j < len(vlans); j++ {
			if nets[j] == nil {
				continue
			}
			if netutil.Overlaps(nets[i], nets[j]) {
				findings = append(findings, errorf(fmt.Sprintf("vlans[%d].subnet", j), RuleSubnetOverlap,
					"VLAN %d subnet %s overlaps VLAN %d subnet %s", vlans[j].ID(), vlans[j].Subnet(), v.ID(), v.Subnet()))
			}
		}
	}

	return findings
}

// checkFirewall validates port bounds and flags shadowed rules. A rule is
// shadowed when an earlier rule with a different action covers its entire
// source/destination/protocol/port scope, making it unreachable. Shadowing
// is a warning: operators may keep such rules for documentation.
func checkFirewall(rules []schema.FirewallRule) []Violation {
	var findings []Violation

	for i, r := range rules {
		if p := r.Ports(); p != nil {
			path := fmt.Sprintf("firewall_rules[%d].port_range", i)
			if p.Min() < minPort || p.Max() > maxPort {
				findings = append(findings, errorf(path, RulePortRange,
					"port range %s is out of bounds %d-%d", p, minPort, maxPort))
			} else if p.Min() > p.Max() {
				findings = append(findings, errorf(path, RulePortRange,
					"port range min %d is greater than max %d", p.Min(), p.Max()))
			}
		}

		for j := 0; j < i; j++ {
			earlier := rules[j]
			if earlier.Action() == r.Action() {
				continue
			}
			if ruleCovers(earlier, r) {
				findings = append(findings, warningf(fmt.Sprintf("firewall_rules[%d]", i), RuleShadowedRule,
					"rule %q is shadowed by earlier rule firewall_rules[%d] %q and will never match", r, j, earlier))
				break
			}
		}
	}

	return findings
}

// ruleCovers reports whether every packet matched by inner would already
// have been matched by outer.
func ruleCovers(outer, inner schema.FirewallRule) bool {
	return scopeCovers(outer.Source(), inner.Source()) &&
		scopeCovers(outer.Destination(), inner.Destination()) &&
		protocolCovers(outer.Protocol(), inner.Protocol()) &&
		portsCover(outer.Ports(), inner.Ports())
}

// scopeCovers reports whether address scope outer contains inner.
// "any" contains everything and is contained only by "any".
func scopeCovers(outer, inner string) bool {
	if outer == schema.ScopeAny {
		return true
	}
	if inner == schema.ScopeAny {
		return false
	}
	outerNet, err := netutil.ParseCIDR(outer)
	if err != nil {
		return false
	}
	innerNet, err := netutil.ParseCIDR(inner)
	if err != nil {
		return false
	}
	return netutil.Covers(outerNet, innerNet)
}

func protocolCovers(outer, inner schema.Protocol) bool {
	return outer == schema.ProtocolAny || outer == inner
}

// portsCover treats a nil range as all ports.
func portsCover(outer, inner *schema.PortRange) bool {
	if outer == nil {
		return true
	}
	if inner == nil {
		return outer.Min() <= minPort && outer.Max() >= maxPort
	}
	return outer.Min() <= inner.Min() && inner.Max() <= outer.Max()
}
