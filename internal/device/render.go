package device

import (
	"fmt"
	"sort"
	"strings"
)

// Commands renders the configuration statements a device of the given kind
// receives. Routers take the DHCP scope, DNS servers, and firewall rules;
// switches take the VLAN set; generic devices take everything. Output is
// deterministic for a given payload.
func Commands(kind Kind, payload Payload) []string {
	var cmds []string

	if kind == KindRouter || kind == KindGeneric {
		cmds = append(cmds, dhcpCommands(payload.DHCP)...)
		if len(payload.DNSServers) > 0 {
			cmds = append(cmds, "set dns servers "+strings.Join(payload.DNSServers, " "))
		}
	}

	if kind == KindSwitch || kind == KindGeneric {
		for _, v := range payload.VLANs {
			cmds = append(cmds, fmt.Sprintf("set vlan %d name %s subnet %s", v.ID, v.Name, v.Subnet))
		}
	}

	if kind == KindRouter || kind == KindGeneric {
		for _, r := range payload.FirewallRules {
			cmds = append(cmds, ruleCommand(r))
		}
	}

	return cmds
}

func dhcpCommands(dhcp DHCPPayload) []string {
	cmds := []string{fmt.Sprintf("set dhcp subnet %s gateway %s", dhcp.Subnet, dhcp.Gateway)}

	macs := make([]string, 0, len(dhcp.Reservations))
	for mac := range dhcp.Reservations {
		macs = append(macs, mac)
	}
	sort.Strings(macs)
	for _, mac := range macs {
		cmds = append(cmds, fmt.Sprintf("set dhcp reservation %s %s", mac, dhcp.Reservations[mac]))
	}

	return cmds
}

func ruleCommand(r RulePayload) string {
	cmd := fmt.Sprintf("add firewall rule %s %s from %s to %s", r.Action, r.Protocol, r.Source, r.Destination)
	if r.PortMin != 0 {
		if r.PortMin == r.PortMax {
			cmd += fmt.Sprintf(" port %d", r.PortMin)
		} else {
			cmd += fmt.Sprintf(" ports %d-%d", r.PortMin, r.PortMax)
		}
	}
	return cmd
}

// Script wraps the rendered commands in a single transactional apply:
// the whole batch either commits or is rolled back by the device.
func Script(kind Kind, payload Payload) string {
	cmds := Commands(kind, payload)
	lines := make([]string, 0, len(cmds)+2)
	lines = append(lines, "configure")
	lines = append(lines, cmds...)
	lines = append(lines, "commit")
	return strings.Join(lines, "\n")
}
