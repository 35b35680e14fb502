package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provnet/ztp/internal/schema"
)

// docBuilder assembles documents for validation tests without repeating
// the full constructor ceremony in every case.
type docBuilder struct {
	subnet       string
	gateway      string
	reservations map[string]string
	vlans        []schema.VLAN
	dns          []string
	rules        []schema.FirewallRule
}

func newDocBuilder() *docBuilder {
	return &docBuilder{
		subnet:  "192.168.1.0/24",
		gateway: "192.168.1.1",
		dns:     []string{"8.8.8.8", "8.8.4.4"},
	}
}

func (b *docBuilder) withReservation(mac, ip string) *docBuilder {
	if b.reservations == nil {
		b.reservations = make(map[string]string)
	}
	b.reservations[mac] = ip
	return b
}

func (b *docBuilder) withVLAN(t *testing.T, id int, name, subnet string) *docBuilder {
	t.Helper()
	vlan, err := schema.NewVLAN(id, name, subnet)
	require.NoError(t, err)
	b.vlans = append(b.vlans, vlan)
	return b
}

func (b *docBuilder) withRule(t *testing.T, action schema.Action, source, destination string, protocol schema.Protocol, ports *schema.PortRange) *docBuilder {
	t.Helper()
	rule, err := schema.NewFirewallRule(action, source, destination, protocol, ports)
	require.NoError(t, err)
	b.rules = append(b.rules, rule)
	return b
}

func (b *docBuilder) build(t *testing.T) *schema.Document {
	t.Helper()
	dhcp, err := schema.NewDHCPBlock(b.subnet, b.gateway, b.reservations)
	require.NoError(t, err)
	doc, err := schema.NewDocument(dhcp, b.vlans, b.dns, b.rules)
	require.NoError(t, err)
	return doc
}

func ports(min, max int) *schema.PortRange {
	p := schema.NewPortRange(min, max)
	return &p
}

func rulesOf(findings []Violation) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Rule
	}
	return out
}

func TestValidate_ValidDocument(t *testing.T) {
	t.Parallel()
	doc := newDocBuilder().
		withReservation("00:11:22:33:44:55", "192.168.1.100").
		withVLAN(t, 10, "Data", "192.168.10.0/24").
		withVLAN(t, 20, "Voice", "192.168.20.0/24").
		withRule(t, schema.ActionAllow, "192.168.1.0/24", "any", schema.ProtocolTCP, ports(80, 443)).
		build(t)

	errs, warns := Validate(doc)
	assert.Empty(t, errs)
	assert.Empty(t, warns)
}

func TestValidate_Idempotent(t *testing.T) {
	t.Parallel()
	doc := newDocBuilder().
		withVLAN(t, 10, "Data", "192.168.1.0/25"). // overlaps DHCP subnet
		withVLAN(t, 10, "data", "192.168.10.0/24"). // duplicate id and name
		build(t)

	errs1, warns1 := Validate(doc)
	errs2, warns2 := Validate(doc)
	assert.Equal(t, errs1, errs2)
	assert.Equal(t, warns1, warns2)
	assert.NotEmpty(t, errs1)
}

func TestValidate_VLANIDRange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		id      int
		wantErr bool
	}{
		{name: "lower bound", id: 1},
		{name: "upper bound", id: 4094},
		{name: "zero", id: 0, wantErr: true},
		{name: "above range", id: 4095, wantErr: true},
		{name: "negative", id: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := newDocBuilder().withVLAN(t, tt.id, "Data", "192.168.10.0/24").build(t)
			errs, _ := Validate(doc)
			if tt.wantErr {
				require.Len(t, errs, 1)
				assert.Equal(t, RuleVLANIDRange, errs[0].Rule)
				assert.Equal(t, "vlans[0].id", errs[0].FieldPath)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_DuplicateVLANs(t *testing.T) {
	t.Parallel()
	doc := newDocBuilder().
		withVLAN(t, 10, "Data", "192.168.10.0/24").
		withVLAN(t, 10, "DATA", "192.168.20.0/24").
		build(t)

	errs, _ := Validate(doc)
	assert.ElementsMatch(t, []string{RuleDuplicateVLANID, RuleDuplicateVLANName}, rulesOf(errs))
	for _, e := range errs {
		assert.Contains(t, e.FieldPath, "vlans[1]", "duplicate is reported on the later entry")
	}
}

func TestValidate_SubnetOverlap(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		vlanA   string
		vlanB   string
		overlap bool
	}{
		{name: "disjoint", vlanA: "192.168.10.0/24", vlanB: "192.168.20.0/24"},
		{name: "equal subnets", vlanA: "192.168.10.0/24", vlanB: "192.168.10.0/24", overlap: true},
		{name: "nested", vlanA: "10.0.0.0/16", vlanB: "10.0.5.0/24", overlap: true},
		{name: "partial", vlanA: "10.0.0.0/23", vlanB: "10.0.1.0/24", overlap: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := newDocBuilder().
				withVLAN(t, 10, "A", tt.vlanA).
				withVLAN(t, 20, "B", tt.vlanB).
				build(t)
			errs, _ := Validate(doc)
			if tt.overlap {
				require.NotEmpty(t, errs)
				assert.Contains(t, rulesOf(errs), RuleSubnetOverlap)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_VLANOverlapsDHCPSubnet(t *testing.T) {
	t.Parallel()
	doc := newDocBuilder().withVLAN(t, 10, "Data", "192.168.1.128/25").build(t)

	errs, _ := Validate(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, RuleSubnetOverlap, errs[0].Rule)
	assert.Contains(t, errs[0].Message, "DHCP subnet")
}

func TestValidate_ReservationMembership(t *testing.T) {
	t.Parallel()
	// Two reservations outside the subnet produce exactly one membership
	// error each; the in-subnet reservation produces none.
	doc := newDocBuilder().
		withReservation("00:11:22:33:44:55", "192.168.1.100").
		withReservation("00:11:22:33:44:56", "10.0.0.5").
		withReservation("00:11:22:33:44:57", "172.16.0.9").
		build(t)

	errs, _ := Validate(doc)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, RuleReservationOutsideSubnet, e.Rule)
	}
}

func TestValidate_ReservationEdgeAddresses(t *testing.T) {
	t.Parallel()
	// Network and broadcast addresses are inside the range but not usable.
	doc := newDocBuilder().
		withReservation("00:11:22:33:44:55", "192.168.1.0").
		withReservation("00:11:22:33:44:56", "192.168.1.255").
		build(t)

	errs, _ := Validate(doc)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, RuleReservationOutsideSubnet, e.Rule)
	}
}

func TestValidate_GatewayChecks(t *testing.T) {
	t.Parallel()
	t.Run("gateway outside subnet", func(t *testing.T) {
		t.Parallel()
		b := newDocBuilder()
		b.gateway = "10.0.0.1"
		errs, _ := Validate(b.build(t))
		require.Len(t, errs, 1)
		assert.Equal(t, RuleGatewayOutsideSubnet, errs[0].Rule)
	})

	t.Run("gateway double-booked as reservation", func(t *testing.T) {
		t.Parallel()
		doc := newDocBuilder().
			withReservation("00:11:22:33:44:55", "192.168.1.1").
			build(t)
		errs, _ := Validate(doc)
		require.Len(t, errs, 1)
		assert.Equal(t, RuleGatewayReserved, errs[0].Rule)
	})
}

func TestValidate_DuplicateReservationIP(t *testing.T) {
	t.Parallel()
	doc := newDocBuilder().
		withReservation("00:11:22:33:44:55", "192.168.1.100").
		withReservation("00:11:22:33:44:56", "192.168.1.100").
		build(t)

	errs, _ := Validate(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, RuleDuplicateReservation, errs[0].Rule)
	assert.Contains(t, errs[0].Message, "already reserved")
}

func TestValidate_DNSServers(t *testing.T) {
	t.Parallel()
	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		b := newDocBuilder()
		b.dns = nil
		errs, _ := Validate(b.build(t))
		require.Len(t, errs, 1)
		assert.Equal(t, RuleDNSEmpty, errs[0].Rule)
	})

	t.Run("duplicate entries", func(t *testing.T) {
		t.Parallel()
		b := newDocBuilder()
		b.dns = []string{"8.8.8.8", "8.8.8.8"}
		errs, _ := Validate(b.build(t))
		require.Len(t, errs, 1)
		assert.Equal(t, RuleDuplicateDNS, errs[0].Rule)
		assert.Equal(t, "dns_servers[1]", errs[0].FieldPath)
	})

	t.Run("ipv6 resolver is fine", func(t *testing.T) {
		t.Parallel()
		b := newDocBuilder()
		b.dns = []string{"2606:4700:4700::1111"}
		errs, _ := Validate(b.build(t))
		assert.Empty(t, errs)
	})
}

func TestValidate_PortBounds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		min     int
		max     int
		wantErr bool
	}{
		{name: "full range", min: 1, max: 65535},
		{name: "single port", min: 443, max: 443},
		{name: "zero min", min: 0, max: 80, wantErr: true},
		{name: "max too large", min: 80, max: 70000, wantErr: true},
		{name: "inverted", min: 443, max: 80, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := newDocBuilder().
				withRule(t, schema.ActionAllow, "any", "any", schema.ProtocolTCP, ports(tt.min, tt.max)).
				build(t)
			errs, _ := Validate(doc)
			if tt.wantErr {
				require.Len(t, errs, 1)
				assert.Equal(t, RulePortRange, errs[0].Rule)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_Shadowing(t *testing.T) {
	t.Parallel()

	t.Run("identical scope different action", func(t *testing.T) {
		t.Parallel()
		doc := newDocBuilder().
			withRule(t, schema.ActionAllow, "1.2.3.0/24", "any", schema.ProtocolTCP, ports(80, 80)).
			withRule(t, schema.ActionDeny, "1.2.3.0/24", "any", schema.ProtocolTCP, ports(80, 80)).
			build(t)

		errs, warns := Validate(doc)
		assert.Empty(t, errs, "shadowing never blocks deployment")
		require.Len(t, warns, 1)
		assert.Equal(t, RuleShadowedRule, warns[0].Rule)
		assert.Equal(t, "firewall_rules[1]", warns[0].FieldPath, "the later rule is the shadowed one")
	})

	t.Run("broader earlier rule shadows narrower later rule", func(t *testing.T) {
		t.Parallel()
		doc := newDocBuilder().
			withRule(t, schema.ActionDeny, "any", "any", schema.ProtocolAny, nil).
			withRule(t, schema.ActionAllow, "10.0.0.0/24", "any", schema.ProtocolTCP, ports(22, 22)).
			build(t)

		_, warns := Validate(doc)
		require.Len(t, warns, 1)
		assert.Equal(t, "firewall_rules[1]", warns[0].FieldPath)
	})

	t.Run("same action duplicate is not flagged", func(t *testing.T) {
		t.Parallel()
		doc := newDocBuilder().
			withRule(t, schema.ActionAllow, "1.2.3.0/24", "any", schema.ProtocolTCP, ports(80, 80)).
			withRule(t, schema.ActionAllow, "1.2.3.0/24", "any", schema.ProtocolTCP, ports(80, 80)).
			build(t)

		errs, warns := Validate(doc)
		assert.Empty(t, errs)
		assert.Empty(t, warns)
	})

	t.Run("narrower earlier rule does not shadow", func(t *testing.T) {
		t.Parallel()
		doc := newDocBuilder().
			withRule(t, schema.ActionDeny, "10.0.5.0/24", "any", schema.ProtocolTCP, nil).
			withRule(t, schema.ActionAllow, "10.0.0.0/16", "any", schema.ProtocolTCP, nil).
			build(t)

		_, warns := Validate(doc)
		assert.Empty(t, warns)
	})

	t.Run("wider port range on later rule escapes shadow", func(t *testing.T) {
		t.Parallel()
		doc := newDocBuilder().
			withRule(t, schema.ActionDeny, "any", "any", schema.ProtocolTCP, ports(80, 80)).
			withRule(t, schema.ActionAllow, "any", "any", schema.ProtocolTCP, ports(80, 443)).
			build(t)

		_, warns := Validate(doc)
		assert.Empty(t, warns)
	})
}

func TestValidate_ZeroValueDocumentIsTotal(t *testing.T) {
	t.Parallel()
	// Documents are normally built via constructors, but the validator must
	// not panic for any input, including the zero value and nil.
	errs, warns := Validate(&schema.Document{})
	assert.NotEmpty(t, errs)
	assert.Empty(t, warns)

	errs, _ = Validate(nil)
	assert.NotEmpty(t, errs)
}

func TestValidate_CollectsAllFindingsInOnePass(t *testing.T) {
	t.Parallel()
	b := newDocBuilder()
	b.gateway = "10.9.9.9" // outside subnet
	doc := b.
		withReservation("00:11:22:33:44:55", "172.16.0.1"). // outside subnet
		withVLAN(t, 0, "Bad", "192.168.10.0/24").           // id out of range
		withVLAN(t, 20, "bad", "192.168.10.0/24").          // duplicate name + overlap
		build(t)

	errs, _ := Validate(doc)
	rules := rulesOf(errs)
	assert.Contains(t, rules, RuleGatewayOutsideSubnet)
	assert.Contains(t, rules, RuleReservationOutsideSubnet)
	assert.Contains(t, rules, RuleVLANIDRange)
	assert.Contains(t, rules, RuleDuplicateVLANName)
	assert.Contains(t, rules, RuleSubnetOverlap)
}
