package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() Payload {
	return Payload{
		DHCP: DHCPPayload{
			Subnet:  "192.168.1.0/24",
			Gateway: "192.168.1.1",
			Reservations: map[string]string{
				"00:11:22:33:44:66": "192.168.1.101",
				"00:11:22:33:44:55": "192.168.1.100",
			},
		},
		VLANs: []VLANPayload{
			{ID: 10, Name: "Data", Subnet: "192.168.10.0/24"},
			{ID: 20, Name: "Voice", Subnet: "192.168.20.0/24"},
		},
		DNSServers: []string{"8.8.8.8", "8.8.4.4"},
		FirewallRules: []RulePayload{
			{Action: "allow", Source: "192.168.1.0/24", Destination: "any", Protocol: "tcp", PortMin: 80, PortMax: 443},
			{Action: "deny", Source: "any", Destination: "any", Protocol: "any"},
		},
	}
}

func TestCommands_Router(t *testing.T) {
	t.Parallel()
	cmds := Commands(KindRouter, testPayload())

	assert.Equal(t, []string{
		"set dhcp subnet 192.168.1.0/24 gateway 192.168.1.1",
		"set dhcp reservation 00:11:22:33:44:55 192.168.1.100",
		"set dhcp reservation 00:11:22:33:44:66 192.168.1.101",
		"set dns servers 8.8.8.8 8.8.4.4",
		"add firewall rule allow tcp from 192.168.1.0/24 to any ports 80-443",
		"add firewall rule deny any from any to any",
	}, cmds)
}

func TestCommands_Switch(t *testing.T) {
	t.Parallel()
	cmds := Commands(KindSwitch, testPayload())

	assert.Equal(t, []string{
		"set vlan 10 name Data subnet 192.168.10.0/24",
		"set vlan 20 name Voice subnet 192.168.20.0/24",
	}, cmds)
}

func TestCommands_GenericGetsEverything(t *testing.T) {
	t.Parallel()
	cmds := Commands(KindGeneric, testPayload())
	assert.Len(t, cmds, 8)
}

func TestCommands_Deterministic(t *testing.T) {
	t.Parallel()
	// Reservation rendering sorts MAC addresses, so repeated runs over the
	// same payload produce identical output despite map iteration order.
	payload := testPayload()
	first := Commands(KindGeneric, payload)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Commands(KindGeneric, payload))
	}
}

func TestCommands_SinglePortRule(t *testing.T) {
	t.Parallel()
	cmd := ruleCommand(RulePayload{Action: "allow", Source: "any", Destination: "any", Protocol: "tcp", PortMin: 22, PortMax: 22})
	assert.Equal(t, "add firewall rule allow tcp from any to any port 22", cmd)
}

func TestScript_WrapsInTransaction(t *testing.T) {
	t.Parallel()
	script := Script(KindSwitch, testPayload())
	assert.Contains(t, script, "configure\n")
	assert.Contains(t, script, "\ncommit")
}

func TestNewSSHClient(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()
		client, err := NewSSHClient(nil)
		require.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("defaults applied", func(t *testing.T) {
		t.Parallel()
		client, err := NewSSHClient(&SSHConfig{})
		require.NoError(t, err)
		assert.Equal(t, defaultSSHUser, client.config.User)
		assert.Equal(t, defaultSSHPort, client.config.Port)
		assert.Equal(t, defaultDialTimeout, client.config.DialTimeout)
		assert.NotNil(t, client.config.HostKeyCallback)
		assert.NotNil(t, client.config.ReadKey)
	})

	t.Run("does not mutate caller config", func(t *testing.T) {
		t.Parallel()
		cfg := &SSHConfig{}
		_, err := NewSSHClient(cfg)
		require.NoError(t, err)
		assert.Empty(t, cfg.User)
		assert.Zero(t, cfg.Port)
	})
}

func TestSSHClient_Apply_CredentialErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing credentials handle", func(t *testing.T) {
		t.Parallel()
		client, err := NewSSHClient(&SSHConfig{})
		require.NoError(t, err)

		err = client.Apply(t.Context(), Target{Identifier: "r1", Address: "192.0.2.1"}, testPayload())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no credentials handle")
	})

	t.Run("unreadable key", func(t *testing.T) {
		t.Parallel()
		client, err := NewSSHClient(&SSHConfig{
			ReadKey: func(string) ([]byte, error) {
				return nil, assert.AnError
			},
		})
		require.NoError(t, err)

		err = client.Apply(t.Context(), Target{Identifier: "r1", Address: "192.0.2.1", Credentials: "key"}, testPayload())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read private key")
	})

	t.Run("garbage key material", func(t *testing.T) {
		t.Parallel()
		client, err := NewSSHClient(&SSHConfig{
			ReadKey: func(string) ([]byte, error) {
				return []byte("not a pem key"), nil
			},
		})
		require.NoError(t, err)

		err = client.Apply(t.Context(), Target{Identifier: "r1", Address: "192.0.2.1", Credentials: "key"}, testPayload())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse private key")
	})
}
