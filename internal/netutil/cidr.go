// Package netutil provides IPv4 subnet arithmetic for configuration
// validation: membership, range overlap, and coverage tests.
//
// Only IPv4 is supported. Device-facing network documents in this tool
// are IPv4-only; IPv6 prefixes are rejected at parse time.
package netutil

import (
	"encoding/binary"
	"fmt"
	"net"
)

// ParseCIDR parses an IPv4 CIDR string and returns the network it denotes.
// Unlike net.ParseCIDR it rejects IPv6 prefixes.
func ParseCIDR(s string) (*net.IPNet, error) {
	_, network, err := net.ParseCIDR(s)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR %q: %w", s, err)
	}
	if network.IP.To4() == nil {
		return nil, fmt.Errorf("only IPv4 subnets are supported, got %s", s)
	}
	return network, nil
}

// ParseIP parses an IP address string (IPv4 or IPv6).
func ParseIP(s string) (net.IP, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address %q", s)
	}
	return ip, nil
}

// Range returns the first and last address of an IPv4 network as integers.
func Range(network *net.IPNet) (first, last uint32) {
	first = ipToInt(network.IP)
	maskSize, totalBits := network.Mask.Size()
	hostBits := totalBits - maskSize
	last = first + uint32(1<<hostBits) - 1
	return first, last
}

// Contains reports whether ip falls anywhere inside network,
// including the network and broadcast addresses.
func Contains(network *net.IPNet, ip net.IP) bool {
	if ip.To4() == nil {
		return false
	}
	return network.Contains(ip)
}

// ContainsHost reports whether ip is a usable host address inside network:
// within the range but neither the network nor the broadcast address.
// A /31 or /32 has no usable host addresses.
func ContainsHost(network *net.IPNet, ip net.IP) bool {
	if !Contains(network, ip) {
		return false
	}
	first, last := Range(network)
	if last-first < 3 {
		return false
	}
	v := ipToInt(ip)
	return v != first && v != last
}

// Overlaps reports whether two IPv4 networks share any addresses.
// Equal networks overlap trivially.
func Overlaps(a, b *net.IPNet) bool {
	aFirst, aLast := Range(a)
	bFirst, bLast := Range(b)
	return aFirst <= bLast && bFirst <= aLast
}

// Covers reports whether outer contains the entire address range of inner.
func Covers(outer, inner *net.IPNet) bool {
	oFirst, oLast := Range(outer)
	iFirst, iLast := Range(inner)
	return oFirst <= iFirst && iLast <= oLast
}

// Broadcast returns the broadcast address of an IPv4 network.
func Broadcast(network *net.IPNet) net.IP {
	_, last := Range(network)
	return intToIP(last)
}

// ipToInt converts an IPv4 address to its integer representation.
func ipToInt(ip net.IP) uint32 {
	return binary.BigEndian.Uint32(ip.To4())
}

// intToIP converts an integer back to an IPv4 address.
func intToIP(val uint32) net.IP {
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, val)
	return ip
}
