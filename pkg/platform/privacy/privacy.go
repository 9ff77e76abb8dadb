// Package privacy keeps personal data (client IPs, CPFs) out of logs and events.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"net/netip"

	"uniagendas/pkg/taxpayer"
)

// AnonymizeIP zeroes the host part of an address: IPv4 keeps its /24 and
// IPv6 its /48. Empty input yields "unknown", unparseable input "invalid".
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// MaskCPF keeps the middle six digits of a CPF: "***.444.777-**".
// Anything that is not eleven digits collapses to "***".
func MaskCPF(raw string) string {
	d := taxpayer.Digits(raw)
	if len(d) != taxpayer.Length {
		return "***"
	}
	return "***." + d[3:6] + "." + d[6:9] + "-**"
}

// HashCPF returns a stable, non-reversible correlation key for a CPF so log
// lines about the same patient can be joined without storing the number.
func HashCPF(raw string) string {
	sum := sha256.Sum256([]byte("uniagendas:cpf:" + taxpayer.Digits(raw)))
	return hex.EncodeToString(sum[:8])
}
