package utils

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// rate suffixes accepted by ParseRateKbit, each mapped to its kbit multiplier.
var rateUnitMultiplier = map[string]float64{
	"kbit": 1,
	"kbps": 1,
	"mbit": 1000,
	"mbps": 1000,
	"gbit": 1000 * 1000,
	"gbps": 1000 * 1000,
}

// ParseRateKbit converts a human readable bandwidth rate string (e.g "500Kbit",
// "1Mbit", "0.5Gbit") to kbit. A bare number is interpreted as kbit.
func ParseRateKbit(rate string) (uint64, error) {
	s := strings.ToLower(strings.TrimSpace(rate))
	if s == "" {
		return 0, fmt.Errorf("empty rate")
	}

	multiplier := float64(1)
	for suffix, m := range rateUnitMultiplier {
		if strings.HasSuffix(s, suffix) {
			multiplier = m
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse rate: %s", rate)
	}
	kbit := value * multiplier
	if kbit < 1 {
		return 0, fmt.Errorf("rate must be at least 1kbit: %s", rate)
	}
	return uint64(kbit), nil
}

// IsIPv4 returns true if IP is of type IPV4
func IsIPv4(ip net.IP) bool {
	// Note: when creating net.IP via net.ParseIP() it is held in a fixed
	// net.IPv6Len size, so we cannot rely on length.
	return ip.To4() != nil
}

// PathExists returns true if path exists in the system or false if it doesnt
// in case of error, and error is returned
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IPToIPNet coverts IP or CIDR formatted string to *net.IPNet.
// if no CIDR notation, then /32 or /128 mask is assumed for ipv4 and ipv6 respectively.
func IPToIPNet(ip string) (*net.IPNet, error) {
	if !strings.Contains(ip, "/") {
		ipp := net.ParseIP(ip)
		if ipp == nil {
			return nil, fmt.Errorf("failed to parse ip: %s", ip)
		}
		if ipp.To4() != nil {
			ip += "/32"
		} else {
			ip += "/128"
		}
	}
	_, ipn, err := net.ParseCIDR(ip)
	return ipn, err
}
