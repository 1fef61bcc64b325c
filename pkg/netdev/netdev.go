package netdev

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// UpperLimitKbit is the highest rate in Kbit the kernel rate tables can
	// represent, used when the device speed cannot be determined
	UpperLimitKbit uint64 = 32 * 1000 * 1000

	sysFSNetPath = "/sys/class/net"
)

// Provider answers questions about network devices on the host
type Provider interface {
	// DeviceExists returns an error if the named netdev is not present on the host
	DeviceExists(device string) error
	// NoLimitKbit returns the highest usable rate of the named netdev in Kbit,
	// derived from its link speed
	NoLimitKbit(device string) (uint64, error)
}

// NewProviderImpl creates a new ProviderImpl
func NewProviderImpl(log klog.Logger, nl NetlinkProvider) *ProviderImpl {
	return newProviderImpl(log, nl, sysFSNetPath)
}

// newProviderImpl allows overriding the sysfs net directory in tests
func newProviderImpl(log klog.Logger, nl NetlinkProvider, sysFSNetRoot string) *ProviderImpl {
	return &ProviderImpl{
		log:          log,
		netlink:      nl,
		sysFSNetRoot: sysFSNetRoot,
		speedCache:   make(map[string]uint64),
	}
}

// ProviderImpl is a concrete implementation of Provider
type ProviderImpl struct {
	log          klog.Logger
	netlink      NetlinkProvider
	sysFSNetRoot string

	speedCache map[string]uint64
}

// DeviceExists implements Provider interface
func (p *ProviderImpl) DeviceExists(device string) error {
	_, err := p.netlink.LinkByName(device)
	if err != nil {
		return errors.Wrapf(err, "failed to find netdev %s", device)
	}
	return nil
}

// NoLimitKbit implements Provider interface. the link speed is read from
// sysfs and falls back to UpperLimitKbit for devices not reporting one
// (virtual devices, links that are down).
func (p *ProviderImpl) NoLimitKbit(device string) (uint64, error) {
	if kbit, ok := p.speedCache[device]; ok {
		return kbit, nil
	}

	kbit := p.readSpeedKbit(device)
	p.speedCache[device] = kbit
	return kbit, nil
}

func (p *ProviderImpl) readSpeedKbit(device string) uint64 {
	speedPath := filepath.Join(p.sysFSNetRoot, device, "speed")

	data, err := os.ReadFile(speedPath)
	if err != nil {
		p.log.V(4).Info("failed to read device speed, using upper limit rate",
			"device", device, "path", speedPath, "err", err)
		return UpperLimitKbit
	}

	speedMbit, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		p.log.V(4).Info("failed to parse device speed, using upper limit rate",
			"device", device, "speed", strings.TrimSpace(string(data)))
		return UpperLimitKbit
	}

	// devices with no carrier report -1
	if speedMbit <= 0 {
		return UpperLimitKbit
	}

	kbit := uint64(speedMbit) * 1000
	if kbit > UpperLimitKbit {
		return UpperLimitKbit
	}
	return kbit
}
