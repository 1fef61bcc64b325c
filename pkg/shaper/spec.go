package shaper

import (
	"github.com/pkg/errors"

	tctypes "github.com/liangwei1988/tcconfig/pkg/tc/types"
	"github.com/liangwei1988/tcconfig/pkg/utils"
)

const (
	// DirectionOutgoing shapes traffic leaving the device
	DirectionOutgoing Direction = "outgoing"
	// DirectionIncoming shapes traffic entering the device
	DirectionIncoming Direction = "incoming"

	// root qdisc major id namespaces per direction
	outgoingQDiscMajorID uint32 = 40
	incomingQDiscMajorID uint32 = 20

	anywhereIPv4Network = "0.0.0.0/0"
	anywhereIPv6Network = "::0/0"
)

// Direction of the traffic a shaping rule applies to
type Direction string

// QDiscMajorID returns the root qdisc major id namespace of the direction.
// every identifier of a rule lives beneath it, so rules of both directions
// can coexist on one device.
func (d Direction) QDiscMajorID() uint32 {
	if d == DirectionIncoming {
		return incomingQDiscMajorID
	}
	return outgoingQDiscMajorID
}

const (
	// RuleModeAdd creates a new shaping rule. an already configured rule is
	// a conflict.
	RuleModeAdd RuleMode = "add"
	// RuleModeChange mutates a shaping rule that is already configured
	RuleModeChange RuleMode = "change"
)

// RuleMode selects how an applied rule interacts with existing configuration
type RuleMode string

// ShapingSpec describes one shaping rule application on a netdev.
// it is immutable once handed to a Shaper.
type ShapingSpec struct {
	// Device is the netdev name the rule applies to
	Device string
	// Direction of the shaped traffic
	Direction Direction
	// QDiscMajorID is the root qdisc namespace of the rule, derived from
	// Direction when zero
	QDiscMajorID uint32
	// Mode selects add or change behavior
	Mode RuleMode

	// RateKbit is the bandwidth limit, zero means no limit
	RateKbit uint64

	// network emulation parameters
	DelayMs          float64
	DelayDistroMs    float64
	LossPercent      float64
	DuplicatePercent float64
	CorruptPercent   float64
	ReorderPercent   float64

	// classification criteria selecting the shaped traffic. when none is
	// set all traffic of the address family is shaped.
	DstNetwork string
	SrcNetwork string
	DstPort    uint16
	SrcPort    uint16

	// exclusion criteria, traffic matching them bypasses shaping entirely
	ExcludeDstNetwork string
	ExcludeSrcNetwork string
	ExcludeDstPort    uint16
	ExcludeSrcPort    uint16

	// IsIPv6 selects IPv6 filter protocols
	IsIPv6 bool
}

// MajorID returns the root qdisc major id of the rule
func (s *ShapingSpec) MajorID() uint32 {
	if s.QDiscMajorID != 0 {
		return s.QDiscMajorID
	}
	return s.Direction.QDiscMajorID()
}

// Protocol returns the tc filter protocol of the spec's address family
func (s *ShapingSpec) Protocol() tctypes.FilterProtocol {
	if s.IsIPv6 {
		return tctypes.FilterProtocolIPv6
	}
	return tctypes.FilterProtocolIPv4
}

// AnywhereNetwork returns the all-addresses network of the spec's address family
func (s *ShapingSpec) AnywhereNetwork() string {
	if s.IsIPv6 {
		return anywhereIPv6Network
	}
	return anywhereIPv4Network
}

// HasExcludeFilter returns true when at least one exclusion criterion is set
func (s *ShapingSpec) HasExcludeFilter() bool {
	return s.ExcludeDstNetwork != "" ||
		s.ExcludeSrcNetwork != "" ||
		s.ExcludeDstPort != 0 ||
		s.ExcludeSrcPort != 0
}

// Validate sanitizes the spec, returning an error describing the first
// malformed value found. it must pass before any kernel mutation is attempted.
func (s *ShapingSpec) Validate() error {
	if s.Device == "" {
		return errors.New("device is required")
	}

	switch s.Direction {
	case DirectionOutgoing, DirectionIncoming:
	default:
		return errors.Errorf("invalid direction: %s", s.Direction)
	}

	switch s.Mode {
	case RuleModeAdd, RuleModeChange:
	default:
		return errors.Errorf("invalid rule mode: %s", s.Mode)
	}

	for _, network := range []struct {
		name  string
		value string
	}{
		{"dst-network", s.DstNetwork},
		{"src-network", s.SrcNetwork},
		{"exclude-dst-network", s.ExcludeDstNetwork},
		{"exclude-src-network", s.ExcludeSrcNetwork},
	} {
		if network.value == "" {
			continue
		}
		if err := s.validateNetwork(network.value); err != nil {
			return errors.Wrapf(err, "invalid %s", network.name)
		}
	}

	for _, percent := range []struct {
		name  string
		value float64
	}{
		{"loss", s.LossPercent},
		{"duplicate", s.DuplicatePercent},
		{"corrupt", s.CorruptPercent},
		{"reorder", s.ReorderPercent},
	} {
		if percent.value < 0 || percent.value > 100 {
			return errors.Errorf("%s must be within [0, 100]: %v", percent.name, percent.value)
		}
	}

	if s.DelayMs < 0 {
		return errors.Errorf("delay must not be negative: %v", s.DelayMs)
	}
	if s.DelayDistroMs < 0 {
		return errors.Errorf("delay-distro must not be negative: %v", s.DelayDistroMs)
	}
	if s.DelayDistroMs > 0 && s.DelayMs <= 0 {
		return errors.New("delay-distro requires delay")
	}
	if s.ReorderPercent > 0 && s.DelayMs <= 0 {
		return errors.New("reordering requires delay")
	}

	return nil
}

func (s *ShapingSpec) validateNetwork(network string) error {
	ipNet, err := utils.IPToIPNet(network)
	if err != nil {
		return err
	}

	isIPv4 := utils.IsIPv4(ipNet.IP)
	if s.IsIPv6 && isIPv4 {
		return errors.Errorf("IPv4 address specified with the ipv6 option: %s", network)
	}
	if !s.IsIPv6 && !isIPv4 {
		return errors.Errorf("IPv6 address requires the ipv6 option: %s", network)
	}
	return nil
}
