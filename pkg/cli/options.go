package cli

import (
	"flag"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/liangwei1988/tcconfig/pkg/shaper"
	"github.com/liangwei1988/tcconfig/pkg/tcexec"
	"github.com/liangwei1988/tcconfig/pkg/utils"
)

// SetOptions stores the command line of tcset
type SetOptions struct {
	// Device is the netdev the rule applies to
	Device    string
	Direction string
	// Rate is the bandwidth limit as a human readable string, empty means no limit
	Rate        string
	Delay       time.Duration
	DelayDistro time.Duration
	Loss        float64
	Duplicate   float64
	Corrupt     float64
	Reordering  float64

	Network    string
	SrcNetwork string
	Port       uint16
	SrcPort    uint16

	ExcludeDstNetwork string
	ExcludeSrcNetwork string
	ExcludeDstPort    uint16
	ExcludeSrcPort    uint16

	IPv6      bool
	Change    bool
	Overwrite bool

	TcCommand bool
	TcScript  bool
}

// NewSetOptions initializes SetOptions
func NewSetOptions() *SetOptions {
	return &SetOptions{
		Direction: string(shaper.DirectionOutgoing),
	}
}

// AddFlags adds command line flags into command
func (o *SetOptions) AddFlags(fs *pflag.FlagSet) {
	klog.InitFlags(nil)
	fs.SortFlags = false
	fs.StringVar(&o.Device, "device", o.Device, "Network device the shaping rule applies to (e.g eth0).")
	fs.StringVar(&o.Direction, "direction", o.Direction, "Direction of the shaped traffic: outgoing or incoming.")
	fs.StringVar(&o.Rate, "rate", o.Rate, "Bandwidth limit, e.g 500Kbit, 1Mbit, 0.5Gbit. No limit when omitted.")
	fs.DurationVar(&o.Delay, "delay", o.Delay, "Latency added to packets, e.g 10ms, 1s.")
	fs.DurationVar(&o.DelayDistro, "delay-distro", o.DelayDistro, "Normal distribution width of the added latency, requires --delay.")
	fs.Float64Var(&o.Loss, "loss", o.Loss, "Percentage of packets to drop.")
	fs.Float64Var(&o.Duplicate, "duplicate", o.Duplicate, "Percentage of packets to duplicate.")
	fs.Float64Var(&o.Corrupt, "corrupt", o.Corrupt, "Percentage of packets to corrupt.")
	fs.Float64Var(&o.Reordering, "reordering", o.Reordering, "Percentage of packets to send immediately, requires --delay.")
	fs.StringVar(&o.Network, "network", o.Network, "Destination network or address the rule matches.")
	fs.StringVar(&o.SrcNetwork, "src-network", o.SrcNetwork, "Source network or address the rule matches.")
	fs.Uint16Var(&o.Port, "port", o.Port, "Destination port the rule matches.")
	fs.Uint16Var(&o.SrcPort, "src-port", o.SrcPort, "Source port the rule matches.")
	fs.StringVar(&o.ExcludeDstNetwork, "exclude-dst-network", o.ExcludeDstNetwork, "Destination network or address excluded from shaping.")
	fs.StringVar(&o.ExcludeSrcNetwork, "exclude-src-network", o.ExcludeSrcNetwork, "Source network or address excluded from shaping.")
	fs.Uint16Var(&o.ExcludeDstPort, "exclude-dst-port", o.ExcludeDstPort, "Destination port excluded from shaping.")
	fs.Uint16Var(&o.ExcludeSrcPort, "exclude-src-port", o.ExcludeSrcPort, "Source port excluded from shaping.")
	fs.BoolVar(&o.IPv6, "ipv6", o.IPv6, "Shape IPv6 traffic instead of IPv4.")
	fs.BoolVar(&o.Change, "change", o.Change, "Update an existing rule instead of adding a new one.")
	fs.BoolVar(&o.Overwrite, "overwrite", o.Overwrite, "Discard the existing rules of the device before applying this one.")
	fs.BoolVar(&o.TcCommand, "tc-command", o.TcCommand, "Print the tc commands instead of executing them.")
	fs.BoolVar(&o.TcScript, "tc-script", o.TcScript, "Write the tc commands to an executable script instead of executing them.")
	fs.AddGoFlagSet(flag.CommandLine)
	fs.AddFlagSet(pflag.CommandLine)
}

// RuleMode returns the shaping rule mode the options select
func (o *SetOptions) RuleMode() shaper.RuleMode {
	if o.Change {
		return shaper.RuleModeChange
	}
	return shaper.RuleModeAdd
}

// CommandOutput returns where generated commands are routed
func (o *SetOptions) CommandOutput() tcexec.CommandOutput {
	switch {
	case o.TcCommand:
		return tcexec.CommandOutputStdout
	case o.TcScript:
		return tcexec.CommandOutputScript
	default:
		return tcexec.CommandOutputExecute
	}
}

// ToShapingSpec converts and sanitizes the options into a ShapingSpec.
// an error means the command line is invalid and nothing was touched.
func (o *SetOptions) ToShapingSpec() (*shaper.ShapingSpec, error) {
	if o.Change && o.Overwrite {
		return nil, errors.New("--change and --overwrite are mutually exclusive")
	}

	var rateKbit uint64
	if o.Rate != "" {
		var err error
		rateKbit, err = utils.ParseRateKbit(o.Rate)
		if err != nil {
			return nil, errors.Wrap(err, "invalid rate")
		}
	}

	spec := &shaper.ShapingSpec{
		Device:    o.Device,
		Direction: shaper.Direction(o.Direction),
		Mode:      o.RuleMode(),

		RateKbit: rateKbit,

		DelayMs:          durationMs(o.Delay),
		DelayDistroMs:    durationMs(o.DelayDistro),
		LossPercent:      o.Loss,
		DuplicatePercent: o.Duplicate,
		CorruptPercent:   o.Corrupt,
		ReorderPercent:   o.Reordering,

		DstNetwork: o.Network,
		SrcNetwork: o.SrcNetwork,
		DstPort:    o.Port,
		SrcPort:    o.SrcPort,

		ExcludeDstNetwork: o.ExcludeDstNetwork,
		ExcludeSrcNetwork: o.ExcludeSrcNetwork,
		ExcludeDstPort:    o.ExcludeDstPort,
		ExcludeSrcPort:    o.ExcludeSrcPort,

		IsIPv6: o.IPv6,
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// DelOptions stores the command line of tcdel
type DelOptions struct {
	// Device is the netdev whose shaping configuration is removed
	Device    string
	TcCommand bool
}

// NewDelOptions initializes DelOptions
func NewDelOptions() *DelOptions {
	return &DelOptions{}
}

// AddFlags adds command line flags into command
func (o *DelOptions) AddFlags(fs *pflag.FlagSet) {
	klog.InitFlags(nil)
	fs.SortFlags = false
	fs.StringVar(&o.Device, "device", o.Device, "Network device whose shaping configuration is removed (e.g eth0).")
	fs.BoolVar(&o.TcCommand, "tc-command", o.TcCommand, "Print the tc commands instead of executing them.")
	fs.AddGoFlagSet(flag.CommandLine)
	fs.AddFlagSet(pflag.CommandLine)
}

// CommandOutput returns where generated commands are routed
func (o *DelOptions) CommandOutput() tcexec.CommandOutput {
	if o.TcCommand {
		return tcexec.CommandOutputStdout
	}
	return tcexec.CommandOutputExecute
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
