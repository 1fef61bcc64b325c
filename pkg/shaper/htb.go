package shaper

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"

	"github.com/liangwei1988/tcconfig/pkg/netdev"
	"github.com/liangwei1988/tcconfig/pkg/tc"
	tctypes "github.com/liangwei1988/tcconfig/pkg/tc/types"
	"github.com/liangwei1988/tcconfig/pkg/tcexec"
)

const (
	// AlgorithmHTB is the tc name of the hierarchical token bucket discipline
	AlgorithmHTB = "htb"

	// filter priorities within a rule. exclusions outrank classification so
	// excluded traffic never reaches the rate limited class.
	excludeFilterPriority  uint16 = 1
	classifyFilterPriority uint16 = 2
)

// burstKB returns the burst size for a rate limited class, one tenth of a
// second worth of traffic expressed in kilobytes
func burstKB(rateKbit uint64) float64 {
	return float64(rateKbit) / 8 / 10
}

// NewHTBShaper creates a Shaper applying the hierarchical token bucket rule
// described by spec through tcDriver. every log line of the returned shaper
// carries a generated invocation id, correlating the commands of one rule
// application.
func NewHTBShaper(
	log klog.Logger,
	spec *ShapingSpec,
	tcDriver tc.TC,
	devices netdev.Provider,
	output tcexec.CommandOutput,
) *HTBShaper {
	log = log.WithValues("invocation", uuid.NewString(), "device", spec.Device)
	scanClasses := output.Executes() && spec.Mode != RuleModeChange
	return &HTBShaper{
		log:       log,
		spec:      spec,
		tc:        tcDriver,
		devices:   devices,
		majorID:   spec.MajorID(),
		allocator: NewIDAllocator(log, tcDriver, AlgorithmHTB, spec.MajorID(), scanClasses),
	}
}

// HTBShaper implements Shaper using the hierarchical token bucket queueing
// discipline. an HTBShaper applies exactly one rule, create a new one per
// rule application.
type HTBShaper struct {
	log     klog.Logger
	spec    *ShapingSpec
	tc      tc.TC
	devices netdev.Provider

	majorID   uint32
	allocator *IDAllocator

	// classIDWithoutShaping is the class carrying unshaped traffic,
	// remembered by MakeQDisc as the exclude filter target
	classIDWithoutShaping *tctypes.ClassID
}

// Algorithm implements Shaper interface
func (h *HTBShaper) Algorithm() string {
	return AlgorithmHTB
}

// Spec implements Shaper interface
func (h *HTBShaper) Spec() *ShapingSpec {
	return h.spec
}

// MakeQDisc implements Shaper interface. it establishes the root qdisc with
// its default class. in change mode both already exist and are left untouched.
func (h *HTBShaper) MakeQDisc() PhaseResult {
	if h.spec.Mode == RuleModeChange {
		return okResult()
	}

	qdisc := tctypes.NewHTBQDiscBuilder().
		WithHandle(h.majorID).
		WithDefaultClass(DefaultClassMinorID).
		Build()

	res, err := h.tc.QDiscAdd(qdisc)
	if err != nil {
		return h.spawnFailure(err)
	}

	switch tcexec.Classify(h.log, res, tcexec.RunOptions{AcceptPattern: tcexec.FileExistsPattern}) {
	case tcexec.OutcomeAcceptableFailure:
		return existsResult()
	case tcexec.OutcomeFailure:
		return fatalResult(res.Code)
	}

	return h.addDefaultClass()
}

// addDefaultClass creates the class carrying traffic no filter matched, at
// the device's own maximum rate. its classid is remembered before the command
// runs so later phases can target it either way.
func (h *HTBShaper) addDefaultClass() PhaseResult {
	h.classIDWithoutShaping = tctypes.NewClassID(h.majorID, DefaultClassMinorID)

	class := tctypes.NewHTBClassBuilder().
		WithParent(h.majorID).
		WithClassID(h.majorID, DefaultClassMinorID).
		WithRate(h.noLimitKbit()).
		WithRateUnit(tctypes.RateUnitKbitLower).
		Build()

	res, err := h.tc.ClassAdd(class)
	if err != nil {
		return h.spawnFailure(err)
	}

	// an existing default class is never a conflict, it is shared by every
	// rule in the direction
	if tcexec.Classify(h.log, res, tcexec.RunOptions{AcceptPattern: tcexec.FileExistsPattern}) == tcexec.OutcomeFailure {
		return fatalResult(res.Code)
	}
	return okResult()
}

// AddRate implements Shaper interface. it creates the rate limited class at a
// minor id unique on the device, with ceil pinned to the rate and a burst of
// one tenth of a second when a limit is set.
func (h *HTBShaper) AddRate() PhaseResult {
	noLimitKbit := h.noLimitKbit()
	kbit := h.spec.RateKbit
	if kbit == 0 {
		kbit = noLimitKbit
	}

	classID := tctypes.NewClassID(h.majorID, h.allocator.ClassMinorID())
	builder := tctypes.NewHTBClassBuilder().
		WithParent(h.majorID).
		WithClassID(classID.Major, classID.Minor).
		WithRate(kbit).
		WithCeil(kbit)
	if kbit != noLimitKbit {
		builder.WithBurst(burstKB(kbit))
	}

	var res *tcexec.Result
	var err error
	if h.spec.Mode == RuleModeChange {
		res, err = h.tc.ClassChange(builder.Build())
	} else {
		res, err = h.tc.ClassAdd(builder.Build())
	}
	if err != nil {
		return h.spawnFailure(err)
	}

	notice := fmt.Sprintf(
		"failed to add a shaping class: %s already exists on %s. "+
			"execute with --overwrite to discard the existing rules, or with --change to update them",
		classID, h.spec.Device)
	switch tcexec.Classify(h.log, res, tcexec.RunOptions{
		AcceptPattern: tcexec.FileExistsPattern,
		Notice:        notice,
	}) {
	case tcexec.OutcomeAcceptableFailure:
		return existsResult()
	case tcexec.OutcomeFailure:
		return fatalResult(res.Code)
	}
	return okResult()
}

// SetNetem implements Shaper interface. it attaches the network emulation
// qdisc under the rate limited class, carrying the delay, loss, duplication,
// corruption and reordering parameters of the rule.
func (h *HTBShaper) SetNetem() PhaseResult {
	qdisc := tctypes.NewNetemQDiscBuilder().
		WithParent(h.majorID, h.allocator.ClassMinorID()).
		WithHandle(h.allocator.NetemMajorID()).
		WithDelay(h.spec.DelayMs).
		WithDelayDistro(h.spec.DelayDistroMs).
		WithLoss(h.spec.LossPercent).
		WithDuplicate(h.spec.DuplicatePercent).
		WithCorrupt(h.spec.CorruptPercent).
		WithReorder(h.spec.ReorderPercent).
		Build()

	var res *tcexec.Result
	var err error
	if h.spec.Mode == RuleModeChange {
		res, err = h.tc.QDiscChange(qdisc)
	} else {
		res, err = h.tc.QDiscAdd(qdisc)
	}
	if err != nil {
		return h.spawnFailure(err)
	}

	if tcexec.Classify(h.log, res, tcexec.RunOptions{}) == tcexec.OutcomeFailure {
		return fatalResult(res.Code)
	}
	return okResult()
}

// AddExcludeFilter implements Shaper interface. traffic matching the
// exclusion criteria is directed to the default class, bypassing shaping.
// the phase is skipped entirely when no criterion is set.
func (h *HTBShaper) AddExcludeFilter() PhaseResult {
	if !h.spec.HasExcludeFilter() {
		h.log.V(4).Info("no exclude filter found")
		return okResult()
	}

	flowID := h.classIDWithoutShaping
	if flowID == nil {
		// change mode does not recreate the default class, its id is fixed
		flowID = tctypes.NewClassID(h.majorID, DefaultClassMinorID)
	}

	matchProto := tctypes.ProtoToMatchProtocol(h.spec.Protocol())
	builder := tctypes.NewU32FilterBuilder().
		WithProtocol(h.spec.Protocol()).
		WithParent(h.majorID).
		WithPriority(excludeFilterPriority).
		WithFlowID(flowID.Major, flowID.Minor)

	if h.spec.ExcludeDstNetwork != "" {
		builder.WithMatchDstNetwork(matchProto, h.spec.ExcludeDstNetwork)
	}
	if h.spec.ExcludeSrcNetwork != "" {
		builder.WithMatchSrcNetwork(matchProto, h.spec.ExcludeSrcNetwork)
	}
	if h.spec.ExcludeDstPort != 0 {
		builder.WithMatchDstPort(matchProto, h.spec.ExcludeDstPort)
	}
	if h.spec.ExcludeSrcPort != 0 {
		builder.WithMatchSrcPort(matchProto, h.spec.ExcludeSrcPort)
	}

	return h.addFilter(builder.Build())
}

// AddFilter implements Shaper interface. it directs shaped traffic into the
// rate limited class. when no classification criterion is set the whole
// address family is matched.
func (h *HTBShaper) AddFilter() PhaseResult {
	matchProto := tctypes.ProtoToMatchProtocol(h.spec.Protocol())
	builder := tctypes.NewU32FilterBuilder().
		WithProtocol(h.spec.Protocol()).
		WithParent(h.majorID).
		WithPriority(classifyFilterPriority).
		WithFlowID(h.majorID, h.allocator.ClassMinorID())

	matched := false
	if h.spec.DstNetwork != "" {
		builder.WithMatchDstNetwork(matchProto, h.spec.DstNetwork)
		matched = true
	}
	if h.spec.SrcNetwork != "" {
		builder.WithMatchSrcNetwork(matchProto, h.spec.SrcNetwork)
		matched = true
	}
	if h.spec.DstPort != 0 {
		builder.WithMatchDstPort(matchProto, h.spec.DstPort)
		matched = true
	}
	if h.spec.SrcPort != 0 {
		builder.WithMatchSrcPort(matchProto, h.spec.SrcPort)
		matched = true
	}
	if !matched {
		builder.WithMatchDstNetwork(matchProto, h.spec.AnywhereNetwork())
	}

	return h.addFilter(builder.Build())
}

// DeleteShaping implements Shaper interface. it removes the egress tree and
// the ingress qdisc of the netdev. absent configuration is not an error.
func (h *HTBShaper) DeleteShaping() PhaseResult {
	targets := []struct {
		qdisc  tctypes.QDisc
		notice string
	}{
		{
			qdisc: tctypes.NewGenericQdisc(&tctypes.QDiscAttrs{}, tctypes.QDiscRootType),
			notice: fmt.Sprintf(
				"no shaping rules to delete for outgoing traffic of %s", h.spec.Device),
		},
		{
			qdisc: tctypes.NewIngressQDiscBuilder().Build(),
			notice: fmt.Sprintf(
				"no shaping rules to delete for incoming traffic of %s", h.spec.Device),
		},
	}

	for _, target := range targets {
		res, err := h.tc.QDiscDel(target.qdisc)
		if err != nil {
			return h.spawnFailure(err)
		}
		if tcexec.Classify(h.log, res, tcexec.RunOptions{
			AcceptPattern: tcexec.NoSuchEntryPattern,
			Notice:        target.notice,
		}) == tcexec.OutcomeFailure {
			return fatalResult(res.Code)
		}
	}
	return okResult()
}

func (h *HTBShaper) addFilter(filter tctypes.Filter) PhaseResult {
	res, err := h.tc.FilterAdd(filter)
	if err != nil {
		return h.spawnFailure(err)
	}
	if tcexec.Classify(h.log, res, tcexec.RunOptions{}) == tcexec.OutcomeFailure {
		return fatalResult(res.Code)
	}
	return okResult()
}

// noLimitKbit returns the rate representing no bandwidth limit on the
// device, falling back to the representable maximum when the device rate
// cannot be determined
func (h *HTBShaper) noLimitKbit() uint64 {
	kbit, err := h.devices.NoLimitKbit(h.spec.Device)
	if err != nil {
		h.log.V(4).Info("failed to read device rate, using upper limit", "reason", err)
		return netdev.UpperLimitKbit
	}
	return kbit
}

func (h *HTBShaper) spawnFailure(err error) PhaseResult {
	h.log.Error(err, "failed to execute command")
	return fatalResult(int(unix.ENOENT))
}
