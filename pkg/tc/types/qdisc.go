package types

import (
	"strconv"
)

const (
	// QDiscHTBType is a hierarchical token bucket qdisc
	QDiscHTBType QDiscType = "htb"
	// QDiscNetemType is a network emulation qdisc
	QDiscNetemType QDiscType = "netem"
	// QDiscIngressType is the ingress qdisc
	QDiscIngressType QDiscType = "ingress"
	// QDiscRootType addresses the root egress qdisc regardless of its kind,
	// meaningful for delete operations only
	QDiscRootType QDiscType = "root"
)

// QDiscType is the type of qdisc
type QDiscType string

// QDiscAttrs holds QDisc object attributes
type QDiscAttrs struct {
	// Parent is the classid the qdisc attaches under, nil for a root qdisc
	Parent *ClassID
	// Handle is the qdisc major id
	Handle *uint32
}

// NewQDiscAttrs creates new QDiscAttrs instance
func NewQDiscAttrs(parent *ClassID, handle *uint32) *QDiscAttrs {
	return &QDiscAttrs{
		Parent: parent,
		Handle: handle,
	}
}

// GenCmdLineArgs implements CmdLineGenerator interface, it generates the
// location args shared by all qdisc types
func (qa *QDiscAttrs) GenCmdLineArgs() []string {
	args := []string{}

	if qa.Parent == nil {
		args = append(args, "root")
	} else {
		args = append(args, "parent", qa.Parent.String())
	}

	if qa.Handle != nil {
		args = append(args, "handle", HandleStr(*qa.Handle))
	}

	return args
}

// QDisc is an interface which represents a TC qdisc object
type QDisc interface {
	// Attrs returns QDiscAttrs for a qdisc
	Attrs() *QDiscAttrs
	// Type returns the QDisc type
	Type() QDiscType

	// Driver Specific related Interfaces
	CmdLineGenerator
}

// GenericQDisc is a generic qdisc of an arbitrary type
type GenericQDisc struct {
	QDiscAttrs
	QdiscType QDiscType
}

// Attrs implements QDisc interface
func (g *GenericQDisc) Attrs() *QDiscAttrs {
	return &g.QDiscAttrs
}

// Type implements QDisc interface
func (g *GenericQDisc) Type() QDiscType {
	return g.QdiscType
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (g *GenericQDisc) GenCmdLineArgs() []string {
	// for generic qdiscs we can just use qdisc type without attrs (parent, handle)
	return []string{string(g.QdiscType)}
}

// NewGenericQdisc creates a new Generic QDisc object
func NewGenericQdisc(qDiscAttrs *QDiscAttrs, qType QDiscType) *GenericQDisc {
	return &GenericQDisc{
		QDiscAttrs: *qDiscAttrs,
		QdiscType:  qType,
	}
}

// HTBQDisc is a hierarchical token bucket qdisc
type HTBQDisc struct {
	QDiscAttrs
	// DefaultClassMinorID is the minor id of the class receiving traffic
	// not matched by any filter
	DefaultClassMinorID uint32
}

// Attrs implements QDisc interface
func (h *HTBQDisc) Attrs() *QDiscAttrs {
	return &h.QDiscAttrs
}

// Type implements QDisc interface
func (h *HTBQDisc) Type() QDiscType {
	return QDiscHTBType
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (h *HTBQDisc) GenCmdLineArgs() []string {
	args := h.QDiscAttrs.GenCmdLineArgs()
	args = append(args, string(QDiscHTBType),
		"default", strconv.FormatUint(uint64(h.DefaultClassMinorID), 10))
	return args
}

// NetemQDisc is a network emulation qdisc injecting latency, loss,
// duplication, corruption and reordering
type NetemQDisc struct {
	QDiscAttrs
	// DelayMs adds constant latency to outgoing packets
	DelayMs float64
	// DelayDistroMs makes the added latency vary with a normal distribution,
	// effective only together with DelayMs
	DelayDistroMs float64
	// LossPercent drops the given percentage of packets
	LossPercent float64
	// DuplicatePercent duplicates the given percentage of packets
	DuplicatePercent float64
	// CorruptPercent introduces single bit errors in the given percentage of packets
	CorruptPercent float64
	// ReorderPercent sends the given percentage of packets immediately,
	// effective only together with DelayMs
	ReorderPercent float64
}

// Attrs implements QDisc interface
func (n *NetemQDisc) Attrs() *QDiscAttrs {
	return &n.QDiscAttrs
}

// Type implements QDisc interface
func (n *NetemQDisc) Type() QDiscType {
	return QDiscNetemType
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (n *NetemQDisc) GenCmdLineArgs() []string {
	args := n.QDiscAttrs.GenCmdLineArgs()
	args = append(args, string(QDiscNetemType))

	if n.LossPercent > 0 {
		args = append(args, "loss", formatFloat(n.LossPercent)+"%")
	}
	if n.DuplicatePercent > 0 {
		args = append(args, "duplicate", formatFloat(n.DuplicatePercent)+"%")
	}
	if n.DelayMs > 0 {
		args = append(args, "delay", formatFloat(n.DelayMs)+"ms")
		if n.DelayDistroMs > 0 {
			args = append(args, formatFloat(n.DelayDistroMs)+"ms", "distribution", "normal")
		}
	}
	if n.CorruptPercent > 0 {
		args = append(args, "corrupt", formatFloat(n.CorruptPercent)+"%")
	}
	if n.ReorderPercent > 0 {
		args = append(args, "reorder", formatFloat(n.ReorderPercent)+"%")
	}

	return args
}

// Builders

// NewQDiscAttrsBuilder returns a new QDiscAttrsBuilder
func NewQDiscAttrsBuilder() *QDiscAttrsBuilder {
	return &QDiscAttrsBuilder{}
}

// QDiscAttrsBuilder is a QDiscAttrs builder
type QDiscAttrsBuilder struct {
	qDiscAttrs QDiscAttrs
}

// WithParent adds Parent to QDiscAttrsBuilder
func (qb *QDiscAttrsBuilder) WithParent(major, minor uint32) *QDiscAttrsBuilder {
	qb.qDiscAttrs.Parent = NewClassID(major, minor)
	return qb
}

// WithHandle adds Handle to QDiscAttrsBuilder
func (qb *QDiscAttrsBuilder) WithHandle(h uint32) *QDiscAttrsBuilder {
	qb.qDiscAttrs.Handle = &h
	return qb
}

// Build builds and returns a new QDiscAttrs instance
// Note: calling Build() multiple times will not return a completely
// new object on each call. that is, pointer/slice/map types will not be deep copied.
// to create several objects, different builders should be used.
func (qb *QDiscAttrsBuilder) Build() *QDiscAttrs {
	return NewQDiscAttrs(qb.qDiscAttrs.Parent, qb.qDiscAttrs.Handle)
}

// NewHTBQDiscBuilder returns a new HTBQDiscBuilder
func NewHTBQDiscBuilder() *HTBQDiscBuilder {
	return &HTBQDiscBuilder{qDiscAttrsBuilder: NewQDiscAttrsBuilder()}
}

// HTBQDiscBuilder is an HTBQDisc builder
type HTBQDiscBuilder struct {
	qDiscAttrsBuilder   *QDiscAttrsBuilder
	defaultClassMinorID uint32
}

// WithHandle adds Handle to HTBQDiscBuilder
func (hb *HTBQDiscBuilder) WithHandle(h uint32) *HTBQDiscBuilder {
	hb.qDiscAttrsBuilder.WithHandle(h)
	return hb
}

// WithDefaultClass adds the default class minor id to HTBQDiscBuilder
func (hb *HTBQDiscBuilder) WithDefaultClass(minorID uint32) *HTBQDiscBuilder {
	hb.defaultClassMinorID = minorID
	return hb
}

// Build builds and returns a new HTBQDisc instance
// Note: calling Build() multiple times will not return a completely
// new object on each call. that is, pointer/slice/map types will not be deep copied.
// to create several objects, different builders should be used.
func (hb *HTBQDiscBuilder) Build() *HTBQDisc {
	return &HTBQDisc{
		QDiscAttrs:          *hb.qDiscAttrsBuilder.Build(),
		DefaultClassMinorID: hb.defaultClassMinorID,
	}
}

// NewNetemQDiscBuilder returns a new NetemQDiscBuilder
func NewNetemQDiscBuilder() *NetemQDiscBuilder {
	return &NetemQDiscBuilder{qDiscAttrsBuilder: NewQDiscAttrsBuilder()}
}

// NetemQDiscBuilder is a NetemQDisc builder
type NetemQDiscBuilder struct {
	qDiscAttrsBuilder *QDiscAttrsBuilder
	netemQDisc        NetemQDisc
}

// WithParent adds Parent to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithParent(major, minor uint32) *NetemQDiscBuilder {
	nb.qDiscAttrsBuilder.WithParent(major, minor)
	return nb
}

// WithHandle adds Handle to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithHandle(h uint32) *NetemQDiscBuilder {
	nb.qDiscAttrsBuilder.WithHandle(h)
	return nb
}

// WithDelay adds latency in milliseconds to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithDelay(ms float64) *NetemQDiscBuilder {
	nb.netemQDisc.DelayMs = ms
	return nb
}

// WithDelayDistro adds latency distribution in milliseconds to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithDelayDistro(ms float64) *NetemQDiscBuilder {
	nb.netemQDisc.DelayDistroMs = ms
	return nb
}

// WithLoss adds a packet loss percentage to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithLoss(percent float64) *NetemQDiscBuilder {
	nb.netemQDisc.LossPercent = percent
	return nb
}

// WithDuplicate adds a packet duplication percentage to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithDuplicate(percent float64) *NetemQDiscBuilder {
	nb.netemQDisc.DuplicatePercent = percent
	return nb
}

// WithCorrupt adds a packet corruption percentage to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithCorrupt(percent float64) *NetemQDiscBuilder {
	nb.netemQDisc.CorruptPercent = percent
	return nb
}

// WithReorder adds a packet reordering percentage to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithReorder(percent float64) *NetemQDiscBuilder {
	nb.netemQDisc.ReorderPercent = percent
	return nb
}

// Build builds and returns a new NetemQDisc instance
// Note: calling Build() multiple times will not return a completely
// new object on each call. that is, pointer/slice/map types will not be deep copied.
// to create several objects, different builders should be used.
func (nb *NetemQDiscBuilder) Build() *NetemQDisc {
	return &NetemQDisc{
		QDiscAttrs:       *nb.qDiscAttrsBuilder.Build(),
		DelayMs:          nb.netemQDisc.DelayMs,
		DelayDistroMs:    nb.netemQDisc.DelayDistroMs,
		LossPercent:      nb.netemQDisc.LossPercent,
		DuplicatePercent: nb.netemQDisc.DuplicatePercent,
		CorruptPercent:   nb.netemQDisc.CorruptPercent,
		ReorderPercent:   nb.netemQDisc.ReorderPercent,
	}
}

// NewIngressQDiscBuilder returns a new IngressQDiscBuilder
func NewIngressQDiscBuilder() *IngressQDiscBuilder {
	return &IngressQDiscBuilder{qDiscAttrsBuilder: NewQDiscAttrsBuilder(), qDiscType: QDiscIngressType}
}

// IngressQDiscBuilder is an IngressQDisc builder
type IngressQDiscBuilder struct {
	qDiscAttrsBuilder *QDiscAttrsBuilder
	qDiscType         QDiscType
}

// WithHandle adds Handle to IngressQDiscBuilder
func (iqb *IngressQDiscBuilder) WithHandle(h uint32) *IngressQDiscBuilder {
	iqb.qDiscAttrsBuilder.WithHandle(h)
	return iqb
}

// Build builds and returns a new GenericQDisc instance of type QDiscIngressType
// Note: calling Build() multiple times will not return a completely
// new object on each call. that is, pointer/slice/map types will not be deep copied.
// to create several objects, different builders should be used.
func (iqb *IngressQDiscBuilder) Build() *GenericQDisc {
	attrs := iqb.qDiscAttrsBuilder.Build()
	return NewGenericQdisc(attrs, iqb.qDiscType)
}
