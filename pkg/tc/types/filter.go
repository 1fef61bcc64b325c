package types

import (
	"strconv"
)

const (
	// Values for FilterAttrs.Protocol
	FilterProtocolIPv4 FilterProtocol = "ip"
	FilterProtocolIPv6 FilterProtocol = "ipv6"

	// U32Filter.Kind
	FilterKindU32 FilterKind = "u32"

	// Values for U32Match.Protocol
	MatchProtocolIPv4 MatchProtocol = "ip"
	MatchProtocolIPv6 MatchProtocol = "ip6"

	// Values for U32Match.Field
	U32MatchFieldDst   U32MatchField = "dst"
	U32MatchFieldSrc   U32MatchField = "src"
	U32MatchFieldDport U32MatchField = "dport"
	U32MatchFieldSport U32MatchField = "sport"

	// PortMatchMask is the mask applied to exact port matches
	PortMatchMask = "0xffff"
)

// FilterProtocol is the type of filter protocol
type FilterProtocol string

// FilterKind is the type of filter
type FilterKind string

// MatchProtocol is the protocol selector of a u32 match clause
type MatchProtocol string

// U32MatchField is the packet field a u32 match clause matches on
type U32MatchField string

// Filter represent a tc filter object
type Filter interface {
	// Attrs returns FilterAttrs
	Attrs() *FilterAttrs
	// Equals compares this Filter with other, returns true if they are equal or false otherwise
	Equals(other Filter) bool

	// Driver Specific related Interfaces
	CmdLineGenerator
}

// FilterAttrs holds filter object attributes
type FilterAttrs struct {
	Kind     FilterKind
	Protocol FilterProtocol
	// Parent is the major id of the qdisc the filter attaches to
	Parent   *uint32
	Priority *uint16
}

// NewFilterAttrs creates new FilterAttrs instance
func NewFilterAttrs(kind FilterKind, protocol FilterProtocol, parent *uint32, priority *uint16) *FilterAttrs {
	return &FilterAttrs{
		Kind:     kind,
		Protocol: protocol,
		Parent:   parent,
		Priority: priority,
	}
}

// GenCmdLineArgs implements CmdLineGenerator interface, it generates the needed tc command line args for FilterAttrs
func (fa *FilterAttrs) GenCmdLineArgs() []string {
	args := []string{}

	if fa.Protocol != "" {
		args = append(args, "protocol", string(fa.Protocol))
	}

	if fa.Parent != nil {
		args = append(args, "parent", HandleStr(*fa.Parent))
	}

	if fa.Priority != nil {
		args = append(args, "prio", strconv.FormatUint(uint64(*fa.Priority), 10))
	}

	// must be last as next are filter type specific params
	args = append(args, string(fa.Kind))

	return args
}

// Equals compares this FilterAttrs with other, returns true if they are equal or false otherwise
func (fa *FilterAttrs) Equals(other *FilterAttrs) bool {
	if fa == other {
		return true
	}

	if (fa == nil && other != nil) || (fa != nil && other == nil) {
		return false
	}

	if fa.Kind != other.Kind {
		return false
	}
	if fa.Protocol != other.Protocol {
		return false
	}
	if !compare(fa.Parent, other.Parent, nil) {
		return false
	}
	if !compare(fa.Priority, other.Priority, nil) {
		return false
	}
	return true
}

// U32Match is a single u32 selector clause
type U32Match struct {
	// Protocol is the u32 selector protocol
	Protocol MatchProtocol
	// Field is the packet field being matched
	Field U32MatchField
	// Value is the matched value, a CIDR network for address fields or a
	// port number for port fields
	Value string
	// Mask is an optional trailing mask, PortMatchMask for exact port matches
	Mask string
}

// GenCmdLineArgs implements CmdLineGenerator interface, it generates the needed tc command line args for U32Match
func (m *U32Match) GenCmdLineArgs() []string {
	args := []string{"match", string(m.Protocol), string(m.Field), m.Value}

	if m.Mask != "" {
		args = append(args, m.Mask)
	}

	return args
}

// U32Spec holds u32 filter specification (which consists of a list of U32Match
// and the target class of matching traffic)
type U32Spec struct {
	Matches []U32Match
	FlowID  *ClassID
}

// GenCmdLineArgs implements CmdLineGenerator interface, it generates the needed tc command line args for U32Spec
func (us *U32Spec) GenCmdLineArgs() []string {
	args := []string{}

	if us == nil {
		return args
	}

	for i := range us.Matches {
		args = append(args, us.Matches[i].GenCmdLineArgs()...)
	}

	if us.FlowID != nil {
		args = append(args, "flowid", us.FlowID.String())
	}

	return args
}

// Equals compares this U32Spec with other, returns true if they are equal or false otherwise
func (us *U32Spec) Equals(other *U32Spec) bool {
	if us == other {
		return true
	}

	if (us == nil && other != nil) || (us != nil && other == nil) {
		return false
	}

	// matches equal (order matters)
	if len(us.Matches) != len(other.Matches) {
		return false
	}
	for i := range us.Matches {
		if us.Matches[i] != other.Matches[i] {
			return false
		}
	}

	if us.FlowID != other.FlowID {
		if us.FlowID == nil || other.FlowID == nil {
			return false
		}
		if *us.FlowID != *other.FlowID {
			return false
		}
	}

	return true
}

// U32Filter is a concrete implementation of Filter of kind u32
type U32Filter struct {
	FilterAttrs
	// U32 selector clauses, only valid if Kind == FilterKindU32
	U32 *U32Spec
}

// Attrs implements Filter interface, it returns FilterAttrs
func (f *U32Filter) Attrs() *FilterAttrs {
	return &f.FilterAttrs
}

// Equals implements Filter interface
func (f *U32Filter) Equals(other Filter) bool {
	// types equal
	otherU32, ok := other.(*U32Filter)
	if !ok {
		return false
	}

	// FilterAttr equal
	if !f.Attrs().Equals(other.Attrs()) {
		return false
	}

	// U32Spec equal
	return f.U32.Equals(otherU32.U32)
}

// GenCmdLineArgs implements CmdLineGenerator interface, it generates the needed tc command line args for U32Filter
func (f *U32Filter) GenCmdLineArgs() []string {
	args := []string{}

	args = append(args, f.FilterAttrs.GenCmdLineArgs()...)

	if f.U32 != nil {
		args = append(args, f.U32.GenCmdLineArgs()...)
	}

	return args
}

// Builders

// NewFilterAttrsBuilder returns a new FilterAttrsBuilder
func NewFilterAttrsBuilder() *FilterAttrsBuilder {
	return &FilterAttrsBuilder{}
}

// FilterAttrsBuilder is a FilterAttr builder
type FilterAttrsBuilder struct {
	filterAttrs FilterAttrs
}

// WithKind adds Kind to FilterAttrsBuilder
func (fb *FilterAttrsBuilder) WithKind(k FilterKind) *FilterAttrsBuilder {
	fb.filterAttrs.Kind = k
	return fb
}

// WithProtocol adds Protocol to FilterAttrsBuilder
func (fb *FilterAttrsBuilder) WithProtocol(p FilterProtocol) *FilterAttrsBuilder {
	fb.filterAttrs.Protocol = p
	return fb
}

// WithParent adds the parent qdisc major id to FilterAttrsBuilder
func (fb *FilterAttrsBuilder) WithParent(major uint32) *FilterAttrsBuilder {
	fb.filterAttrs.Parent = &major
	return fb
}

// WithPriority adds Priority to FilterAttrsBuilder
func (fb *FilterAttrsBuilder) WithPriority(p uint16) *FilterAttrsBuilder {
	fb.filterAttrs.Priority = &p
	return fb
}

// Build builds and returns a new FilterAttrs instance
// Note: calling Build() multiple times will not return a completely
// new object on each call. that is, pointer/slice/map types will not be deep copied.
// to create several objects, different builders should be used.
func (fb *FilterAttrsBuilder) Build() *FilterAttrs {
	return NewFilterAttrs(fb.filterAttrs.Kind, fb.filterAttrs.Protocol, fb.filterAttrs.Parent,
		fb.filterAttrs.Priority)
}

// NewU32FilterBuilder returns a new instance of U32FilterBuilder
func NewU32FilterBuilder() *U32FilterBuilder {
	return &U32FilterBuilder{
		filterAttrsBuilder: NewFilterAttrsBuilder(),
		u32Filter: U32Filter{
			U32: &U32Spec{},
		},
	}
}

// U32FilterBuilder is a U32Filter builder
type U32FilterBuilder struct {
	filterAttrsBuilder *FilterAttrsBuilder
	u32Filter          U32Filter
}

// WithProtocol adds Protocol to U32FilterBuilder
func (fb *U32FilterBuilder) WithProtocol(p FilterProtocol) *U32FilterBuilder {
	fb.filterAttrsBuilder = fb.filterAttrsBuilder.WithProtocol(p)
	return fb
}

// WithParent adds the parent qdisc major id to U32FilterBuilder
func (fb *U32FilterBuilder) WithParent(major uint32) *U32FilterBuilder {
	fb.filterAttrsBuilder = fb.filterAttrsBuilder.WithParent(major)
	return fb
}

// WithPriority adds Priority to U32FilterBuilder
func (fb *U32FilterBuilder) WithPriority(p uint16) *U32FilterBuilder {
	fb.filterAttrsBuilder = fb.filterAttrsBuilder.WithPriority(p)
	return fb
}

// WithMatchDstNetwork adds a destination network match clause to U32FilterBuilder
func (fb *U32FilterBuilder) WithMatchDstNetwork(proto MatchProtocol, network string) *U32FilterBuilder {
	fb.appendMatch(U32Match{Protocol: proto, Field: U32MatchFieldDst, Value: network})
	return fb
}

// WithMatchSrcNetwork adds a source network match clause to U32FilterBuilder
func (fb *U32FilterBuilder) WithMatchSrcNetwork(proto MatchProtocol, network string) *U32FilterBuilder {
	fb.appendMatch(U32Match{Protocol: proto, Field: U32MatchFieldSrc, Value: network})
	return fb
}

// WithMatchDstPort adds an exact destination port match clause to U32FilterBuilder
func (fb *U32FilterBuilder) WithMatchDstPort(proto MatchProtocol, port uint16) *U32FilterBuilder {
	fb.appendMatch(U32Match{
		Protocol: proto,
		Field:    U32MatchFieldDport,
		Value:    strconv.FormatUint(uint64(port), 10),
		Mask:     PortMatchMask,
	})
	return fb
}

// WithMatchSrcPort adds an exact source port match clause to U32FilterBuilder
func (fb *U32FilterBuilder) WithMatchSrcPort(proto MatchProtocol, port uint16) *U32FilterBuilder {
	fb.appendMatch(U32Match{
		Protocol: proto,
		Field:    U32MatchFieldSport,
		Value:    strconv.FormatUint(uint64(port), 10),
		Mask:     PortMatchMask,
	})
	return fb
}

// WithFlowID adds the target class of matching traffic to U32FilterBuilder
func (fb *U32FilterBuilder) WithFlowID(major, minor uint32) *U32FilterBuilder {
	fb.u32Filter.U32.FlowID = NewClassID(major, minor)
	return fb
}

func (fb *U32FilterBuilder) appendMatch(match U32Match) {
	fb.u32Filter.U32.Matches = append(fb.u32Filter.U32.Matches, match)
}

// Build builds and creates a new U32Filter instance
// Note: calling Build() multiple times will not return a completely
// new object on each call. that is, pointer/slice/map types will not be deep copied.
// to create several objects, different builders should be used.
func (fb *U32FilterBuilder) Build() *U32Filter {
	fb.u32Filter.FilterAttrs = *fb.filterAttrsBuilder.Build()
	fb.u32Filter.Kind = FilterKindU32

	return &U32Filter{
		FilterAttrs: *fb.u32Filter.Attrs(),
		U32:         fb.u32Filter.U32,
	}
}
