package types

import (
	"strconv"
)

const (
	// RateUnitKbit is the unit suffix for shaping class rates
	RateUnitKbit RateUnit = "Kbit"
	// RateUnitKbitLower is the unit suffix used for the default class rate.
	// the kernel parses both spellings identically, the distinction is kept
	// for compatibility with tooling that parses emitted commands.
	RateUnitKbitLower RateUnit = "kbit"
)

// RateUnit is the unit suffix rendered after class rate values
type RateUnit string

// ClassAttrs holds class object attributes
type ClassAttrs struct {
	// Parent is the major id of the qdisc the class nests under
	Parent *uint32
	// ClassID identifies the class
	ClassID *ClassID
}

// NewClassAttrs creates new ClassAttrs instance
func NewClassAttrs(parent *uint32, classID *ClassID) *ClassAttrs {
	return &ClassAttrs{
		Parent:  parent,
		ClassID: classID,
	}
}

// GenCmdLineArgs implements CmdLineGenerator interface, it generates the
// location args shared by all class types
func (ca *ClassAttrs) GenCmdLineArgs() []string {
	args := []string{}

	if ca.Parent != nil {
		args = append(args, "parent", HandleStr(*ca.Parent))
	}

	if ca.ClassID != nil {
		args = append(args, "classid", ca.ClassID.String())
	}

	return args
}

// Class is an interface which represents a TC class object
type Class interface {
	// Attrs returns ClassAttrs for a class
	Attrs() *ClassAttrs
	// Type returns the qdisc type the class belongs to
	Type() QDiscType

	// Driver Specific related Interfaces
	CmdLineGenerator
}

// HTBClass is a hierarchical token bucket class carrying rate limits
type HTBClass struct {
	ClassAttrs
	// RateKbit is the guaranteed rate of the class in Kbit
	RateKbit uint64
	// CeilKbit is the maximum rate the class may borrow up to, omitted when nil
	CeilKbit *uint64
	// BurstKB bounds the bytes that can be sent at ceil speed, omitted when nil
	BurstKB *float64
	// CburstKB bounds the bytes that can be sent at wire speed, omitted when nil
	CburstKB *float64
	// Unit is the rate unit suffix, RateUnitKbit when empty
	Unit RateUnit
}

// Attrs implements Class interface
func (c *HTBClass) Attrs() *ClassAttrs {
	return &c.ClassAttrs
}

// Type implements Class interface
func (c *HTBClass) Type() QDiscType {
	return QDiscHTBType
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (c *HTBClass) GenCmdLineArgs() []string {
	unit := c.Unit
	if unit == "" {
		unit = RateUnitKbit
	}

	args := c.ClassAttrs.GenCmdLineArgs()
	args = append(args, string(QDiscHTBType),
		"rate", strconv.FormatUint(c.RateKbit, 10)+string(unit))

	if c.CeilKbit != nil {
		args = append(args, "ceil", strconv.FormatUint(*c.CeilKbit, 10)+string(unit))
	}
	if c.BurstKB != nil {
		args = append(args, "burst", formatFloat(*c.BurstKB)+"KB")
	}
	if c.CburstKB != nil {
		args = append(args, "cburst", formatFloat(*c.CburstKB)+"KB")
	}

	return args
}

// Builders

// NewHTBClassBuilder returns a new HTBClassBuilder
func NewHTBClassBuilder() *HTBClassBuilder {
	return &HTBClassBuilder{}
}

// HTBClassBuilder is an HTBClass builder
type HTBClassBuilder struct {
	htbClass HTBClass
}

// WithParent adds the parent qdisc major id to HTBClassBuilder
func (cb *HTBClassBuilder) WithParent(major uint32) *HTBClassBuilder {
	cb.htbClass.Parent = &major
	return cb
}

// WithClassID adds ClassID to HTBClassBuilder
func (cb *HTBClassBuilder) WithClassID(major, minor uint32) *HTBClassBuilder {
	cb.htbClass.ClassID = NewClassID(major, minor)
	return cb
}

// WithRate adds a rate in Kbit to HTBClassBuilder
func (cb *HTBClassBuilder) WithRate(kbit uint64) *HTBClassBuilder {
	cb.htbClass.RateKbit = kbit
	return cb
}

// WithCeil adds a ceiling rate in Kbit to HTBClassBuilder
func (cb *HTBClassBuilder) WithCeil(kbit uint64) *HTBClassBuilder {
	cb.htbClass.CeilKbit = &kbit
	return cb
}

// WithBurst adds burst and cburst sizes in KB to HTBClassBuilder
func (cb *HTBClassBuilder) WithBurst(kb float64) *HTBClassBuilder {
	cb.htbClass.BurstKB = &kb
	cb.htbClass.CburstKB = &kb
	return cb
}

// WithRateUnit adds the rate unit suffix to HTBClassBuilder
func (cb *HTBClassBuilder) WithRateUnit(unit RateUnit) *HTBClassBuilder {
	cb.htbClass.Unit = unit
	return cb
}

// Build builds and returns a new HTBClass instance
// Note: calling Build() multiple times will not return a completely
// new object on each call. that is, pointer/slice/map types will not be deep copied.
// to create several objects, different builders should be used.
func (cb *HTBClassBuilder) Build() *HTBClass {
	return &HTBClass{
		ClassAttrs: *NewClassAttrs(cb.htbClass.Parent, cb.htbClass.ClassID),
		RateKbit:   cb.htbClass.RateKbit,
		CeilKbit:   cb.htbClass.CeilKbit,
		BurstKB:    cb.htbClass.BurstKB,
		CburstKB:   cb.htbClass.CburstKB,
		Unit:       cb.htbClass.Unit,
	}
}
