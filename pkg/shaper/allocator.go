package shaper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

const (
	// DefaultClassMinorID is the minor id of the class carrying traffic not
	// matched by any filter
	DefaultClassMinorID uint32 = 1

	// netemMajorIDOffset is where the netem major id search space begins,
	// relative to the root qdisc major id. it keeps netem handles clear of
	// the per direction root namespaces.
	netemMajorIDOffset uint32 = 128
)

// qdiscPattern extracts "qdisc <kind> <handle>" prefixes from a qdisc
// listing. the handle major is everything up to the colon, so the trailing
// token of a match is the bare hex major.
var qdiscPattern = regexp.MustCompile("qdisc [a-z]+ [a-z0-9]+")

// Inspector queries the traffic control objects currently configured on a
// netdev. listings are the literal tool output, left uninterpreted here.
type Inspector interface {
	// QDiscShow returns the qdisc listing of the netdev
	QDiscShow() (string, error)
	// ClassShow returns the class listing of the netdev
	ClassShow() (string, error)
}

// NewIDAllocator creates an IDAllocator for a single rule application on the
// netdev inspected by inspector. scanClasses selects kernel inspection for
// class minor ids; when false they are assigned from a counter, keeping
// allocation free of kernel queries while commands are captured instead of
// executed or an existing rule is changed in place.
func NewIDAllocator(log klog.Logger, inspector Inspector, algorithm string, qdiscMajorID uint32, scanClasses bool) *IDAllocator {
	return &IDAllocator{
		log:          log,
		inspector:    inspector,
		qdiscMajorID: qdiscMajorID,
		scanClasses:  scanClasses,
		classPattern: regexp.MustCompile(
			fmt.Sprintf("class %s %x:[0-9]+", algorithm, qdiscMajorID)),
	}
}

// IDAllocator computes identifiers unique on a netdev for the objects of one
// shaping rule. allocated ids are memoized for the lifetime of the allocator,
// so an allocator must not outlive its rule application.
type IDAllocator struct {
	log          klog.Logger
	inspector    Inspector
	qdiscMajorID uint32
	scanClasses  bool
	classPattern *regexp.Regexp

	classMinorID    *uint32
	classMinorCount uint32
	netemMajorID    *uint32
}

// ClassMinorID returns the minor id for the rate limited class, allocated on
// first use and reused afterwards
func (a *IDAllocator) ClassMinorID() uint32 {
	if a.classMinorID == nil {
		id := a.AllocateClassMinorID()
		a.classMinorID = &id
		a.log.V(4).Info("allocated class minor id", "minorID", id)
	}
	return *a.classMinorID
}

// NetemMajorID returns the major id for the network emulation qdisc handle,
// allocated on first use and reused afterwards
func (a *IDAllocator) NetemMajorID() uint32 {
	if a.netemMajorID == nil {
		id := a.AllocateNetemMajorID()
		a.netemMajorID = &id
		a.log.V(4).Info("allocated netem major id", "majorID", id)
	}
	return *a.netemMajorID
}

// AllocateClassMinorID computes a class minor id unused on the netdev. when
// class scanning is off ids are handed out from a counter, each call returning
// the next one.
func (a *IDAllocator) AllocateClassMinorID() uint32 {
	if !a.scanClasses {
		a.classMinorCount++
		return DefaultClassMinorID + a.classMinorCount
	}

	existing := a.existingClassMinorIDs()
	next := DefaultClassMinorID
	for {
		if _, used := existing[next]; !used {
			return next
		}
		next++
	}
}

// AllocateNetemMajorID computes a qdisc major id unused on the netdev,
// starting the search one netem offset above the rule's root namespace.
// existing qdiscs are always inspected, regardless of the class scanning mode.
func (a *IDAllocator) AllocateNetemMajorID() uint32 {
	existing := a.existingQDiscMajorIDs()
	next := a.qdiscMajorID + netemMajorIDOffset
	for {
		if _, used := existing[next]; !used {
			return next
		}
		next++
	}
}

func (a *IDAllocator) existingClassMinorIDs() map[uint32]struct{} {
	listing, err := a.inspector.ClassShow()
	if err != nil {
		a.log.V(4).Info("failed to list classes, assuming none", "reason", err)
		listing = ""
	}

	existing := make(map[uint32]struct{})
	for _, item := range a.classPattern.FindAllString(listing, -1) {
		minor, err := strconv.ParseUint(item[strings.LastIndex(item, ":")+1:], 10, 32)
		if err != nil {
			// skip unparsable entries instead of failing the allocation
			continue
		}
		existing[uint32(minor)] = struct{}{}
	}
	a.log.V(4).Info("existing class minor ids", "minorIDs", existing)
	return existing
}

func (a *IDAllocator) existingQDiscMajorIDs() map[uint32]struct{} {
	listing, err := a.inspector.QDiscShow()
	if err != nil {
		a.log.V(4).Info("failed to list qdiscs, assuming none", "reason", err)
		listing = ""
	}

	existing := make(map[uint32]struct{})
	for _, item := range qdiscPattern.FindAllString(listing, -1) {
		fields := strings.Fields(item)
		major, err := strconv.ParseUint(fields[len(fields)-1], 16, 32)
		if err != nil {
			continue
		}
		existing[uint32(major)] = struct{}{}
	}
	a.log.V(4).Info("existing qdisc major ids", "majorIDs", existing)
	return existing
}
