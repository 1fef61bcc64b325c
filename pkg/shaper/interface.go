package shaper

import (
	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"
)

const (
	// PhaseOk indicates the phase completed
	PhaseOk PhaseStatus = iota
	// PhaseAlreadyExists indicates the phase targeted configuration that is
	// already present in the kernel
	PhaseAlreadyExists
	// PhaseFatal indicates the phase failed, PhaseResult.Code carries the
	// exit code
	PhaseFatal
)

// PhaseStatus classifies the outcome of one shaping phase
type PhaseStatus int

// PhaseResult is the outcome of one shaping phase
type PhaseResult struct {
	Status PhaseStatus
	// Code is the errno style exit code of a fatal phase
	Code int
}

func okResult() PhaseResult {
	return PhaseResult{Status: PhaseOk}
}

func existsResult() PhaseResult {
	return PhaseResult{Status: PhaseAlreadyExists}
}

func fatalResult(code int) PhaseResult {
	return PhaseResult{Status: PhaseFatal, Code: code}
}

// Shaper builds and applies the shaping rule of one queueing discipline on a
// netdev. implementations report each phase through a PhaseResult, sequencing
// and mode reconciliation are left to SetShaping.
type Shaper interface {
	// Algorithm returns the tc name of the queueing discipline
	Algorithm() string
	// Spec returns the shaping rule the shaper applies
	Spec() *ShapingSpec
	// MakeQDisc establishes the root qdisc and its default class
	MakeQDisc() PhaseResult
	// AddRate creates the rate limited class
	AddRate() PhaseResult
	// SetNetem attaches network emulation behavior under the rate limited class
	SetNetem() PhaseResult
	// AddExcludeFilter directs excluded traffic to the default class
	AddExcludeFilter() PhaseResult
	// AddFilter directs shaped traffic to the rate limited class
	AddFilter() PhaseResult
	// DeleteShaping removes all shaping configuration from the netdev
	DeleteShaping() PhaseResult
}

// SetShaping applies shaper's rule by running its phases in order. a phase
// reporting existing configuration aborts an add mode rule with EINVAL and is
// tolerated in change mode. the first fatal phase aborts with its exit code.
// SetShaping returns 0 when all phases completed.
func SetShaping(log klog.Logger, shaper Shaper) int {
	mode := shaper.Spec().Mode

	phases := []struct {
		name string
		run  func() PhaseResult
	}{
		{"make_qdisc", shaper.MakeQDisc},
		{"add_rate", shaper.AddRate},
		{"set_netem", shaper.SetNetem},
		{"add_exclude_filter", shaper.AddExcludeFilter},
		{"add_filter", shaper.AddFilter},
	}

	for _, phase := range phases {
		res := runPhase(log, phase.name, phase.run)
		switch res.Status {
		case PhaseAlreadyExists:
			if mode == RuleModeAdd {
				return int(unix.EINVAL)
			}
		case PhaseFatal:
			return res.Code
		}
	}
	return 0
}

// DeleteShaping removes shaper's configuration from its netdev, returning 0
// on success or an errno style exit code
func DeleteShaping(log klog.Logger, shaper Shaper) int {
	res := runPhase(log, "delete_shaping", shaper.DeleteShaping)
	if res.Status == PhaseFatal {
		return res.Code
	}
	return 0
}

// runPhase brackets a phase with start and complete log markers
func runPhase(log klog.Logger, name string, run func() PhaseResult) PhaseResult {
	log.V(4).Info("phase start", "phase", name)
	res := run()
	log.V(4).Info("phase complete", "phase", name, "status", res.Status)
	return res
}
