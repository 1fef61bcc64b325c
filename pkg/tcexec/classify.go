package tcexec

import (
	"regexp"
	"strings"

	"k8s.io/klog/v2"
)

// stderr patterns emitted by the kernel tooling, used to classify command failures.
var (
	// FileExistsPattern matches a creation command targeting an object that is
	// already configured in the kernel
	FileExistsPattern = regexp.MustCompile("RTNETLINK answers: File exists")
	// NoSuchEntryPattern matches a deletion command targeting absent state
	NoSuchEntryPattern = regexp.MustCompile(
		"RTNETLINK answers: No such file or directory|Cannot delete qdisc with handle of zero")

	opNotPermittedPattern = regexp.MustCompile("RTNETLINK answers: Operation not permitted")
)

// Outcome classifies a command Result
type Outcome int

const (
	// OutcomeSuccess indicates the command exited with code 0
	OutcomeSuccess Outcome = iota
	// OutcomeAcceptableFailure indicates the command failed but its stderr
	// matched RunOptions.AcceptPattern
	OutcomeAcceptableFailure
	// OutcomeFailure indicates the command failed
	OutcomeFailure
)

// RunOptions control how failures of a command are classified
type RunOptions struct {
	// AcceptPattern, when non nil, marks failures whose stderr matches it
	// as acceptable
	AcceptPattern *regexp.Regexp
	// Notice, when non empty, is logged once an acceptable failure occurs
	Notice string
}

// Classify inspects res and returns its Outcome according to opts.
// A permission denial reported by the kernel is never acceptable, regardless
// of AcceptPattern.
func Classify(log klog.Logger, res *Result, opts RunOptions) Outcome {
	if res.Code == 0 {
		return OutcomeSuccess
	}

	if opNotPermittedPattern.MatchString(res.Stderr) {
		log.Error(nil, "operation not permitted",
			"cmd", res.Cmd, "code", res.Code, "stderr", strings.TrimSpace(res.Stderr))
		return OutcomeFailure
	}

	if opts.AcceptPattern != nil && opts.AcceptPattern.MatchString(res.Stderr) {
		if opts.Notice != "" {
			log.Info(opts.Notice)
		}
		return OutcomeAcceptableFailure
	}

	log.Error(nil, "command failed",
		"cmd", res.Cmd, "code", res.Code, "stderr", strings.TrimSpace(res.Stderr))
	return OutcomeFailure
}
