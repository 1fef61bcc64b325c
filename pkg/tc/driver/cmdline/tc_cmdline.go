package cmdline

import (
	"strings"

	"k8s.io/klog/v2"

	"github.com/liangwei1988/tcconfig/pkg/tc/types"
	"github.com/liangwei1988/tcconfig/pkg/tcexec"
)

// NewTcCmdLineImpl creates a new instance of TcCmdLineImpl
func NewTcCmdLineImpl(dev string, tcPath string, log klog.Logger, runner tcexec.Runner) *TcCmdLineImpl {
	return &TcCmdLineImpl{
		netDev: dev,
		log:    log,
		runner: runner,
		tcPath: tcPath,
	}
}

// NewTcCmdLineCaptureImpl creates a new instance of TcCmdLineImpl which hands
// generated command lines of mutating operations to sink instead of executing
// them. show operations still execute through runner.
func NewTcCmdLineCaptureImpl(
	dev string, tcPath string, log klog.Logger, runner tcexec.Runner, sink tcexec.Sink) *TcCmdLineImpl {
	return &TcCmdLineImpl{
		netDev: dev,
		log:    log,
		runner: runner,
		tcPath: tcPath,
		sink:   sink,
	}
}

// TcCmdLineImpl is a concrete implementation of TC interface utilizing TC command line
type TcCmdLineImpl struct {
	netDev string
	log    klog.Logger
	runner tcexec.Runner

	tcPath string
	sink   tcexec.Sink
}

// genCmdLine generates a full tc command line for the given object and verb
func (t *TcCmdLineImpl) genCmdLine(object, verb string, gen types.CmdLineGenerator) string {
	args := []string{t.tcPath, object, verb, "dev", t.netDev}
	args = append(args, gen.GenCmdLineArgs()...)
	return strings.Join(args, " ")
}

// runOrCapture executes cmdLine through the runner or hands it to the sink
// when one is configured
func (t *TcCmdLineImpl) runOrCapture(cmdLine string) (*tcexec.Result, error) {
	if t.sink != nil {
		t.log.V(10).Info("capturing", "cmd", cmdLine)
		if err := t.sink.Put(cmdLine); err != nil {
			return nil, err
		}
		return &tcexec.Result{Cmd: cmdLine, Code: 0}, nil
	}
	return t.runner.Run(cmdLine)
}

// show executes a tc show command for the given object, returning its stdout.
// a failing show is treated as an empty listing.
func (t *TcCmdLineImpl) show(object string) (string, error) {
	res, err := t.runner.Run(strings.Join([]string{t.tcPath, object, "show", "dev", t.netDev}, " "))
	if err != nil {
		return "", err
	}
	if res.Code != 0 {
		t.log.V(4).Info("show command failed",
			"cmd", res.Cmd, "code", res.Code, "stderr", strings.TrimSpace(res.Stderr))
	}
	return res.Stdout, nil
}

// QDiscAdd implements TC interface
func (t *TcCmdLineImpl) QDiscAdd(qdisc types.QDisc) (*tcexec.Result, error) {
	return t.runOrCapture(t.genCmdLine("qdisc", "add", qdisc))
}

// QDiscChange implements TC interface
func (t *TcCmdLineImpl) QDiscChange(qdisc types.QDisc) (*tcexec.Result, error) {
	return t.runOrCapture(t.genCmdLine("qdisc", "change", qdisc))
}

// QDiscDel implements TC interface
func (t *TcCmdLineImpl) QDiscDel(qdisc types.QDisc) (*tcexec.Result, error) {
	return t.runOrCapture(t.genCmdLine("qdisc", "del", qdisc))
}

// QDiscShow implements TC interface
func (t *TcCmdLineImpl) QDiscShow() (string, error) {
	return t.show("qdisc")
}

// ClassAdd implements TC interface
func (t *TcCmdLineImpl) ClassAdd(class types.Class) (*tcexec.Result, error) {
	return t.runOrCapture(t.genCmdLine("class", "add", class))
}

// ClassChange implements TC interface
func (t *TcCmdLineImpl) ClassChange(class types.Class) (*tcexec.Result, error) {
	return t.runOrCapture(t.genCmdLine("class", "change", class))
}

// ClassShow implements TC interface
func (t *TcCmdLineImpl) ClassShow() (string, error) {
	return t.show("class")
}

// FilterAdd implements TC interface
func (t *TcCmdLineImpl) FilterAdd(filter types.Filter) (*tcexec.Result, error) {
	return t.runOrCapture(t.genCmdLine("filter", "add", filter))
}
