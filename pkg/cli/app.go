package cli

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"
	"k8s.io/utils/exec"

	"github.com/liangwei1988/tcconfig/pkg/netdev"
	"github.com/liangwei1988/tcconfig/pkg/shaper"
	"github.com/liangwei1988/tcconfig/pkg/tc"
	"github.com/liangwei1988/tcconfig/pkg/tc/driver/cmdline"
	"github.com/liangwei1988/tcconfig/pkg/tcexec"
)

const tcCommandName = "tc"

// RunTcSet applies the shaping rule described by opts, returning the process
// exit code. 0 means the rule is fully applied (or fully rendered, in the
// command capture modes).
func RunTcSet(log klog.Logger, opts *SetOptions) int {
	spec, err := opts.ToShapingSpec()
	if err != nil {
		log.Error(err, "invalid command line")
		return int(unix.EINVAL)
	}

	env, code := setupRuleEnv(log, spec.Device, opts.CommandOutput())
	if code != 0 {
		return code
	}

	htb := shaper.NewHTBShaper(log, spec, env.driver, env.devices, env.output)
	if opts.Overwrite {
		// discard whatever rules the device carries, absent state included
		if code := shaper.DeleteShaping(log, htb); code != 0 {
			return code
		}
	}
	if code := shaper.SetShaping(log, htb); code != 0 {
		return code
	}

	return env.flush(log)
}

// RunTcDel removes the shaping configuration of the device named by opts,
// returning the process exit code
func RunTcDel(log klog.Logger, opts *DelOptions) int {
	spec := &shaper.ShapingSpec{
		Device:    opts.Device,
		Direction: shaper.DirectionOutgoing,
		Mode:      shaper.RuleModeAdd,
	}
	if err := spec.Validate(); err != nil {
		log.Error(err, "invalid command line")
		return int(unix.EINVAL)
	}

	env, code := setupRuleEnv(log, spec.Device, opts.CommandOutput())
	if code != 0 {
		return code
	}

	htb := shaper.NewHTBShaper(log, spec, env.driver, env.devices, env.output)
	if code := shaper.DeleteShaping(log, htb); code != 0 {
		return code
	}

	return env.flush(log)
}

// ruleEnv bundles the collaborators a rule application runs against
type ruleEnv struct {
	driver  tc.TC
	devices netdev.Provider
	output  tcexec.CommandOutput
	sink    tcexec.Sink
}

// setupRuleEnv builds the driver matching the requested output mode. a non
// zero code means setup failed and nothing was touched. the tc binary and the
// device are required only when commands are actually executed.
func setupRuleEnv(log klog.Logger, device string, output tcexec.CommandOutput) (*ruleEnv, int) {
	executor := exec.New()
	runner := tcexec.NewExecRunner(log, executor)
	env := &ruleEnv{
		devices: netdev.NewProviderImpl(log, netdev.NewNetlinkProviderImpl()),
		output:  output,
	}

	if !output.Executes() {
		// captured command lines carry the plain command name so the
		// generated script stays portable across hosts
		if output == tcexec.CommandOutputStdout {
			env.sink = tcexec.NewPrintSink(os.Stdout)
		} else {
			env.sink = tcexec.NewScriptSink(fmt.Sprintf("tcset_%s.sh", device), log)
		}
		env.driver = cmdline.NewTcCmdLineCaptureImpl(device, tcCommandName, log, runner, env.sink)
		return env, 0
	}

	tcPath, err := tcexec.FindBinPath(executor, tcCommandName)
	if err != nil {
		log.Error(err, "tc command is not installed")
		return nil, int(unix.ENOENT)
	}
	if err := env.devices.DeviceExists(device); err != nil {
		log.Error(err, "device not found", "device", device)
		return nil, int(unix.EINVAL)
	}
	env.driver = cmdline.NewTcCmdLineImpl(device, tcPath, log, runner)
	return env, 0
}

// flush hands buffered command lines to their destination in the capture
// modes, a no-op otherwise
func (e *ruleEnv) flush(log klog.Logger) int {
	if e.sink == nil {
		return 0
	}
	if err := e.sink.Flush(); err != nil {
		log.Error(err, "failed to write generated commands")
		return 1
	}
	return 0
}
