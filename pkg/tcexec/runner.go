package tcexec

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"k8s.io/utils/exec"
)

// Result holds the outcome of one executed command line
type Result struct {
	// Cmd is the fully formed command line that was executed
	Cmd string
	// Code is the process exit code, 0 on success
	Code int
	// Stdout is the captured standard output
	Stdout string
	// Stderr is the captured standard error
	Stderr string
}

// Runner executes fully formed command lines.
type Runner interface {
	// Run executes cmdLine and returns its Result. error is returned only
	// when the command could not be executed at all (e.g missing binary);
	// command failures are reported through Result.Code and Result.Stderr.
	Run(cmdLine string) (*Result, error)
}

// NewExecRunner creates a new ExecRunner
func NewExecRunner(log klog.Logger, executor exec.Interface) *ExecRunner {
	return &ExecRunner{
		log:      log,
		executor: executor,
	}
}

// ExecRunner is a concrete implementation of Runner utilizing os processes
type ExecRunner struct {
	log      klog.Logger
	executor exec.Interface
}

// Run implements Runner interface
func (r *ExecRunner) Run(cmdLine string) (*Result, error) {
	fields := strings.Fields(cmdLine)
	if len(fields) == 0 {
		return nil, errors.New("empty command line")
	}

	r.log.V(10).Info("executing", "cmd", cmdLine)
	cmd := r.executor.Command(fields[0], fields[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.SetStdout(&stdout)
	cmd.SetStderr(&stderr)

	res := &Result{Cmd: cmdLine}
	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	if err != nil {
		var exitErr exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrapf(err, "failed to execute command: %s", cmdLine)
		}
		res.Code = exitErr.ExitStatus()
	}
	r.log.V(10).Info("exec result", "cmd", cmdLine, "code", res.Code)
	return res, nil
}
