package tcexec

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/liangwei1988/tcconfig/pkg/utils"
)

const scriptHeader = "#!/usr/bin/env bash\n"

// Sink receives generated command lines when they are captured rather than executed
type Sink interface {
	// Put hands one command line to the sink
	Put(cmdLine string) error
	// Flush finalizes the sink output
	Flush() error
}

// NewPrintSink returns a new PrintSink writing to out
func NewPrintSink(out io.Writer) *PrintSink {
	return &PrintSink{out: out}
}

// PrintSink writes command lines to an io.Writer as they arrive
type PrintSink struct {
	out io.Writer
}

// Put implements Sink interface
func (p *PrintSink) Put(cmdLine string) error {
	_, err := fmt.Fprintln(p.out, cmdLine)
	return err
}

// Flush implements Sink interface
func (p *PrintSink) Flush() error {
	return nil
}

// NewScriptSink returns a new ScriptSink writing to path
func NewScriptSink(path string, log klog.Logger) *ScriptSink {
	return &ScriptSink{
		log:  log,
		path: path,
	}
}

// ScriptSink accumulates command lines and writes them as an executable
// shell script
type ScriptSink struct {
	log   klog.Logger
	path  string
	lines []string
}

// Put implements Sink interface
func (s *ScriptSink) Put(cmdLine string) error {
	s.lines = append(s.lines, cmdLine)
	return nil
}

// Flush implements Sink interface. the script is rewritten only when its
// content changed.
func (s *ScriptSink) Flush() error {
	exist, err := utils.PathExists(s.path)
	if err != nil {
		return errors.Wrapf(err, "failed to determine if path exist: %s", s.path)
	}

	currentBuf := bytes.NewBuffer([]byte{})
	if exist {
		data, err := os.ReadFile(s.path)
		if err != nil {
			s.log.Error(err, "failed to read existing script", "path", s.path)
		} else {
			currentBuf = bytes.NewBuffer(data)
		}
	}

	newBuf := bytes.Buffer{}
	_, _ = newBuf.WriteString(scriptHeader)
	_, _ = newBuf.WriteRune('\n')
	_, _ = newBuf.WriteString(strings.Join(s.lines, "\n"))
	_, _ = newBuf.WriteRune('\n')

	if bytes.Equal(currentBuf.Bytes(), newBuf.Bytes()) {
		s.log.Info("current and new script are the same - no action needed", "path", s.path)
		return nil
	}

	s.log.Info("saving script", "path", s.path)
	return os.WriteFile(s.path, newBuf.Bytes(), 0o755)
}
