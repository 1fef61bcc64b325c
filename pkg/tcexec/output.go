package tcexec

// CommandOutput determines what happens to generated configuration commands
type CommandOutput string

const (
	// CommandOutputExecute executes commands against the kernel
	CommandOutputExecute CommandOutput = "execute"
	// CommandOutputStdout prints commands to standard output instead of executing
	CommandOutputStdout CommandOutput = "stdout"
	// CommandOutputScript writes commands to an executable shell script instead of executing
	CommandOutputScript CommandOutput = "script"
)

// Executes returns true when commands are executed rather than captured
func (c CommandOutput) Executes() bool {
	return c == CommandOutputExecute || c == ""
}
