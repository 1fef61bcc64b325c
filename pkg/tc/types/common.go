package types

import (
	"fmt"
	"strconv"
)

// CmdLineGenerator is an interface for generating tc command line args for a tc object
type CmdLineGenerator interface {
	// GenCmdLineArgs returns tc command line arguments which can be incorporated
	// when invoking tc command via shell
	GenCmdLineArgs() []string
}

// ClassID identifies a class within the namespace of a qdisc major id
type ClassID struct {
	Major uint32
	Minor uint32
}

// NewClassID creates a new ClassID instance
func NewClassID(major, minor uint32) *ClassID {
	return &ClassID{
		Major: major,
		Minor: minor,
	}
}

// String renders the identifier the way tc expects it, major id in
// hexadecimal, minor id in decimal
func (c *ClassID) String() string {
	return fmt.Sprintf("%x:%d", c.Major, c.Minor)
}

// HandleStr renders a qdisc major id as a tc handle, e.g. "1a:"
func HandleStr(major uint32) string {
	return fmt.Sprintf("%x:", major)
}

// formatFloat renders f in its shortest decimal form
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
