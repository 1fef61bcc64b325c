package tc

import (
	tctypes "github.com/liangwei1988/tcconfig/pkg/tc/types"
	"github.com/liangwei1988/tcconfig/pkg/tcexec"
)

// TC defines an interface to interact with Linux Traffic Control subsystem
// an implementation should be associated with a specific network interface (netdev).
//
// mutating operations return the raw command Result, classification of
// failures (already exists, permission denied) is left to the caller.
// the returned error indicates the command could not be issued at all.
type TC interface {
	// QDiscAdd adds the specified QDisc
	QDiscAdd(qdisc tctypes.QDisc) (*tcexec.Result, error)
	// QDiscChange changes the specified QDisc
	QDiscChange(qdisc tctypes.QDisc) (*tcexec.Result, error)
	// QDiscDel deletes the specified QDisc
	QDiscDel(qdisc tctypes.QDisc) (*tcexec.Result, error)
	// QDiscShow returns the literal qdisc listing of the netdev
	QDiscShow() (string, error)

	// ClassAdd adds the specified Class
	ClassAdd(class tctypes.Class) (*tcexec.Result, error)
	// ClassChange changes the specified Class
	ClassChange(class tctypes.Class) (*tcexec.Result, error)
	// ClassShow returns the literal class listing of the netdev
	ClassShow() (string, error)

	// FilterAdd adds the specified Filter
	FilterAdd(filter tctypes.Filter) (*tcexec.Result, error)
}
