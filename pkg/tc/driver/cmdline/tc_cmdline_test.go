package cmdline_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	klog "k8s.io/klog/v2"
	"k8s.io/utils/exec"
	testingexec "k8s.io/utils/exec/testing"

	"github.com/liangwei1988/tcconfig/pkg/tc"
	driver "github.com/liangwei1988/tcconfig/pkg/tc/driver/cmdline"
	tctypes "github.com/liangwei1988/tcconfig/pkg/tc/types"
	"github.com/liangwei1988/tcconfig/pkg/tcexec"
)

const (
	fakeNetDev = "fake"
	fakeTcPath = "/usr/sbin/tc"
)

// fakeExecHelper is a wrapper around testingexec.FakeExec which provides some
// utility functionality to aid in testing
type fakeExecHelper struct {
	testingexec.FakeExec
}

// AddFakeCmd adds a new testingexec.FakeCommandAction to fakeExecHelper.CommandScript
// that creates a new *testingexec.FakeCmd with the called arguments to Command()
func (feh *fakeExecHelper) AddFakeCmd() *testingexec.FakeCmd {
	fakeCmd := &testingexec.FakeCmd{}
	var action testingexec.FakeCommandAction = func(cmd string, args ...string) exec.Cmd {
		return testingexec.InitFakeCmd(fakeCmd, cmd, args...)
	}
	feh.CommandScript = append(feh.CommandScript, action)
	return fakeCmd
}

func newFakeAction(stdout, stderr []byte, err error) testingexec.FakeAction {
	return func() ([]byte, []byte, error) {
		return stdout, stderr, err
	}
}

var _ = Describe("TC Cmdline driver tests", func() {
	var fakeExec *fakeExecHelper
	var tcCmdLine tc.TC
	var log = klog.NewKlogr().WithName("tc-driver-cmdline-test")
	var testError = errors.New("test error!")

	BeforeEach(func() {
		fakeExec = &fakeExecHelper{testingexec.FakeExec{}}
		tcCmdLine = driver.NewTcCmdLineImpl(fakeNetDev, fakeTcPath, log, tcexec.NewExecRunner(log, fakeExec))
	})

	Context("QDiscAdd", func() {
		var fakeCmd *testingexec.FakeCmd
		qdiscToAdd := tctypes.NewHTBQDiscBuilder().WithHandle(40).WithDefaultClass(1).Build()
		expectedCmdArgs := []string{fakeTcPath, "qdisc", "add", "dev", fakeNetDev}
		expectedCmdArgs = append(expectedCmdArgs, qdiscToAdd.GenCmdLineArgs()...)

		BeforeEach(func() {
			fakeCmd = fakeExec.AddFakeCmd()
		})

		It("returns zero code when underlying command passes", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, nil))

			res, err := tcCmdLine.QDiscAdd(qdiscToAdd)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Code).To(Equal(0))
			Expect(fakeCmd.Argv).To(BeEquivalentTo(expectedCmdArgs))
		})

		It("returns exit code and stderr when underlying command fails", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(
				nil, []byte("RTNETLINK answers: File exists\n"), testingexec.FakeExitError{Status: 2}))

			res, err := tcCmdLine.QDiscAdd(qdiscToAdd)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Code).To(Equal(2))
			Expect(res.Stderr).To(ContainSubstring("File exists"))
		})

		It("returns error when underlying command cannot be executed", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, testError))

			_, err := tcCmdLine.QDiscAdd(qdiscToAdd)

			Expect(err).To(HaveOccurred())
		})
	})

	Context("QDiscChange", func() {
		var fakeCmd *testingexec.FakeCmd
		qdiscToChange := tctypes.NewNetemQDiscBuilder().
			WithParent(40, 2).
			WithHandle(168).
			WithDelay(10).
			Build()
		expectedCmdArgs := []string{fakeTcPath, "qdisc", "change", "dev", fakeNetDev}
		expectedCmdArgs = append(expectedCmdArgs, qdiscToChange.GenCmdLineArgs()...)

		BeforeEach(func() {
			fakeCmd = fakeExec.AddFakeCmd()
		})

		It("returns zero code when underlying command passes", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, nil))

			res, err := tcCmdLine.QDiscChange(qdiscToChange)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Code).To(Equal(0))
			Expect(fakeCmd.Argv).To(BeEquivalentTo(expectedCmdArgs))
		})
	})

	Context("QDiscDel", func() {
		var fakeCmd *testingexec.FakeCmd
		qdiscToDel := tctypes.NewGenericQdisc(&tctypes.QDiscAttrs{}, tctypes.QDiscRootType)
		expectedCmdArgs := []string{fakeTcPath, "qdisc", "del", "dev", fakeNetDev, "root"}

		BeforeEach(func() {
			fakeCmd = fakeExec.AddFakeCmd()
		})

		It("returns zero code when underlying command passes", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, nil))

			res, err := tcCmdLine.QDiscDel(qdiscToDel)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Code).To(Equal(0))
			Expect(fakeCmd.Argv).To(BeEquivalentTo(expectedCmdArgs))
		})

		It("returns exit code when underlying command fails", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(
				nil, []byte("RTNETLINK answers: No such file or directory\n"), testingexec.FakeExitError{Status: 2}))

			res, err := tcCmdLine.QDiscDel(qdiscToDel)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Code).To(Equal(2))
		})
	})

	Context("QDiscShow", func() {
		var fakeCmd *testingexec.FakeCmd
		expectedCmdArgs := []string{fakeTcPath, "qdisc", "show", "dev", fakeNetDev}
		qdiscShowOut := "qdisc htb 28: root refcnt 2 r2q 10 default 0x1 direct_packets_stat 0\n"

		BeforeEach(func() {
			fakeCmd = fakeExec.AddFakeCmd()
		})

		It("returns the literal listing when underlying command passes", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction([]byte(qdiscShowOut), nil, nil))

			out, err := tcCmdLine.QDiscShow()

			Expect(err).ToNot(HaveOccurred())
			Expect(fakeCmd.Argv).To(BeEquivalentTo(expectedCmdArgs))
			Expect(out).To(Equal(qdiscShowOut))
		})

		It("returns an empty listing when underlying command fails", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(
				nil, []byte("Cannot find device \"fake\"\n"), testingexec.FakeExitError{Status: 1}))

			out, err := tcCmdLine.QDiscShow()

			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(BeEmpty())
		})

		It("returns error when underlying command cannot be executed", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, testError))

			_, err := tcCmdLine.QDiscShow()

			Expect(err).To(HaveOccurred())
		})
	})

	Context("ClassAdd", func() {
		var fakeCmd *testingexec.FakeCmd
		classToAdd := tctypes.NewHTBClassBuilder().
			WithParent(40).
			WithClassID(40, 2).
			WithRate(100).
			WithCeil(100).
			WithBurst(1.25).
			Build()
		expectedCmdArgs := []string{fakeTcPath, "class", "add", "dev", fakeNetDev}
		expectedCmdArgs = append(expectedCmdArgs, classToAdd.GenCmdLineArgs()...)

		BeforeEach(func() {
			fakeCmd = fakeExec.AddFakeCmd()
		})

		It("returns zero code when underlying command passes", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, nil))

			res, err := tcCmdLine.ClassAdd(classToAdd)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Code).To(Equal(0))
			Expect(fakeCmd.Argv).To(BeEquivalentTo(expectedCmdArgs))
		})

		It("returns exit code and stderr when underlying command fails", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(
				nil, []byte("RTNETLINK answers: File exists\n"), testingexec.FakeExitError{Status: 2}))

			res, err := tcCmdLine.ClassAdd(classToAdd)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Code).To(Equal(2))
		})
	})

	Context("ClassChange", func() {
		var fakeCmd *testingexec.FakeCmd
		classToChange := tctypes.NewHTBClassBuilder().
			WithParent(40).
			WithClassID(40, 1).
			WithRate(32000000).
			WithRateUnit(tctypes.RateUnitKbitLower).
			Build()
		expectedCmdArgs := []string{fakeTcPath, "class", "change", "dev", fakeNetDev}
		expectedCmdArgs = append(expectedCmdArgs, classToChange.GenCmdLineArgs()...)

		BeforeEach(func() {
			fakeCmd = fakeExec.AddFakeCmd()
		})

		It("returns zero code when underlying command passes", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, nil))

			res, err := tcCmdLine.ClassChange(classToChange)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Code).To(Equal(0))
			Expect(fakeCmd.Argv).To(BeEquivalentTo(expectedCmdArgs))
		})
	})

	Context("ClassShow", func() {
		var fakeCmd *testingexec.FakeCmd
		expectedCmdArgs := []string{fakeTcPath, "class", "show", "dev", fakeNetDev}
		classShowOut := "class htb 28:1 root prio 0 rate 32Gbit ceil 32Gbit burst 0b cburst 0b\n"

		BeforeEach(func() {
			fakeCmd = fakeExec.AddFakeCmd()
		})

		It("returns the literal listing when underlying command passes", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction([]byte(classShowOut), nil, nil))

			out, err := tcCmdLine.ClassShow()

			Expect(err).ToNot(HaveOccurred())
			Expect(fakeCmd.Argv).To(BeEquivalentTo(expectedCmdArgs))
			Expect(out).To(Equal(classShowOut))
		})
	})

	Context("FilterAdd", func() {
		var fakeCmd *testingexec.FakeCmd
		filterToAdd := tctypes.NewU32FilterBuilder().
			WithProtocol(tctypes.FilterProtocolIPv4).
			WithParent(40).
			WithPriority(1).
			WithMatchDstNetwork(tctypes.MatchProtocolIPv4, "192.168.11.0/24").
			WithFlowID(40, 1).
			Build()
		expectedCmdArgs := []string{fakeTcPath, "filter", "add", "dev", fakeNetDev}
		expectedCmdArgs = append(expectedCmdArgs, filterToAdd.GenCmdLineArgs()...)

		BeforeEach(func() {
			fakeCmd = fakeExec.AddFakeCmd()
		})

		It("returns zero code when underlying command passes", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, nil))

			res, err := tcCmdLine.FilterAdd(filterToAdd)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Code).To(Equal(0))
			Expect(fakeCmd.Argv).To(BeEquivalentTo(expectedCmdArgs))
		})

		It("returns error when underlying command cannot be executed", func() {
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, testError))

			_, err := tcCmdLine.FilterAdd(filterToAdd)

			Expect(err).To(HaveOccurred())
		})
	})

	Context("capture mode", func() {
		var out *bytes.Buffer

		BeforeEach(func() {
			out = &bytes.Buffer{}
			tcCmdLine = driver.NewTcCmdLineCaptureImpl(
				fakeNetDev, "tc", log, tcexec.NewExecRunner(log, fakeExec), tcexec.NewPrintSink(out))
		})

		It("hands mutating command lines to the sink without executing them", func() {
			qdisc := tctypes.NewHTBQDiscBuilder().WithHandle(40).WithDefaultClass(1).Build()

			res, err := tcCmdLine.QDiscAdd(qdisc)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Code).To(Equal(0))
			Expect(out.String()).To(Equal("tc qdisc add dev fake root handle 28: htb default 1\n"))
			Expect(fakeExec.CommandCalls).To(Equal(0))
		})

		It("still executes show commands", func() {
			fakeCmd := fakeExec.AddFakeCmd()
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction([]byte("some classes\n"), nil, nil))

			listing, err := tcCmdLine.ClassShow()

			Expect(err).ToNot(HaveOccurred())
			Expect(listing).To(Equal("some classes\n"))
			Expect(out.String()).To(BeEmpty())
		})
	})
})
