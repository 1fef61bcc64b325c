package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"

	"github.com/liangwei1988/tcconfig/pkg/cli"
	"github.com/liangwei1988/tcconfig/pkg/utils"
)

func main() {
	ctx := utils.SetupSignalHandler()
	cli.InitLogs(ctx)
	opts := cli.NewSetOptions()

	exitCode := 0
	cmd := &cobra.Command{
		Use:  "tcset",
		Long: `tcset applies a traffic shaping rule (bandwidth limit, latency, packet loss and friends) to a network device.`,
		Run: func(cmd *cobra.Command, args []string) {
			exitCode = cli.RunTcSet(klog.NewKlogr().WithName("tcset"), opts)
		},
	}
	opts.AddFlags(cmd.Flags())

	if err := cmd.Execute(); err != nil {
		klog.Flush()
		os.Exit(int(unix.EINVAL))
	}
	klog.Flush()
	os.Exit(exitCode)
}
