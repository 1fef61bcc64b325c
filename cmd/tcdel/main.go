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
	opts := cli.NewDelOptions()

	exitCode := 0
	cmd := &cobra.Command{
		Use:  "tcdel",
		Long: `tcdel removes the traffic shaping configuration of a network device, tolerating devices that carry none.`,
		Run: func(cmd *cobra.Command, args []string) {
			exitCode = cli.RunTcDel(klog.NewKlogr().WithName("tcdel"), opts)
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
