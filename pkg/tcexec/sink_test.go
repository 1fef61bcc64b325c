package tcexec_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	klog "k8s.io/klog/v2"

	"github.com/liangwei1988/tcconfig/pkg/tcexec"
)

var _ = Describe("Sink tests", func() {
	var log = klog.NewKlogr().WithName("sink-test")

	Context("PrintSink", func() {
		It("writes each command line followed by a newline", func() {
			out := &bytes.Buffer{}
			sink := tcexec.NewPrintSink(out)

			Expect(sink.Put("tc qdisc add dev eth0 root handle 28: htb default 1")).To(Succeed())
			Expect(sink.Put("tc class add dev eth0 parent 28: classid 28:1 htb rate 32000000kbit")).To(Succeed())
			Expect(sink.Flush()).To(Succeed())

			Expect(out.String()).To(Equal(
				"tc qdisc add dev eth0 root handle 28: htb default 1\n" +
					"tc class add dev eth0 parent 28: classid 28:1 htb rate 32000000kbit\n"))
		})
	})

	Context("ScriptSink", func() {
		var scriptPath string

		BeforeEach(func() {
			scriptPath = filepath.Join(GinkgoT().TempDir(), "tcconfig.sh")
		})

		It("writes an executable script with shebang", func() {
			sink := tcexec.NewScriptSink(scriptPath, log)
			Expect(sink.Put("tc qdisc add dev eth0 root handle 28: htb default 1")).To(Succeed())
			Expect(sink.Put("tc class add dev eth0 parent 28: classid 28:2 htb rate 100Kbit ceil 100Kbit")).To(Succeed())
			Expect(sink.Flush()).To(Succeed())

			data, err := os.ReadFile(scriptPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal(
				"#!/usr/bin/env bash\n\n" +
					"tc qdisc add dev eth0 root handle 28: htb default 1\n" +
					"tc class add dev eth0 parent 28: classid 28:2 htb rate 100Kbit ceil 100Kbit\n"))

			info, err := os.Stat(scriptPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o755)))
		})

		It("does not rewrite an unchanged script", func() {
			sink := tcexec.NewScriptSink(scriptPath, log)
			Expect(sink.Put("tc qdisc del dev eth0 root")).To(Succeed())
			Expect(sink.Flush()).To(Succeed())

			// drop write permission so a second write would fail
			Expect(os.Chmod(scriptPath, 0o555)).To(Succeed())

			same := tcexec.NewScriptSink(scriptPath, log)
			Expect(same.Put("tc qdisc del dev eth0 root")).To(Succeed())
			Expect(same.Flush()).To(Succeed())
		})

		It("rewrites the script when its content changed", func() {
			sink := tcexec.NewScriptSink(scriptPath, log)
			Expect(sink.Put("tc qdisc del dev eth0 root")).To(Succeed())
			Expect(sink.Flush()).To(Succeed())

			changed := tcexec.NewScriptSink(scriptPath, log)
			Expect(changed.Put("tc qdisc del dev eth0 ingress")).To(Succeed())
			Expect(changed.Flush()).To(Succeed())

			data, err := os.ReadFile(scriptPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("tc qdisc del dev eth0 ingress"))
			Expect(string(data)).ToNot(ContainSubstring("tc qdisc del dev eth0 root\n"))
		})
	})
})
