package utils_test

import (
	"net"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/liangwei1988/tcconfig/pkg/utils"
)

var _ = Describe("utils test", func() {
	Context("ParseRateKbit()", func() {
		It("parses bare numbers as kbit", func() {
			Expect(utils.ParseRateKbit("500")).To(Equal(uint64(500)))
		})
		It("parses Kbit suffix", func() {
			Expect(utils.ParseRateKbit("200Kbit")).To(Equal(uint64(200)))
		})
		It("parses Mbit suffix", func() {
			Expect(utils.ParseRateKbit("1Mbit")).To(Equal(uint64(1000)))
		})
		It("parses Gbit suffix with fraction", func() {
			Expect(utils.ParseRateKbit("0.5Gbit")).To(Equal(uint64(500000)))
		})
		It("parses bps style suffixes", func() {
			Expect(utils.ParseRateKbit("100Kbps")).To(Equal(uint64(100)))
			Expect(utils.ParseRateKbit("2Mbps")).To(Equal(uint64(2000)))
		})
		It("ignores surrounding whitespace", func() {
			Expect(utils.ParseRateKbit(" 10Mbit ")).To(Equal(uint64(10000)))
		})
		It("returns error for empty rate", func() {
			_, err := utils.ParseRateKbit("")
			Expect(err).To(HaveOccurred())
		})
		It("returns error for garbage", func() {
			_, err := utils.ParseRateKbit("fastplease")
			Expect(err).To(HaveOccurred())
		})
		It("returns error for zero rate", func() {
			_, err := utils.ParseRateKbit("0Mbit")
			Expect(err).To(HaveOccurred())
		})
		It("returns error for negative rate", func() {
			_, err := utils.ParseRateKbit("-3Mbit")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("IsIPv4()", func() {
		It("returns true for IPv4 IP", func() {
			ip := net.ParseIP("10.10.1.1")
			Expect(utils.IsIPv4(ip)).To(BeTrue())
		})
		It("returns false for IPv6 IP", func() {
			ip := net.ParseIP("2001:0db8:85a3:0000:0000:8a2e:0370:3333")
			Expect(utils.IsIPv4(ip)).To(BeFalse())
		})
		It("returns false for nil IP", func() {
			var ip net.IP
			Expect(utils.IsIPv4(ip)).To(BeFalse())
		})
	})

	Context("IPToIPNet()", func() {
		It("assumes /32 for a bare IPv4 address", func() {
			ipn, err := utils.IPToIPNet("192.168.0.10")
			Expect(err).ToNot(HaveOccurred())
			Expect(ipn.String()).To(Equal("192.168.0.10/32"))
		})
		It("assumes /128 for a bare IPv6 address", func() {
			ipn, err := utils.IPToIPNet("2001:db8::1")
			Expect(err).ToNot(HaveOccurred())
			Expect(ipn.String()).To(Equal("2001:db8::1/128"))
		})
		It("keeps an explicit IPv4 CIDR", func() {
			ipn, err := utils.IPToIPNet("192.168.0.0/24")
			Expect(err).ToNot(HaveOccurred())
			Expect(ipn.String()).To(Equal("192.168.0.0/24"))
		})
		It("returns error for invalid input", func() {
			_, err := utils.IPToIPNet("not-an-ip")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("PathExists()", func() {
		It("returns true for an existing path", func() {
			f, err := os.CreateTemp(GinkgoT().TempDir(), "utils-test")
			Expect(err).ToNot(HaveOccurred())
			defer f.Close()

			exists, err := utils.PathExists(f.Name())
			Expect(err).ToNot(HaveOccurred())
			Expect(exists).To(BeTrue())
		})
		It("returns false for a missing path", func() {
			exists, err := utils.PathExists(filepath.Join(GinkgoT().TempDir(), "no-such-file"))
			Expect(err).ToNot(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})
})
