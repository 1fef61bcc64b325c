package types_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/liangwei1988/tcconfig/pkg/tc/types"
)

var _ = Describe("Filter tests", func() {
	testFilterIPv4 := types.NewU32FilterBuilder().
		WithProtocol(types.FilterProtocolIPv4).
		WithParent(40).
		WithPriority(1).
		WithMatchDstNetwork(types.MatchProtocolIPv4, "192.168.11.0/24").
		WithMatchSrcNetwork(types.MatchProtocolIPv4, "10.0.0.0/8").
		WithMatchDstPort(types.MatchProtocolIPv4, 8080).
		WithMatchSrcPort(types.MatchProtocolIPv4, 5201).
		WithFlowID(40, 1).
		Build()
	testFilterIPv6 := types.NewU32FilterBuilder().
		WithProtocol(types.FilterProtocolIPv6).
		WithParent(40).
		WithPriority(2).
		WithMatchDstNetwork(types.MatchProtocolIPv6, "2001:db8::/32").
		WithFlowID(40, 2).
		Build()

	Describe("Creational", func() {
		Context("U32FilterBuilder", func() {
			It("Builds U32Filter with correct attributes", func() {
				Expect(testFilterIPv4.Kind).To(Equal(types.FilterKindU32))
				Expect(testFilterIPv4.Protocol).To(Equal(types.FilterProtocolIPv4))
				Expect(*testFilterIPv4.Parent).To(BeEquivalentTo(40))
				Expect(*testFilterIPv4.Priority).To(BeEquivalentTo(1))
				Expect(testFilterIPv4.U32).ToNot(BeNil())
				Expect(testFilterIPv4.U32.Matches).To(HaveLen(4))
				Expect(testFilterIPv4.U32.FlowID.String()).To(Equal("28:1"))
			})
		})
	})

	Describe("Filter Interface", func() {
		Context("Attrs()", func() {
			It("returns expected attrs", func() {
				Expect(testFilterIPv4.Attrs().Protocol).To(Equal(types.FilterProtocolIPv4))
				Expect(*testFilterIPv4.Attrs().Parent).To(BeEquivalentTo(40))
				Expect(*testFilterIPv4.Attrs().Priority).To(BeEquivalentTo(1))
			})
		})

		Context("Equals()", func() {
			It("returns true if filters are equal", func() {
				other := types.NewU32FilterBuilder().
					WithProtocol(types.FilterProtocolIPv4).
					WithParent(40).
					WithPriority(1).
					WithMatchDstNetwork(types.MatchProtocolIPv4, "192.168.11.0/24").
					WithMatchSrcNetwork(types.MatchProtocolIPv4, "10.0.0.0/8").
					WithMatchDstPort(types.MatchProtocolIPv4, 8080).
					WithMatchSrcPort(types.MatchProtocolIPv4, 5201).
					WithFlowID(40, 1).
					Build()
				Expect(testFilterIPv4.Equals(other)).To(BeTrue())
			})

			It("returns false if filters are not equal - different protocol", func() {
				Expect(testFilterIPv4.Equals(testFilterIPv6)).To(BeFalse())
			})

			It("returns false if filters are not equal - different matches", func() {
				other := types.NewU32FilterBuilder().
					WithProtocol(types.FilterProtocolIPv4).
					WithParent(40).
					WithPriority(1).
					WithMatchDstNetwork(types.MatchProtocolIPv4, "192.168.12.0/24").
					WithFlowID(40, 1).
					Build()
				Expect(testFilterIPv4.Equals(other)).To(BeFalse())
			})

			It("returns false if filters are not equal - different flowid", func() {
				other := types.NewU32FilterBuilder().
					WithProtocol(types.FilterProtocolIPv6).
					WithParent(40).
					WithPriority(2).
					WithMatchDstNetwork(types.MatchProtocolIPv6, "2001:db8::/32").
					WithFlowID(40, 3).
					Build()
				Expect(testFilterIPv6.Equals(other)).To(BeFalse())
			})
		})

		Context("CmdLineGenerator", func() {
			It("generates expected command line args - ipv4", func() {
				expectedArgs := []string{
					"protocol", "ip", "parent", "28:", "prio", "1", "u32",
					"match", "ip", "dst", "192.168.11.0/24",
					"match", "ip", "src", "10.0.0.0/8",
					"match", "ip", "dport", "8080", "0xffff",
					"match", "ip", "sport", "5201", "0xffff",
					"flowid", "28:1"}
				Expect(testFilterIPv4.GenCmdLineArgs()).To(Equal(expectedArgs))
			})

			It("generates expected command line args - ipv6", func() {
				expectedArgs := []string{
					"protocol", "ipv6", "parent", "28:", "prio", "2", "u32",
					"match", "ip6", "dst", "2001:db8::/32",
					"flowid", "28:2"}
				Expect(testFilterIPv6.GenCmdLineArgs()).To(Equal(expectedArgs))
			})
		})
	})
})
