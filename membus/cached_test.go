package membus_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32core/membus"
)

var _ = Describe("CachedBus", func() {
	var (
		flat   *membus.Flat
		cached *membus.CachedBus
	)

	BeforeEach(func() {
		flat = membus.NewFlat(4096)
		cached = membus.NewCachedBus(flat, membus.DefaultL1Config())
	})

	It("passes reads and writes through to the backing store", func() {
		Expect(cached.Write(0x10, 0x1234, 4)).To(Succeed())
		v, err := cached.Read(0x10, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(0x1234)))

		direct, err := flat.Read(0x10, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(direct).To(Equal(uint32(0x1234)))
	})

	It("reports a miss on the first access to a line and a hit on the next", func() {
		_, err := cached.Read(0x100, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(cached.LastAccess().Hit).To(BeFalse())

		_, err = cached.Read(0x100, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(cached.LastAccess().Hit).To(BeTrue())
	})

	It("propagates an out-of-bounds fault from the backing store", func() {
		_, err := cached.Read(1_000_000, 4)
		Expect(err).To(HaveOccurred())
	})
})
