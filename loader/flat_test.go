package loader_test

import (
	"bytes"
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32core/loader"
)

var _ = Describe("LoadFlat", func() {
	It("reads a little-endian word stream into one segment at address 0", func() {
		var buf bytes.Buffer
		words := []uint32{0x00000013, 0xdeadbeef, 0x00000000}
		for _, w := range words {
			Expect(binary.Write(&buf, binary.LittleEndian, w)).To(Succeed())
		}

		prog, err := loader.LoadFlat(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.EntryPoint).To(BeZero())
		Expect(prog.Segments).To(HaveLen(1))
		Expect(prog.Segments[0].VirtAddr).To(BeZero())
		Expect(prog.Segments[0].Data).To(HaveLen(12))
		Expect(binary.LittleEndian.Uint32(prog.Segments[0].Data[4:8])).To(Equal(uint32(0xdeadbeef)))
	})

	It("rejects a stream whose length is not a multiple of 4 bytes", func() {
		_, err := loader.LoadFlat(bytes.NewReader([]byte{1, 2, 3}))
		Expect(err).To(HaveOccurred())
	})

	It("accepts an empty stream as a zero-length segment", func() {
		prog, err := loader.LoadFlat(bytes.NewReader(nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Segments[0].Data).To(BeEmpty())
	})
})
