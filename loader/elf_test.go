package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32core/loader"
)

// writeMinimalELF32 assembles the smallest valid 32-bit little-endian ELF
// executable with one PT_LOAD segment: a 52-byte file header immediately
// followed by one 32-byte program header, followed by the segment's raw
// bytes. There is no section header table — LoadELF never looks at one.
func writeMinimalELF32(path string, machine uint16, entry uint32, payload []byte) error {
	const ehSize = 52
	const phSize = 32
	vaddr := uint32(0x1000)
	dataOff := uint32(ehSize + phSize)

	buf := make([]byte, dataOff+uint32(len(payload)))

	copy(buf[0:4], []byte{0x7f, 'E', 'L', 'F'})
	buf[4] = 1 // ELFCLASS32
	buf[5] = 1 // ELFDATA2LSB
	buf[6] = 1 // EV_CURRENT

	le := binary.LittleEndian
	le.PutUint16(buf[16:], 2) // ET_EXEC
	le.PutUint16(buf[18:], machine)
	le.PutUint32(buf[20:], 1) // e_version
	le.PutUint32(buf[24:], entry+vaddr)
	le.PutUint32(buf[28:], ehSize) // e_phoff
	le.PutUint32(buf[32:], 0)      // e_shoff
	le.PutUint32(buf[36:], 0)      // e_flags
	le.PutUint16(buf[40:], ehSize)
	le.PutUint16(buf[42:], phSize)
	le.PutUint16(buf[44:], 1) // e_phnum
	le.PutUint16(buf[46:], 0)
	le.PutUint16(buf[48:], 0)
	le.PutUint16(buf[50:], 0)

	ph := buf[ehSize:]
	le.PutUint32(ph[0:], 1)       // PT_LOAD
	le.PutUint32(ph[4:], dataOff) // p_offset
	le.PutUint32(ph[8:], vaddr)   // p_vaddr
	le.PutUint32(ph[12:], vaddr)  // p_paddr
	le.PutUint32(ph[16:], uint32(len(payload)))
	le.PutUint32(ph[20:], uint32(len(payload)))
	le.PutUint32(ph[24:], 5) // PF_R | PF_X
	le.PutUint32(ph[28:], 4)

	copy(buf[dataOff:], payload)

	return os.WriteFile(path, buf, 0o644)
}

var _ = Describe("LoadELF", func() {
	const emRISCV = 0xF3

	It("loads a minimal RISC-V ELF32 executable", func() {
		path := filepath.Join(GinkgoT().TempDir(), "prog.elf")
		payload := []byte{0x13, 0x00, 0x00, 0x00} // addi x0, x0, 0
		Expect(writeMinimalELF32(path, emRISCV, 0, payload)).To(Succeed())

		prog, err := loader.LoadELF(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.EntryPoint).To(Equal(uint32(0x1000)))
		Expect(prog.Segments).To(HaveLen(1))
		Expect(prog.Segments[0].VirtAddr).To(Equal(uint32(0x1000)))
		Expect(prog.Segments[0].Data).To(Equal(payload))
		Expect(prog.Segments[0].Flags & loader.SegmentFlagExecute).NotTo(BeZero())
	})

	It("rejects a non-RISC-V machine type", func() {
		path := filepath.Join(GinkgoT().TempDir(), "prog.elf")
		Expect(writeMinimalELF32(path, 0x28 /* EM_ARM */, 0, []byte{0, 0, 0, 0})).To(Succeed())

		_, err := loader.LoadELF(path)
		Expect(err).To(HaveOccurred())
	})
})
