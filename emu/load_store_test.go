package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armsim/emu"
)

var _ = Describe("Load/Store", func() {
	var (
		m       *emu.Machine
		regFile *emu.RegFile
		memory  *emu.Memory
	)

	BeforeEach(func() {
		var err error
		m, err = emu.NewMachine()
		Expect(err).NotTo(HaveOccurred())
		regFile = m.RegFile()
		memory = m.Memory()
	})

	exec := func(line string) error {
		inst, err := m.Instruction(line)
		if err != nil {
			return err
		}
		_, err = inst.Execute(m)
		return err
	}

	Describe("word transfers", func() {
		It("should store and load a word", func() {
			regFile.Write("r0", 512)
			regFile.Write("r1", 256)

			Expect(exec("str r0, [r1]")).To(Succeed())
			Expect(exec("ldr r2, [r1]")).To(Succeed())

			Expect(regFile.Read("r2")).To(Equal(uint32(512)))
			Expect(memory.Read32(256)).To(Equal(uint32(512)))
		})

		It("should add a register offset", func() {
			regFile.Write("r0", 7)
			regFile.Write("r1", 256)
			regFile.Write("r2", 8)

			Expect(exec("str r0, [r1, r2]")).To(Succeed())
			Expect(memory.Read32(264)).To(Equal(uint32(7)))
		})

		It("should add a literal offset", func() {
			Expect(memory.Write32(300, 99)).To(Succeed())
			regFile.Write("r1", 296)

			Expect(exec("ldr r0, [r1, #4]")).To(Succeed())
			Expect(regFile.Read("r0")).To(Equal(uint32(99)))
			Expect(regFile.Read("r1")).To(Equal(uint32(296)))
		})

		It("should accept a negative literal offset", func() {
			Expect(memory.Write32(292, 5)).To(Succeed())
			regFile.Write("r1", 296)

			Expect(exec("ldr r0, [r1, #-4]")).To(Succeed())
			Expect(regFile.Read("r0")).To(Equal(uint32(5)))
		})
	})

	Describe("sub-word transfers", func() {
		It("should store only the low byte with strb", func() {
			Expect(memory.Write32(256, 0xAAAAAAAA)).To(Succeed())
			regFile.Write("r0", 0x12345678)
			regFile.Write("r1", 256)

			Expect(exec("strb r0, [r1]")).To(Succeed())
			Expect(memory.Read32(256)).To(Equal(uint32(0xAAAAAA78)))
		})

		It("should store only the low half-word with strh", func() {
			Expect(memory.Write32(256, 0xAAAAAAAA)).To(Succeed())
			regFile.Write("r0", 0x12345678)
			regFile.Write("r1", 256)

			Expect(exec("strh r0, [r1]")).To(Succeed())
			Expect(memory.Read32(256)).To(Equal(uint32(0xAAAA5678)))
		})

		It("should zero-extend ldrb and ldrh", func() {
			Expect(memory.Write32(256, 0xFFFFFFFF)).To(Succeed())
			regFile.Write("r1", 256)

			Expect(exec("ldrb r0, [r1]")).To(Succeed())
			Expect(regFile.Read("r0")).To(Equal(uint32(0xFF)))

			Expect(exec("ldrh r0, [r1]")).To(Succeed())
			Expect(regFile.Read("r0")).To(Equal(uint32(0xFFFF)))
		})

		It("should sign-extend ldrsb and ldrsh", func() {
			Expect(memory.Write32(256, 0x00008080)).To(Succeed())
			regFile.Write("r1", 256)

			Expect(exec("ldrsb r0, [r1]")).To(Succeed())
			Expect(regFile.Read("r0")).To(Equal(uint32(0xFFFFFF80)))

			Expect(exec("ldrsh r0, [r1]")).To(Succeed())
			Expect(regFile.Read("r0")).To(Equal(uint32(0xFFFF8080)))
		})

		It("should not sign-extend positive values", func() {
			Expect(memory.Write8(256, 0x7F)).To(Succeed())
			regFile.Write("r1", 256)

			Expect(exec("ldrsb r0, [r1]")).To(Succeed())
			Expect(regFile.Read("r0")).To(Equal(uint32(0x7F)))
		})

		It("should reject signed stores when executed", func() {
			regFile.Write("r0", 1)
			regFile.Write("r1", 256)

			Expect(exec("strsb r0, [r1]")).To(MatchError(emu.ErrSignedStore))
			Expect(memory.Read32(256)).To(BeZero())
		})
	})

	Describe("write-back", func() {
		It("should pre-index into the base register", func() {
			regFile.Write("r0", 42)
			regFile.Write("r1", 256)

			Expect(exec("str r0, [r1, #4]!")).To(Succeed())

			Expect(memory.Read32(260)).To(Equal(uint32(42)))
			Expect(regFile.Read("r1")).To(Equal(uint32(260)))
		})

		It("should pre-index on loads", func() {
			Expect(memory.Write32(252, 11)).To(Succeed())
			regFile.Write("r1", 256)

			Expect(exec("ldr r0, [r1, #-4]!")).To(Succeed())

			Expect(regFile.Read("r0")).To(Equal(uint32(11)))
			Expect(regFile.Read("r1")).To(Equal(uint32(252)))
		})

		It("should post-index after the transfer", func() {
			Expect(memory.Write8(256, 'a')).To(Succeed())
			regFile.Write("r0", 256)

			Expect(exec("ldrb r3, [r0], #1")).To(Succeed())

			Expect(regFile.Read("r3")).To(Equal(uint32('a')))
			Expect(regFile.Read("r0")).To(Equal(uint32(257)))
		})

		It("should push onto a descending stack", func() {
			regFile.Write("r0", 77)
			sp := int64(regFile.Read("sp"))

			Expect(exec("str r0, [sp, #-4]!")).To(Succeed())

			Expect(int64(regFile.Read("sp"))).To(Equal(sp - 4))
			Expect(memory.Read32(sp - 4)).To(Equal(uint32(77)))
		})

		It("should load into the base register after write-back", func() {
			Expect(memory.Write32(260, 3)).To(Succeed())
			regFile.Write("r1", 256)

			Expect(exec("ldr r1, [r1, #4]!")).To(Succeed())
			Expect(regFile.Read("r1")).To(Equal(uint32(3)))
		})
	})

	Describe("errors", func() {
		It("should fail out of bounds without write-back", func() {
			size := int64(memory.Size())
			regFile.Write("r1", size)

			Expect(exec("str r0, [r1, #4]!")).To(MatchError(emu.ErrMemoryBounds))
			Expect(int64(regFile.Read("r1"))).To(Equal(size))
		})

		It("should fail on a word straddling the end", func() {
			regFile.Write("r1", int64(memory.Size()-2))

			Expect(exec("ldr r0, [r1]")).To(MatchError(emu.ErrMemoryBounds))
		})

		It("should fail on addresses near the int64 limit", func() {
			Expect(exec("ldr r0, [#9223372036854775806]")).To(MatchError(emu.ErrMemoryBounds))
			Expect(exec("strb r0, [#9223372036854775807]")).To(MatchError(emu.ErrMemoryBounds))
		})

		It("should return an error from Run instead of panicking", func() {
			big, err := emu.NewMachine(emu.WithProgram([]string{"ldr r0, [#9223372036854775806]"}))
			Expect(err).NotTo(HaveOccurred())

			Expect(big.Run(0)).To(MatchError(emu.ErrMemoryBounds))
		})

		It("should require an address operand", func() {
			_, err := m.Instruction("ldr r0, r1")
			Expect(err).To(MatchError(emu.ErrBadOperand))
		})

		It("should require a register to transfer", func() {
			_, err := m.Instruction("str #1, [r1]")
			Expect(err).To(MatchError(emu.ErrBadOperand))
		})

		It("should not register status variants", func() {
			_, err := m.Instruction("ldrs r0, [r1]")
			Expect(err).To(MatchError(emu.ErrUnknownOpcode))
		})

		It("should accept conditional variants", func() {
			regFile.Write("r0", 1)
			regFile.Write("r1", 256)

			Expect(exec("streq r0, [r1]")).To(Succeed())
			Expect(memory.Read32(256)).To(BeZero())
		})
	})
})
