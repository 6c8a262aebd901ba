package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armsim/emu"
	"github.com/sarchlab/armsim/insts"
)

var _ = Describe("Arg", func() {
	var m *emu.Machine

	BeforeEach(func() {
		var err error
		m, err = emu.NewMachine()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Literal", func() {
		It("should return its value", func() {
			args, err := m.Args([]string{"#45"})

			Expect(err).NotTo(HaveOccurred())
			Expect(args[0].Get()).To(Equal(int64(45)))
		})

		It("should keep negative and hex values", func() {
			args, err := m.Args([]string{"#-1", "#0x10"})

			Expect(err).NotTo(HaveOccurred())
			Expect(args[0].Get()).To(Equal(int64(-1)))
			Expect(args[1].Get()).To(Equal(int64(16)))
		})

		It("should read leading zeros as decimal", func() {
			args, err := m.Args([]string{"#010", "#08", "#-09", "#-0x10", "#0X1f"})

			Expect(err).NotTo(HaveOccurred())
			Expect(args[0].Get()).To(Equal(int64(10)))
			Expect(args[1].Get()).To(Equal(int64(8)))
			Expect(args[2].Get()).To(Equal(int64(-9)))
			Expect(args[3].Get()).To(Equal(int64(-16)))
			Expect(args[4].Get()).To(Equal(int64(31)))
		})

		It("should move a zero-padded literal", func() {
			inst, err := m.Instruction("mov r0, #010")
			Expect(err).NotTo(HaveOccurred())
			_, err = inst.Execute(m)
			Expect(err).NotTo(HaveOccurred())

			Expect(m.RegFile().Read("r0")).To(BeEquivalentTo(10))
		})

		It("should reject malformed literals", func() {
			_, err := m.Args([]string{"#0b1"})
			Expect(err).To(MatchError(emu.ErrBadOperand))

			_, err = m.Args([]string{"#1_000"})
			Expect(err).To(MatchError(emu.ErrBadOperand))
		})

		It("should refuse writes", func() {
			args, err := m.Args([]string{"#45"})
			Expect(err).NotTo(HaveOccurred())

			Expect(args[0].Set(4)).To(MatchError(emu.ErrImmutableOperand))
			Expect(args[0].Get()).To(Equal(int64(45)))
		})
	})

	Describe("Register", func() {
		It("should read and write the register file", func() {
			args, err := m.Args([]string{"r0", "pc"})
			Expect(err).NotTo(HaveOccurred())

			Expect(args[0].Set(-1)).To(Succeed())
			Expect(args[0].Get()).To(Equal(int64(0xFFFFFFFF)))
			Expect(m.RegFile().Read("r0")).To(Equal(uint32(0xFFFFFFFF)))
			Expect(args[1].String()).To(Equal("pc"))
		})

		It("should share state between handles", func() {
			a, err := m.Reg("r3")
			Expect(err).NotTo(HaveOccurred())
			b, err := m.Reg("r3")
			Expect(err).NotTo(HaveOccurred())

			Expect(a.Set(7)).To(Succeed())
			Expect(b.Get()).To(Equal(int64(7)))
		})

		It("should reject unknown registers", func() {
			_, err := m.Reg("r99")
			Expect(err).To(MatchError(emu.ErrBadOperand))
		})
	})

	Describe("Label", func() {
		It("should resolve to its index and refuse writes", func() {
			l := &emu.Label{Name: "loop", Index: 3}

			Expect(l.Get()).To(Equal(int64(3)))
			Expect(l.Set(1)).To(MatchError(emu.ErrImmutableOperand))
			Expect(l.String()).To(Equal("loop"))
		})
	})

	Describe("Address", func() {
		BeforeEach(func() {
			m.RegFile().Write("r1", 256)
			m.RegFile().Write("r2", 4)
		})

		It("should sum its components", func() {
			args, err := m.Args([]string{"[r1, r2, #128]"})
			Expect(err).NotTo(HaveOccurred())

			addr, ok := args[0].(*emu.Address)
			Expect(ok).To(BeTrue())
			Expect(addr.Get()).To(Equal(int64(256 + 4 + 128)))
			Expect(addr.WriteBack).To(BeFalse())
			Expect(addr.String()).To(Equal("[r1, r2, #128]"))
		})

		It("should not write back when previewed", func() {
			args, err := m.Args([]string{"[r1, #4]!"})
			Expect(err).NotTo(HaveOccurred())

			Expect(args[0].Get()).To(Equal(int64(260)))
			Expect(args[0].Get()).To(Equal(int64(260)))
			Expect(m.RegFile().Read("r1")).To(Equal(uint32(256)))
		})

		It("should write back when resolved", func() {
			args, err := m.Args([]string{"[r1, #4]!"})
			Expect(err).NotTo(HaveOccurred())

			addr := args[0].(*emu.Address)
			a, err := addr.Resolve()

			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(int64(260)))
			Expect(m.RegFile().Read("r1")).To(Equal(uint32(260)))
		})

		It("should refuse direct writes", func() {
			args, err := m.Args([]string{"[r1]"})
			Expect(err).NotTo(HaveOccurred())

			Expect(args[0].Set(1)).To(MatchError(emu.ErrImmutableOperand))
		})

		It("should require a trailing literal for write-back", func() {
			_, err := m.Args([]string{"[r1, #4, r0]!"})
			Expect(err).To(MatchError(emu.ErrWriteBackOffset))

			_, err = m.Args([]string{"[r1]!"})
			Expect(err).To(MatchError(emu.ErrWriteBackOffset))
		})

		It("should reject a missing closing bracket", func() {
			_, err := m.Args([]string{"[r1"})
			Expect(err).To(MatchError(insts.ErrMismatchedBracket))
		})
	})

	It("should reject unknown syntax", func() {
		_, err := m.Args([]string{"r0", "pc", "{r1}"})
		Expect(err).To(MatchError(emu.ErrBadOperand))

		_, err = m.Args([]string{"#abc"})
		Expect(err).To(MatchError(emu.ErrBadOperand))
	})
})
