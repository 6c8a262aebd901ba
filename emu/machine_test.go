package emu_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armsim/emu"
)

var _ = Describe("Machine", func() {
	Describe("NewMachine", func() {
		It("should apply defaults", func() {
			m, err := emu.NewMachine()
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Memory().Size()).To(Equal(emu.DefaultMemorySize))
			Expect(m.RegFile().Read("sp")).To(Equal(uint32(emu.StackBase)))
			Expect(m.RegFile().Read("fp")).To(Equal(uint32(emu.StackBase + emu.DefaultStackSize)))
			Expect(m.RegFile().Names()).To(HaveLen(emu.DefaultRegisters + 5))
			Expect(m.Program()).To(HaveLen(1))
			Expect(m.Program()[0].Base).To(Equal("nop"))
		})

		It("should apply options", func() {
			m, err := emu.NewMachine(
				emu.WithMemorySize(1024),
				emu.WithStackSize(256),
				emu.WithRegisters(4),
				emu.WithSource("mov r0, #1\nmov r3, #2"),
			)
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Memory().Size()).To(Equal(1024))
			Expect(m.RegFile().Read("fp")).To(Equal(uint32(emu.StackBase + 256)))
			Expect(m.Program()).To(HaveLen(2))

			_, ok := m.RegFile().Lookup("r4")
			Expect(ok).To(BeFalse())
		})

		It("should reject registers beyond the configured count", func() {
			_, err := emu.NewMachine(
				emu.WithRegisters(2),
				emu.WithProgram([]string{"mov r5, #1"}),
			)

			Expect(err).To(MatchError(emu.ErrBadOperand))
		})

		It("should reject negative sizes", func() {
			_, err := emu.NewMachine(emu.WithMemorySize(-1))

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("program loading", func() {
		It("should bind labels to the next instruction", func() {
			m, err := emu.NewMachine(emu.WithProgram([]string{
				"start:",
				"nop",
				"loop:",
				"",
				"nop",
				"end:",
			}))
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Program()).To(HaveLen(2))
			Expect(m.Labels()).To(Equal(map[string]int{"start": 0, "loop": 1, "end": 2}))
		})

		It("should resolve labels defined further down", func() {
			m, err := emu.NewMachine(emu.WithProgram([]string{
				"b later",
				"nop",
				"later:",
				"nop",
			}))
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Program()[0].Args[0].Get()).To(Equal(int64(2)))
		})

		It("should reject a duplicate label", func() {
			_, err := emu.NewMachine(emu.WithProgram([]string{"a:", "nop", "a:"}))

			Expect(err).To(MatchError(emu.ErrDuplicateLabel))
		})

		It("should append with Insert", func() {
			m, err := emu.NewMachine()
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Insert("here:")).To(Succeed())
			Expect(m.Insert("mov r0, #1")).To(Succeed())
			Expect(m.Insert("b here")).To(Succeed())

			Expect(m.Program()).To(HaveLen(3))
			idx, err := m.LabelIndex("here")
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).To(Equal(1))
		})

		It("should not change the program on a failed Insert", func() {
			m, err := emu.NewMachine()
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Insert("bogus r0")).To(MatchError(emu.ErrUnknownOpcode))
			Expect(m.Program()).To(HaveLen(1))
		})

		It("should not bind labels from a program that fails to decode", func() {
			m, err := emu.NewMachine()
			Expect(err).NotTo(HaveOccurred())

			err = m.LoadProgram([]string{"loop:", "mov r0, #1", "bogus r0", "done:"})
			Expect(err).To(MatchError(emu.ErrUnknownOpcode))
			Expect(m.Program()).To(HaveLen(1))
			Expect(m.Labels()).To(BeEmpty())

			_, err = m.LabelIndex("loop")
			Expect(err).To(MatchError(emu.ErrLabelNotFound))
			Expect(m.Insert("loop:")).To(Succeed())
		})

		It("should report the failing line", func() {
			_, err := emu.NewMachine(emu.WithProgram([]string{"start:", "nop", "bogus r0"}))

			var lineErr *emu.LineError
			Expect(errors.As(err, &lineErr)).To(BeTrue())
			Expect(lineErr.Index).To(Equal(2))
			Expect(lineErr.Text).To(Equal("bogus r0"))
			Expect(err.Error()).To(ContainSubstring("line 3 (bogus r0)"))
		})

		It("should report the line of a duplicate label", func() {
			_, err := emu.NewMachine(emu.WithProgram([]string{"a:", "nop", "a:"}))

			var lineErr *emu.LineError
			Expect(errors.As(err, &lineErr)).To(BeTrue())
			Expect(lineErr.Index).To(Equal(2))
		})

		It("should decode standalone instructions without storing them", func() {
			m, err := emu.NewMachine()
			Expect(err).NotTo(HaveOccurred())

			inst, err := m.Instruction("mov r0, #3")
			Expect(err).NotTo(HaveOccurred())

			taken, err := inst.Execute(m)
			Expect(err).NotTo(HaveOccurred())
			Expect(taken).To(BeTrue())
			Expect(m.RegFile().Read("r0")).To(Equal(uint32(3)))
			Expect(m.Program()).To(HaveLen(1))
		})

		It("should return a copy of the labels", func() {
			m, err := emu.NewMachine(emu.WithProgram([]string{"x:", "nop"}))
			Expect(err).NotTo(HaveOccurred())

			m.Labels()["x"] = 9

			idx, err := m.LabelIndex("x")
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).To(Equal(0))
		})
	})

	Describe("Step", func() {
		It("should advance pc one instruction at a time", func() {
			m, err := emu.NewMachine(emu.WithProgram([]string{"nop", "nop", "nop"}))
			Expect(err).NotTo(HaveOccurred())

			for i := 1; i < 3; i++ {
				more, err := m.Step()
				Expect(err).NotTo(HaveOccurred())
				Expect(more).To(BeTrue())
				Expect(m.RegFile().PC()).To(Equal(uint32(i)))
			}

			more, err := m.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(more).To(BeFalse())
			Expect(m.InstructionCount()).To(Equal(uint64(3)))
		})

		It("should fail when pc is past the program", func() {
			m, err := emu.NewMachine()
			Expect(err).NotTo(HaveOccurred())

			runToEnd(m)

			_, err = m.Step()
			Expect(err).To(MatchError(emu.ErrInstructionNotFound))
		})

		It("should fail on an empty program", func() {
			m, err := emu.NewMachine(emu.WithProgram(nil))
			Expect(err).NotTo(HaveOccurred())

			_, err = m.Step()
			Expect(err).To(MatchError(emu.ErrInstructionNotFound))
		})

		It("should wrap execution errors with the instruction", func() {
			m, err := emu.NewMachine(emu.WithProgram([]string{"div r0, r1, #0"}))
			Expect(err).NotTo(HaveOccurred())

			_, err = m.Step()
			Expect(err).To(MatchError(emu.ErrDivideByZero))
			Expect(err.Error()).To(ContainSubstring("div r0, r1, #0"))
		})

		It("should stop at the instruction limit", func() {
			m, err := emu.NewMachine(
				emu.WithMaxInstructions(5),
				emu.WithProgram([]string{"loop:", "b loop"}),
			)
			Expect(err).NotTo(HaveOccurred())

			err = m.Run(0)

			Expect(err).To(MatchError(emu.ErrMaxInstructions))
			Expect(m.InstructionCount()).To(Equal(uint64(5)))
		})
	})

	Describe("Run", func() {
		It("should run to the end of the program", func() {
			m, err := emu.NewMachine(emu.WithProgram([]string{
				"mov r0, #1",
				"add r0, r0, #1",
			}))
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Run(time.Second)).To(Succeed())
			Expect(m.RegFile().Read("r0")).To(Equal(uint32(2)))
		})

		It("should stop an endless loop at the time limit", func() {
			m, err := emu.NewMachine(emu.WithProgram([]string{"loop:", "b loop"}))
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Run(20 * time.Millisecond)).To(MatchError(emu.ErrTimeLimit))
			Expect(m.InstructionCount()).To(BeNumerically(">", 0))
		})
	})

	Describe("retire hooks", func() {
		It("should see every executed instruction", func() {
			m, err := emu.NewMachine(emu.WithProgram([]string{
				"cmp r0, #1",
				"moveq r1, #1",
				"mov r2, #2",
			}))
			Expect(err).NotTo(HaveOccurred())

			var seen []string
			m.AcceptHook(emu.RetireHook(func(_ *emu.Machine, inst *emu.Instruction) {
				seen = append(seen, inst.Mnemonic)
			}))

			runToEnd(m)

			Expect(seen).To(Equal([]string{"cmp", "moveq", "mov"}))
		})
	})
})
