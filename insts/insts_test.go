package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armsim/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have a zero Variant type", func() {
		var v insts.Variant
		Expect(v).To(BeZero())
	})

	It("should name every instruction class", func() {
		Expect(insts.ClassNop.String()).To(Equal("nop"))
		Expect(insts.ClassALU.String()).To(Equal("alu"))
		Expect(insts.ClassMultiply.String()).To(Equal("multiply"))
		Expect(insts.ClassDivide.String()).To(Equal("divide"))
		Expect(insts.ClassLoad.String()).To(Equal("load"))
		Expect(insts.ClassStore.String()).To(Equal("store"))
		Expect(insts.ClassBranch.String()).To(Equal("branch"))
		Expect(insts.Class(99).String()).To(Equal("unknown"))
	})
})
