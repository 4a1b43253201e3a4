package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/x86lite/x86lite/insts"
)

var _ = Describe("Instruction", func() {
	Describe("NewInstruction", func() {
		It("should accept a two-operand instruction with the right arity", func() {
			in, err := insts.NewInstruction(insts.Addq, 0,
				insts.RegOperand(insts.Rbx), insts.RegOperand(insts.Rax))

			Expect(err).To(BeNil())
			Expect(in.Op).To(Equal(insts.Addq))
			src, dest := in.SrcDest()
			Expect(src.Reg).To(Equal(insts.Rbx))
			Expect(dest.Reg).To(Equal(insts.Rax))
		})

		It("should accept a zero-operand Retq", func() {
			in, err := insts.NewInstruction(insts.Retq, 0)

			Expect(err).To(BeNil())
			Expect(in.Operands).To(BeEmpty())
		})

		It("should accept a one-operand Pushq", func() {
			in, err := insts.NewInstruction(insts.Pushq, 0, insts.ImmOperand(42))

			Expect(err).To(BeNil())
			Expect(in.Src().Imm).To(Equal(int64(42)))
		})

		It("should reject an arity mismatch", func() {
			_, err := insts.NewInstruction(insts.Addq, 0, insts.RegOperand(insts.Rax))

			Expect(err).NotTo(BeNil())
			Expect(err.Error()).To(ContainSubstring("expects 2 operand"))
		})

		It("should carry the condition code for Jcc", func() {
			in, err := insts.NewInstruction(insts.Jcc, insts.Eq, insts.ImmOperand(0x400100))

			Expect(err).To(BeNil())
			Expect(in.Cond).To(Equal(insts.Eq))
		})
	})

	Describe("Opcode.SetsFlags", func() {
		It("should mark arithmetic opcodes as flag-affecting", func() {
			Expect(insts.Addq.SetsFlags()).To(BeTrue())
			Expect(insts.Cmpq.SetsFlags()).To(BeTrue())
		})

		It("should mark data-movement and control-flow opcodes as flag-preserving", func() {
			Expect(insts.Movq.SetsFlags()).To(BeFalse())
			Expect(insts.Leaq.SetsFlags()).To(BeFalse())
			Expect(insts.Pushq.SetsFlags()).To(BeFalse())
			Expect(insts.Jmp.SetsFlags()).To(BeFalse())
			Expect(insts.Jcc.SetsFlags()).To(BeFalse())
			Expect(insts.Setcc.SetsFlags()).To(BeFalse())
		})
	})

	Describe("Operand.Unresolved", func() {
		It("should flag a label operand", func() {
			op := insts.LabelOperand("loop_top")
			Expect(op.Unresolved()).To(BeTrue())
		})

		It("should not flag a resolved operand", func() {
			Expect(insts.ImmOperand(1).Unresolved()).To(BeFalse())
			Expect(insts.RegOperand(insts.Rax).Unresolved()).To(BeFalse())
		})
	})
})
