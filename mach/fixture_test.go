package mach_test

import (
	"github.com/BurntSushi/toml"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/x86lite/x86lite/insts"
	"github.com/x86lite/x86lite/mach"
)

type fixtureOp struct {
	Op     string `toml:"op"`
	Imm    int64  `toml:"imm"`
	SrcReg string `toml:"src_reg"`
	Dest   string `toml:"dest"`
}

type fixtureWant struct {
	Rax int64 `toml:"rax"`
	OF  bool  `toml:"of"`
	SF  bool  `toml:"sf"`
	ZF  bool  `toml:"zf"`
}

type fixtureCase struct {
	Name string      `toml:"name"`
	Op   []fixtureOp `toml:"op"`
	Want fixtureWant `toml:"want"`
}

type fixtureFile struct {
	Case []fixtureCase `toml:"case"`
}

var regByName = map[string]insts.RegID{
	"rax": insts.Rax, "rbx": insts.Rbx, "rcx": insts.Rcx, "rdx": insts.Rdx,
	"rsi": insts.Rsi, "rdi": insts.Rdi, "rbp": insts.Rbp, "rsp": insts.Rsp,
}

var opByName = map[string]insts.Opcode{
	"movq": insts.Movq, "addq": insts.Addq, "subq": insts.Subq, "andq": insts.Andq,
}

// buildFixtureProgram translates a fixture's straight-line op list into a
// program image, appending a trailing jump to the halt sentinel.
func buildFixtureProgram(ops []fixtureOp) mach.Image {
	program := make([]insts.Instruction, 0, len(ops)+1)
	for _, o := range ops {
		dest := insts.RegOperand(regByName[o.Dest])
		var src insts.Operand
		if o.SrcReg != "" {
			src = insts.RegOperand(regByName[o.SrcReg])
		} else {
			src = insts.ImmOperand(o.Imm)
		}
		in, err := insts.NewInstruction(opByName[o.Op], 0, src, dest)
		if err != nil {
			panic(err)
		}
		program = append(program, in)
	}
	exit, err := insts.NewInstruction(insts.Jmp, 0, insts.ImmOperand(mach.ExitAddr))
	if err != nil {
		panic(err)
	}
	program = append(program, exit)

	seg := make([]mach.SymbolicByte, 0, len(program)*mach.InsSize)
	for _, in := range program {
		seg = append(seg, mach.InsHead(in))
		for i := 1; i < mach.InsSize; i++ {
			seg = append(seg, mach.InsTail())
		}
	}
	return mach.Image{Entry: mach.MemBot, TextPos: mach.MemBot, TextSeg: seg}
}

var _ = Describe("TOML scenario fixtures", func() {
	var fx fixtureFile

	BeforeEach(func() {
		_, err := toml.DecodeFile("testdata/scenarios.toml", &fx)
		Expect(err).To(BeNil())
		Expect(fx.Case).NotTo(BeEmpty())
	})

	It("should run every named case to its expected post-run state", func() {
		for _, c := range fx.Case {
			img := buildFixtureProgram(c.Op)
			m, err := mach.NewMachine(img)
			Expect(err).To(BeNil(), c.Name)

			rax, err := m.Run()
			Expect(err).To(BeNil(), c.Name)
			Expect(rax).To(Equal(c.Want.Rax), c.Name)
			Expect(m.Regs().Flags).To(Equal(mach.Flags{OF: c.Want.OF, SF: c.Want.SF, ZF: c.Want.ZF}), c.Name)
		}
	})
})
