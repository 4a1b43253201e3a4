package mach_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/x86lite/x86lite/mach"
)

var _ = Describe("Memory", func() {
	var m *mach.Memory

	BeforeEach(func() {
		m = mach.NewMemory()
	})

	Describe("SerializeI64 / DeserializeI64", func() {
		It("should round-trip a positive value", func() {
			Expect(m.SerializeI64(mach.MemBot, 0x1122334455)).To(Succeed())
			v, err := m.DeserializeI64(mach.MemBot)
			Expect(err).To(BeNil())
			Expect(v).To(Equal(int64(0x1122334455)))
		})

		It("should round-trip a negative value", func() {
			Expect(m.SerializeI64(mach.MemBot, -42)).To(Succeed())
			v, err := m.DeserializeI64(mach.MemBot)
			Expect(err).To(BeNil())
			Expect(v).To(Equal(int64(-42)))
		})

		It("should round-trip the extreme values", func() {
			for _, want := range []int64{math.MinInt64, math.MaxInt64, 0, -1} {
				Expect(m.SerializeI64(mach.MemBot, want)).To(Succeed())
				got, err := m.DeserializeI64(mach.MemBot)
				Expect(err).To(BeNil())
				Expect(got).To(Equal(want))
			}
		})

		It("should use little-endian byte order", func() {
			Expect(m.SerializeI64(mach.MemBot, 0x0102030405060708)).To(Succeed())
			b0, err := m.At(mach.MemBot)
			Expect(err).To(BeNil())
			Expect(b0.RawByte()).To(Equal(byte(0x08)))
			b7, err := m.At(mach.MemBot + 7)
			Expect(err).To(BeNil())
			Expect(b7.RawByte()).To(Equal(byte(0x01)))
		})
	})

	Describe("AddressToIndex", func() {
		It("should accept every address in range", func() {
			_, err := mach.AddressToIndex(mach.MemBot)
			Expect(err).To(BeNil())
			_, err = mach.AddressToIndex(mach.MemTop - 1)
			Expect(err).To(BeNil())
		})

		It("should segfault below MemBot", func() {
			_, err := mach.AddressToIndex(mach.MemBot - 1)
			Expect(err).To(HaveOccurred())
			var sf *mach.SegfaultError
			Expect(err).To(BeAssignableToTypeOf(sf))
		})

		It("should segfault at or above MemTop", func() {
			_, err := mach.AddressToIndex(mach.MemTop)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SerializeString", func() {
		It("should write the bytes followed by a zero terminator", func() {
			Expect(m.SerializeString(mach.MemBot, "hi")).To(Succeed())
			b0, _ := m.At(mach.MemBot)
			b1, _ := m.At(mach.MemBot + 1)
			b2, _ := m.At(mach.MemBot + 2)
			Expect(b0.RawByte()).To(Equal(byte('h')))
			Expect(b1.RawByte()).To(Equal(byte('i')))
			Expect(b2.RawByte()).To(Equal(byte(0)))
		})
	})

	Describe("non-Raw bytes", func() {
		It("should read as zero through RawByte", func() {
			Expect(m.SetAt(mach.MemBot, mach.InsTail())).To(Succeed())
			v, err := m.At(mach.MemBot)
			Expect(err).To(BeNil())
			Expect(v.RawByte()).To(Equal(byte(0)))
		})
	})
})
