package compute

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/n64rsp/rsp/emu/decode"
	"github.com/n64rsp/rsp/emu/vpu"
)

func TestComputeSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "vpu/compute property suite")
}

var _ = Describe("element-select broadcast", func() {
	It("is stable under repeated application for the passthrough and pair-duplication codes", func() {
		var r vpu.Reg
		for n := 0; n < vpu.Lanes; n++ {
			r.SetLane(n, uint16(n*11+1))
		}
		for _, e := range []uint32{0, 1, 2, 3} {
			twice := r.Broadcast(e).Broadcast(e)
			once := r.Broadcast(e)
			Expect(twice).To(Equal(once), "Broadcast(%d) applied twice should match once", e)
		}
	})

	It("collapses every lane to the selected one for single-lane codes", func() {
		var r vpu.Reg
		for n := 0; n < vpu.Lanes; n++ {
			r.SetLane(n, uint16(n*7+3))
		}
		for e := uint32(8); e <= 15; e++ {
			b := r.Broadcast(e)
			want := r.Lane(int(e - 8))
			for n := 0; n < vpu.Lanes; n++ {
				Expect(b.Lane(n)).To(Equal(want), "Broadcast(%d) lane %d", e, n)
			}
		}
	})
})

var _ = Describe("VADD/VSUB carry-chain symmetry", func() {
	It("round-trips through add then subtract without carry-in", func() {
		var v vpu.VPU
		setLanes(&v.R[1], 100, -100, 0, 0, 0, 0, 0, 0)
		setLanes(&v.R[2], 50, 50, 0, 0, 0, 0, 0, 0)

		Exec(&v, Args{Op: decode.OpVADD, VD: 3, VS: 1, VT: 2, E: 0})
		Exec(&v, Args{Op: decode.OpVSUB, VD: 4, VS: 3, VT: 2, E: 0})

		Expect(v.R[4].SLane(0)).To(Equal(v.R[1].SLane(0)))
		Expect(v.R[4].SLane(1)).To(Equal(v.R[1].SLane(1)))
	})
})

var _ = Describe("reciprocal table identity", func() {
	It("never returns the zero entry for a positive index", func() {
		var v vpu.VPU
		for _, input := range []int16{1, 100, 1000, 32767} {
			setLanes(&v.R[2], input, 0, 0, 0, 0, 0, 0, 0)
			Exec(&v, Args{Op: decode.OpVRCP, VD: 3, VT: 2, E: 0, DE: 0})
			Expect(v.R[3].Lane(0)).NotTo(BeZero(), "VRCP(%d)", input)
		}
	})
})
