package pipeline

import (
	"testing"

	"github.com/n64rsp/rsp/emu/decode"
)

func TestBeginResetsClocks(t *testing.T) {
	var p Pipeline
	p.Clocks = 99
	p.Begin()
	if p.Clocks != 0 {
		t.Fatalf("Clocks = %d, want 0", p.Clocks)
	}
}

func TestEndChargesThreeCyclesWithNoHazard(t *testing.T) {
	var p Pipeline
	p.Begin()
	p.Issue(decode.OpInfo{RDef: decode.Bit(4)})
	p.End()
	if p.Clocks != 3 {
		t.Fatalf("Clocks = %d, want 3", p.Clocks)
	}
}

func TestScalarHazardOneInstructionBack(t *testing.T) {
	var p Pipeline
	p.Begin()
	p.Issue(decode.OpInfo{RDef: decode.Bit(4)})
	p.End()

	p.Begin()
	p.Issue(decode.OpInfo{RUse: decode.Bit(4)})
	p.End()
	if p.Clocks != 6 {
		t.Fatalf("Clocks = %d, want 6 (one stall cycle pair)", p.Clocks)
	}
}

func TestScalarHazardTwoInstructionsBack(t *testing.T) {
	var p Pipeline
	p.Begin()
	p.Issue(decode.OpInfo{RDef: decode.Bit(4)})
	p.End()

	p.Begin()
	p.Issue(decode.OpInfo{})
	p.End()

	p.Begin()
	p.Issue(decode.OpInfo{RUse: decode.Bit(4)})
	p.End()
	if p.Clocks != 6 {
		t.Fatalf("Clocks = %d, want 6 (single stall cycle plus the base 3)", p.Clocks)
	}
}

func TestVectorHazardWindowIsThreeDeep(t *testing.T) {
	var p Pipeline
	p.Begin()
	p.Issue(decode.OpInfo{VDef: decode.Bit(1)})
	p.End()

	p.Begin()
	p.Issue(decode.OpInfo{})
	p.End()

	p.Begin()
	p.Issue(decode.OpInfo{})
	p.End()

	p.Begin()
	p.Issue(decode.OpInfo{VUse: decode.Bit(1)})
	p.End()
	if p.Clocks != 6 {
		t.Fatalf("Clocks = %d, want 6 (single stall cycle at 3-deep plus the base 3)", p.Clocks)
	}
}

func TestBypassSkipsWriteTracking(t *testing.T) {
	var p Pipeline
	p.Begin()
	p.Issue(decode.OpInfo{Flags: decode.Bypass, RDef: decode.Bit(4)})
	p.End()

	p.Begin()
	p.Issue(decode.OpInfo{RUse: decode.Bit(4)})
	p.End()
	if p.Clocks != 3 {
		t.Fatalf("Clocks = %d, want 3 (bypass op's def should not hazard)", p.Clocks)
	}
}

func TestStoreWaitsForPendingLoad(t *testing.T) {
	var p Pipeline
	p.Begin()
	p.Issue(decode.OpInfo{Flags: decode.Load})
	p.End()

	p.Begin()
	p.Issue(decode.OpInfo{})
	p.End()

	p.Begin()
	p.Issue(decode.OpInfo{Flags: decode.Store})
	p.End()
	if p.Clocks != 6 {
		t.Fatalf("Clocks = %d, want 6 (store stalls one cycle behind a load two slots back)", p.Clocks)
	}
}

func TestBranchSetsSingleIssue(t *testing.T) {
	var p Pipeline
	p.Begin()
	p.Issue(decode.OpInfo{Flags: decode.Branch})
	p.End()
	if !p.SingleIssue {
		t.Fatalf("SingleIssue = false, want true after a branch retires")
	}
}

func TestCanDualIssueRequiresOneScalarOneVector(t *testing.T) {
	scalar := decode.OpInfo{}
	vector := decode.OpInfo{Flags: decode.Vector}
	if CanDualIssue(scalar, scalar) {
		t.Fatal("two scalar ops should not dual-issue")
	}
	if CanDualIssue(vector, vector) {
		t.Fatal("two vector ops should not dual-issue")
	}
	if !CanDualIssue(scalar, vector) {
		t.Fatal("one scalar + one vector op should dual-issue when no conflict exists")
	}
}

func TestCanDualIssueRejectsVectorRegisterConflict(t *testing.T) {
	scalar := decode.OpInfo{}
	vector := decode.OpInfo{Flags: decode.Vector, VDef: decode.Bit(1)}
	scalarUsesSameVReg := decode.OpInfo{VUse: decode.Bit(1)}
	if CanDualIssue(vector, scalarUsesSameVReg) {
		t.Fatal("expected rejection: op1 reads a register op0 writes")
	}
	_ = scalar
}

func TestCanDualIssueRejectsVNopFakeUseCollision(t *testing.T) {
	op0 := decode.OpInfo{Flags: decode.Vector | decode.VNopGroup, VDef: decode.Bit(2)}
	op1 := decode.OpInfo{Flags: decode.VNopGroup, VFake: decode.Bit(2)}
	if CanDualIssue(op0, op1) {
		t.Fatal("expected rejection on VNOP/MTC2/LTV fake-use collision")
	}
}

// op1 (the MTC2/LTV/VNOP side) carries VNopGroup while op0, an ordinary
// vector op, does not -- the gate must still fire since only one side
// needs to be in the group for the fake-use collision to be real.
func TestCanDualIssueRejectsVNopFakeUseCollisionWhenOnlyOp1IsInGroup(t *testing.T) {
	op0 := decode.OpInfo{Flags: decode.Vector, VDef: decode.Bit(2)}
	op1 := decode.OpInfo{Flags: decode.VNopGroup, VFake: decode.Bit(2)}
	if CanDualIssue(op0, op1) {
		t.Fatal("expected rejection: op1 alone carrying VNopGroup must still trigger the fake-use check")
	}
}
