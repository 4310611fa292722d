package memory

import "testing"

func TestFillAndRead32(t *testing.T) {
	var b Bank
	b.Fill(0x01020304)
	if got := b.Read32(0); got != 0x01020304 {
		t.Errorf("Read32(0) = %#x, want 0x01020304", got)
	}
	if got := b.Read8(0); got != 0x01 {
		t.Errorf("Read8(0) = %#x, want 0x01 (big-endian byte 0 is MSB)", got)
	}
}

func TestWrapping(t *testing.T) {
	var b Bank
	b.Write8(Size, 0xAB)
	if got := b.Read8(0); got != 0xAB {
		t.Errorf("address Size did not wrap to 0: got %#x", got)
	}
}

func TestUnalignedRoundTrip(t *testing.T) {
	var b Bank
	b.WriteUnaligned32(3, 0xdeadbeef)
	if got := b.ReadUnaligned32(3); got != 0xdeadbeef {
		t.Errorf("ReadUnaligned32(3) = %#x, want 0xdeadbeef", got)
	}
	// byte 3 must hold the MSB.
	if got := b.Read8(3); got != 0xde {
		t.Errorf("Read8(3) = %#x, want 0xde", got)
	}
}

func TestAlignedMasksAddress(t *testing.T) {
	var b Bank
	b.Write32(4, 0x11223344)
	// An unaligned address into the same natural word reads the aligned word.
	if got := b.Read32(5); got != 0x11223344 {
		t.Errorf("Read32(5) = %#x, want 0x11223344 (aligned-down)", got)
	}
}

func TestBytesAliasesBacking(t *testing.T) {
	var b Bank
	raw := b.Bytes()
	raw[0] = 0x7f
	if got := b.Read8(0); got != 0x7f {
		t.Errorf("Bytes() is not aliasing backing storage: Read8(0) = %#x", got)
	}
}

func Test64RoundTrip(t *testing.T) {
	var b Bank
	b.Write64(0, 0x0102030405060708)
	if got := b.Read64(0); got != 0x0102030405060708 {
		t.Errorf("Read64(0) = %#x, want 0x0102030405060708", got)
	}
	if got := b.ReadUnaligned64(0); got != 0x0102030405060708 {
		t.Errorf("ReadUnaligned64(0) = %#x, want 0x0102030405060708", got)
	}
}
