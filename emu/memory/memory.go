/*
RSP memory: the two 4 KiB byte banks (IMEM, DMEM) reached by the
interpreter core and, between Step calls, by the embedding host.

Copyright (c) 2024, Richard Cornwell
Copyright (c) 2026

Permission is hereby granted, free of charge, to any person obtaining a
copy of this software and associated documentation files (the "Software"),
to deal in the Software without restriction, including without limitation
the rights to use, copy, modify, merge, publish, distribute, sublicense,
and/or sell copies of the Software, and to permit persons to whom the
Software is furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
DEALINGS IN THE SOFTWARE.
*/
package memory

// Size of each RSP memory bank in bytes.
const Size = 4096

// Mask applied to every address before it touches a Bank.
const Mask = Size - 1

// Bank is one of IMEM or DMEM: 4 KiB, byte addressable, wrapping on
// overflow. The external (bus) view is big-endian; Bank stores bytes in
// that order directly so Bytes() can be handed to a host unmodified.
type Bank struct {
	data [Size]byte
}

// Bytes exposes the bank's backing array for zero-copy host access.
// Callers must not hold the slice across a Step call.
func (b *Bank) Bytes() []byte {
	return b.data[:]
}

// Fill sets the whole bank to a repeating 32-bit big-endian pattern.
func (b *Bank) Fill(value uint32) {
	for i := 0; i < Size; i += 4 {
		b.data[i+0] = byte(value >> 24)
		b.data[i+1] = byte(value >> 16)
		b.data[i+2] = byte(value >> 8)
		b.data[i+3] = byte(value)
	}
}

// Read8 returns the byte at addr.
func (b *Bank) Read8(addr uint32) uint64 {
	return uint64(b.data[addr&Mask])
}

// Write8 stores a byte at addr.
func (b *Bank) Write8(addr uint32, v uint64) {
	b.data[addr&Mask] = byte(v)
}

// Read16 returns a big-endian halfword. addr must be 2-aligned; use
// ReadUnaligned16 otherwise.
func (b *Bank) Read16(addr uint32) uint64 {
	a := addr & Mask & ^uint32(1)
	return uint64(b.data[a])<<8 | uint64(b.data[(a+1)&Mask])
}

// Write16 stores a big-endian halfword at a 2-aligned address.
func (b *Bank) Write16(addr uint32, v uint64) {
	a := addr & Mask & ^uint32(1)
	b.data[a] = byte(v >> 8)
	b.data[(a+1)&Mask] = byte(v)
}

// Read32 returns a big-endian word. addr must be 4-aligned; use
// ReadUnaligned32 otherwise.
func (b *Bank) Read32(addr uint32) uint64 {
	a := addr & Mask & ^uint32(3)
	return uint64(b.data[a])<<24 |
		uint64(b.data[(a+1)&Mask])<<16 |
		uint64(b.data[(a+2)&Mask])<<8 |
		uint64(b.data[(a+3)&Mask])
}

// Write32 stores a big-endian word at a 4-aligned address.
func (b *Bank) Write32(addr uint32, v uint64) {
	a := addr & Mask & ^uint32(3)
	b.data[a] = byte(v >> 24)
	b.data[(a+1)&Mask] = byte(v >> 16)
	b.data[(a+2)&Mask] = byte(v >> 8)
	b.data[(a+3)&Mask] = byte(v)
}

// Read64 returns a big-endian doubleword. addr must be 8-aligned; use
// ReadUnaligned64 otherwise.
func (b *Bank) Read64(addr uint32) uint64 {
	a := addr & Mask & ^uint32(7)
	var v uint64
	for i := uint32(0); i < 8; i++ {
		v = v<<8 | uint64(b.data[(a+i)&Mask])
	}
	return v
}

// Write64 stores a big-endian doubleword at an 8-aligned address.
func (b *Bank) Write64(addr uint32, v uint64) {
	a := addr & Mask & ^uint32(7)
	for i := uint32(0); i < 8; i++ {
		shift := 8 * (7 - i)
		b.data[(a+i)&Mask] = byte(v >> shift)
	}
}

// ReadUnaligned8 is Read8; every address is already legal for a byte.
func (b *Bank) ReadUnaligned8(addr uint32) uint64 { return b.Read8(addr) }

// WriteUnaligned8 is Write8.
func (b *Bank) WriteUnaligned8(addr uint32, v uint64) { b.Write8(addr, v) }

// ReadUnaligned16 composes a big-endian halfword from two byte reads, so
// any address, aligned or not, is legal.
func (b *Bank) ReadUnaligned16(addr uint32) uint64 {
	return uint64(b.data[addr&Mask])<<8 | uint64(b.data[(addr+1)&Mask])
}

// WriteUnaligned16 stores a big-endian halfword byte-wise.
func (b *Bank) WriteUnaligned16(addr uint32, v uint64) {
	b.data[addr&Mask] = byte(v >> 8)
	b.data[(addr+1)&Mask] = byte(v)
}

// ReadUnaligned32 composes a big-endian word from four byte reads.
func (b *Bank) ReadUnaligned32(addr uint32) uint64 {
	var v uint64
	for i := uint32(0); i < 4; i++ {
		v = v<<8 | uint64(b.data[(addr+i)&Mask])
	}
	return v
}

// WriteUnaligned32 stores a big-endian word byte-wise.
func (b *Bank) WriteUnaligned32(addr uint32, v uint64) {
	for i := uint32(0); i < 4; i++ {
		shift := 8 * (3 - i)
		b.data[(addr+i)&Mask] = byte(v >> shift)
	}
}

// ReadUnaligned64 composes a big-endian doubleword from eight byte reads.
func (b *Bank) ReadUnaligned64(addr uint32) uint64 {
	var v uint64
	for i := uint32(0); i < 8; i++ {
		v = v<<8 | uint64(b.data[(addr+i)&Mask])
	}
	return v
}

// WriteUnaligned64 stores a big-endian doubleword byte-wise.
func (b *Bank) WriteUnaligned64(addr uint32, v uint64) {
	for i := uint32(0); i < 8; i++ {
		shift := 8 * (7 - i)
		b.data[(addr+i)&Mask] = byte(v >> shift)
	}
}
