package galois

import (
	"math/rand"
	"testing"
)

func randBlock(r *rand.Rand) Block {
	var b Block
	for i := range b {
		b[i] = byte(r.Intn(256))
	}
	return b
}

func TestXorSelfInverse(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	a := randBlock(r)
	b := randBlock(r)
	if got := a.Xor(b).Xor(b); got != a {
		t.Fatalf("xor not self-inverse: got %x want %x", got, a)
	}
}

func TestMulXZero(t *testing.T) {
	var zero Block
	if got := MulX(zero); got != zero {
		t.Fatalf("MulX(0) = %x, want 0", got)
	}
}

func TestMulXOverflowReducesByFieldPoly(t *testing.T) {
	// Block with only the highest-degree bit set: the 0x01 bit of byte 15,
	// i.e. the x^127 coefficient, so multiplying by x overflows.
	var b Block
	b[15] = 0x01
	got := MulX(b)
	want := Block{}
	want[0] = fieldPoly
	if got != want {
		t.Fatalf("MulX overflow: got %x want %x", got, want)
	}
}

func TestMulX8EightTimesMulX(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	h := randBlock(r)
	tbl := BuildTables(h)
	b := randBlock(r)

	viaMulX8 := tbl.MulX8(b)

	viaEightMulX := b
	for i := 0; i < 8; i++ {
		viaEightMulX = MulX(viaEightMulX)
	}

	if viaMulX8 != viaEightMulX {
		t.Fatalf("MulX8 != 8x MulX: got %x want %x", viaMulX8, viaEightMulX)
	}
}

func TestReverseInvolution(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if reverse(reverse(b)) != b {
			t.Fatalf("reverse not involutive for %#x", b)
		}
	}
}
