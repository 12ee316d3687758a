package galois

import (
	"math/rand"
	"testing"
)

func TestBuildTablesZeroEntry(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	h := randBlock(r)
	tbl := BuildTables(h)
	if tbl.M0[0] != (Block{}) || tbl.R[0] != 0 {
		t.Fatalf("entry 0 must stay zero, got M0=%x R=%#x", tbl.M0[0], tbl.R[0])
	}
}

func TestBuildTablesIdentityEntry(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	h := randBlock(r)
	tbl := BuildTables(h)
	// Index 128 (0b10000000) has bit 7 set, the coefficient of x^0 in GCM's
	// bit order, so P(128) = 1 and M0[128] must equal H itself.
	if tbl.M0[128] != h {
		t.Fatalf("M0[128] = %x, want H = %x", tbl.M0[128], h)
	}
}

func TestMulHLinearity(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	h := randBlock(r)
	tbl := BuildTables(h)

	b1 := randBlock(r)
	b2 := randBlock(r)

	lhs := tbl.MulH(b1.Xor(b2))
	rhs := tbl.MulH(b1).Xor(tbl.MulH(b2))

	if lhs != rhs {
		t.Fatalf("MulH not additive: (b1^b2)*H = %x, (b1*H)^(b2*H) = %x", lhs, rhs)
	}
}

func TestBuildTablesRebuildInvariance(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	h := randBlock(r)
	b := randBlock(r)

	t1 := BuildTables(h)
	t2 := BuildTables(h)

	if t1.MulH(b) != t2.MulH(b) {
		t.Fatalf("MulH depends on which build of the tables was used")
	}
}
