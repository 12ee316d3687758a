// Package ghash implements the GHASH polynomial accumulator at the heart of
// GCM: a running value Y, initially zero, updated one block at a time as
// Y <- (Y XOR B) * H.
package ghash

import "github.com/cybroslabs/gcmcore-go/galois"

// Hash is a GHASH accumulator over a fixed hash subkey's precomputed tables.
// It does no internal buffering; callers fragment input themselves and pad
// a trailing partial block with zero bytes before calling Absorb.
type Hash struct {
	y      galois.Block
	tables *galois.Tables
}

// New returns a zeroed accumulator for the given table set.
func New(tables *galois.Tables) *Hash {
	return &Hash{tables: tables}
}

// Reset zeroes the running value without discarding the tables.
func (h *Hash) Reset() {
	h.y = galois.Block{}
}

// Sum returns the current accumulator value.
func (h *Hash) Sum() galois.Block {
	return h.y
}

// Absorb XORs a full 16-byte block into Y and multiplies by H. Callers with
// a partial trailing block must zero-pad it to 16 bytes first.
func (h *Hash) Absorb(block galois.Block) {
	h.y = h.tables.MulH(h.y.Xor(block))
}

// AbsorbBytes is a convenience wrapper around Absorb for a fragment of at
// most 16 bytes; shorter fragments are zero-padded on the right as GCM
// requires for a trailing partial block.
func (h *Hash) AbsorbBytes(frag []byte) {
	var b galois.Block
	copy(b[:], frag)
	h.Absorb(b)
}
