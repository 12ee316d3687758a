// Package counter implements GCM's counter-mode keystream generator: a
// 128-bit block viewed as a 96-bit IV field followed by a 32-bit big-endian
// counter that increments modulo 2^32, never touching the IV field.
package counter

import (
	"crypto/cipher"
	"encoding/binary"

	"github.com/cybroslabs/gcmcore-go/galois"
)

// Counter holds the current counter block J.
type Counter struct {
	J galois.Block
}

// Set32 overwrites the low 32 bits of J (the counter field) with val,
// leaving the 96-bit IV field untouched.
func (c *Counter) Set32(val uint32) {
	binary.BigEndian.PutUint32(c.J[12:], val)
}

// Get32 returns the current value of the 32-bit counter field.
func (c *Counter) Get32() uint32 {
	return binary.BigEndian.Uint32(c.J[12:])
}

// Increment adds 1 to the 32-bit counter field modulo 2^32.
func (c *Counter) Increment() {
	c.Set32(c.Get32() + 1)
}

// Keystream encrypts the current counter block with cb, producing one
// 16-byte keystream block. It does not increment the counter; callers
// increment before generating each successive block, per GCM's inc32-then-
// encrypt ordering.
func (c *Counter) Keystream(cb cipher.Block) galois.Block {
	var out galois.Block
	cb.Encrypt(out[:], c.J[:])
	return out
}
