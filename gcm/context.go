// Package gcm implements the Galois/Counter Mode AEAD construction from
// NIST SP 800-38D on top of any 16-byte-block crypto/cipher.Block.
//
// A Context carries one session: SetKey derives the GHASH subkey and
// builds Shoup's multiplication tables; SetIV derives the initial counter
// block J0, either by copying a 96-bit nonce directly or, for any other
// IV length, by running the IV through the GHASH pipeline; AAD and
// Encrypt/Decrypt stream associated data and payload in arbitrarily sized
// fragments; Tag finalizes the running hash into the 128-bit
// authentication tag. Tag verification itself is left to the caller, who
// should compare tags in constant time (subtle.ConstantTimeCompare).
//
// Basic usage:
//
//	var ctx gcm.Context
//	if err := ctx.SetKey(key, gcm.AES); err != nil {
//		return err
//	}
//	if err := ctx.SetIV(nonce); err != nil {
//		return err
//	}
//	if err := ctx.AAD(associatedData); err != nil {
//		return err
//	}
//	if err := ctx.Encrypt(ciphertext, plaintext); err != nil {
//		return err
//	}
//	tag, err := ctx.Tag()
package gcm

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/cybroslabs/gcmcore-go/counter"
	"github.com/cybroslabs/gcmcore-go/galois"
	"github.com/cybroslabs/gcmcore-go/ghash"
	"github.com/cybroslabs/gcmcore-go/tablecache"
)

// CipherAlgo constructs the underlying 128-bit block cipher from a raw
// key. It is the one collaborator GCM depends on but does not implement:
// the core only ever calls Encrypt on the resulting cipher.Block.
type CipherAlgo func(key []byte) (cipher.Block, error)

// AES is the standard CipherAlgo for GCM: crypto/aes already dispatches
// on key length for AES-128/192/256, so a single value covers all three.
var AES CipherAlgo = aes.NewCipher

type state uint8

const (
	stateFresh state = iota
	stateKeyed
	stateReady
	stateDataOpen
	stateFinalized
)

// Context is one GCM session. The zero value is ready for SetKey.
//
// Layout mirrors the specification's context: a running GHASH accumulator,
// two bit-length counters, the current counter block, the hash subkey,
// and the underlying cipher. Context is not safe for concurrent use;
// like any single-owner session, callers serialize their own access.
type Context struct {
	cb    cipher.Block
	h     galois.Block
	cache tablecache.Cache
	acc   *ghash.Hash

	aadBits  uint64
	dataBits uint64
	ctr      counter.Counter

	st state
}

// SetKey initializes the cipher, derives the hash subkey H = E_K(0^128),
// and builds its multiplication tables. Only valid from a fresh Context;
// to start a new session with a different key, construct a new Context
// (or Wipe an old one, which resets it to fresh).
func (c *Context) SetKey(key []byte, algo CipherAlgo) error {
	if c.st != stateFresh {
		return ErrState
	}
	cb, err := algo(key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCipherKey, err)
	}
	if cb.BlockSize() != 16 {
		return ErrBlockSize
	}

	var zero, h galois.Block
	cb.Encrypt(h[:], zero[:])

	c.cb = cb
	c.h = h
	c.ctr = counter.Counter{}
	c.ctr.Set32(1)
	c.acc = ghash.New(c.cache.Tables(h))
	c.st = stateKeyed
	return nil
}

// SetIV derives J0 from iv. A 12-byte IV is copied directly into the
// counter block's nonce field; any other length is reduced through GHASH
// per NIST SP 800-38D section 7.1 step 2. Either way the session is left
// in Ready state with hash and length counters cleared.
func (c *Context) SetIV(iv []byte) error {
	if c.st != stateKeyed && c.st != stateFinalized {
		return ErrState
	}
	if len(iv) == 0 {
		return ErrEmptyIV
	}

	c.acc.Reset()
	c.aadBits = 0
	c.dataBits = 0
	c.ctr = counter.Counter{}
	c.ctr.Set32(1)

	if len(iv) == 12 {
		copy(c.ctr.J[:12], iv)
	} else {
		// Feed iv through the same ghash pipeline used for data, but with
		// no keystream activity: dst stays nil. It is counted against the
		// data-bit total, not the AAD total, per the lengths-block layout
		// GHASH(H, IV || 0^pad || 0^64 || len64(|IV|)) requires.
		c.absorb(iv, true)

		var lengths galois.Block
		binary.BigEndian.PutUint64(lengths[8:16], c.dataBits)
		c.acc.Absorb(lengths)

		c.ctr.J = c.acc.Sum()

		c.acc.Reset()
		c.aadBits = 0
		c.dataBits = 0
	}

	c.st = stateReady
	return nil
}

// AAD absorbs additional authenticated data. It may be called any number
// of times while the session is in Ready state, i.e. before the first
// Encrypt or Decrypt call; only the last AAD call may carry a length that
// is not a multiple of 16.
func (c *Context) AAD(data []byte) error {
	if c.st != stateReady {
		return ErrState
	}
	c.absorb(data, false)
	return nil
}

// absorb feeds data through GHASH in 16-byte fragments with no keystream
// activity, crediting the bit count to either the AAD or data counter.
func (c *Context) absorb(data []byte, countAsData bool) {
	bits := uint64(len(data)) * 8
	for len(data) > 0 {
		n := len(data)
		if n > 16 {
			n = 16
		}
		c.acc.AbsorbBytes(data[:n])
		data = data[n:]
	}
	if countAsData {
		c.dataBits += bits
	} else {
		c.aadBits += bits
	}
}

// Encrypt XORs src with the counter-mode keystream into dst and absorbs
// the resulting ciphertext into GHASH. dst and src may overlap exactly.
// May be called repeatedly; only the last call in the data phase may
// carry a length that is not a multiple of 16.
func (c *Context) Encrypt(dst, src []byte) error {
	if c.st != stateReady && c.st != stateDataOpen {
		return ErrState
	}
	if len(dst) != len(src) {
		return ErrLengthMismatch
	}
	c.processData(dst, src, true)
	c.st = stateDataOpen
	return nil
}

// Decrypt XORs src with the counter-mode keystream into dst and absorbs
// src (the ciphertext) into GHASH. Same fragmentation rules as Encrypt.
// Plaintext is released before tag verification; callers that need
// verified-before-released plaintext must buffer it themselves and check
// Tag before using it.
func (c *Context) Decrypt(dst, src []byte) error {
	if c.st != stateReady && c.st != stateDataOpen {
		return ErrState
	}
	if len(dst) != len(src) {
		return ErrLengthMismatch
	}
	c.processData(dst, src, false)
	c.st = stateDataOpen
	return nil
}

// processData runs the counter-mode fragment loop shared by Encrypt and
// Decrypt. GHASH always absorbs the ciphertext side: dst when encrypting,
// src when decrypting.
func (c *Context) processData(dst, src []byte, encrypt bool) {
	total := uint64(len(src)) * 8
	for len(src) > 0 {
		n := len(src)
		if n > 16 {
			n = 16
		}
		if !encrypt {
			// Absorb before the XOR: dst may alias src.
			c.acc.AbsorbBytes(src[:n])
		}
		c.ctr.Increment()
		ks := c.ctr.Keystream(c.cb)
		for i := 0; i < n; i++ {
			dst[i] = src[i] ^ ks[i]
		}
		if encrypt {
			c.acc.AbsorbBytes(dst[:n])
		}
		src = src[n:]
		dst = dst[n:]
	}
	c.dataBits += total
}

// Tag finalizes the session: absorbs the 64/64-bit AAD/data length
// block, recovers J0 by rewinding the counter by ceil(dataBits/128)
// increments, and XORs E_K(J0) into the running hash to produce the
// 128-bit authentication tag. The session moves to Finalized; only SetIV
// may be called afterward to start a new session under the same key.
func (c *Context) Tag() ([16]byte, error) {
	if c.st != stateReady && c.st != stateDataOpen {
		return [16]byte{}, ErrState
	}

	var lengths galois.Block
	binary.BigEndian.PutUint64(lengths[0:8], c.aadBits)
	binary.BigEndian.PutUint64(lengths[8:16], c.dataBits)
	c.acc.Absorb(lengths)
	y := c.acc.Sum()

	n := uint32((c.dataBits + 127) / 128)
	j0 := c.ctr
	j0.Set32(j0.Get32() - n)
	ks := j0.Keystream(c.cb)

	c.st = stateFinalized
	return y.Xor(ks), nil
}

// Wipe zeroes the hash subkey, the running hash and the counter block,
// drops the cipher, the accumulator and the cached tables, and resets the
// Context to its fresh state, as if newly constructed. The dropped cipher
// key schedule and the tables built from H are released, not overwritten.
// It does not guarantee the underlying memory is never copied by the Go
// runtime; it is a best-effort measure.
func (c *Context) Wipe() {
	c.cb = nil
	zero(c.h[:])
	if c.acc != nil {
		c.acc.Reset()
		c.acc = nil
	}
	c.aadBits, c.dataBits = 0, 0
	zero(c.ctr.J[:])
	c.cache.Reset()
	c.st = stateFresh
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
