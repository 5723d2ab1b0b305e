// Package cbd provides the centered-binomial noise sampler (eta = 2).
package cbd

import (
	"io"

	"github.com/pkg/errors"

	"kybercop/pkg/field"
	"kybercop/pkg/poly"
)

// InputBytes is the number of stream bytes one sample run consumes.
const InputBytes = field.N / 2

// coeffFromNibble maps one nibble to a CBD(2) coefficient:
// (b0 + b1) - (b2 + b3), folded into [0, Q-1].
func coeffFromNibble(nib byte) uint16 {
	pos := uint16(nib&1) + uint16((nib>>1)&1)
	neg := uint16((nib>>2)&1) + uint16((nib>>3)&1)
	if pos >= neg {
		return pos - neg
	}
	return field.Q - (neg - pos)
}

// Sample consumes exactly 128 bytes from src and fills p with 256
// centered-binomial coefficients. Each byte yields the coefficient pair
// (2i, 2i+1): low nibble first, high nibble second.
//
// src is the external byte-stream handshake; a blocking reader gives
// the producer-side backpressure the sampler relies on.
func Sample(src io.ByteReader, p *poly.Poly) error {
	for i := 0; i < InputBytes; i++ {
		b, err := src.ReadByte()
		if err != nil {
			return errors.Wrapf(err, "noise stream ended after %d of %d bytes", i, InputBytes)
		}
		p[2*i] = coeffFromNibble(b & 0xF)
		p[2*i+1] = coeffFromNibble(b >> 4)
	}
	return nil
}

// SampleBytes samples from an in-memory buffer of exactly 128 bytes.
func SampleBytes(bs []byte, p *poly.Poly) {
	if len(bs) != InputBytes {
		panic("cbd: input must be exactly 128 bytes")
	}
	for i, b := range bs {
		p[2*i] = coeffFromNibble(b & 0xF)
		p[2*i+1] = coeffFromNibble(b >> 4)
	}
}
