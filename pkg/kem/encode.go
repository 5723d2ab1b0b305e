package kem

import (
	"github.com/pkg/errors"

	"kybercop/pkg/field"
	"kybercop/pkg/poly"
)

// ByteEncode packs 256 d-bit coefficients into 32*d bytes, LSB-first
// (FIPS 203 Algorithm 4).
func ByteEncode(d int, p *poly.Poly) []byte {
	out := make([]byte, 32*d)
	bit := 0
	for _, c := range p {
		for j := 0; j < d; j++ {
			out[bit>>3] |= byte((c>>j)&1) << (bit & 7)
			bit++
		}
	}
	return out
}

// ByteDecode unpacks 32*d bytes into 256 d-bit coefficients (FIPS 203
// Algorithm 5). For d = 12 the values are reduced mod q.
func ByteDecode(d int, bs []byte, p *poly.Poly) error {
	if len(bs) != 32*d {
		return errors.Errorf("kem: encoded polynomial is %d bytes, want %d", len(bs), 32*d)
	}
	bit := 0
	for i := 0; i < field.N; i++ {
		var v uint16
		for j := 0; j < d; j++ {
			v |= uint16((bs[bit>>3]>>(bit&7))&1) << j
			bit++
		}
		if d == 12 {
			v = field.Reduce(uint32(v))
		}
		p[i] = v
	}
	return nil
}
