// Package ntt provides the number-theoretic transform engine for the
// ML-KEM-768 ring.
//
// Kyber's NTT is "incomplete": q = 3329 has no 512th root of unity, so
// the transform stops after 7 butterfly layers and leaves the polynomial
// as 128 degree-1 residues modulo (X^2 - zeta_i). Pointwise products of
// transformed polynomials therefore need the 2x2 basemul in pkg/poly
// rather than a plain componentwise multiply.
package ntt

import "kybercop/pkg/field"

// Zetas contains the 128 twiddle factors in plain form.
// Zetas[k] = ZetaRoot^brv7(k) mod Q.
var Zetas [128]uint16

func init() {
	for k := 0; k < 128; k++ {
		Zetas[k] = field.Exp(field.ZetaRoot, uint32(field.Brv7(uint8(k))))
	}
}

// NTT computes the forward transform (Cooley-Tukey) in place.
// Input: coefficients in standard order. Output: NTT domain.
//
// Layer spans, group counts, and twiddle indices all derive from the
// layer counter by shifts; there is no multiply or divide in the
// address path.
func NTT(cs *[field.N]uint16) {
	k := 1
	for layer := field.N / 2; layer >= 2; layer >>= 1 {
		for start := 0; start < field.N; start += 2 * layer {
			z := Zetas[k]
			k++
			for j := start; j < start+layer; j++ {
				t := field.Mul(z, cs[j+layer])
				cs[j+layer] = field.Sub(cs[j], t)
				cs[j] = field.Add(cs[j], t)
			}
		}
	}
}

// InvNTT computes the inverse transform (Gentleman-Sande) in place,
// including the final 128^-1 scaling pass.
// Input: coefficients in NTT domain. Output: standard order.
func InvNTT(cs *[field.N]uint16) {
	k := 127
	for layer := 2; layer <= field.N/2; layer <<= 1 {
		for start := 0; start < field.N; start += 2 * layer {
			z := Zetas[k]
			k--
			for j := start; j < start+layer; j++ {
				t := cs[j]
				cs[j] = field.Add(t, cs[j+layer])
				cs[j+layer] = field.Mul(z, field.Sub(cs[j+layer], t))
			}
		}
	}
	for i := 0; i < field.N; i++ {
		cs[i] = field.Mul(cs[i], field.InvNTTScale)
	}
}
