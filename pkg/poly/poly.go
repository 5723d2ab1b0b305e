// Package poly provides polynomial operations over the ML-KEM-768 ring.
package poly

import (
	"kybercop/pkg/field"
	"kybercop/pkg/ntt"
)

// Poly represents a polynomial in Z_Q[x]/<x^256+1>, one register slot's
// worth of data. Coefficients are always canonical, [0, Q-1].
type Poly [field.N]uint16

// Add computes a + b componentwise.
func Add(a, b *Poly, result *Poly) {
	for i := 0; i < field.N; i++ {
		result[i] = field.Add(a[i], b[i])
	}
}

// Sub computes a - b componentwise.
func Sub(a, b *Poly, result *Poly) {
	for i := 0; i < field.N; i++ {
		result[i] = field.Sub(a[i], b[i])
	}
}

// NTT computes the forward transform in place.
func (p *Poly) NTT() {
	ntt.NTT((*[field.N]uint16)(p))
}

// InvNTT computes the inverse transform in place.
func (p *Poly) InvNTT() {
	ntt.InvNTT((*[field.N]uint16)(p))
}

// basemulPair multiplies (a0 + a1 X)(b0 + b1 X) in Z_Q[X]/(X^2 - gamma).
//
// Only 3 reductions, not the naive 5: the two 24-bit partial products of
// each output coefficient are summed before a single wider reduction.
// The accumulated sum stays below ~22.15M, comfortably inside the
// reduction's safe range (field.BarrettMax ~ 77.5M).
func basemulPair(a0, a1, b0, b1, gamma uint16) (c0, c1 uint16) {
	c0 = field.Reduce(uint32(a0)*uint32(b0) +
		uint32(field.Reduce(uint32(a1)*uint32(b1)))*uint32(gamma))
	c1 = field.Reduce(uint32(a0)*uint32(b1) + uint32(a1)*uint32(b0))
	return
}

// BaseMul computes the pointwise product of two NTT-domain polynomials:
// 64 independent groups of two 2x2 products, the second of each group
// using the negated twiddle (the second half of the incomplete-NTT
// decomposition).
func BaseMul(a, b *Poly, result *Poly) {
	for i := 0; i < 64; i++ {
		g := ntt.Zetas[64+i]
		result[4*i], result[4*i+1] = basemulPair(
			a[4*i], a[4*i+1], b[4*i], b[4*i+1], g)
		result[4*i+2], result[4*i+3] = basemulPair(
			a[4*i+2], a[4*i+3], b[4*i+2], b[4*i+3], field.Neg(g))
	}
}

// ValidCompressWidth reports whether d is a supported compression width.
func ValidCompressWidth(d uint8) bool {
	switch d {
	case 1, 4, 5, 10, 11:
		return true
	}
	return false
}

// CompressCoeff computes round(2^d * x / q) mod 2^d without division,
// reusing the Barrett quotient: the off-by-one of the floor estimate is
// corrected by checking whether the remainder still exceeds q.
func CompressCoeff(x uint16, d uint8) uint16 {
	num := (uint32(x) << d) + field.HalfQFloor
	t := uint32((uint64(num) * field.BarrettV) >> field.BarrettShift)
	if num-t*field.Q >= field.Q {
		t++
	}
	return uint16(t & ((1 << d) - 1))
}

// DecompressCoeff computes round(q * y / 2^d) = (q*y + 2^(d-1)) >> d.
func DecompressCoeff(y uint16, d uint8) uint16 {
	return uint16((field.Q*uint32(y) + (1 << (d - 1))) >> d)
}

// Compress applies CompressCoeff to every coefficient of a.
func Compress(a *Poly, d uint8, result *Poly) {
	for i := 0; i < field.N; i++ {
		result[i] = CompressCoeff(a[i], d)
	}
}

// Decompress applies DecompressCoeff to every coefficient of a.
func Decompress(a *Poly, d uint8, result *Poly) {
	for i := 0; i < field.N; i++ {
		result[i] = DecompressCoeff(a[i], d)
	}
}

// SchoolbookMul computes a * b by negacyclic schoolbook convolution
// (x^256 = -1). Quadratic; kept as the test oracle for the transform
// pipeline.
func SchoolbookMul(a, b *Poly) Poly {
	var s [2 * field.N]int64
	for i := 0; i < field.N; i++ {
		for j := 0; j < field.N; j++ {
			s[i+j] += int64(a[i]) * int64(b[j])
		}
	}
	var r Poly
	for i := 0; i < field.N; i++ {
		v := (s[i] - s[field.N+i]) % field.Q
		if v < 0 {
			v += field.Q
		}
		r[i] = uint16(v)
	}
	return r
}
