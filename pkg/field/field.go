// Package field provides modular arithmetic for the ML-KEM-768 ring.
//
// The field is Z_Q where Q = 3329 and the ring is Z_Q[x]/<x^256+1>.
// Every value is kept in canonical form [0, Q-1] at all times: each
// operation both expects and returns canonical values, mirroring the
// range invariant of the register bank.
package field

const (
	// Q is the prime modulus.
	Q = 3329

	// N is the polynomial degree.
	N = 256

	// ZetaRoot is a primitive 256th root of unity mod Q.
	ZetaRoot = 17

	// BarrettV is floor(2^26 / Q). The floor form (not the textbook
	// ceiling) guarantees the quotient estimate never overestimates,
	// so the remainder is never negative and no signed representation
	// is needed anywhere.
	BarrettV = 20158

	// BarrettShift is the shift paired with BarrettV.
	BarrettShift = 26

	// BarrettMax is the exclusive upper bound on Reduce inputs; above
	// it the quotient estimate can be short by more than one.
	BarrettMax = 77517490

	// InvNTTScale is 128^-1 mod Q, the scaling applied after the 7
	// inverse NTT layers.
	InvNTTScale = 3303

	// Eta is the centered binomial distribution parameter.
	Eta = 2

	// HalfQFloor is floor((Q-1)/2), the rounding addend used by Compress.
	HalfQFloor = 1664
)

// Add returns (a + b) mod Q for canonical a, b.
func Add(a, b uint16) uint16 {
	s := a + b
	if s >= Q {
		s -= Q
	}
	return s
}

// Sub returns (a - b) mod Q for canonical a, b.
func Sub(a, b uint16) uint16 {
	if a >= b {
		return a - b
	}
	return Q - b + a
}

// Reduce returns a mod Q via Barrett reduction. Valid for a < BarrettMax.
func Reduce(a uint32) uint16 {
	t := uint32((uint64(a) * BarrettV) >> BarrettShift)
	r := a - t*Q
	// r is in [0, 2Q-1]: one conditional subtraction finishes the job
	if r >= Q {
		r -= Q
	}
	return uint16(r)
}

// Mul returns (a * b) mod Q for canonical a, b.
func Mul(a, b uint16) uint16 {
	return Reduce(uint32(a) * uint32(b))
}

// Neg returns (-a) mod Q.
func Neg(a uint16) uint16 {
	if a == 0 {
		return 0
	}
	return Q - a
}

// Exp returns a^e mod Q using binary exponentiation.
func Exp(a uint16, e uint32) uint16 {
	result := uint64(1)
	base := uint64(a)
	for e > 0 {
		if e&1 == 1 {
			result = (result * base) % Q
		}
		base = (base * base) % Q
		e >>= 1
	}
	return uint16(result)
}

// Brv7 reverses the low 7 bits of x (bit reversal for the zeta tables).
func Brv7(x uint8) uint8 {
	x = (x&0xF0)>>4 | (x&0x0F)<<4
	x = (x&0xCC)>>2 | (x&0x33)<<2
	x = (x&0xAA)>>1 | (x&0x55)<<1
	return x >> 1
}
