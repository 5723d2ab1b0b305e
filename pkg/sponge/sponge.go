// Package sponge provides the Keccak hash/XOF engine: a four-mode
// FIPS 202 sponge exposed as byte-level absorb/squeeze streams.
//
// The engine is a state machine over Idle -> Absorbing -> Squeezing.
// The caller marks the final absorbed byte explicitly via Last (there
// is no implicit length framing), and fixed-output modes report their
// last squeezed byte so the consumer knows when the digest is
// exhausted. Starting a new hash while squeezing resets the state and
// begins a fresh absorb; that is the mechanism for indefinite-length
// extendable-output reads where the caller decides when it is done.
package sponge

// Mode selects one of the four supported sponge configurations.
type Mode uint8

const (
	// SHA3_256 is the fixed-output hash mode with rate 136, output 32.
	SHA3_256 Mode = iota
	// SHA3_512 is the fixed-output hash mode with rate 72, output 64.
	SHA3_512
	// SHAKE_128 is the extendable-output mode with rate 168.
	SHAKE_128
	// SHAKE_256 is the extendable-output mode with rate 136.
	SHAKE_256
)

// Rate returns the mode's rate in bytes.
func (m Mode) Rate() int {
	switch m {
	case SHA3_256:
		return 136
	case SHA3_512:
		return 72
	case SHAKE_128:
		return 168
	default:
		return 136
	}
}

// OutputLen returns the fixed output length in bytes, or 0 for the
// extendable-output modes.
func (m Mode) OutputLen() int {
	switch m {
	case SHA3_256:
		return 32
	case SHA3_512:
		return 64
	default:
		return 0
	}
}

// suffix returns the FIPS 202 domain-separation bits, pre-positioned so
// the first pad10*1 bit is included.
func (m Mode) suffix() byte {
	if m == SHA3_256 || m == SHA3_512 {
		return 0x06
	}
	return 0x1F
}

// Phase is the sponge controller state.
type Phase uint8

const (
	// Idle means no session is active.
	Idle Phase = iota
	// Absorbing means input bytes are being accepted.
	Absorbing
	// Squeezing means output bytes are being produced.
	Squeezing
)

// Sponge is a Keccak-f[1600] sponge. The 1600-bit state is owned
// exclusively by the engine; only derived bytes cross the boundary.
type Sponge struct {
	a        [25]uint64
	mode     Mode
	rate     int
	outLen   int
	offset   int // byte offset within the current rate block
	squeezed int
	phase    Phase
}

// New returns an idle sponge.
func New() *Sponge {
	return &Sponge{}
}

// Phase returns the current controller state.
func (s *Sponge) Phase() Phase {
	return s.phase
}

// Start resets the state and begins a fresh absorb session in the given
// mode. Legal in any phase, including mid-squeeze.
func (s *Sponge) Start(m Mode) {
	s.a = [25]uint64{}
	s.mode = m
	s.rate = m.Rate()
	s.outLen = m.OutputLen()
	s.offset = 0
	s.squeezed = 0
	s.phase = Absorbing
}

// xorByte XORs b into the state at the current byte offset.
func (s *Sponge) xorByte(b byte) {
	s.a[s.offset/8] ^= uint64(b) << (8 * uint(s.offset%8))
}

// stateByte reads the state byte at the current offset.
func (s *Sponge) stateByte() byte {
	return byte(s.a[s.offset/8] >> (8 * uint(s.offset%8)))
}

// AbsorbByte feeds one input byte. Reaching the rate boundary triggers
// a permutation before absorption continues.
func (s *Sponge) AbsorbByte(b byte) {
	if s.phase != Absorbing {
		panic("sponge: absorb outside absorb phase")
	}
	s.xorByte(b)
	s.offset++
	if s.offset == s.rate {
		keccakF1600(&s.a)
		s.offset = 0
	}
}

// Absorb feeds a run of input bytes.
func (s *Sponge) Absorb(p []byte) {
	for _, b := range p {
		s.AbsorbByte(b)
	}
}

// Last marks the end of input: pad10*1 with the mode's domain suffix is
// applied, the block is permuted, and the sponge enters Squeezing.
func (s *Sponge) Last() {
	if s.phase != Absorbing {
		panic("sponge: Last outside absorb phase")
	}
	s.xorByte(s.mode.suffix())
	s.a[(s.rate-1)/8] ^= uint64(0x80) << (8 * uint((s.rate-1)%8))
	keccakF1600(&s.a)
	s.offset = 0
	s.phase = Squeezing
}

// SqueezeByte produces one output byte. For the fixed-output modes,
// last is true on the final byte of the digest, after which the sponge
// returns to Idle. Extendable-output modes squeeze indefinitely,
// permuting again whenever a rate block is exhausted.
func (s *Sponge) SqueezeByte() (b byte, last bool) {
	if s.phase != Squeezing {
		panic("sponge: squeeze outside squeeze phase")
	}
	b = s.stateByte()
	s.offset++
	s.squeezed++
	if s.outLen > 0 && s.squeezed == s.outLen {
		s.phase = Idle
		return b, true
	}
	if s.offset == s.rate {
		keccakF1600(&s.a)
		s.offset = 0
	}
	return b, false
}

// Squeeze fills p with output bytes.
func (s *Sponge) Squeeze(p []byte) {
	for i := range p {
		p[i], _ = s.SqueezeByte()
	}
}
