package sponge

// XOF is a SHAKE-128 stream seeded with rho || j || i, the byte source
// for matrix-expansion rejection sampling. The candidate loop consumes
// it three bytes at a time.
type XOF struct {
	s *Sponge
}

// NewXOF starts a SHAKE-128 session over seed || j || i on sp.
func NewXOF(sp *Sponge, seed []byte, j, i byte) *XOF {
	sp.Start(SHAKE_128)
	sp.Absorb(seed)
	sp.AbsorbByte(j)
	sp.AbsorbByte(i)
	sp.Last()
	return &XOF{s: sp}
}

// Read3 returns the next three squeezed bytes.
func (x *XOF) Read3() (b0, b1, b2 byte) {
	b0, _ = x.s.SqueezeByte()
	b1, _ = x.s.SqueezeByte()
	b2, _ = x.s.SqueezeByte()
	return
}

// PRF fills out with SHAKE-256(seed || nonce), the pseudorandom
// function feeding the noise sampler.
func PRF(sp *Sponge, seed []byte, nonce byte, out []byte) {
	sp.Start(SHAKE_256)
	sp.Absorb(seed)
	sp.AbsorbByte(nonce)
	sp.Last()
	sp.Squeeze(out)
}
