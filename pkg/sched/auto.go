package sched

import (
	"io"

	"github.com/pkg/errors"

	"kybercop/pkg/cbd"
	"kybercop/pkg/engine"
	"kybercop/pkg/field"
	"kybercop/pkg/poly"
	"kybercop/pkg/sponge"
)

// SeedSize is the length of the seeds and sub-seeds handled by the
// autonomous sequencers.
const SeedSize = 32

// matrixRank is the module rank of ML-KEM-768.
const matrixRank = 3

// prfStream bridges PRF squeezes into the noise sampler's byte stream:
// every cbd.InputBytes bytes it starts a fresh SHAKE-256 session over
// seed || nonce and advances the nonce. This is the byte-stream mux
// between the hash engine and the sampler.
type prfStream struct {
	sp        *sponge.Sponge
	seed      []byte
	nonce     byte
	remaining int
}

func newPRFStream(seed []byte) *prfStream {
	return &prfStream{sp: sponge.New(), seed: seed}
}

func (p *prfStream) ReadByte() (byte, error) {
	if p.remaining == 0 {
		p.sp.Start(sponge.SHAKE_256)
		p.sp.Absorb(p.seed)
		p.sp.AbsorbByte(p.nonce)
		p.sp.Last()
		p.nonce++
		p.remaining = cbd.InputBytes
	}
	p.remaining--
	b, _ := p.sp.SqueezeByte()
	return b, nil
}

// expandMatrix fills slots 0-8 with the NTT-domain matrix derived from
// rho: for each position, squeeze 3-byte groups from SHAKE-128(rho ||
// col || row) and keep 12-bit candidates below q until 256 coefficients
// are accepted. Rejected candidates are simply retried; rejection is
// invisible outside the loop.
func expandMatrix(g *engine.Grant, sp *sponge.Sponge, rho []byte) {
	for i := 0; i < matrixRank; i++ {
		for j := 0; j < matrixRank; j++ {
			xof := sponge.NewXOF(sp, rho, byte(j), byte(i))
			slot := MatrixSlot(i, j)
			idx := 0
			for idx < field.N {
				b0, b1, b2 := xof.Read3()
				d1 := uint16(b0) | uint16(b1&0x0F)<<8
				d2 := uint16(b1>>4) | uint16(b2)<<4
				if d1 < field.Q {
					g.WriteCoeff(slot, idx, d1)
					idx++
				}
				if idx < field.N && d2 < field.Q {
					g.WriteCoeff(slot, idx, d2)
					idx++
				}
			}
		}
	}
}

// readSeed pulls exactly n bytes off the host byte-stream handshake.
func readSeed(src io.ByteReader, n int) ([]byte, error) {
	out := make([]byte, n)
	for i := range out {
		b, err := src.ReadByte()
		if err != nil {
			return nil, errors.Wrapf(err, "sched: input stream ended after %d of %d bytes", i, n)
		}
		out[i] = b
	}
	return out, nil
}

// RunAutoKeyGen performs key generation with all hashing done
// internally: the host supplies only the 32-byte seed d. The seed is
// expanded with SHA3-512(d || rank) into rho (matrix sub-seed, which is
// returned for the public key) and sigma (noise sub-seed); the matrix
// is expanded into slots 0-8; then the 69-step program runs with its
// noise stream bridged from PRF(sigma, nonce).
func RunAutoKeyGen(e *engine.Engine, seed io.ByteReader) (rho [SeedSize]byte, err error) {
	d, err := readSeed(seed, SeedSize)
	if err != nil {
		return rho, err
	}

	sp := sponge.New()
	sp.Start(sponge.SHA3_512)
	sp.Absorb(d)
	sp.AbsorbByte(matrixRank)
	sp.Last()
	var sub [2 * SeedSize]byte
	sp.Squeeze(sub[:])
	copy(rho[:], sub[:SeedSize])
	sigma := sub[SeedSize:]

	g, err := e.Acquire()
	if err != nil {
		return rho, errors.Wrap(err, "sched: starting auto keygen")
	}
	defer g.Release()

	expandMatrix(g, sp, rho[:])
	g.SetNoise(newPRFStream(sigma))
	if err := keyGenSeq.runOwned(g); err != nil {
		return rho, err
	}
	return rho, nil
}

// AutoEncapsResult carries the outputs of an autonomous encapsulation
// that do not live in the register bank.
type AutoEncapsResult struct {
	// Shared is the derived shared secret K.
	Shared [SeedSize]byte
	// Rho is the matrix sub-seed parsed from the encapsulation key.
	Rho [SeedSize]byte
}

// RunAutoEncaps performs encapsulation with all hashing done
// internally. The host streams the 32-byte message m followed by the
// 1184-byte encapsulation key. The key's t_hat coefficients are decoded
// into slots 9-11 while the whole key is absorbed into SHA3-256 for h;
// G = SHA3-512(m || h) yields the shared secret and the encryption
// randomness; the matrix is expanded from the key's rho tail; the
// decompressed message lands in slot 12; then the 93-step program runs
// with PRF-bridged noise. Compressed outputs are left in slots 16-19.
func RunAutoEncaps(e *engine.Engine, din io.ByteReader) (*AutoEncapsResult, error) {
	m, err := readSeed(din, SeedSize)
	if err != nil {
		return nil, err
	}

	g, err := e.Acquire()
	if err != nil {
		return nil, errors.Wrap(err, "sched: starting auto encaps")
	}
	defer g.Release()

	// Stream the encapsulation key: 3 x 384 bytes of 12-bit packed
	// t_hat, then 32 bytes of rho. Every byte is absorbed into the
	// running SHA3-256 as it arrives.
	hsp := sponge.New()
	hsp.Start(sponge.SHA3_256)
	var group [3]byte
	for i := 0; i < matrixRank; i++ {
		slot := EncapsPubKeyBase + i
		for idx := 0; idx < field.N; idx += 2 {
			for k := 0; k < 3; k++ {
				b, err := din.ReadByte()
				if err != nil {
					return nil, errors.Wrap(err, "sched: encapsulation key stream ended early")
				}
				hsp.AbsorbByte(b)
				group[k] = b
			}
			c0 := uint16(group[0]) | uint16(group[1]&0x0F)<<8
			c1 := uint16(group[1]>>4) | uint16(group[2])<<4
			g.WriteCoeff(slot, idx, field.Reduce(uint32(c0)))
			g.WriteCoeff(slot, idx+1, field.Reduce(uint32(c1)))
		}
	}
	res := &AutoEncapsResult{}
	for i := 0; i < SeedSize; i++ {
		b, err := din.ReadByte()
		if err != nil {
			return nil, errors.Wrap(err, "sched: encapsulation key stream ended early")
		}
		hsp.AbsorbByte(b)
		res.Rho[i] = b
	}
	hsp.Last()
	var h [SeedSize]byte
	hsp.Squeeze(h[:])

	// (K, r) = G(m || h)
	hsp.Start(sponge.SHA3_512)
	hsp.Absorb(m)
	hsp.Absorb(h[:])
	hsp.Last()
	var kr [2 * SeedSize]byte
	hsp.Squeeze(kr[:])
	copy(res.Shared[:], kr[:SeedSize])
	r := kr[SeedSize:]

	expandMatrix(g, hsp, res.Rho[:])

	// Message bits, decompressed to half-q amplitude, into slot 12.
	for idx := 0; idx < field.N; idx++ {
		bit := uint16(m[idx/8]>>(idx%8)) & 1
		g.WriteCoeff(EncapsMsgSlot, idx, poly.DecompressCoeff(bit, 1))
	}

	g.SetNoise(newPRFStream(r))
	if err := encapsSeq.runOwned(g); err != nil {
		return nil, err
	}
	return res, nil
}
