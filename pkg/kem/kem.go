// Package kem provides the host side of the coprocessor: byte-level
// key and ciphertext codecs, and the full ML-KEM-768 algorithms built
// by driving the engine's sequencers.
//
// The engine core deliberately stops at the inner decrypt primitive;
// decapsulation's ciphertext verification is orchestrated here by
// re-invoking encapsulation and comparing results, with implicit
// rejection on mismatch.
package kem

import (
	"bytes"
	"crypto/subtle"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"kybercop/pkg/engine"
	"kybercop/pkg/poly"
	"kybercop/pkg/sched"
)

// ML-KEM-768 parameters and derived sizes (FIPS 203, Table 1).
const (
	Rank = 3

	SeedSize      = 32
	MessageSize   = 32
	SharedKeySize = 32

	encodedPolySize = 384 // 256 coefficients at 12 bits

	// EncapsulationKeySize is 384*k + 32 = 1184.
	EncapsulationKeySize = encodedPolySize*Rank + SeedSize
	// DecryptionKeySize is the K-PKE secret key portion, 384*k = 1152.
	DecryptionKeySize = encodedPolySize * Rank
	// DecapsulationKeySize is dk_pke || ek || H(ek) || z = 2400.
	DecapsulationKeySize = DecryptionKeySize + EncapsulationKeySize + 2*SeedSize
	// CiphertextSize is 32*(du*k + dv) = 1088.
	CiphertextSize = 32 * (sched.CompressDU*Rank + sched.CompressDV)
)

// KeyGen derives an ML-KEM-768 key pair from the 32-byte seeds d
// (key derivation) and z (implicit rejection). The returned keys are
// ek = Enc12(t_hat) || rho and dk = Enc12(s_hat) || ek || H(ek) || z.
func KeyGen(d, z []byte) (ek, dk []byte, err error) {
	if len(d) != SeedSize {
		return nil, nil, errors.Errorf("kem: seed d is %d bytes, want %d", len(d), SeedSize)
	}
	if len(z) != SeedSize {
		return nil, nil, errors.Errorf("kem: seed z is %d bytes, want %d", len(z), SeedSize)
	}

	e := engine.New()
	rho, err := sched.RunAutoKeyGen(e, bytes.NewReader(d))
	if err != nil {
		return nil, nil, err
	}

	ek = make([]byte, 0, EncapsulationKeySize)
	for i := 0; i < Rank; i++ {
		t, err := e.ReadPoly(sched.THatSlot(i))
		if err != nil {
			return nil, nil, err
		}
		ek = append(ek, ByteEncode(12, &t)...)
	}
	ek = append(ek, rho[:]...)

	dk = make([]byte, 0, DecapsulationKeySize)
	for i := 0; i < Rank; i++ {
		s, err := e.ReadPoly(sched.KeyGenSecretBase + i)
		if err != nil {
			return nil, nil, err
		}
		dk = append(dk, ByteEncode(12, &s)...)
	}
	dk = append(dk, ek...)
	h := sha3.Sum256(ek)
	dk = append(dk, h[:]...)
	dk = append(dk, z...)
	return ek, dk, nil
}

// Encaps encapsulates the 32-byte message m against ek, returning the
// shared secret and the ciphertext c = Enc10(u) || Enc4(v). This is
// Encaps_internal: the caller supplies m (normally fresh randomness).
func Encaps(ek, m []byte) (shared, ct []byte, err error) {
	if len(ek) != EncapsulationKeySize {
		return nil, nil, errors.Errorf("kem: encapsulation key is %d bytes, want %d",
			len(ek), EncapsulationKeySize)
	}
	if len(m) != MessageSize {
		return nil, nil, errors.Errorf("kem: message is %d bytes, want %d", len(m), MessageSize)
	}

	din := make([]byte, 0, MessageSize+EncapsulationKeySize)
	din = append(din, m...)
	din = append(din, ek...)

	e := engine.New()
	res, err := sched.RunAutoEncaps(e, bytes.NewReader(din))
	if err != nil {
		return nil, nil, err
	}

	ct = make([]byte, 0, CiphertextSize)
	for i := 0; i < Rank; i++ {
		u, err := e.ReadPoly(sched.EncapsCompUBase + i)
		if err != nil {
			return nil, nil, err
		}
		ct = append(ct, ByteEncode(sched.CompressDU, &u)...)
	}
	v, err := e.ReadPoly(sched.EncapsCompVSlot)
	if err != nil {
		return nil, nil, err
	}
	ct = append(ct, ByteEncode(sched.CompressDV, &v)...)
	return res.Shared[:], ct, nil
}

// Decrypt runs the inner K-PKE decryption: dkPKE is the 1152-byte
// encoded secret vector, ct the 1088-byte ciphertext. Returns the
// 32-byte recovered message.
func Decrypt(dkPKE, ct []byte) ([]byte, error) {
	if len(dkPKE) != DecryptionKeySize {
		return nil, errors.Errorf("kem: decryption key is %d bytes, want %d",
			len(dkPKE), DecryptionKeySize)
	}
	if len(ct) != CiphertextSize {
		return nil, errors.Errorf("kem: ciphertext is %d bytes, want %d", len(ct), CiphertextSize)
	}

	e := engine.New()
	var p poly.Poly
	uBytes := 32 * sched.CompressDU
	for i := 0; i < Rank; i++ {
		if err := ByteDecode(sched.CompressDU, ct[uBytes*i:uBytes*(i+1)], &p); err != nil {
			return nil, err
		}
		if err := e.LoadPoly(sched.DecryptCtBase+i, &p); err != nil {
			return nil, err
		}
	}
	if err := ByteDecode(sched.CompressDV, ct[uBytes*Rank:], &p); err != nil {
		return nil, err
	}
	if err := e.LoadPoly(sched.DecryptCtVSlot, &p); err != nil {
		return nil, err
	}
	for i := 0; i < Rank; i++ {
		if err := ByteDecode(12, dkPKE[encodedPolySize*i:encodedPolySize*(i+1)], &p); err != nil {
			return nil, err
		}
		if err := e.LoadPoly(sched.DecryptSecretBase+i, &p); err != nil {
			return nil, err
		}
	}

	if err := sched.Decrypt().Run(e); err != nil {
		return nil, err
	}

	mp, err := e.ReadPoly(sched.DecryptMsgSlot)
	if err != nil {
		return nil, err
	}
	m := make([]byte, MessageSize)
	for i, bit := range mp {
		m[i/8] |= byte(bit&1) << (i % 8)
	}
	return m, nil
}

// Decaps decapsulates ct against dk, returning the shared secret.
// The inner decrypt recovers m'; encapsulation is re-invoked on m' and
// the resulting ciphertext compared in constant time. On mismatch the
// implicit-rejection secret SHAKE-256(z || ct) is returned instead, so
// a forged ciphertext yields an unpredictable but stable key rather
// than an error.
func Decaps(dk, ct []byte) ([]byte, error) {
	if len(dk) != DecapsulationKeySize {
		return nil, errors.Errorf("kem: decapsulation key is %d bytes, want %d",
			len(dk), DecapsulationKeySize)
	}
	if len(ct) != CiphertextSize {
		return nil, errors.Errorf("kem: ciphertext is %d bytes, want %d", len(ct), CiphertextSize)
	}

	dkPKE := dk[:DecryptionKeySize]
	ek := dk[DecryptionKeySize : DecryptionKeySize+EncapsulationKeySize]
	z := dk[DecryptionKeySize+EncapsulationKeySize+SeedSize:]

	mPrime, err := Decrypt(dkPKE, ct)
	if err != nil {
		return nil, err
	}
	kPrime, ctPrime, err := Encaps(ek, mPrime)
	if err != nil {
		return nil, err
	}

	kBar := make([]byte, SharedKeySize)
	sha3.ShakeSum256(kBar, append(append([]byte{}, z...), ct...))

	if subtle.ConstantTimeCompare(ct, ctPrime) == 1 {
		return kPrime, nil
	}
	return kBar, nil
}
