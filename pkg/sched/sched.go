// Package sched provides the algorithm sequencers: fixed instruction
// tables that drive the engine through KeyGen, Encapsulation, and the
// inner Decryption, plus autonomous variants that also own the hash
// engine phases (seed expansion, matrix expansion, PRF noise).
//
// A sequencer is a flat step table, not nested loops: the table is
// built once at package init and an interpreter walks it with a step
// counter, advancing strictly monotonically. A run is single-shot —
// no pause, no branch, no cancellation.
package sched

import (
	"github.com/pkg/errors"

	"kybercop/pkg/engine"
)

// Slot layout conventions. These are contractual: hosts and sequencers
// interoperate only because both sides agree on them.
const (
	// KeyGen: matrix A row-major in 0-8, secret in 9-11, error in
	// 12-14; t_hat lands in 0, 3, 6.
	KeyGenSecretBase = 9
	KeyGenErrorBase  = 12

	// Encapsulation: matrix A row-major in 0-8, public key t_hat in
	// 9-11, message in 12, randomness in 13-15, error e1 in 16-18, e2
	// in 19. Uncompressed u lands in 0-2 and v in 9; compressed u in
	// 16-18 (d=10) and v in 19 (d=4).
	EncapsPubKeyBase = 9
	EncapsMsgSlot    = 12
	EncapsRandBase   = 13
	EncapsErr1Base   = 16
	EncapsErr2Slot   = 19
	EncapsUBase      = 0
	EncapsVSlot      = 9
	EncapsCompUBase  = 16
	EncapsCompVSlot  = 19

	// Decryption: compressed u in 0-2, compressed v in 3, secret key
	// s_hat in 9-11; the recovered message lands in 4.
	DecryptCtBase     = 0
	DecryptCtVSlot    = 3
	DecryptMsgSlot    = 4
	DecryptSecretBase = 9

	// CompressDU and CompressDV are the ciphertext widths.
	CompressDU = 10
	CompressDV = 4
)

// MatrixSlot returns the slot holding A[i][j] (row-major, slots 0-8).
func MatrixSlot(i, j int) int {
	return 3*i + j
}

// THatSlot returns the slot holding t_hat[i] after KeyGen (0, 3, 6).
func THatSlot(i int) int {
	return 3 * i
}

// Sequencer is a named, fixed micro-op program.
type Sequencer struct {
	name string
	prog []engine.MicroOp
}

var (
	keyGenSeq  = &Sequencer{name: "keygen", prog: buildKeyGen()}
	encapsSeq  = &Sequencer{name: "encaps", prog: buildEncaps()}
	decryptSeq = &Sequencer{name: "decrypt", prog: buildDecrypt()}
)

// KeyGen returns the 69-step key generation sequencer.
func KeyGen() *Sequencer { return keyGenSeq }

// Encaps returns the 93-step encapsulation sequencer.
func Encaps() *Sequencer { return encapsSeq }

// Decrypt returns the 32-step inner-decryption sequencer. It recovers
// the message polynomial only; ciphertext verification by re-encryption
// is orchestrated by the host.
func Decrypt() *Sequencer { return decryptSeq }

// Name returns the sequencer's name.
func (s *Sequencer) Name() string { return s.name }

// Steps returns the program length.
func (s *Sequencer) Steps() int { return len(s.prog) }

// At returns the micro-op at a step index.
func (s *Sequencer) At(step int) engine.MicroOp { return s.prog[step] }

// Run acquires the engine, executes the program to completion, and
// releases. The register bank is sequencer-owned for the whole run.
func (s *Sequencer) Run(e *engine.Engine) error {
	g, err := e.Acquire()
	if err != nil {
		return errors.Wrapf(err, "sched: starting %s", s.name)
	}
	defer g.Release()
	return s.runOwned(g)
}

func (s *Sequencer) runOwned(g *engine.Grant) error {
	for step, op := range s.prog {
		if err := g.Exec(op); err != nil {
			return errors.Wrapf(err, "sched: %s step %d", s.name, step)
		}
	}
	return nil
}

func op(code engine.Opcode, a, b, param int) engine.MicroOp {
	return engine.MicroOp{Op: code, SlotA: uint8(a), SlotB: uint8(b), Param: uint8(param)}
}

// transformSteps transforms one slot in place through the NTT engine.
func transformSteps(slot, dir int) []engine.MicroOp {
	return []engine.MicroOp{
		op(engine.OpCopyToNTT, slot, 0, 0),
		op(engine.OpRunNTT, 0, 0, dir),
		op(engine.OpCopyFromNTT, slot, 0, 0),
	}
}

// accumSteps emits dst = sum over j of bank[aSlots[j]] * bank[bSlots[j]]
// in the NTT domain. The first product lands directly in dst; later
// products reuse their own (already consumed) A-operand slot as
// scratch before the accumulating add.
func accumSteps(dst int, aSlots, bSlots []int) []engine.MicroOp {
	var prog []engine.MicroOp
	for j := range aSlots {
		tmp := dst
		if j > 0 {
			tmp = aSlots[j]
		}
		prog = append(prog,
			op(engine.OpCopyToBmA, aSlots[j], 0, 0),
			op(engine.OpCopyToBmB, bSlots[j], 0, 0),
			op(engine.OpRunBasemul, 0, 0, 0),
			op(engine.OpCopyFromBm, tmp, 0, 0),
		)
		if j > 0 {
			prog = append(prog, op(engine.OpPolyAdd, dst, tmp, 0))
		}
	}
	return prog
}

// buildKeyGen lays out the 69-step key generation program:
// sample 6 noise polynomials, transform all 6 in place, then for each
// matrix row accumulate three pointwise products plus the error term.
func buildKeyGen() []engine.MicroOp {
	var prog []engine.MicroOp
	for i := 0; i < 6; i++ {
		prog = append(prog, op(engine.OpCBDSample, KeyGenSecretBase+i, 0, 0))
	}
	for i := 0; i < 6; i++ {
		prog = append(prog, transformSteps(KeyGenSecretBase+i, engine.DirForward)...)
	}
	for i := 0; i < 3; i++ {
		row := []int{MatrixSlot(i, 0), MatrixSlot(i, 1), MatrixSlot(i, 2)}
		s := []int{KeyGenSecretBase, KeyGenSecretBase + 1, KeyGenSecretBase + 2}
		prog = append(prog, accumSteps(THatSlot(i), row, s)...)
		prog = append(prog, op(engine.OpPolyAdd, THatSlot(i), KeyGenErrorBase+i, 0))
	}
	return prog
}

// buildEncaps lays out the 93-step encapsulation program: sample 7
// noise polynomials, transform the randomness, accumulate the
// transposed matrix-vector product per column, inverse-transform and
// add error, do the same for the public-key inner product plus the
// message, then compress both outputs.
func buildEncaps() []engine.MicroOp {
	var prog []engine.MicroOp
	for i := 0; i < 7; i++ {
		prog = append(prog, op(engine.OpCBDSample, EncapsRandBase+i, 0, 0))
	}
	for i := 0; i < 3; i++ {
		prog = append(prog, transformSteps(EncapsRandBase+i, engine.DirForward)...)
	}
	r := []int{EncapsRandBase, EncapsRandBase + 1, EncapsRandBase + 2}
	for i := 0; i < 3; i++ {
		col := []int{MatrixSlot(0, i), MatrixSlot(1, i), MatrixSlot(2, i)}
		prog = append(prog, accumSteps(EncapsUBase+i, col, r)...)
		prog = append(prog, transformSteps(EncapsUBase+i, engine.DirInverse)...)
		prog = append(prog, op(engine.OpPolyAdd, EncapsUBase+i, EncapsErr1Base+i, 0))
	}
	t := []int{EncapsPubKeyBase, EncapsPubKeyBase + 1, EncapsPubKeyBase + 2}
	prog = append(prog, accumSteps(EncapsVSlot, t, r)...)
	prog = append(prog, transformSteps(EncapsVSlot, engine.DirInverse)...)
	prog = append(prog,
		op(engine.OpPolyAdd, EncapsVSlot, EncapsErr2Slot, 0),
		op(engine.OpPolyAdd, EncapsVSlot, EncapsMsgSlot, 0),
	)
	for i := 0; i < 3; i++ {
		prog = append(prog, op(engine.OpCompress, EncapsUBase+i, EncapsCompUBase+i, CompressDU))
	}
	prog = append(prog, op(engine.OpCompress, EncapsVSlot, EncapsCompVSlot, CompressDV))
	return prog
}

// buildDecrypt lays out the 32-step inner decryption program:
// decompress the ciphertext in place, transform u, accumulate the
// secret-key inner product, inverse-transform, subtract from v, and
// compress to one bit.
func buildDecrypt() []engine.MicroOp {
	var prog []engine.MicroOp
	for i := 0; i < 3; i++ {
		prog = append(prog, op(engine.OpDecompress, DecryptCtBase+i, DecryptCtBase+i, CompressDU))
	}
	prog = append(prog, op(engine.OpDecompress, DecryptCtVSlot, DecryptCtVSlot, CompressDV))
	for i := 0; i < 3; i++ {
		prog = append(prog, transformSteps(DecryptCtBase+i, engine.DirForward)...)
	}
	u := []int{DecryptCtBase, DecryptCtBase + 1, DecryptCtBase + 2}
	s := []int{DecryptSecretBase, DecryptSecretBase + 1, DecryptSecretBase + 2}
	prog = append(prog, accumSteps(DecryptCtBase, u, s)...)
	prog = append(prog, transformSteps(DecryptCtBase, engine.DirInverse)...)
	prog = append(prog,
		op(engine.OpPolySub, DecryptCtVSlot, DecryptCtBase, 0),
		op(engine.OpCompress, DecryptCtVSlot, DecryptMsgSlot, 1),
	)
	return prog
}
