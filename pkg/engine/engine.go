// Package engine provides the register bank and micro-op dispatcher:
// twenty polynomial slots driven through the transform engine, the
// pointwise multiplier, the compress units, and the noise sampler, one
// micro-op at a time.
//
// Ownership of the bank transfers atomically between the host (idle)
// and a single Grant holder (busy). While a Grant is outstanding the
// host ports reject access; there is no concurrent execution and no
// cancellation. Every micro-op runs to completion in one call and
// advances the cycle counter by a fixed, data-independent cost.
package engine

import (
	"io"

	"github.com/pkg/errors"

	"kybercop/pkg/cbd"
	"kybercop/pkg/field"
	"kybercop/pkg/poly"
)

// NumSlots is the size of the register bank.
const NumSlots = 20

// Opcode selects a micro-op. Values match the dispatcher's numbering;
// anything outside the defined set behaves as OpNop.
type Opcode uint8

const (
	// OpNop does nothing for one cycle.
	OpNop Opcode = iota
	// OpCopyToNTT moves slot A into the transform working storage.
	OpCopyToNTT
	// OpCopyFromNTT moves the transform working storage into slot A.
	OpCopyFromNTT
	// OpRunNTT runs the transform engine; Param is the direction.
	OpRunNTT
	// OpCopyToBmA moves slot A into the multiplier's A storage.
	OpCopyToBmA
	// OpCopyToBmB moves slot A into the multiplier's B storage.
	OpCopyToBmB
	// OpCopyFromBm moves the multiplier's A storage into slot A.
	OpCopyFromBm
	// OpRunBasemul runs the pointwise multiplier; the result overwrites
	// its A storage in place.
	OpRunBasemul
	// OpPolyAdd adds slot B into slot A coefficient-wise.
	OpPolyAdd
	// OpPolySub subtracts slot B from slot A coefficient-wise.
	OpPolySub
	// OpCompress compresses slot A into slot B with width Param.
	OpCompress
	// OpDecompress decompresses slot A into slot B with width Param.
	OpDecompress
	// OpCBDSample drives the noise sampler over the external byte
	// stream and writes the result to slot A.
	OpCBDSample

	numOpcodes
)

// Transform directions carried in MicroOp.Param for OpRunNTT.
const (
	DirForward = 0
	DirInverse = 1
)

// Fixed per-operation costs in cycles. Data-independent by
// construction: copies stream one coefficient per cycle, the transforms
// always run all 7 layers, and sampling consumes exactly 128 bytes.
const (
	CyclesNop        = 1
	CyclesCopy       = 257
	CyclesArith      = 258
	CyclesNTTForward = 911
	CyclesNTTInverse = 1168
	CyclesBasemul    = 257
	CyclesCBD        = 129
)

// MicroOp is one dispatcher instruction: opcode, two slot operands, and
// an immediate parameter (transform direction or compression width).
// Immutable once issued; exactly one is outstanding at a time.
type MicroOp struct {
	Op    Opcode
	SlotA uint8
	SlotB uint8
	Param uint8
}

// ErrBusy is returned for host port access while the bank is owned by
// a Grant, and for Acquire while one is already outstanding. The
// rejected access has no effect on state.
var ErrBusy = errors.New("engine: register bank is busy")

// Engine is the register bank plus the sub-engines' working storage.
type Engine struct {
	bank [NumSlots]poly.Poly

	ntt poly.Poly // transform engine working storage
	bmA poly.Poly // multiplier A storage (also the result)
	bmB poly.Poly // multiplier B storage

	noise  io.ByteReader
	owned  bool
	cycles uint64
}

// New returns an idle engine with a zeroed bank.
func New() *Engine {
	return &Engine{}
}

// Busy reports whether a Grant currently owns the bank.
func (e *Engine) Busy() bool {
	return e.owned
}

// Cycles returns the cumulative cycle count of all executed micro-ops.
func (e *Engine) Cycles() uint64 {
	return e.cycles
}

// SetNoiseSource installs the external byte stream consumed by
// OpCBDSample. Host-side configuration: rejected while busy.
func (e *Engine) SetNoiseSource(r io.ByteReader) error {
	if e.owned {
		return ErrBusy
	}
	e.noise = r
	return nil
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= NumSlots {
		return errors.Errorf("engine: slot %d out of range [0, %d]", slot, NumSlots-1)
	}
	return nil
}

// HostWrite writes one coefficient through the host port. Valid only
// while the engine is idle; the value must already be canonical.
func (e *Engine) HostWrite(slot, addr int, v uint16) error {
	if e.owned {
		return ErrBusy
	}
	if err := checkSlot(slot); err != nil {
		return err
	}
	if addr < 0 || addr >= field.N {
		return errors.Errorf("engine: coefficient address %d out of range", addr)
	}
	if v >= field.Q {
		return errors.Errorf("engine: value %d out of range [0, %d]", v, field.Q-1)
	}
	e.bank[slot][addr] = v
	return nil
}

// HostRead reads one coefficient through the host port.
func (e *Engine) HostRead(slot, addr int) (uint16, error) {
	if e.owned {
		return 0, ErrBusy
	}
	if err := checkSlot(slot); err != nil {
		return 0, err
	}
	if addr < 0 || addr >= field.N {
		return 0, errors.Errorf("engine: coefficient address %d out of range", addr)
	}
	return e.bank[slot][addr], nil
}

// LoadPoly writes a full polynomial into a slot through the host port.
func (e *Engine) LoadPoly(slot int, p *poly.Poly) error {
	if e.owned {
		return ErrBusy
	}
	if err := checkSlot(slot); err != nil {
		return err
	}
	for _, c := range p {
		if c >= field.Q {
			return errors.Errorf("engine: value %d out of range [0, %d]", c, field.Q-1)
		}
	}
	e.bank[slot] = *p
	return nil
}

// ReadPoly reads a full polynomial from a slot through the host port.
func (e *Engine) ReadPoly(slot int) (poly.Poly, error) {
	if e.owned {
		return poly.Poly{}, ErrBusy
	}
	if err := checkSlot(slot); err != nil {
		return poly.Poly{}, err
	}
	return e.bank[slot], nil
}

// Grant is the exclusive ownership token for the bank. Whoever holds it
// is the sequencer of record: host ports are gated off until Release.
type Grant struct {
	e *Engine
}

// Acquire transfers bank ownership from the host to the caller.
func (e *Engine) Acquire() (*Grant, error) {
	if e.owned {
		return nil, ErrBusy
	}
	e.owned = true
	return &Grant{e: e}, nil
}

// Release returns the bank to the host. Safe to call more than once.
func (g *Grant) Release() {
	if g.e != nil {
		g.e.owned = false
		g.e = nil
	}
}

// SetNoise installs the noise byte stream while owning the bank (the
// bridged byte-stream mux used by the autonomous sequencers).
func (g *Grant) SetNoise(r io.ByteReader) {
	g.e.noise = r
}

// WriteCoeff writes one coefficient through the owner-side port.
// Used by the autonomous sequencers for matrix expansion and message
// decompression. Panics on out-of-range arguments: the step tables are
// fixed, so a bad address is a programming error, not input.
func (g *Grant) WriteCoeff(slot, addr int, v uint16) {
	if slot < 0 || slot >= NumSlots || addr < 0 || addr >= field.N || v >= field.Q {
		panic("engine: owner write out of range")
	}
	g.e.bank[slot][addr] = v
}

// ReadCoeff reads one coefficient through the owner-side port.
func (g *Grant) ReadCoeff(slot, addr int) uint16 {
	if slot < 0 || slot >= NumSlots || addr < 0 || addr >= field.N {
		panic("engine: owner read out of range")
	}
	return g.e.bank[slot][addr]
}

// Exec dispatches one micro-op and runs it to completion. Undefined
// opcodes execute as NOP; an unsupported compress width is a safe
// no-op. Slot operands outside the bank are rejected.
func (g *Grant) Exec(op MicroOp) error {
	e := g.e
	a, b := int(op.SlotA), int(op.SlotB)

	code := op.Op
	if code >= numOpcodes {
		code = OpNop
	}
	switch code {
	case OpCopyToNTT, OpCopyFromNTT, OpCopyToBmA, OpCopyToBmB, OpCopyFromBm:
		if err := checkSlot(a); err != nil {
			return err
		}
	case OpPolyAdd, OpPolySub, OpCompress, OpDecompress:
		if err := checkSlot(a); err != nil {
			return err
		}
		if err := checkSlot(b); err != nil {
			return err
		}
	case OpCBDSample:
		if err := checkSlot(a); err != nil {
			return err
		}
	}

	switch code {
	case OpNop:
		e.cycles += CyclesNop
	case OpCopyToNTT:
		e.ntt = e.bank[a]
		e.cycles += CyclesCopy
	case OpCopyFromNTT:
		e.bank[a] = e.ntt
		e.cycles += CyclesCopy
	case OpRunNTT:
		if op.Param == DirInverse {
			e.ntt.InvNTT()
			e.cycles += CyclesNTTInverse
		} else {
			e.ntt.NTT()
			e.cycles += CyclesNTTForward
		}
	case OpCopyToBmA:
		e.bmA = e.bank[a]
		e.cycles += CyclesCopy
	case OpCopyToBmB:
		e.bmB = e.bank[a]
		e.cycles += CyclesCopy
	case OpCopyFromBm:
		e.bank[a] = e.bmA
		e.cycles += CyclesCopy
	case OpRunBasemul:
		var r poly.Poly
		poly.BaseMul(&e.bmA, &e.bmB, &r)
		e.bmA = r
		e.cycles += CyclesBasemul
	case OpPolyAdd:
		poly.Add(&e.bank[a], &e.bank[b], &e.bank[a])
		e.cycles += CyclesArith
	case OpPolySub:
		poly.Sub(&e.bank[a], &e.bank[b], &e.bank[a])
		e.cycles += CyclesArith
	case OpCompress:
		if !poly.ValidCompressWidth(op.Param) {
			e.cycles += CyclesNop
			return nil
		}
		poly.Compress(&e.bank[a], op.Param, &e.bank[b])
		e.cycles += CyclesArith
	case OpDecompress:
		if !poly.ValidCompressWidth(op.Param) {
			e.cycles += CyclesNop
			return nil
		}
		poly.Decompress(&e.bank[a], op.Param, &e.bank[b])
		e.cycles += CyclesArith
	case OpCBDSample:
		if e.noise == nil {
			return errors.New("engine: no noise source configured")
		}
		if err := cbd.Sample(e.noise, &e.bank[a]); err != nil {
			return err
		}
		e.cycles += CyclesCBD
	}
	return nil
}

// Execute runs a single micro-op from the host: the bank is acquired
// for the op's duration and returned to the host on completion.
func (e *Engine) Execute(op MicroOp) error {
	g, err := e.Acquire()
	if err != nil {
		return err
	}
	defer g.Release()
	return g.Exec(op)
}
