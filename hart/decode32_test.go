package hart

import "testing"

func encodeR(funct7, rs2, rs1, funct3, rd, opcode uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(imm, rs1, funct3, rd, opcode uint32) uint32 {
	return (imm&0xfff)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeJ(imm, rd, opcode uint32) uint32 {
	return ((imm>>1)&0x3ff)<<21 | ((imm>>11)&0x1)<<20 | (imm & 0xff000) | ((imm>>20)&0x1)<<31 | rd<<7 | opcode
}

func runOne(h *Hart, instr uint32) {
	putWord(h, h.PC(), instr)
	h.Step()
}

func TestOpImmArithmetic(t *testing.T) {
	h, _ := newTestHart()
	h.regs.set(1, 10)
	// addi x2, x1, 5
	runOne(h, encodeI(5, 1, 0b000, 2, 0b0010011))
	if h.Reg(2) != 15 {
		t.Fatalf("addi result = %d, want 15", h.Reg(2))
	}
}

func TestSltAndSltu(t *testing.T) {
	h, _ := newTestHart()
	neg5 := int32(-5)
	h.regs.set(1, uint32(neg5))
	h.regs.set(2, 3)

	// slt x3, x1, x2
	runOne(h, encodeR(0, 2, 1, 0b010, 3, 0b0110011))
	if h.Reg(3) != 1 {
		t.Fatalf("slt result = %d, want 1 (-5 < 3 signed)", h.Reg(3))
	}

	h2, _ := newTestHart()
	h2.regs.set(1, uint32(neg5))
	h2.regs.set(2, 3)
	// sltu x3, x1, x2 : unsigned, -5 as uint32 is huge, so NOT less than 3
	runOne(h2, encodeR(0, 2, 1, 0b011, 3, 0b0110011))
	if h2.Reg(3) != 0 {
		t.Fatalf("sltu result = %d, want 0", h2.Reg(3))
	}
}

func TestMulDiv(t *testing.T) {
	h, _ := newTestHart()
	h.regs.set(1, 6)
	h.regs.set(2, 7)
	// mul x3, x1, x2
	runOne(h, encodeR(0b0000001, 2, 1, 0b000, 3, 0b0110011))
	if h.Reg(3) != 42 {
		t.Fatalf("mul = %d, want 42", h.Reg(3))
	}

	h2, _ := newTestHart()
	h2.regs.set(1, 7)
	// divu x2, x1, x0 (division by zero)
	runOne(h2, encodeR(0b0000001, 0, 1, 0b101, 2, 0b0110011))
	if h2.Reg(2) != 0xffffffff {
		t.Fatalf("divu by zero = %x, want all-ones", h2.Reg(2))
	}
}

func TestJal(t *testing.T) {
	h, _ := newTestHart()
	opcode := uint32(opcJal)<<2 | 0b11
	// jal x1, +16
	runOne(h, encodeJ(16, 1, opcode))

	if h.Reg(1) != 4 {
		t.Fatalf("jal link value = %x, want 4", h.Reg(1))
	}
	if h.PC() != 16 {
		t.Fatalf("PC after jal = %x, want 16", h.PC())
	}
}

func TestAuipc(t *testing.T) {
	h, _ := newTestHart()
	h.pc = 0x100

	// auipc x1, 0x1  (adds 0x1000 to pc)
	instr := (uint32(0x1) << 12) | (1 << 7) | opcAuipc<<2 | 0b11
	putWord(h, 0x100, instr)
	h.Step()
	if h.Reg(1) != 0x1100 {
		t.Fatalf("auipc result = %x, want 1100", h.Reg(1))
	}
}

func TestEbreakTrap(t *testing.T) {
	h, _ := newTestHart()
	// ebreak: imm field = 0x001 at bits[31:20], rest zero, opcode SYSTEM
	instr := uint32(0x001)<<20 | opcSystem<<2 | 0b11
	putWord(h, 0, instr)
	h.Step()
	if cause, ok := h.CSR(csrMcause); !ok || cause != CauseEbreak {
		t.Fatalf("mcause = %d (ok=%v), want EBREAK", cause, ok)
	}
}

func TestCSRInstruction(t *testing.T) {
	h, _ := newTestHart()
	h.regs.set(1, 0xabcd)
	// csrrw x2, mscratch, x1
	instr := uint32(csrMscratch)<<20 | 1<<15 | 0b001<<12 | 2<<7 | opcSystem<<2 | 0b11
	putWord(h, 0, instr)
	h.Step()
	if v, ok := h.CSR(csrMscratch); !ok || v != 0xabcd {
		t.Fatalf("mscratch = %x (ok=%v), want abcd", v, ok)
	}
}

func TestCustomBextractRegisterForm(t *testing.T) {
	h, _ := newTestHart()
	h.regs.set(1, 0xabcdef12)
	h.regs.set(2, 8) // shift amount

	// size field instr[28:26] = 7 -> an 8-bit field; instr[28:26] are
	// funct7 bits 3:1, so funct7 = 7<<1.
	funct7 := uint32(7) << 1
	instr := encodeR(funct7, 2, 1, 0b000, 3, opcCustom0<<2|0b11)
	putWord(h, 0, instr)
	h.Step()
	want := (uint32(0xabcdef12) >> 8) & 0xff
	if h.Reg(3) != want {
		t.Fatalf("bextract register form = %x, want %x", h.Reg(3), want)
	}
}

func TestMisalignedLrwReportsLoadAlign(t *testing.T) {
	h, _ := newTestHart()
	h.regs.set(1, 0x41) // not word-aligned
	// lr.w x2, (x1): funct5=00010, aq=rl=0 -> funct7=0001000
	instr := encodeR(0b0001000, 0, 1, 0b010, 2, opcAMO<<2|0b11)
	putWord(h, 0, instr)
	h.Step()
	if cause, ok := h.CSR(csrMcause); !ok || cause != CauseLoadAlign {
		t.Fatalf("mcause = %d (ok=%v), want LOAD_ALIGN", cause, ok)
	}
}

func TestMisalignedAmoaddReportsStoreAlign(t *testing.T) {
	h, _ := newTestHart()
	h.regs.set(1, 0x41) // not word-aligned
	// amoadd.w x2, x3, (x1): funct5=00000
	instr := encodeR(0b0000000, 3, 1, 0b010, 2, opcAMO<<2|0b11)
	putWord(h, 0, instr)
	h.Step()
	if cause, ok := h.CSR(csrMcause); !ok || cause != CauseStoreAlign {
		t.Fatalf("mcause = %d (ok=%v), want STORE_ALIGN", cause, ok)
	}
}

func TestCustomBextractImmediateShiftForm(t *testing.T) {
	h, _ := newTestHart()
	h.regs.set(1, 0xabcdef12)

	// shift amount comes from the rs2 field itself (4), not a register.
	funct7 := uint32(7) << 1
	instr := encodeR(funct7, 4, 1, 0b001, 2, opcCustom0<<2|0b11)
	putWord(h, 0, instr)
	h.Step()
	want := (uint32(0xabcdef12) >> 4) & 0xff
	if h.Reg(2) != want {
		t.Fatalf("bextract immediate-shift form = %x, want %x", h.Reg(2), want)
	}
}
