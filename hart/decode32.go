package hart

// execute32 decodes and executes a single 32-bit-encoded instruction.
// Its rd and PC effects are returned in a stepResult for Step to
// commit, per the "deferred commit" design note. Memory stores, the
// LR.W/SC.W load-reservation flag, and MRET's privilege/mstatus update
// are applied directly; CSR writes are staged in the CSR file.
func execute32(h *Hart, instr uint32) stepResult {
	f := decodeFields(instr)

	switch f.opc {
	case opcOp:
		return execOp(h, f)
	case opcOpImm:
		return execOpImm(h, f, instr)
	case opcLui:
		return rdResult(f.rd, immU(instr))
	case opcAuipc:
		return rdResult(f.rd, h.pc+immU(instr))
	case opcJal:
		return jumpResult(f.rd, h.pc+4, h.pc+immJ(instr))
	case opcJalr:
		target := (h.regs.get(f.rs1) + immI(instr)) &^ 1
		return jumpResult(f.rd, h.pc+4, target)
	case opcBranch:
		return execBranch(h, f, instr)
	case opcLoad:
		return execLoad(h, f, instr)
	case opcStore:
		return execStore(h, f, instr)
	case opcAMO:
		return execAMO(h, f, instr)
	case opcMiscMem:
		return illegalResult()
	case opcSystem:
		return execSystem(h, f, instr)
	case opcCustom0:
		return execCustom0(h, f, instr)
	default:
		return illegalResult()
	}
}

func illegalResult() stepResult {
	return stepResult{exception: true, cause: CauseInstrIllegal}
}

func rdResult(rd, value uint32) stepResult {
	return stepResult{rdNum: rd, rdValue: value, rdValid: true}
}

func jumpResult(rd, linkValue, target uint32) stepResult {
	return stepResult{
		rdNum: rd, rdValue: linkValue, rdValid: true,
		nextPC: target, nextPCSet: true,
	}
}

func execOp(h *Hart, f opcodeFields) stepResult {
	rs1 := h.regs.get(f.rs1)
	rs2 := h.regs.get(f.rs2)

	if f.funct7 == 0b0000001 {
		return execMulDiv(f, rs1, rs2)
	}

	switch f.funct7 {
	case 0b0000000:
		switch f.funct3 {
		case 0b000:
			return rdResult(f.rd, rs1+rs2)
		case 0b001:
			return rdResult(f.rd, rs1<<(rs2&0x1f))
		case 0b010:
			return rdResult(f.rd, boolToWord(int32(rs1) < int32(rs2)))
		case 0b011:
			return rdResult(f.rd, boolToWord(rs1 < rs2))
		case 0b100:
			return rdResult(f.rd, rs1^rs2)
		case 0b101:
			return rdResult(f.rd, rs1>>(rs2&0x1f))
		case 0b110:
			return rdResult(f.rd, rs1|rs2)
		case 0b111:
			return rdResult(f.rd, rs1&rs2)
		}
	case 0b0100000:
		switch f.funct3 {
		case 0b000:
			return rdResult(f.rd, rs1-rs2)
		case 0b101:
			return rdResult(f.rd, uint32(int32(rs1)>>(rs2&0x1f)))
		case 0b100:
			return rdResult(f.rd, rs1 &^ rs2) // andn
		case 0b110:
			return rdResult(f.rd, rs1|^rs2) // orn
		case 0b111:
			return rdResult(f.rd, ^(rs1 ^ rs2)) // xnor
		}
	}

	for _, e := range opTable {
		if instrWord(f)&e.mask == e.bits {
			return rdResult(f.rd, e.exec(rs1, rs2))
		}
	}

	return illegalResult()
}

// instrWord reassembles the raw instruction bits the bitmanip tables
// match against from the decoded fields, since execOp only has the
// fields in hand by the time the table is consulted.
func instrWord(f opcodeFields) uint32 {
	return f.funct7<<25 | f.rs2<<20 | f.rs1<<15 | f.funct3<<12 | f.rd<<7 | 0b0110011
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func execMulDiv(f opcodeFields, rs1, rs2 uint32) stepResult {
	switch f.funct3 {
	case 0b000: // mul
		return rdResult(f.rd, rs1*rs2)
	case 0b001: // mulh
		p := int64(int32(rs1)) * int64(int32(rs2))
		return rdResult(f.rd, uint32(p>>32))
	case 0b010: // mulhsu
		p := int64(int32(rs1)) * int64(uint64(rs2))
		return rdResult(f.rd, uint32(p>>32))
	case 0b011: // mulhu
		p := uint64(rs1) * uint64(rs2)
		return rdResult(f.rd, uint32(p>>32))
	case 0b100: // div
		if rs2 == 0 {
			return rdResult(f.rd, 0xffffffff)
		}
		if int32(rs1) == -0x80000000 && int32(rs2) == -1 {
			return rdResult(f.rd, rs1)
		}
		return rdResult(f.rd, uint32(int32(rs1)/int32(rs2)))
	case 0b101: // divu
		if rs2 == 0 {
			return rdResult(f.rd, 0xffffffff)
		}
		return rdResult(f.rd, rs1/rs2)
	case 0b110: // rem
		if rs2 == 0 {
			return rdResult(f.rd, rs1)
		}
		if int32(rs1) == -0x80000000 && int32(rs2) == -1 {
			return rdResult(f.rd, 0)
		}
		return rdResult(f.rd, uint32(int32(rs1)%int32(rs2)))
	case 0b111: // remu
		if rs2 == 0 {
			return rdResult(f.rd, rs1)
		}
		return rdResult(f.rd, rs1%rs2)
	}
	return illegalResult()
}

func execOpImm(h *Hart, f opcodeFields, instr uint32) stepResult {
	rs1 := h.regs.get(f.rs1)
	imm := immI(instr)

	switch f.funct3 {
	case 0b000:
		return rdResult(f.rd, rs1+imm)
	case 0b010:
		return rdResult(f.rd, boolToWord(int32(rs1) < int32(imm)))
	case 0b011:
		return rdResult(f.rd, boolToWord(rs1 < imm))
	case 0b100:
		return rdResult(f.rd, rs1^imm)
	case 0b110:
		return rdResult(f.rd, rs1|imm)
	case 0b111:
		return rdResult(f.rd, rs1&imm)
	case 0b001, 0b101:
		return execShiftImm(f, instr, rs1)
	}
	return illegalResult()
}

func execShiftImm(f opcodeFields, instr uint32, rs1 uint32) stepResult {
	shamt := f.rs2 & 0x1f

	if f.funct3 == 0b001 && f.funct7 == 0b0000000 {
		return rdResult(f.rd, rs1<<shamt)
	}
	if f.funct3 == 0b101 && f.funct7 == 0b0000000 {
		return rdResult(f.rd, rs1>>shamt)
	}
	if f.funct3 == 0b101 && f.funct7 == 0b0100000 {
		return rdResult(f.rd, uint32(int32(rs1)>>shamt))
	}

	for _, e := range opImmShiftTable {
		if instr&e.mask == e.bits {
			return rdResult(f.rd, e.exec(rs1, f.rs2))
		}
	}

	return illegalResult()
}

func execBranch(h *Hart, f opcodeFields, instr uint32) stepResult {
	rs1 := h.regs.get(f.rs1)
	rs2 := h.regs.get(f.rs2)

	var taken bool
	switch f.funct3 {
	case 0b000:
		taken = rs1 == rs2
	case 0b001:
		taken = rs1 != rs2
	case 0b100:
		taken = int32(rs1) < int32(rs2)
	case 0b101:
		taken = int32(rs1) >= int32(rs2)
	case 0b110:
		taken = rs1 < rs2
	case 0b111:
		taken = rs1 >= rs2
	default:
		return illegalResult()
	}

	if !taken {
		return stepResult{}
	}
	return stepResult{nextPC: h.pc + immB(instr), nextPCSet: true}
}

func execLoad(h *Hart, f opcodeFields, instr uint32) stepResult {
	addr := h.regs.get(f.rs1) + immI(instr)

	switch f.funct3 {
	case 0b000: // lb
		v, ok := h.r8(addr)
		if !ok {
			return memFaultResult(CauseLoadFault)
		}
		return rdResult(f.rd, sext(uint32(v), 7))
	case 0b001: // lh
		if addr&0x1 != 0 {
			return memFaultResult(CauseLoadAlign)
		}
		v, ok := h.r16(addr)
		if !ok {
			return memFaultResult(CauseLoadFault)
		}
		return rdResult(f.rd, sext(uint32(v), 15))
	case 0b010: // lw
		if addr&0x3 != 0 {
			return memFaultResult(CauseLoadAlign)
		}
		v, ok := h.r32(addr)
		if !ok {
			return memFaultResult(CauseLoadFault)
		}
		return rdResult(f.rd, v)
	case 0b100: // lbu
		v, ok := h.r8(addr)
		if !ok {
			return memFaultResult(CauseLoadFault)
		}
		return rdResult(f.rd, uint32(v))
	case 0b101: // lhu
		if addr&0x1 != 0 {
			return memFaultResult(CauseLoadAlign)
		}
		v, ok := h.r16(addr)
		if !ok {
			return memFaultResult(CauseLoadFault)
		}
		return rdResult(f.rd, uint32(v))
	}
	return illegalResult()
}

func execStore(h *Hart, f opcodeFields, instr uint32) stepResult {
	addr := h.regs.get(f.rs1) + immS(instr)
	v := h.regs.get(f.rs2)

	switch f.funct3 {
	case 0b000: // sb
		if !h.w8(addr, uint8(v)) {
			return memFaultResult(CauseStoreFault)
		}
	case 0b001: // sh
		if addr&0x1 != 0 {
			return memFaultResult(CauseStoreAlign)
		}
		if !h.w16(addr, uint16(v)) {
			return memFaultResult(CauseStoreFault)
		}
	case 0b010: // sw
		if addr&0x3 != 0 {
			return memFaultResult(CauseStoreAlign)
		}
		if !h.w32(addr, v) {
			return memFaultResult(CauseStoreFault)
		}
	default:
		return illegalResult()
	}
	return stepResult{}
}

func memFaultResult(cause uint32) stepResult {
	return stepResult{exception: true, cause: cause}
}

// execAMO implements the A-extension word-sized atomics plus LR.W/SC.W.
// As a single-hart interpreter there is no other agent to race against,
// so the "atomic" read-modify-write reduces to an ordinary sequential
// one, and the reservation set tracked by loadReserved is never
// actually invalidated by anything but an intervening SC.W.
func execAMO(h *Hart, f opcodeFields, instr uint32) stepResult {
	if f.funct3 != 0b010 {
		return illegalResult()
	}
	addr := h.regs.get(f.rs1)
	funct5 := bits(instr, 31, 27)

	if addr&0x3 != 0 {
		if funct5 == 0b00010 { // lr.w
			return memFaultResult(CauseLoadAlign)
		}
		return memFaultResult(CauseStoreAlign)
	}

	switch funct5 {
	case 0b00010: // lr.w
		v, ok := h.r32(addr)
		if !ok {
			return memFaultResult(CauseStoreFault)
		}
		h.loadReserved = true
		return rdResult(f.rd, v)
	case 0b00011: // sc.w
		if !h.loadReserved {
			return rdResult(f.rd, 1)
		}
		h.loadReserved = false
		if !h.w32(addr, h.regs.get(f.rs2)) {
			return memFaultResult(CauseStoreFault)
		}
		return rdResult(f.rd, 0)
	}

	old, ok := h.r32(addr)
	if !ok {
		// Per the reference testbench, a faulting AMO read is reported
		// as a store fault rather than a load fault.
		return memFaultResult(CauseStoreFault)
	}
	rs2 := h.regs.get(f.rs2)

	var result uint32
	switch funct5 {
	case 0b00001: // amoswap.w
		result = rs2
	case 0b00000: // amoadd.w
		result = old + rs2
	case 0b00100: // amoxor.w
		result = old ^ rs2
	case 0b01100: // amoand.w
		result = old & rs2
	case 0b01000: // amoor.w
		result = old | rs2
	case 0b10000: // amomin.w
		result = sMin(old, rs2)
	case 0b10100: // amomax.w
		result = sMax(old, rs2)
	case 0b11000: // amominu.w
		result = uMin(old, rs2)
	case 0b11100: // amomaxu.w
		result = uMax(old, rs2)
	default:
		return illegalResult()
	}

	if !h.w32(addr, result) {
		return memFaultResult(CauseStoreFault)
	}
	return rdResult(f.rd, old)
}

func execSystem(h *Hart, f opcodeFields, instr uint32) stepResult {
	if f.funct3 == 0 {
		switch bits(instr, 31, 20) {
		case 0x000: // ecall
			if h.csr.priv == PrivM {
				return stepResult{exception: true, cause: CauseEcallM}
			}
			return stepResult{exception: true, cause: CauseEcallU}
		case 0x001: // ebreak
			return stepResult{exception: true, cause: CauseEbreak}
		case 0x302: // mret
			target := h.csr.trapMret()
			return stepResult{nextPC: target, nextPCSet: true}
		default:
			return illegalResult()
		}
	}

	var op uint32
	switch f.funct3 {
	case 0b001, 0b101:
		op = CSRWrite
	case 0b010, 0b110:
		op = CSRSet
	case 0b011, 0b111:
		op = CSRClear
	default:
		return illegalResult()
	}

	immForm := f.funct3 >= 0b101
	addr := bits(instr, 31, 20)

	var old uint32
	if immForm {
		// csrrwi/csrrsi/csrrci never check the read's success -- a
		// failed read here just leaves old at its zero value and rd
		// gets written with it, per the reference testbench's
		// asymmetric handling of the two csr-source forms.
		old, _ = h.csr.read(addr, true)
	} else {
		var ok bool
		old, ok = h.csr.read(addr, true)
		if !ok {
			return illegalResult()
		}
	}

	var src uint32
	if immForm {
		src = f.rs1 // rs1 field doubles as a 5-bit zero-extended immediate
	} else {
		src = h.regs.get(f.rs1)
	}

	// CSRRS/CSRRC (and their immediate forms) skip the write entirely,
	// with no write side effect at all, when the set/clear operand is
	// zero. For the register form that operand is the rs1 *field*, not
	// the value rs1 holds -- CSRRW always writes regardless of rs1.
	var skipWrite bool
	if immForm {
		skipWrite = op != CSRWrite && src == 0
	} else {
		skipWrite = op != CSRWrite && f.rs1 == 0
	}

	if !skipWrite {
		if !h.csr.write(addr, src, op) {
			if !immForm {
				return illegalResult()
			}
		}
	}

	return rdResult(f.rd, old)
}

// execCustom0 implements the curated bit-field-extract instruction
// carried under the CUSTOM-0 major opcode: extract a zero-extended
// field of width instr[28:26]+1 starting at a shift amount taken
// either from rs2's value (register form) or from the rs2 field
// itself (immediate-shift form).
func execCustom0(h *Hart, f opcodeFields, instr uint32) stepResult {
	size := bits(instr, 28, 26) + 1
	mask := uint32(1)<<size - 1

	rs1 := h.regs.get(f.rs1)

	switch f.funct3 {
	case 0b000: // register form: shift amount is rs2's value, mod 32
		rs2 := h.regs.get(f.rs2)
		return rdResult(f.rd, (rs1>>(rs2&0x1f))&mask)
	case 0b001: // immediate-shift form: shift amount is the rs2 field itself
		return rdResult(f.rd, (rs1>>f.rs2)&mask)
	}
	return illegalResult()
}
