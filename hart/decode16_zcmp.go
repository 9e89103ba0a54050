package hart

// Zcmp's stack-pointer-based register-list push/pop family shares
// quadrant 2, funct3=101 with the (unimplemented, F-extension-only)
// compressed floating-point stack loads/stores -- there is no actual
// collision since this hart has no F extension, so the slot is free.
//
// The register-list and stack-adjustment encodings follow the
// reference testbench's zcmp_n_regs/zcmp_stack_adj/zcmp_reg_mask/
// zcmp_s_mapping helpers: rlist selects a prefix of {ra, s0, s1, ...,
// s11} (with the single irregular jump from rlist=14's s0-s9 straight
// to rlist=15's s0-s11, since there is no 12-register encoding), and
// the reserved stack space is the register count rounded up to a
// 16-byte boundary plus an additional spimm*16 bytes.

var zcmpSRegs = [12]uint32{8, 9, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27} // s0..s11

func zcmpNRegs(rlist uint32) uint32 {
	if rlist == 15 {
		return 13 // ra + s0..s11
	}
	return rlist - 3 // ra + s0..s(rlist-5)
}

func zcmpRegList(rlist uint32) []uint32 {
	n := zcmpNRegs(rlist)
	regs := make([]uint32, 0, n)
	regs = append(regs, 1) // ra
	sCount := n - 1
	regs = append(regs, zcmpSRegs[:sCount]...)
	return regs
}

func zcmpStackAdj(rlist, spimm uint32) uint32 {
	n := zcmpNRegs(rlist)
	base := (n*4 + 15) &^ 15
	return base + spimm<<4
}

// execute16Zcmp handles the cm.push/cm.pop/cm.popret/cm.popretz family
// and the mva01s/mvsa01 register shuffles, all sharing funct3=101 in
// quadrant 10. The register-shuffle pair is its own funct6 (instr[15:10]
// = 101011) and is distinguished from each other by instr[6:5] (01 =
// mvsa01, 11 = mva01s); the push/pop family uses a different funct6 and
// is further selected by the 5-bit field at instr[12:8].
func execute16Zcmp(h *Hart, instr uint32) stepResult {
	if bits(instr, 15, 10) == 0b101011 {
		sreg1 := zcmpSRegMap(bits(instr, 9, 7))
		sreg2 := zcmpSRegMap(bits(instr, 4, 2))
		switch bits(instr, 6, 5) {
		case 0b01: // mvsa01
			h.regs.set(sreg1, h.regs.get(10))
			h.regs.set(sreg2, h.regs.get(11))
			return stepResult{}
		case 0b11: // mva01s
			h.regs.set(10, h.regs.get(sreg1))
			h.regs.set(11, h.regs.get(sreg2))
			return stepResult{}
		}
		return illegalResult()
	}

	family := bits(instr, 12, 8)
	rlist := bits(instr, 7, 4)
	spimm := bits(instr, 3, 2)

	switch family {
	case 0b11000: // cm.push
		if rlist < 4 {
			return illegalResult()
		}
		return zcmpPush(h, rlist, spimm)
	case 0b11010: // cm.pop
		if rlist < 4 {
			return illegalResult()
		}
		return zcmpPop(h, rlist, spimm, false, false)
	case 0b11110: // cm.popret
		if rlist < 4 {
			return illegalResult()
		}
		return zcmpPop(h, rlist, spimm, true, false)
	case 0b11100: // cm.popretz
		if rlist < 4 {
			return illegalResult()
		}
		return zcmpPop(h, rlist, spimm, true, true)
	}
	return illegalResult()
}

// zcmpSRegMap converts the 3-bit saved-register index used by
// mva01s/mvsa01 into a physical register number: 0,1 map to s0,s1
// (x8,x9); 2..7 map to s2..s7 (x18..x23).
func zcmpSRegMap(idx uint32) uint32 {
	if idx < 2 {
		return 8 + idx
	}
	return 16 + idx
}

// zcmpPush stores the listed registers highest-numbered first, starting
// just below the current sp, so the last one pushed (ra) ends up at the
// lowest address in the pushed block, right above whatever spimm
// padding follows. sp is lowered by the full reserved region only after
// every store has succeeded; a store fault leaves sp unchanged.
func zcmpPush(h *Hart, rlist, spimm uint32) stepResult {
	regs := zcmpRegList(rlist)
	adj := zcmpStackAdj(rlist, spimm)
	newSP := h.regs.get(2) - adj

	for i, n := 0, len(regs); i < n; i++ {
		r := regs[n-1-i]
		addr := newSP + adj - 4 - uint32(i)*4
		if !h.w32(addr, h.regs.get(r)) {
			return memFaultResult(CauseStoreFault)
		}
	}
	h.regs.set(2, newSP)
	return stepResult{}
}

// zcmpPop mirrors zcmpPush: load registers highest-numbered first from
// the current top-of-stack region (matching the address each one was
// pushed to). Only once every load has succeeded does it write them
// straight through h.regs, release the space by advancing sp, and zero
// a0 on popretz; a load fault leaves every register unchanged. The step
// result carries no register write of its own, only the implicit jump
// on popret/popretz.
func zcmpPop(h *Hart, rlist, spimm uint32, ret, retz bool) stepResult {
	regs := zcmpRegList(rlist)
	adj := zcmpStackAdj(rlist, spimm)
	sp := h.regs.get(2)

	vals := make([]uint32, len(regs))
	for i, n := 0, len(regs); i < n; i++ {
		addr := sp + adj - 4 - uint32(i)*4
		v, ok := h.r32(addr)
		if !ok {
			return memFaultResult(CauseLoadFault)
		}
		vals[n-1-i] = v
	}
	for i, r := range regs {
		h.regs.set(r, vals[i])
	}
	h.regs.set(2, sp+adj)

	if retz {
		h.regs.set(10, 0)
	}
	if ret {
		return stepResult{nextPC: h.regs.get(1) &^ 1, nextPCSet: true}
	}
	return stepResult{}
}
