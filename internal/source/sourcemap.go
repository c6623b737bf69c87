// Package source implements the bidirectional source-map sink (C10):
// a recording interface between VM commands and the assembly instructions
// they lower to. It has no effect on code correctness; it exists purely to
// be consumed by external tooling (e.g. an IDE stepping through a .vm file
// while watching the assembled .asm/.hack run).
package source

// Entry identifies the VM command an emitted ASM instruction came from.
type Entry struct {
	VMFilename   string
	VMCommandIdx int
}

// Map is populated only during VM codegen (C8). Never during assembly.
type Map struct {
	asmToVM map[int]Entry          // asmIdx -> Entry
	vmToAsm map[string]map[int]int // vmFilename -> vmCommandIdx -> asmIdx
}

// NewMap returns an empty, ready-to-use source map.
func NewMap() *Map {
	return &Map{asmToVM: map[int]Entry{}, vmToAsm: map[string]map[int]int{}}
}

// Record associates the asmIdx-th emitted instruction with the vmCommandIdx-th
// command of vmFilename. Call once per emitted ASM instruction.
func (m *Map) Record(vmFilename string, vmCommandIdx, asmIdx int) {
	m.asmToVM[asmIdx] = Entry{VMFilename: vmFilename, VMCommandIdx: vmCommandIdx}

	byIdx, ok := m.vmToAsm[vmFilename]
	if !ok {
		byIdx = map[int]int{}
		m.vmToAsm[vmFilename] = byIdx
	}
	byIdx[vmCommandIdx] = asmIdx
}

// LookupASM returns the VM command that produced the asmIdx-th instruction.
func (m *Map) LookupASM(asmIdx int) (Entry, bool) {
	entry, ok := m.asmToVM[asmIdx]
	return entry, ok
}

// LookupVM returns an ASM instruction index produced by the given VM
// command, if any was recorded. Only one index is kept per command: when a
// command produced several instructions, the one recorded last is returned.
func (m *Map) LookupVM(vmFilename string, vmCommandIdx int) (int, bool) {
	byIdx, ok := m.vmToAsm[vmFilename]
	if !ok {
		return 0, false
	}
	asmIdx, ok := byIdx[vmCommandIdx]
	return asmIdx, ok
}

// Len reports how many ASM instructions have a recorded origin.
func (m *Map) Len() int { return len(m.asmToVM) }
