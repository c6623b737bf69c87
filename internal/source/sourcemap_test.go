package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"its-hmny.dev/nand2tetris/internal/source"
)

func TestMapRoundTrip(t *testing.T) {
	m := source.NewMap()
	m.Record("Main.vm", 0, 0)
	m.Record("Main.vm", 0, 1)
	m.Record("Main.vm", 1, 2)
	m.Record("Sys.vm", 0, 3)

	entry, ok := m.LookupASM(1)
	assert.True(t, ok)
	assert.Equal(t, source.Entry{VMFilename: "Main.vm", VMCommandIdx: 0}, entry)

	asmIdx, ok := m.LookupVM("Main.vm", 1)
	assert.True(t, ok)
	assert.Equal(t, 2, asmIdx)

	_, ok = m.LookupASM(99)
	assert.False(t, ok)

	_, ok = m.LookupVM("Main.vm", 99)
	assert.False(t, ok)

	assert.Equal(t, 4, m.Len())
}

func TestMapLookupASMZeroValue(t *testing.T) {
	m := source.NewMap()
	// Recording an entry at index 5 without ever recording index 0 should not
	// make LookupASM(0) falsely report a found zero-value Entry.
	m.Record("Main.vm", 0, 5)

	_, ok := m.LookupASM(0)
	assert.False(t, ok, "index 0 was never recorded and must not appear found")
}
