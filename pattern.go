package shred

import (
	"encoding/hex"
	"io"
)

// PatternKind distinguishes random passes from passes that
// repeat a fixed byte sequence.
type PatternKind int

const (
	// Random passes write freshly generated random bytes.
	Random PatternKind = iota

	// Repeating passes write a byte sequence tiled to the
	// length of the file.
	Repeating
)

// Pattern describes the content written by one pass.
//
// The sequence is kept as a string so that the table can
// be handed out by value without ever being mutated.
type Pattern struct {
	kind PatternKind
	seq  string
}

func random() Pattern {
	return Pattern{kind: Random}
}

func repeating(seq ...byte) Pattern {
	return Pattern{kind: Repeating, seq: string(seq)}
}

// Kind returns the kind of the pattern.
func (p Pattern) Kind() PatternKind {
	return p.kind
}

// Bytes returns a copy of the repeated sequence, or nil for
// random patterns.
func (p Pattern) Bytes() []byte {
	if p.kind == Random {
		return nil
	}
	return []byte(p.seq)
}

// String returns the name displayed in progress messages.
func (p Pattern) String() string {
	if p.kind == Random {
		return "random"
	}
	return hex.EncodeToString([]byte(p.seq))
}

// fill fills buf with the content found at offset of a
// file overwritten by this pattern. Random patterns read
// from rnd and ignore the offset.
func (p Pattern) fill(buf []byte, offset int64, rnd io.Reader) error {
	if p.kind == Random {
		_, err := io.ReadFull(rnd, buf)
		return err
	}
	m := int64(len(p.seq))
	start := int(offset % m)
	n := copy(buf, p.seq[start:])
	for n < len(buf) {
		n += copy(buf[n:], p.seq)
	}
	return nil
}

// patternTable lists the passes of the Gutmann method.
var patternTable = [...]Pattern{
	random(), random(), random(), random(),
	repeating(0x55, 0x55, 0x55),
	repeating(0xaa, 0xaa, 0xaa),
	repeating(0x92, 0x49, 0x24),
	repeating(0x49, 0x24, 0x92),
	repeating(0x24, 0x92, 0x49),
	repeating(0x00, 0x00, 0x00),
	repeating(0x11, 0x11, 0x11),
	repeating(0x22, 0x22, 0x22),
	repeating(0x33, 0x33, 0x33),
	repeating(0x44, 0x44, 0x44),
	repeating(0x55, 0x55, 0x55),
	repeating(0x66, 0x66, 0x66),
	repeating(0x77, 0x77, 0x77),
	repeating(0x88, 0x88, 0x88),
	repeating(0x99, 0x99, 0x99),
	repeating(0xaa, 0xaa, 0xaa),
	repeating(0xbb, 0xbb, 0xbb),
	repeating(0xcc, 0xcc, 0xcc),
	repeating(0xdd, 0xdd, 0xdd),
	repeating(0xee, 0xee, 0xee),
	repeating(0xff, 0xff, 0xff),
	repeating(0x92, 0x49, 0x24),
	repeating(0x49, 0x24, 0x92),
	repeating(0x24, 0x92, 0x49),
	repeating(0x6d, 0xb6, 0xdb),
	repeating(0xb6, 0xdb, 0x6d),
	repeating(0xdb, 0x6d, 0xb6),
	random(), random(), random(), random(),
}

// PatternCount is the length of one full cycle of passes.
const PatternCount = len(patternTable)

// zeroPattern is written by the optional trailing pass.
var zeroPattern = repeating(0x00, 0x00, 0x00)

// PatternAt returns the pattern used by the i-th pass (0
// based). The table is cycled through when i exceeds it.
func PatternAt(i int) Pattern {
	return patternTable[i%PatternCount]
}
