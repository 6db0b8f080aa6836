package shred

// nameAlphabet is the set of characters of replacement
// names, in the order they are enumerated.
const nameAlphabet = "0123456789" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NameEnumerator enumerates every name of a fixed length
// over the alphabet 0-9a-zA-Z, in lexicographic order of
// that alphabet ("00", "01", ... "0Z", "10", ...).
//
// The enumerator is finite: Next reports false once every
// name has been returned, and Reset restarts it.
type NameEnumerator struct {
	length    int
	digits    []int
	started   bool
	exhausted bool
}

// NewNameEnumerator creates an enumerator of names of the
// specified length. A non-positive length yields nothing.
func NewNameEnumerator(length int) *NameEnumerator {
	e := &NameEnumerator{length: length}
	e.Reset()
	return e
}

// Len returns the length of the enumerated names.
func (e *NameEnumerator) Len() int {
	return e.length
}

// Reset restarts the enumeration from the first name.
func (e *NameEnumerator) Reset() {
	if e.length <= 0 {
		e.digits = nil
		e.exhausted = true
		return
	}
	e.digits = make([]int, e.length)
	e.started = false
	e.exhausted = false
}

// Exhausted tells whether every name has been returned.
func (e *NameEnumerator) Exhausted() bool {
	return e.exhausted
}

// Next returns the next name, or false when exhausted.
func (e *NameEnumerator) Next() (string, bool) {
	if e.exhausted {
		return "", false
	}
	if e.started && !e.advance() {
		e.exhausted = true
		return "", false
	}
	e.started = true
	name := make([]byte, e.length)
	for i, d := range e.digits {
		name[i] = nameAlphabet[d]
	}
	return string(name), true
}

// advance increments the digits as an odometer, the last
// position varying fastest. It returns false on overflow.
func (e *NameEnumerator) advance() bool {
	for i := e.length - 1; i >= 0; i-- {
		e.digits[i]++
		if e.digits[i] < len(nameAlphabet) {
			return true
		}
		e.digits[i] = 0
	}
	return false
}
