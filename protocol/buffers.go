package protocol

// InputBuffer provides an abstraction for reading incoming link data
type InputBuffer interface {
	// Data returns the buffered bytes
	Data() []byte

	// Available returns the number of bytes buffered
	Available() int

	// Pop removes n bytes from the front of the buffer
	Pop(n int)
}

// OutputBuffer provides an abstraction for writing outgoing link data
type OutputBuffer interface {
	// Output appends data
	Output(data []byte)

	// CurPosition returns the current write position
	CurPosition() int

	// Update overwrites a byte already written
	Update(pos int, val byte)

	// DataSince returns everything written after pos
	DataSince(pos int) []byte
}

// SliceInputBuffer implements InputBuffer over a byte slice
type SliceInputBuffer struct {
	data []byte
}

// NewSliceInputBuffer creates a new SliceInputBuffer
func NewSliceInputBuffer(data []byte) *SliceInputBuffer {
	return &SliceInputBuffer{data: data}
}

func (s *SliceInputBuffer) Data() []byte   { return s.data }
func (s *SliceInputBuffer) Available() int { return len(s.data) }

func (s *SliceInputBuffer) Pop(n int) {
	if n > len(s.data) {
		n = len(s.data)
	}
	s.data = s.data[n:]
}

// ScratchOutput implements OutputBuffer on a fixed array so the firmware
// never allocates while encoding frames. Writes past the end are dropped.
type ScratchOutput struct {
	buf [MessageMax]byte
	pos int
}

// NewScratchOutput creates a new ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	s.pos += copy(s.buf[s.pos:], data)
}

func (s *ScratchOutput) CurPosition() int { return s.pos }

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos >= 0 && pos < s.pos {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos < 0 || pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns the accumulated output data
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset clears the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// Truncate drops everything written after pos
func (s *ScratchOutput) Truncate(pos int) {
	if pos >= 0 && pos <= s.pos {
		s.pos = pos
	}
}

// FifoBuffer is a ring buffer between the UART reader and the link.
type FifoBuffer struct {
	buf   []byte
	read  int
	count int
}

// NewFifoBuffer creates a FifoBuffer holding up to capacity bytes
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity)}
}

// Write appends as much of data as fits and returns the number written
func (f *FifoBuffer) Write(data []byte) int {
	n := 0
	for _, b := range data {
		if f.count == len(f.buf) {
			break
		}
		f.buf[(f.read+f.count)%len(f.buf)] = b
		f.count++
		n++
	}
	return n
}

// Read moves up to len(data) bytes out of the buffer
func (f *FifoBuffer) Read(data []byte) int {
	n := 0
	for n < len(data) && f.count > 0 {
		data[n] = f.buf[f.read]
		f.read = (f.read + 1) % len(f.buf)
		f.count--
		n++
	}
	return n
}

// Available returns the number of buffered bytes
func (f *FifoBuffer) Available() int { return f.count }

// Free returns the remaining capacity
func (f *FifoBuffer) Free() int { return len(f.buf) - f.count }

// IsEmpty reports whether nothing is buffered
func (f *FifoBuffer) IsEmpty() bool { return f.count == 0 }

// Data returns the buffered bytes as one slice. When the contents wrap
// around the end of the ring they are copied so frames can be parsed.
func (f *FifoBuffer) Data() []byte {
	end := f.read + f.count
	if end <= len(f.buf) {
		return f.buf[f.read:end]
	}
	out := make([]byte, f.count)
	n := copy(out, f.buf[f.read:])
	copy(out[n:], f.buf[:end-len(f.buf)])
	return out
}

// Pop discards n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	if n > f.count {
		n = f.count
	}
	f.read = (f.read + n) % len(f.buf)
	f.count -= n
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.count = 0
}
