package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the platform debug sink (UART, USB, println)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled gates DebugPrintln; off by default so bus handling is
	// not slowed by console output
	debugEnabled bool

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message without blocking; the message is
// dropped when the queue is full.
func DebugAsync(msg string) {
	if debugEnabled && debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// TraceRingSize is the number of bus events kept for post-mortem.
const TraceRingSize = 32

// TraceEvent is one slave interrupt as recorded by the engine.
type TraceEvent struct {
	Seq    uint32 // 1-based; zero marks an empty slot
	Kind   EventKind
	Dir    Direction
	In     byte // byte written by the master
	Out    byte // byte staged for the master
	Staged bool
	Fault  ErrorKind // zero when the event completed cleanly
}

// Trace keeps the most recent bus events. Recording never allocates so
// it is safe inside the slave interrupt.
type Trace struct {
	ring [TraceRingSize]TraceEvent
	head uint8
	seq  uint32
}

func (t *Trace) record(ev Event, a Action, err error) {
	t.seq++
	te := TraceEvent{
		Seq:    t.seq,
		Kind:   ev.Kind,
		Dir:    ev.Dir,
		In:     ev.Byte,
		Out:    a.Byte,
		Staged: a.Stage,
	}
	if pe, ok := err.(*ProtocolError); ok {
		te.Fault = pe.Kind
	}
	t.ring[t.head] = te
	t.head = (t.head + 1) % TraceRingSize
}

// Events returns the recorded events, oldest first.
func (t *Trace) Events() []TraceEvent {
	out := make([]TraceEvent, 0, TraceRingSize)
	for i := uint8(0); i < TraceRingSize; i++ {
		evt := t.ring[(t.head+i)%TraceRingSize]
		if evt.Seq == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// Clear empties the ring.
func (t *Trace) Clear() {
	*t = Trace{}
}

// Dump writes the ring through w, oldest first. Call it from task context.
func (t *Trace) Dump(w DebugWriter) {
	if w == nil {
		return
	}
	w("[I2C] === Trace Dump ===")
	for _, evt := range t.Events() {
		line := "[I2C] #" + utoa(evt.Seq) + " " + evt.Kind.String() + "/" + evt.Dir.String()
		if evt.Kind == EventData && evt.Dir == DirWrite {
			line += " in=0x" + hex8(evt.In)
		}
		if evt.Staged {
			line += " out=0x" + hex8(evt.Out)
		}
		if evt.Fault != 0 {
			line += " fault=" + evt.Fault.String()
		}
		w(line)
	}
	w("[I2C] === End Dump ===")
}
