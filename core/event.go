package core

// Direction is the R_W bit latched at the address match.
type Direction uint8

const (
	DirWrite Direction = 0 // master writes to the slave
	DirRead  Direction = 1 // master reads from the slave
)

func (d Direction) String() string {
	if d == DirRead {
		return "read"
	}
	return "write"
}

// EventKind is the D_A bit of the slave interrupt.
type EventKind uint8

const (
	// EventAddress marks the start of a transaction addressed to us.
	EventAddress EventKind = 0

	// EventData marks a received byte (write) or a request for the next
	// outbound byte (read).
	EventData EventKind = 1
)

func (k EventKind) String() string {
	if k == EventData {
		return "data"
	}
	return "address"
}

// Event is one slave interrupt as seen by the engine.
type Event struct {
	Kind EventKind
	Dir  Direction
	Byte byte // received byte, for write data events
}

// AddressEvent returns the address-match event for a transaction.
func AddressEvent(dir Direction) Event {
	return Event{Kind: EventAddress, Dir: dir}
}

// WriteEvent returns the data event for a byte written by the master.
func WriteEvent(b byte) Event {
	return Event{Kind: EventData, Dir: DirWrite, Byte: b}
}

// ReadEvent returns the data event requesting the next outbound byte.
func ReadEvent() Event {
	return Event{Kind: EventData, Dir: DirRead}
}

// Action tells the bus shim what to do before returning from the
// interrupt: load Byte into the transmit register when Stage is set, then
// release the clock and clear the pending flag.
type Action struct {
	Stage        bool
	Byte         byte
	Release      bool
	ClearPending bool
}

// finish marks the action as complete; every event ends this way.
func finish(a Action) Action {
	a.Release = true
	a.ClearPending = true
	return a
}
