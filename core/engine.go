package core

import "errors"

// CommandFunc applies a registered command to the device state. args holds
// exactly the number of data bytes declared at registration. It runs with
// interrupts disabled and must not block.
type CommandFunc func(state *DeviceState, args []byte) error

type commandSpec struct {
	args  int
	apply CommandFunc
}

// effects are the collaborator calls a completed command asks for. They
// run after the state update so the critical section stays short.
type effects struct {
	setIndicator bool
	indicator    bool
	writeDAC     bool
	dac          uint16
}

// Engine is the I2C slave command protocol state machine. It owns the
// transaction session and applies completed commands to a DeviceState.
// HandleEvent is not reentrant; the bus hardware serializes slave events.
type Engine struct {
	cfg     Config
	state   *DeviceState
	hw      Collaborators
	session Session
	custom  map[Opcode]commandSpec
	trace   Trace
}

// NewEngine returns an engine bound to state and the given hardware.
func NewEngine(cfg Config, state *DeviceState, hw Collaborators) *Engine {
	return &Engine{
		cfg:   cfg,
		state: state,
		hw:    hw,
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// State returns the device state the engine mutates.
func (e *Engine) State() *DeviceState {
	return e.state
}

// Session returns a copy of the current transaction state.
func (e *Engine) Session() Session {
	return e.session
}

// Trace returns the ring of recent bus events.
func (e *Engine) Trace() *Trace {
	return &e.trace
}

// RegisterCommand adds a command for an opcode that is not built in. It
// must be called before the bus is enabled.
func (e *Engine) RegisterCommand(op Opcode, args int, apply CommandFunc) error {
	if op.Known() {
		return errors.New("opcode " + op.String() + " is built in")
	}
	if args < 0 || args > MaxArguments {
		return &ProtocolError{Kind: ReceiveOverflow, Opcode: op, Index: args}
	}
	if apply == nil {
		return errors.New("nil command for opcode 0x" + hex8(uint8(op)))
	}
	if e.custom == nil {
		e.custom = make(map[Opcode]commandSpec)
	}
	e.custom[op] = commandSpec{args: args, apply: apply}
	return nil
}

// HandleEvent runs one slave interrupt through the state machine. The
// returned Action always releases the clock and clears the pending flag,
// including when an error is returned.
func (e *Engine) HandleEvent(ev Event) (Action, error) {
	var a Action
	var err error

	switch {
	case ev.Kind == EventAddress && ev.Dir == DirRead:
		e.session.resetIndices()
		e.captureResponse()
		a, err = e.transmit()
	case ev.Kind == EventAddress:
		e.session.resetIndices()
	case ev.Dir == DirWrite:
		err = e.receive(ev.Byte)
	default:
		a, err = e.transmit()
	}

	e.trace.record(ev, a, err)
	return finish(a), err
}

// Execute applies a complete command outside of a bus transaction, for
// the UART console. It does not touch the I2C session.
func (e *Engine) Execute(op Opcode, args []byte) error {
	n, ok := e.arguments(op)
	if !ok && e.cfg.StrictOpcodes {
		return &ProtocolError{Kind: UnexpectedOpcode, Opcode: op}
	}
	if len(args) < n {
		return &ProtocolError{Kind: TruncatedCommand, Opcode: op, Index: len(args)}
	}
	if len(args) > n {
		return &ProtocolError{Kind: ReceiveOverflow, Opcode: op, Index: len(args)}
	}
	return e.complete(op, args)
}

// arguments reports the data byte count for op and whether op has a
// command behind it.
func (e *Engine) arguments(op Opcode) (int, bool) {
	if spec, ok := e.custom[op]; ok {
		return spec.args, true
	}
	if op.Known() {
		return op.Arguments(), true
	}
	return 0, false
}

// receive stores one byte written by the master.
func (e *Engine) receive(b byte) error {
	s := &e.session
	if s.ReceiveIndex >= len(s.Received) {
		s.ReceiveIndex = 0
		return &ProtocolError{Kind: ReceiveOverflow, Opcode: s.Command, Index: len(s.Received)}
	}
	s.Received[s.ReceiveIndex] = b

	var err error
	if s.ReceiveIndex == 0 {
		op := Opcode(b)
		n, ok := e.arguments(op)
		if !ok && e.cfg.StrictOpcodes {
			err = &ProtocolError{Kind: UnexpectedOpcode, Opcode: op}
		}
		s.Command = op
		s.Expected = n
	}

	if s.ReceiveIndex < s.Expected {
		s.ReceiveIndex++
		return err
	}

	s.ReceiveIndex = 0
	if cerr := e.complete(s.Command, s.Received[1:1+s.Expected]); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// captureResponse samples the value served by this read transaction.
func (e *Engine) captureResponse() {
	s := &e.session
	if s.Command == OpGetVoltage {
		v := e.state.CurrentVoltage()
		switch e.cfg.Framing {
		case FramingHigh8:
			s.response[0] = byte(v >> 8)
		default:
			s.response[0] = byte(v)
			s.response[1] = byte(v >> 8)
		}
		s.responseLen = e.cfg.Framing.Length()
		return
	}

	c := e.state.PulseCount()
	s.response[0] = byte(c >> 24)
	s.response[1] = byte(c >> 16)
	s.response[2] = byte(c >> 8)
	s.response[3] = byte(c)
	s.responseLen = 4
}

// transmit stages the next response byte.
func (e *Engine) transmit() (Action, error) {
	s := &e.session
	if s.SendIndex >= s.responseLen {
		s.Staged = e.cfg.OverrunByte
		return Action{Stage: true, Byte: s.Staged},
			&ProtocolError{Kind: ReadBeyondResponseLength, Opcode: s.Command, Index: s.SendIndex}
	}
	s.Staged = s.response[s.SendIndex]
	s.SendIndex++
	return Action{Stage: true, Byte: s.Staged}, nil
}

// complete applies a fully received command and drives the collaborators.
func (e *Engine) complete(op Opcode, args []byte) error {
	if spec, ok := e.custom[op]; ok {
		irq := disableInterrupts()
		err := spec.apply(e.state, args)
		restoreInterrupts(irq)
		return err
	}
	return e.perform(op, e.apply(op, args))
}

// apply updates the device state for a built-in command. Unknown opcodes
// and GET_VOLTAGE change nothing.
func (e *Engine) apply(op Opcode, args []byte) effects {
	var fx effects

	irq := disableInterrupts()
	switch op {
	case OpStart:
		e.state.counting.Store(true)
		fx.setIndicator, fx.indicator = true, true
	case OpStop:
		e.state.counting.Store(false)
		fx.setIndicator = true
		if e.cfg.ZeroOutputOnStop {
			e.state.targetVoltage = 0
			fx.writeDAC = true
		}
	case OpReset:
		e.state.pulses.Reset()
	case OpSetVoltage:
		v := uint16(args[0])<<8 | uint16(args[1])
		e.state.targetVoltage = v
		fx.writeDAC, fx.dac = true, v
	}
	restoreInterrupts(irq)

	return fx
}

func (e *Engine) perform(op Opcode, fx effects) error {
	var err error
	if fx.setIndicator && e.hw.Indicator != nil {
		if ierr := e.hw.Indicator.SetIndicator(fx.indicator); ierr != nil {
			err = &CollaboratorError{Opcode: op, Err: ierr}
		}
	}
	if fx.writeDAC && e.hw.DAC != nil {
		if derr := e.hw.DAC.SetOutput(fx.dac); derr != nil && err == nil {
			err = &CollaboratorError{Opcode: op, Err: derr}
		}
	}
	return err
}
