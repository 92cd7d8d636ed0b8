package mcp4725

import (
	"bytes"
	"errors"
	"testing"
)

// MockBus records writes and serves a canned read.
type MockBus struct {
	Addr   uint16
	Writes [][]byte
	Read   []byte
	Err    error
}

func (b *MockBus) Tx(addr uint16, w, r []byte) error {
	b.Addr = addr
	if b.Err != nil {
		return b.Err
	}
	if len(w) > 0 {
		b.Writes = append(b.Writes, append([]byte(nil), w...))
	}
	copy(r, b.Read)
	return nil
}

func (b *MockBus) last(t *testing.T) []byte {
	t.Helper()
	if len(b.Writes) == 0 {
		t.Fatal("No bus write")
	}
	return b.Writes[len(b.Writes)-1]
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		value    uint16
		expected []byte
	}{
		{0x000, []byte{0x00, 0x00}},
		{0x123, []byte{0x01, 0x23}},
		{0xFFF, []byte{0x0F, 0xFF}},
		{0x1234, []byte{0x0F, 0xFF}}, // clamped
	}

	for _, tt := range tests {
		bus := &MockBus{}
		d := New(bus, DefaultAddress)
		if err := d.SetValue(tt.value); err != nil {
			t.Fatalf("SetValue(0x%X): %v", tt.value, err)
		}
		if got := bus.last(t); !bytes.Equal(got, tt.expected) {
			t.Errorf("SetValue(0x%X) wrote %X, expected %X", tt.value, got, tt.expected)
		}
		if bus.Addr != DefaultAddress {
			t.Errorf("Address = 0x%X", bus.Addr)
		}
	}
}

func TestSetValuePersistent(t *testing.T) {
	bus := &MockBus{}
	d := New(bus, 0x61)
	if err := d.SetValuePersistent(0xABC); err != nil {
		t.Fatal(err)
	}
	expected := []byte{0x60, 0xAB, 0xC0}
	if got := bus.last(t); !bytes.Equal(got, expected) {
		t.Errorf("Wrote %X, expected %X", got, expected)
	}
}

func TestPowerDown(t *testing.T) {
	bus := &MockBus{}
	d := New(bus, DefaultAddress)
	if err := d.PowerDown(PowerDown500, 0x800); err != nil {
		t.Fatal(err)
	}
	expected := []byte{0x46, 0x80, 0x00}
	if got := bus.last(t); !bytes.Equal(got, expected) {
		t.Errorf("Wrote %X, expected %X", got, expected)
	}
}

func TestRead(t *testing.T) {
	bus := &MockBus{Read: []byte{0xC2, 0x12, 0x30, 0x44, 0x56}}
	d := New(bus, DefaultAddress)

	s, err := d.Read()
	if err != nil {
		t.Fatal(err)
	}
	expected := Status{
		Ready:       true,
		PowerOnDone: true,
		PowerDown:   PowerDown1k,
		Value:       0x123,
		EEPROMPower: PowerDown100,
		EEPROMValue: 0x456,
	}
	if s != expected {
		t.Errorf("Read = %+v, expected %+v", s, expected)
	}
}

func TestDecodeStatusShort(t *testing.T) {
	if _, err := decodeStatus([]byte{0, 0, 0}); err != errShortRead {
		t.Errorf("err = %v, expected errShortRead", err)
	}
}

func TestBusErrorsWrapped(t *testing.T) {
	busErr := errors.New("nack")
	d := New(&MockBus{Err: busErr}, DefaultAddress)

	if err := d.SetOutput(1); !errors.Is(err, busErr) {
		t.Errorf("SetOutput err = %v", err)
	}
	if err := d.SetValuePersistent(1); !errors.Is(err, busErr) {
		t.Errorf("SetValuePersistent err = %v", err)
	}
	if _, err := d.Read(); !errors.Is(err, busErr) {
		t.Errorf("Read err = %v", err)
	}
}
