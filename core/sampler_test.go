package core

import (
	"errors"
	"testing"
)

// MockVoltageSource returns readings in order, then fails.
type MockVoltageSource struct {
	Readings []uint16
	Err      error
	calls    int
}

func (m *MockVoltageSource) ReadVoltage() (uint16, error) {
	if m.calls >= len(m.Readings) {
		return 0, m.Err
	}
	v := m.Readings[m.calls]
	m.calls++
	return v, nil
}

func TestSamplerAverages(t *testing.T) {
	src := &MockVoltageSource{Readings: []uint16{100, 200, 300, 400}}
	state := NewDeviceState()
	s := NewSampler(src, 4)

	if err := s.Poll(state); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if state.CurrentVoltage() != 250 {
		t.Errorf("CurrentVoltage = %d, expected 250", state.CurrentVoltage())
	}
	if s.Polls != 1 || s.Errors != 0 {
		t.Errorf("Polls=%d Errors=%d", s.Polls, s.Errors)
	}
}

func TestSamplerFullScale(t *testing.T) {
	src := &MockVoltageSource{Readings: []uint16{0xFFFF, 0xFFFF}}
	state := NewDeviceState()
	if err := NewSampler(src, 2).Poll(state); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if state.CurrentVoltage() != 0xFFFF {
		t.Errorf("Average overflowed: 0x%04X", state.CurrentVoltage())
	}
}

func TestSamplerZeroSamplesReadsOnce(t *testing.T) {
	src := &MockVoltageSource{Readings: []uint16{123, 456}}
	state := NewDeviceState()
	if err := NewSampler(src, 0).Poll(state); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if state.CurrentVoltage() != 123 || src.calls != 1 {
		t.Errorf("CurrentVoltage=%d calls=%d", state.CurrentVoltage(), src.calls)
	}
}

func TestSamplerErrorKeepsPreviousValue(t *testing.T) {
	src := &MockVoltageSource{Readings: []uint16{500, 600}, Err: errors.New("adc busy")}
	state := NewDeviceState()
	s := NewSampler(src, 1)

	s.Poll(state)
	s.Poll(state)
	if err := s.Poll(state); !errors.Is(err, src.Err) {
		t.Fatalf("Expected adc error, got %v", err)
	}
	if state.CurrentVoltage() != 600 {
		t.Errorf("CurrentVoltage = %d after failed poll, expected 600", state.CurrentVoltage())
	}
	if s.Errors != 1 || s.LastErr == nil {
		t.Errorf("Errors=%d LastErr=%v", s.Errors, s.LastErr)
	}

	src.Readings = append(src.Readings, 700)
	if err := s.Poll(state); err != nil || s.LastErr != nil {
		t.Errorf("Recovery poll: err=%v LastErr=%v", err, s.LastErr)
	}
}
