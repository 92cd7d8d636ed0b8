package main

import (
	"strings"
	"testing"

	"gmcounter/core"
)

func TestParseFraming(t *testing.T) {
	tests := []struct {
		in       string
		expected core.VoltageFraming
	}{
		{"", core.FramingLowFirst16},
		{"v2", core.FramingLowFirst16},
		{"LO16", core.FramingLowFirst16},
		{"v1", core.FramingHigh8},
		{"hi8", core.FramingHigh8},
	}
	for _, tt := range tests {
		f, err := parseFraming(tt.in)
		if err != nil || f != tt.expected {
			t.Errorf("parseFraming(%q) = %v, %v", tt.in, f, err)
		}
	}
	if _, err := parseFraming("v3"); err == nil {
		t.Error("Expected error for unknown framing")
	}
}

func TestUnknownTransport(t *testing.T) {
	saved := connOpts.transport
	defer func() { connOpts.transport = saved }()

	connOpts.transport = "can"
	if _, err := connect(); err == nil || !strings.Contains(err.Error(), "unknown transport") {
		t.Errorf("connect err = %v", err)
	}
}

func TestSetVoltageRejectsBadValue(t *testing.T) {
	for _, arg := range []string{"4096", "5000", "0x1000", "70000", "volts"} {
		rootCmd.SetArgs([]string{"set-voltage", arg})
		err := rootCmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "invalid voltage") {
			t.Errorf("set-voltage %s: err = %v", arg, err)
		}
	}
}
