package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"gmcounter/core"
	"gmcounter/host/bus"
	"gmcounter/host/console"
	"gmcounter/host/serial"
)

// board is the command surface shared by both transports.
type board interface {
	io.Closer
	Start() error
	Stop() error
	Reset() error
	SetVoltage(v uint16) error
	Voltage() (uint16, error)
	Count() (uint32, error)
}

func parseFraming(s string) (core.VoltageFraming, error) {
	switch strings.ToLower(s) {
	case "v2", "lo16", "":
		return core.FramingLowFirst16, nil
	case "v1", "hi8":
		return core.FramingHigh8, nil
	}
	return 0, fmt.Errorf("unknown framing %q (want v1 or v2)", s)
}

func connect() (board, error) {
	switch connOpts.transport {
	case "i2c":
		framing, err := parseFraming(connOpts.framing)
		if err != nil {
			return nil, err
		}
		c, err := bus.Open(connOpts.bus, connOpts.addr, framing)
		if err != nil {
			return nil, err
		}
		if connOpts.verbose {
			log.Printf("connected to %s", c)
		}
		return c, nil

	case "serial":
		cfg := serial.DefaultConfig(connOpts.device)
		cfg.Baud = connOpts.baud
		port, err := serial.Open(cfg)
		if err != nil {
			return nil, err
		}
		if err := port.Flush(); err != nil && connOpts.verbose {
			log.Printf("flush %s: %v", cfg.Device, err)
		}
		if connOpts.verbose {
			log.Printf("connected to %s at %d baud", cfg.Device, cfg.Baud)
		}
		return console.New(port), nil
	}
	return nil, fmt.Errorf("unknown transport %q (want i2c or serial)", connOpts.transport)
}

// withBoard connects, runs fn and closes the connection.
func withBoard(fn func(b board) error) error {
	b, err := connect()
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}
