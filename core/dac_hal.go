package core

// DACDriver is the output stage that SET_VOLTAGE forwards its setpoint to.
type DACDriver interface {
	// SetOutput writes a new output code. Called synchronously from the
	// I2C interrupt, so it must not wait beyond its own bus transfer.
	SetOutput(value uint16) error
}

// Collaborators bundles the hardware the engine drives when a command
// completes. Nil members are skipped.
type Collaborators struct {
	DAC       DACDriver
	Indicator IndicatorDriver
}
