package core

// VoltageSource is the ADC primitive that feeds GET_VOLTAGE.
type VoltageSource interface {
	// ReadVoltage performs a one-shot conversion and returns the raw
	// reading. Implementations block only for the conversion itself.
	ReadVoltage() (uint16, error)
}
