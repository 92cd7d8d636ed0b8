package core

// IndicatorDriver drives the front-panel indicator that shows whether
// counting is enabled. Platform-specific implementations handle the pin.
type IndicatorDriver interface {
	// SetIndicator switches the indicator on (true) or off (false).
	SetIndicator(on bool) error
}
