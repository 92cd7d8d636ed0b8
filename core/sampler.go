package core

// Sampler polls the ADC from the main loop and publishes the averaged
// reading as the value served by GET_VOLTAGE.
type Sampler struct {
	Source  VoltageSource
	Samples uint8 // readings averaged per poll; 0 means 1

	// Last error from the source, cleared by the next good poll
	LastErr error
	Polls   uint32
	Errors  uint32
}

// NewSampler returns a sampler that averages samples readings per poll.
func NewSampler(src VoltageSource, samples uint8) *Sampler {
	return &Sampler{Source: src, Samples: samples}
}

// Poll takes one oversampled reading and stores it in state. On a read
// error the previously published value is left in place.
func (s *Sampler) Poll(state *DeviceState) error {
	n := uint32(s.Samples)
	if n == 0 {
		n = 1
	}

	var sum uint32
	for i := uint32(0); i < n; i++ {
		v, err := s.Source.ReadVoltage()
		if err != nil {
			s.Errors++
			s.LastErr = err
			return err
		}
		sum += uint32(v)
	}

	state.SetCurrentVoltage(uint16(sum / n))
	s.Polls++
	s.LastErr = nil
	return nil
}
