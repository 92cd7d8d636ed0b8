// Package monitor samples a pulse counter over time and reports count
// rates.
package monitor

import (
	"context"
	"errors"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Counter is anything that can return the current pulse count.
type Counter interface {
	Count() (uint32, error)
}

// Sample is one counter reading.
type Sample struct {
	At    time.Time
	Count uint32
}

// Stats summarises the rates between consecutive samples, in counts per
// second.
type Stats struct {
	Intervals int
	Total     uint64 // pulses over the whole run, across counter wraps
	Elapsed   time.Duration
	Mean      float64
	StdDev    float64
	Median    float64
	Min, Max  float64
}

var ErrTooFewSamples = errors.New("monitor: need at least two samples")

// Delta returns the pulses between two readings. The counter is 32 bits
// and wraps, so a smaller later value is a wrap rather than a reset.
func Delta(prev, next uint32) uint32 {
	return next - prev
}

// Rate returns counts per second between two samples. ok is false when
// no time elapsed between them.
func Rate(prev, next Sample) (rate float64, ok bool) {
	dt := next.At.Sub(prev.At).Seconds()
	if dt <= 0 {
		return 0, false
	}
	return float64(Delta(prev.Count, next.Count)) / dt, true
}

// Rates converts samples into per-interval rates. Intervals with no
// elapsed time are skipped.
func Rates(samples []Sample) []float64 {
	if len(samples) < 2 {
		return nil
	}
	rates := make([]float64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		if r, ok := Rate(samples[i-1], samples[i]); ok {
			rates = append(rates, r)
		}
	}
	return rates
}

// Summarize computes rate statistics over samples.
func Summarize(samples []Sample) (Stats, error) {
	rates := Rates(samples)
	if len(rates) == 0 {
		return Stats{}, ErrTooFewSamples
	}

	var s Stats
	s.Intervals = len(rates)
	for i := 1; i < len(samples); i++ {
		s.Total += uint64(Delta(samples[i-1].Count, samples[i].Count))
	}
	s.Elapsed = samples[len(samples)-1].At.Sub(samples[0].At)

	s.Mean, s.StdDev = stat.MeanStdDev(rates, nil)
	if len(rates) < 2 {
		s.StdDev = 0
	}

	sorted := append([]float64(nil), rates...)
	sort.Float64s(sorted)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.Min, s.Max = sorted[0], sorted[len(sorted)-1]
	return s, nil
}

// Run reads c every interval until n samples are taken or ctx is done.
// n <= 0 runs until ctx is done. onSample, if set, sees every sample with
// the rate since the previous one.
func Run(ctx context.Context, c Counter, interval time.Duration, n int, onSample func(Sample, float64)) ([]Sample, error) {
	if interval <= 0 {
		return nil, errors.New("monitor: interval must be positive")
	}

	var samples []Sample
	take := func() error {
		count, err := c.Count()
		if err != nil {
			return err
		}
		s := Sample{At: time.Now(), Count: count}
		rate := 0.0
		if len(samples) > 0 {
			rate, _ = Rate(samples[len(samples)-1], s)
		}
		samples = append(samples, s)
		if onSample != nil {
			onSample(s, rate)
		}
		return nil
	}

	if err := take(); err != nil {
		return samples, err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n <= 0 || len(samples) < n {
		select {
		case <-ctx.Done():
			return samples, ctx.Err()
		case <-ticker.C:
			if err := take(); err != nil {
				return samples, err
			}
		}
	}
	return samples, nil
}
