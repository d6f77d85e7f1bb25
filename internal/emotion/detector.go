package emotion

import (
	"math"
)

const (
	// DefaultWindow is the trailing rolling-mean width, in hour blocks.
	DefaultWindow = 12
	// DefaultThreshold is the |z_smooth| an hour block must exceed to be flagged.
	DefaultThreshold = 2.0
)

// Normalize returns a copy of s with Z and ZSmooth filled. Z is the z-score
// against the series' own mean and sample standard deviation; ZSmooth is
// the trailing mean of window consecutive Z values and is unset for the
// first window-1 points.
func Normalize(s Series, window int) (Series, error) {
	if window < 1 {
		window = DefaultWindow
	}
	if len(s) < 2 {
		return nil, ErrDegenerate
	}

	var sum float64
	lo, hi := s[0].Intensity, s[0].Intensity
	for _, p := range s {
		sum += p.Intensity
		lo = math.Min(lo, p.Intensity)
		hi = math.Max(hi, p.Intensity)
	}
	if lo == hi {
		return nil, ErrDegenerate
	}
	mean := sum / float64(len(s))

	var sq float64
	for _, p := range s {
		d := p.Intensity - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(s)-1))
	// Rounding in the mean leaves a tiny residual spread on flat series.
	if math.IsNaN(std) || math.IsInf(std, 0) || std <= 1e-12*math.Max(1, math.Abs(mean)) {
		return nil, ErrDegenerate
	}

	out := make(Series, len(s))
	copy(out, s)
	for i := range out {
		out[i].Z = (out[i].Intensity - mean) / std
		out[i].Normalized = true
		out[i].ZSmooth = 0
		out[i].Smoothed = false
	}

	for i := window - 1; i < len(out); i++ {
		var sum float64
		for _, p := range out[i-window+1 : i+1] {
			sum += p.Z
		}
		out[i].ZSmooth = sum / float64(window)
		out[i].Smoothed = true
	}
	return out, nil
}

// DetectEvents scans the smoothed series in order and merges consecutive
// same-polarity hour blocks beyond ±threshold into events. Points without a
// smoothed value are never flagged. The result is empty, not nil, when
// nothing crosses the threshold.
func DetectEvents(s Series, threshold float64) []Event {
	events := []Event{}
	var current *Event

	for i, p := range s {
		pol, flagged := classify(p, threshold)
		if !flagged {
			current = nil
			continue
		}

		if current != nil && current.Polarity == pol && current.EndIndex == i-1 {
			current.EndIndex = i
			current.EndBucket = p.HourBlock
			current.PeakIntensity = math.Max(current.PeakIntensity, math.Abs(p.ZSmooth))
			continue
		}

		events = append(events, Event{
			StartBucket:   p.HourBlock,
			EndBucket:     p.HourBlock,
			StartIndex:    i,
			EndIndex:      i,
			Polarity:      pol,
			PeakIntensity: math.Abs(p.ZSmooth),
		})
		current = &events[len(events)-1]
	}

	return events
}

func classify(p Point, threshold float64) (Polarity, bool) {
	if !p.Smoothed {
		return "", false
	}
	switch {
	case p.ZSmooth > threshold:
		return PolarityPositive, true
	case p.ZSmooth < -threshold:
		return PolarityNegative, true
	default:
		return "", false
	}
}
