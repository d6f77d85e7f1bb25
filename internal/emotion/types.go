package emotion

import (
	"errors"
)

// ErrDegenerate is returned when a series has no usable spread: fewer than
// two points, or a standard deviation that is zero or undefined.
var ErrDegenerate = errors.New("emotion series has zero or undefined variance")

// Point is one hour block of the emotion series.
type Point struct {
	HourBlock string `json:"hour_block"`
	Messages  int    `json:"messages"`
	// Intensity is the mean message intensity within the block.
	Intensity float64 `json:"intensity"`

	// Z and ZSmooth are filled by Normalize; Normalized is false on a series
	// whose variance was too low to normalize. ZSmooth is only meaningful
	// when Smoothed is true; the first window-1 points of a series are not.
	Z          float64 `json:"z"`
	ZSmooth    float64 `json:"z_smooth"`
	Normalized bool    `json:"normalized"`
	Smoothed   bool    `json:"smoothed"`
}

// Series is ordered by hour block, oldest first.
type Series []Point

type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)

// Event is a run of consecutive hour blocks whose smoothed z-score stays
// beyond the threshold on the same side.
type Event struct {
	StartBucket string   `json:"start_bucket"`
	EndBucket   string   `json:"end_bucket"`
	StartIndex  int      `json:"start_index"`
	EndIndex    int      `json:"end_index"`
	Polarity    Polarity `json:"polarity"`
	// PeakIntensity is the largest |z_smooth| inside the run.
	PeakIntensity float64 `json:"peak_intensity"`
}
