package transfer

import (
	"fmt"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	trackingPrefix   = "RM"
	trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	trackingLength   = 8
)

// TrackingGenerator returns customer-facing tracking numbers.
type TrackingGenerator func() string

// NewTrackingGenerator builds a generator of "RM" + 8 uppercase
// alphanumerics.
func NewTrackingGenerator() (TrackingGenerator, error) {
	gen, err := nanoid.CustomASCII(trackingAlphabet, trackingLength)
	if err != nil {
		return nil, fmt.Errorf("tracking id generator: %w", err)
	}
	return func() string { return trackingPrefix + gen() }, nil
}
