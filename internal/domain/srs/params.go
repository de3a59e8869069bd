package srs

import "github.com/phrazzld/studyplan-api/internal/domain"

// Quality bounds for a single review.
const (
	MinQuality = 0
	MaxQuality = 5
)

// Params defines all configurable parameters for the SM-2 algorithm
type Params struct {
	// DefaultEasinessFactor is assigned to cards with no stored factor.
	DefaultEasinessFactor float64
	// MinEasinessFactor is the floor applied after every successful review.
	MinEasinessFactor float64

	// PassingQuality is the lowest quality that counts as a successful recall.
	PassingQuality int

	// Intervals (days) used for the first and second consecutive success.
	FirstInterval  int
	SecondInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	DefaultEasinessFactor float64
	MinEasinessFactor     float64
	PassingQuality        int
	FirstInterval         int
	SecondInterval        int
}

// NewDefaultParams creates a new Params instance with the classic SM-2 values
func NewDefaultParams() *Params {
	return &Params{
		DefaultEasinessFactor: domain.DefaultEasinessFactor,
		MinEasinessFactor:     1.3,
		PassingQuality:        3,
		FirstInterval:         1,
		SecondInterval:        6,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.DefaultEasinessFactor > 0 {
		params.DefaultEasinessFactor = config.DefaultEasinessFactor
	}
	if config.MinEasinessFactor > 0 {
		params.MinEasinessFactor = config.MinEasinessFactor
	}
	if config.PassingQuality > 0 && config.PassingQuality <= MaxQuality {
		params.PassingQuality = config.PassingQuality
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}

	return params
}
