package srs

// Params defines all configurable parameters for the scheduling algorithm
type Params struct {
	// Interval limits in days
	MinIntervalDays int
	MaxIntervalDays int

	// Growth applied to the interval on a remembered outcome
	SuccessMultiplier int

	// Interval assigned after a forgotten outcome
	ResetIntervalDays int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinIntervalDays   int
	MaxIntervalDays   int
	SuccessMultiplier int
	ResetIntervalDays int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinIntervalDays:   1,
		MaxIntervalDays:   30,
		SuccessMultiplier: 2,
		ResetIntervalDays: 1,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero or negative values keep the default.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinIntervalDays > 0 {
		params.MinIntervalDays = config.MinIntervalDays
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}
	if config.SuccessMultiplier > 0 {
		params.SuccessMultiplier = config.SuccessMultiplier
	}
	if config.ResetIntervalDays > 0 {
		params.ResetIntervalDays = config.ResetIntervalDays
	}

	// Keep the limits ordered
	if params.MaxIntervalDays < params.MinIntervalDays {
		params.MaxIntervalDays = params.MinIntervalDays
	}

	return params
}
