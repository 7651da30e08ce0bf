package srs

import (
	"github.com/phrazzld/lingo-progress/internal/domain"
)

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Core limits
	MinEaseFactor     float64
	InitialEaseFactor float64

	// Quality at or above which a review counts as correct
	PassThreshold domain.Quality

	// Fixed intervals (days) for the first and second review
	FirstInterval  int
	SecondInterval int

	// Interval (days) after a failed review
	LapseInterval int

	// Status thresholds
	ReviewStatusMinReviews int
	MasteredMinReviews     int
	MasteredMinAccuracy    float64
	MasteredIntervalDays   int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinEaseFactor        float64
	FirstInterval        int
	SecondInterval       int
	MasteredMinReviews   int
	MasteredMinAccuracy  float64
	MasteredIntervalDays int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     domain.MinEaseFactor,
		InitialEaseFactor: domain.InitialEaseFactor,

		PassThreshold: domain.QualityCorrectDifficult,

		FirstInterval:  1,
		SecondInterval: 3,
		LapseInterval:  1,

		ReviewStatusMinReviews: 3,
		MasteredMinReviews:     5,
		MasteredMinAccuracy:    0.9,
		MasteredIntervalDays:   30,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	// Never allow a floor below the domain invariant
	if config.MinEaseFactor > domain.MinEaseFactor {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.MasteredMinReviews > 0 {
		params.MasteredMinReviews = config.MasteredMinReviews
	}
	if config.MasteredMinAccuracy > 0 {
		params.MasteredMinAccuracy = config.MasteredMinAccuracy
	}
	if config.MasteredIntervalDays > 0 {
		params.MasteredIntervalDays = config.MasteredIntervalDays
	}

	return params
}
