package adaptive

// Params defines all configurable thresholds for difficulty adaptation
type Params struct {
	// Window
	WindowSize int

	// Streak rule
	StreakThreshold int

	// Rate rule
	RateMinWindow     int
	RateUpThreshold   float64 // strictly greater than
	RateDownThreshold float64 // strictly less than

	// Hint
	HintIncorrectStreak int
	HintRateThreshold   float64
	HintMinWindow       int

	// Level-up gate
	LevelUpWindow      int
	LevelUpMinRate     float64
	LevelUpMinStreak   int
	LevelDownMinWindow int
	LevelDownMaxRate   float64 // strictly less than

	// Encouragement
	CelebrationStreak int
	PraiseStreak      int
	EasierItemStreak  int
	GentleTipStreak   int
	ChallengeRate     float64 // strictly greater than
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the default.
type ParamsConfig struct {
	WindowSize        int
	StreakThreshold   int
	RateMinWindow     int
	RateUpThreshold   float64
	RateDownThreshold float64
	LevelUpMinRate    float64
	LevelDownMaxRate  float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		WindowSize: 10,

		StreakThreshold: 3,

		RateMinWindow:     5,
		RateUpThreshold:   0.85,
		RateDownThreshold: 0.5,

		HintIncorrectStreak: 2,
		HintRateThreshold:   0.4,
		HintMinWindow:       3,

		LevelUpWindow:      10,
		LevelUpMinRate:     0.8,
		LevelUpMinStreak:   3,
		LevelDownMinWindow: 5,
		LevelDownMaxRate:   0.4,

		CelebrationStreak: 5,
		PraiseStreak:      3,
		EasierItemStreak:  3,
		GentleTipStreak:   2,
		ChallengeRate:     0.9,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.WindowSize > 0 {
		params.WindowSize = config.WindowSize
		params.LevelUpWindow = config.WindowSize
	}
	if config.StreakThreshold > 0 {
		params.StreakThreshold = config.StreakThreshold
		params.LevelUpMinStreak = config.StreakThreshold
	}
	if config.RateMinWindow > 0 {
		params.RateMinWindow = config.RateMinWindow
	}
	if config.RateUpThreshold > 0 {
		params.RateUpThreshold = config.RateUpThreshold
	}
	if config.RateDownThreshold > 0 {
		params.RateDownThreshold = config.RateDownThreshold
	}
	if config.LevelUpMinRate > 0 {
		params.LevelUpMinRate = config.LevelUpMinRate
	}
	if config.LevelDownMaxRate > 0 {
		params.LevelDownMaxRate = config.LevelDownMaxRate
	}

	return params
}
