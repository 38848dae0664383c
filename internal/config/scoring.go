package config

// ScoringConfig holds the trust-score weights and badge thresholds.
// The defaults below are the documented platform values; they are
// configuration so operations can tune them without a rebuild.
type ScoringConfig struct {
	OverallWeights struct {
		Review        float64 `yaml:"review"`
		Completion    float64 `yaml:"completion"`
		Reliability   float64 `yaml:"reliability"`
		Communication float64 `yaml:"communication"`
		Verification  float64 `yaml:"verification"`
	} `yaml:"overall_weights"`

	VerificationWeights map[string]float64 `yaml:"verification_weights"`

	BadgeTiers []BadgeTier `yaml:"badge_tiers"`
}

// BadgeTier maps a minimum overall score to a display badge.
type BadgeTier struct {
	MinScore float64 `yaml:"min_score"`
	Name     string  `yaml:"name"`
	Color    string  `yaml:"color"`
}

// DefaultScoringConfig returns the documented platform defaults.
func DefaultScoringConfig() ScoringConfig {
	var cfg ScoringConfig

	cfg.OverallWeights.Review = 0.30
	cfg.OverallWeights.Completion = 0.25
	cfg.OverallWeights.Reliability = 0.20
	cfg.OverallWeights.Communication = 0.15
	cfg.OverallWeights.Verification = 0.10

	cfg.VerificationWeights = map[string]float64{
		"identity":         25,
		"skills":           20,
		"business":         20,
		"background_check": 25,
		"phone":            5,
		"email":            3,
		"address":          2,
	}

	// Ordered highest threshold first; the first matching tier wins.
	cfg.BadgeTiers = []BadgeTier{
		{MinScore: 95, Name: "Top Rated Plus", Color: "#8B5CF6"},
		{MinScore: 85, Name: "Highly Trusted", Color: "#2563EB"},
		{MinScore: 75, Name: "Trusted Professional", Color: "#0D9488"},
		{MinScore: 65, Name: "Verified Professional", Color: "#16A34A"},
		{MinScore: 50, Name: "Professional", Color: "#64748B"},
		{MinScore: 0, Name: "New Professional", Color: "#94A3B8"},
	}

	return cfg
}
