package config

// PlatformConfig carries the revenue-sharing defaults used when no
// platformConfig document has been written yet.
type PlatformConfig struct {
	TaxPercent      float64 `yaml:"tax_percent"`
	PlatformFeePct  float64 `yaml:"platform_fee_pct"`
	PerMinuteRate   float64 `yaml:"per_minute_rate"`
	MinPayoutAmount float64 `yaml:"min_payout_amount"`
}

func loadPlatformConfig() *PlatformConfig {
	return &PlatformConfig{
		TaxPercent:      getEnvAsFloat64("PLATFORM_TAX_PERCENT", 18.0),
		PlatformFeePct:  getEnvAsFloat64("PLATFORM_FEE_PERCENT", 20.0),
		PerMinuteRate:   getEnvAsFloat64("PLATFORM_PER_MINUTE_RATE", 0.50),
		MinPayoutAmount: getEnvAsFloat64("PLATFORM_MIN_PAYOUT", 1000.0),
	}
}
