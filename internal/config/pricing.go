package config

// PricingConfig holds the flat tax applied to every offer.
type PricingConfig struct {
	TaxesPercentage float64
}

// LoadPricingConfig reads TAXES_PERCENTAGE (default 10).  Negative values are
// clamped to zero.
func LoadPricingConfig() PricingConfig {
	pct := envFloat("TAXES_PERCENTAGE", 10)
	if pct < 0 {
		pct = 0
	}
	return PricingConfig{TaxesPercentage: pct}
}
