package services

import (
	"math"
	"testing"
)

func TestSplit_StandardRates(t *testing.T) {
	service := NewRevenueService()

	// 1000 base at 18% tax on top, 20% platform fee out of the base.
	breakdown := service.Split(1000, 18, 20)

	if breakdown.Gross != 1000 {
		t.Errorf("gross = %v, want 1000", breakdown.Gross)
	}
	if breakdown.Tax != 180 {
		t.Errorf("tax = %v, want 180", breakdown.Tax)
	}
	if breakdown.PlatformFee != 200 {
		t.Errorf("platform fee = %v, want 200", breakdown.PlatformFee)
	}
	if breakdown.InstructorShare != 800 {
		t.Errorf("instructor share = %v, want 800", breakdown.InstructorShare)
	}
	if breakdown.Total != 1180 {
		t.Errorf("total = %v, want 1180", breakdown.Total)
	}
}

func TestSplit_Identities(t *testing.T) {
	service := NewRevenueService()

	bases := []float64{0, 0.01, 99.99, 1234.56, 100000, 333.33}
	for _, base := range bases {
		breakdown := service.Split(base, 18, 20)

		// Fee and share must reassemble the base within rounding noise.
		if diff := math.Abs(breakdown.PlatformFee + breakdown.InstructorShare - breakdown.Gross); diff > 0.011 {
			t.Errorf("base %v: fee+share-gross = %v, want < 0.011", base, diff)
		}
		if diff := math.Abs(breakdown.Gross + breakdown.Tax - breakdown.Total); diff > 0.011 {
			t.Errorf("base %v: gross+tax-total = %v, want < 0.011", base, diff)
		}
		if breakdown.InstructorShare < 0 || breakdown.PlatformFee < 0 || breakdown.Tax < 0 {
			t.Errorf("base %v: negative component in %+v", base, breakdown)
		}
	}
}

func TestSplit_ZeroRates(t *testing.T) {
	service := NewRevenueService()

	breakdown := service.Split(500, 0, 0)
	if breakdown.Tax != 0 || breakdown.PlatformFee != 0 {
		t.Errorf("zero rates should yield zero tax and fee, got %+v", breakdown)
	}
	if breakdown.InstructorShare != 500 || breakdown.Total != 500 {
		t.Errorf("share/total = %v/%v, want 500/500", breakdown.InstructorShare, breakdown.Total)
	}
}

func TestSplit_RoundsToPaise(t *testing.T) {
	service := NewRevenueService()

	breakdown := service.Split(333.33, 18, 20)
	for name, v := range map[string]float64{
		"gross": breakdown.Gross,
		"tax":   breakdown.Tax,
		"fee":   breakdown.PlatformFee,
		"share": breakdown.InstructorShare,
		"total": breakdown.Total,
	} {
		if math.Abs(v*100-math.Round(v*100)) > 1e-6 {
			t.Errorf("%s = %v, not rounded to two decimals", name, v)
		}
	}
}
