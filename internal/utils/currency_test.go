package utils

import "testing"

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.005, 1.0}, // 1.005 is stored below the midpoint in binary
		{1.015, 1.01},
		{99.999, 100},
		{1234.5649, 1234.56},
		{-7.126, -7.13},
	}

	for _, tc := range cases {
		if got := RoundMoney(tc.in); got != tc.want {
			t.Errorf("RoundMoney(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPaiseRoundTrip(t *testing.T) {
	amounts := []float64{0, 0.01, 1, 99.99, 1500, 123456.78}
	for _, amount := range amounts {
		if got := FromPaise(ToPaise(amount)); got != amount {
			t.Errorf("round trip of %v came back as %v", amount, got)
		}
	}
}

func TestToPaise(t *testing.T) {
	if got := ToPaise(1200); got != 120000 {
		t.Errorf("ToPaise(1200) = %d, want 120000", got)
	}
	if got := ToPaise(0.5); got != 50 {
		t.Errorf("ToPaise(0.5) = %d, want 50", got)
	}
	// 19.90 is not exactly representable; the gateway amount must not
	// drop a paisa.
	if got := ToPaise(19.90); got != 1990 {
		t.Errorf("ToPaise(19.90) = %d, want 1990", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(1000, "INR"); got != "₹1000.00" {
		t.Errorf("FormatCurrency INR = %q", got)
	}
	if got := FormatCurrency(12.5, "USD"); got != "$12.50" {
		t.Errorf("FormatCurrency USD = %q", got)
	}
	if got := FormatCurrency(5, "XYZ"); got != "XYZ 5.00" {
		t.Errorf("FormatCurrency unknown = %q", got)
	}
}

func TestIsSupportedCurrency(t *testing.T) {
	if !IsSupportedCurrency("INR") {
		t.Error("INR should be supported")
	}
	if IsSupportedCurrency("BTC") {
		t.Error("BTC should not be supported")
	}
}
