package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9_\-]+$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func IsValidPhone(phone string) bool {
	cleaned := strings.TrimPrefix(phone, "+")
	if len(cleaned) < 10 || len(cleaned) > 15 {
		return false
	}
	for _, r := range cleaned {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsValidCouponCode checks the normalized (upper-cased) form of a code.
func IsValidCouponCode(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < CouponCodeMinLength || len(code) > CouponCodeMaxLength {
		return false
	}
	return couponCodeRegex.MatchString(code)
}

func ValidatePasswordStrength(password string) error {
	if len(password) < PasswordMinLength {
		return fmt.Errorf("password must be at least %d characters", PasswordMinLength)
	}
	if len(password) > PasswordMaxLength {
		return fmt.Errorf("password must be at most %d characters", PasswordMaxLength)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("password must contain upper and lower case letters and a digit")
	}
	return nil
}

// NormalizeCategories trims, lowercases and drops empty entries.
func NormalizeCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
