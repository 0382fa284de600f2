package utils

import (
	"regexp"
	"strings"
)

var (
	phoneRegex     = regexp.MustCompile(`^[0-9]{10}$`)
	nonDigitsRegex = regexp.MustCompile(`[^\d]`)
)

// IsValidPhone accepts exactly ten digits.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// NormalizePhone strips separators and a leading +91 or 0 trunk prefix.
func NormalizePhone(phone string) string {
	digits := nonDigitsRegex.ReplaceAllString(strings.TrimSpace(phone), "")
	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return digits[1:]
	}
	return digits
}

func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
