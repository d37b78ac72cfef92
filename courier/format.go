package courier

import "strings"

// NormalizePhone rewrites a customer phone number into the single
// country-code format couriers accept: 92XXXXXXXXXX, digits only.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	digits = strings.TrimPrefix(digits, "00")
	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "92"):
		return digits
	case strings.HasPrefix(digits, "0"):
		return "92" + digits[1:]
	default:
		return "92" + digits
	}
}

// ClampName forces a name into a provider's [min,max] character bounds.
// Too-long names are truncated; too-short ones are padded with trailing
// dots so the result is deterministic.
func ClampName(name string, min, max int) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) > max {
		r = r[:max]
	}
	for len(r) < min {
		r = append(r, '.')
	}
	return string(r)
}
