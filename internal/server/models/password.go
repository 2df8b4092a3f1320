package models

import "unicode/utf8"

const (
	PasswordMinLength = 8
	PasswordMaxLength = 12
)

// PasswordMeetsPolicy reports whether p is acceptable at registration:
// 8 to 12 characters, exactly one uppercase letter, exactly two digits that
// are not next to each other, and no line breaks.
func PasswordMeetsPolicy(p string) bool {
	n := utf8.RuneCountInString(p)
	if n < PasswordMinLength || n > PasswordMaxLength {
		return false
	}

	upper, digits := 0, 0
	prevDigit := false
	for _, r := range p {
		switch {
		case r == '\n' || r == '\r' || r == '\u0085' || r == '\u2028' || r == '\u2029':
			return false
		case r >= 'A' && r <= 'Z':
			upper++
			prevDigit = false
		case r >= '0' && r <= '9':
			if prevDigit {
				return false
			}
			digits++
			prevDigit = true
		default:
			prevDigit = false
		}
	}

	return upper == 1 && digits == 2
}
