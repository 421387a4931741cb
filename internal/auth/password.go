package auth

import "unicode"

// Strength classifies a password for presentation. It is a display aid only
// and never gates submission.
type Strength int

const (
	Weak Strength = iota
	Fair
	Good
	Strong
)

// String returns the display label.
func (s Strength) String() string {
	switch s {
	case Weak:
		return "Weak"
	case Fair:
		return "Fair"
	case Good:
		return "Good"
	case Strong:
		return "Strong"
	default:
		return "Unknown"
	}
}

// ClassifyPassword rates a password: under 6 characters is Weak, 6-7 is
// Fair, 8 or more with an uppercase letter, a digit and a symbol is Strong,
// anything else is Good.
func ClassifyPassword(password string) Strength {
	if len(password) < MinPasswordLength {
		return Weak
	}
	if len(password) < 8 {
		return Fair
	}

	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			symbol = true
		}
	}
	if upper && digit && symbol {
		return Strong
	}
	return Good
}
