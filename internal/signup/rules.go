package signup

import (
	"regexp"
	"strings"
)

// ContactLength is the exact number of digits a contact number carries.
const ContactLength = 10

// emailChar excludes @ and every character JavaScript's \s covers. RE2's \s
// is ASCII only and misses \v.
const emailChar = `[^@\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

var (
	emailPattern   = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)
	contactPattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// IsValidEmail checks the local@domain.tld shape only.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidContact reports whether s is exactly ten decimal digits.
func IsValidContact(s string) bool {
	return contactPattern.MatchString(s)
}

// DigitsOnly drops every character of s that is not an ASCII digit.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// CleanContact keeps the digits of s and caps them at ContactLength.
func CleanContact(s string) string {
	d := DigitsOnly(s)
	if len(d) > ContactLength {
		d = d[:ContactLength]
	}
	return d
}
