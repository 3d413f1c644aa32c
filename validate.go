package payauth

import "regexp"

// Server-side whitelist patterns. Input that fails these is rejected before
// any store or crypto work.
var (
	namePattern          = regexp.MustCompile(`^[A-Za-z \-]{2,60}$`)
	idNumberPattern      = regexp.MustCompile(`^[0-9]{1,13}$`)
	usernamePattern      = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	accountNumberPattern = regexp.MustCompile(`^[0-9]{8,20}$`)
)

// ValidUsername reports whether s matches the username whitelist.
func ValidUsername(s string) bool { return usernamePattern.MatchString(s) }

// ValidAccountNumber reports whether s matches the account-number whitelist.
func ValidAccountNumber(s string) bool { return accountNumberPattern.MatchString(s) }

// ValidName reports whether s matches the display-name whitelist.
func ValidName(s string) bool { return namePattern.MatchString(s) }

// ValidIDNumber reports whether s matches the national-id whitelist.
func ValidIDNumber(s string) bool { return idNumberPattern.MatchString(s) }

// ValidPassword enforces the canonical password policy: 8-72 bytes with at
// least one lowercase letter, one uppercase letter, one digit, and one
// special character. Checked with per-class scans; RE2 has no lookahead.
func ValidPassword(s string) bool {
	if len(s) < 8 || len(s) > 72 {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}

	return lower && upper && digit && special
}
