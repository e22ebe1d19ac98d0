package payments

import (
	"errors"
	"regexp"
	"strings"
)

var nonNumericRegex = regexp.MustCompile(`[^0-9]`)

// phoneSuffixLength is how many trailing digits the provider echoes back
// reliably. Matching uses this suffix, never the full number.
const phoneSuffixLength = 9

// SanitizePhoneNumber canonicalizes a Kenyan mobile number to the
// 2547XXXXXXXX form the provider requires.
func SanitizePhoneNumber(phone string) (string, error) {
	sanitized := nonNumericRegex.ReplaceAllString(phone, "")

	if (strings.HasPrefix(sanitized, "07") || strings.HasPrefix(sanitized, "01")) && len(sanitized) == 10 {
		return "254" + sanitized[1:], nil
	}
	if (strings.HasPrefix(sanitized, "7") || strings.HasPrefix(sanitized, "1")) && len(sanitized) == 9 {
		return "254" + sanitized, nil
	}
	if strings.HasPrefix(sanitized, "254") && len(sanitized) == 12 {
		return sanitized, nil
	}

	return "", errors.New("invalid M-Pesa phone number format")
}

// PhoneSuffix returns the trailing digits used as the weak correlation key.
func PhoneSuffix(phone string) string {
	digits := nonNumericRegex.ReplaceAllString(phone, "")
	if len(digits) <= phoneSuffixLength {
		return digits
	}
	return digits[len(digits)-phoneSuffixLength:]
}
