package utils

// MaskSecret redacts a credential for log output, keeping the first and
// last two characters so operators can still correlate values.
func MaskSecret(s string) string {
	if len(s) <= 6 {
		return "***"
	}
	return s[:2] + "***" + s[len(s)-2:]
}
