package utils

// TruncateHex shortens a hex string (address or hash) to its display form:
// the first 6 characters, an ellipsis, and the last 4.
// Example: 0x3cdd1a2b...a0b7 style output for arbitrary-length input.
func TruncateHex(s string) string {
	if len(s) <= 10 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}
