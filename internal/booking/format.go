package booking

import "strings"

// Display limits of the payment inputs.
const (
	CardNumberMaxLen = 19
	ExpiryMaxLen     = 5
	CVCMaxLen        = 4
	CVCMinLen        = 3
)

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber groups the digits of raw into blocks of four separated by
// single spaces, keeping at most 16 digits. Input with fewer than four digits
// is returned unchanged.
func FormatCardNumber(raw string) string {
	d := digitsOnly(raw)
	if len(d) < 4 {
		return raw
	}
	if len(d) > 16 {
		d = d[:16]
	}

	parts := make([]string, 0, 4)
	for i := 0; i < len(d); i += 4 {
		end := min(i+4, len(d))
		parts = append(parts, d[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiry renders raw as MM/YY. With fewer than two digits the digits are
// returned as-is.
func FormatExpiry(raw string) string {
	d := digitsOnly(raw)
	if len(d) < 2 {
		return d
	}
	rest := d[2:]
	if len(rest) > 2 {
		rest = rest[:2]
	}
	return d[:2] + "/" + rest
}

// FormatCVC keeps the first four digits of raw.
func FormatCVC(raw string) string {
	d := digitsOnly(raw)
	if len(d) > CVCMaxLen {
		d = d[:CVCMaxLen]
	}
	return d
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
