// Package brdoc formats Brazilian document and contact fields (CPF,
// phone, CEP) for display. All functions are pure string transforms:
// they strip non-digits, re-insert the fixed separators and truncate to
// the maximum formatted length. Digits recovers the normalized value
// used for validation.
package brdoc

const (
	maxCPFLen   = 14 // 000.000.000-00
	maxPhoneLen = 15 // (00) 00000-0000
	maxCEPLen   = 9  // 00000-000

	cpfDigits = 11
	cepDigits = 8
)

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// FormatCPF renders raw input as 000.000.000-00. Separators appear only
// once all eleven digits are present; shorter input is returned as bare
// digits.
func FormatCPF(s string) string {
	d := Digits(s)
	if len(d) < cpfDigits {
		return d
	}
	f := d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	return truncate(f, maxCPFLen)
}

// FormatPhone renders raw input as (00) 00000-0000. The area code is
// parenthesized once a third digit arrives; the hyphen lands after the
// fifth subscriber digit when at least one more digit follows it.
func FormatPhone(s string) string {
	d := Digits(s)
	if len(d) < 3 {
		return d
	}

	rest := d[2:]
	if len(rest) >= 6 {
		rest = rest[:5] + "-" + rest[5:]
	}
	return truncate("("+d[:2]+") "+rest, maxPhoneLen)
}

// FormatCEP renders raw input as 00000-000.
func FormatCEP(s string) string {
	d := Digits(s)
	if len(d) < 6 {
		return d
	}
	return truncate(d[:5]+"-"+d[5:], maxCEPLen)
}

// ValidCEP reports whether s normalizes to a full-length CEP.
func ValidCEP(s string) bool {
	return len(Digits(s)) == cepDigits
}

// ValidCPF reports whether s normalizes to eleven digits. Check-digit
// verification is left to the document registry.
func ValidCPF(s string) bool {
	return len(Digits(s)) == cpfDigits
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
