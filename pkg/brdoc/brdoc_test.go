package brdoc

import "testing"

func TestDigits(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"abc", ""},
		{"01310-100", "01310100"},
		{"(11) 98765-4321", "11987654321"},
		{"123.456.789-09", "12345678909"},
	}
	for _, c := range cases {
		if got := Digits(c.in); got != c.want {
			t.Errorf("Digits(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCPF(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"123", "123"},
		{"1234567890", "1234567890"},
		{"12345678909", "123.456.789-09"},
		{"123.456.789-09", "123.456.789-09"},
		{"123456789091", "123.456.789-09"}, // extra digit truncated away
	}
	for _, c := range cases {
		if got := FormatCPF(c.in); got != c.want {
			t.Errorf("FormatCPF(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"11", "11"},
		{"119", "(11) 9"},
		{"1198765", "(11) 98765"},
		{"11987654", "(11) 98765-4"},
		{"1187654321", "(11) 87654-321"},
		{"11987654321", "(11) 98765-4321"},
		{"119876543210", "(11) 98765-4321"},
	}
	for _, c := range cases {
		if got := FormatPhone(c.in); got != c.want {
			t.Errorf("FormatPhone(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCEP(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"01310", "01310"},
		{"013101", "01310-1"},
		{"01310100", "01310-100"},
		{"01310-100", "01310-100"},
		{"013101009", "01310-100"},
	}
	for _, c := range cases {
		if got := FormatCEP(c.in); got != c.want {
			t.Errorf("FormatCEP(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCEP_RoundTrip(t *testing.T) {
	raw := "01310100"
	formatted := FormatCEP(raw)
	if formatted != "01310-100" {
		t.Fatalf("formatted=%q", formatted)
	}
	if got := Digits(formatted); got != raw {
		t.Fatalf("round trip: Digits(%q)=%q want %q", formatted, got, raw)
	}
}

func TestValidCEP(t *testing.T) {
	if !ValidCEP("01310-100") {
		t.Error("full CEP should be valid")
	}
	if ValidCEP("01310") {
		t.Error("short CEP should be invalid")
	}
	if ValidCEP("013101001") {
		t.Error("long CEP should be invalid")
	}
}

func TestValidCPF(t *testing.T) {
	if !ValidCPF("123.456.789-09") {
		t.Error("eleven digits should be valid")
	}
	if ValidCPF("123.456.789") {
		t.Error("nine digits should be invalid")
	}
}
