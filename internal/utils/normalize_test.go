package utils

import "testing"

func TestNormalizeQuery(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Ngaliema  ", "Ngaliema"},
		{"", ""},
		{"   ", ""},
		// NFD decomposed é collapses to the NFC composed form.
		{"Lembá", "Lembá"},
		{"Kinshasa", "Kinshasa"},
	}

	for _, c := range cases {
		if got := NormalizeQuery(c.in); got != c.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
