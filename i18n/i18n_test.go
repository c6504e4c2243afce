package i18n

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		query  string
		accept string
		want   Lang
	}{
		{"fi", "en-US", Finnish},
		{"EN", "fi-FI", English},
		{"", "fi-FI,fi;q=0.9,en;q=0.8", Finnish},
		{"", "en-GB,en;q=0.9", English},
		{"", "sv-SE", English},
		{"", "", English},
		{"de", "", English},
	}
	for _, tc := range cases {
		if got := Detect(tc.query, tc.accept); got != tc.want {
			t.Errorf("Detect(%q, %q) = %q, want %q", tc.query, tc.accept, got, tc.want)
		}
	}
}

func TestForFallsBackToEnglish(t *testing.T) {
	if For("sv").Title != For(English).Title {
		t.Error("unknown language should use English strings")
	}
	if For(Finnish).Title == For(English).Title {
		t.Error("Finnish strings should differ from English")
	}
}

func TestOther(t *testing.T) {
	if English.Other() != Finnish || Finnish.Other() != English {
		t.Error("Other should toggle between English and Finnish")
	}
}
