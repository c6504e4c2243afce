package cmd

import (
	"testing"
	"time"

	"jyu-rooms/rooms"
)

func TestParseDateInput(t *testing.T) {
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)
	cases := map[string]string{
		"today":      "2026-10-18",
		"Tomorrow":   "2026-10-19",
		"2026-10-21": "2026-10-21",
	}
	for in, want := range cases {
		got, err := parseDateInput(in, now)
		if err != nil {
			t.Errorf("parseDateInput(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("parseDateInput(%q) = %s, want %s", in, got, want)
		}
	}
	for _, in := range []string{"", "21.10.2026", "next week"} {
		if _, err := parseDateInput(in, now); err == nil {
			t.Errorf("parseDateInput(%q) should fail", in)
		}
	}
}

func TestResolveBuilding(t *testing.T) {
	buildings := []rooms.Building{
		{ID: "b-ag", Name: "Agora", Glyph: "Ag"},
		{ID: "b-ru", Name: "Ruusupuisto", Glyph: "RUU"},
	}
	for _, in := range []string{"b-ag", "ag", "AGORA"} {
		if b, ok := resolveBuilding(buildings, in); !ok || b.ID != "b-ag" {
			t.Errorf("resolveBuilding(%q) = %+v, %v", in, b, ok)
		}
	}
	if b, ok := resolveBuilding(buildings, "ruu"); !ok || b.ID != "b-ru" {
		t.Errorf("short code lookup failed: %+v", b)
	}
	if _, ok := resolveBuilding(buildings, "Musica"); ok {
		t.Error("unknown building should not resolve")
	}
}
