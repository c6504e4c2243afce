// Package i18n holds the fixed UI strings for each supported language.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

type Lang string

const (
	English Lang = "en"
	Finnish Lang = "fi"
)

type Strings struct {
	Title             string
	SelectCampus      string
	SelectBuilding    string
	Search            string
	Date              string
	Time              string
	Duration          string
	CheckAvailability string
	Loading           string
	Available         string
	Unavailable       string
	Unknown           string
	Capacity          string
	Area              string
	Reserve           string
	UnnamedSpace      string
	OpenInMaps        string
	NoSpaces          string
	LoadFailed        string
	CheckFailed       string
	MissingSlot       string
	DurationRange     string
	DateRange         string
	TimeAdjusted      string
	Minutes           string
	ToggleLanguage    string
	RetryingIn        string
}

var table = map[Lang]Strings{
	English: {
		Title:             "JYU room availability",
		SelectCampus:      "Select Campus (Optional)",
		SelectBuilding:    "Select Building",
		Search:            "Search rooms",
		Date:              "Date",
		Time:              "Time",
		Duration:          "Duration",
		CheckAvailability: "Check availability",
		Loading:           "Loading...",
		Available:         "Available for selected time",
		Unavailable:       "Not available for selected time",
		Unknown:           "Check availability",
		Capacity:          "Capacity",
		Area:              "Area",
		Reserve:           "Reserve",
		UnnamedSpace:      "Unnamed Space",
		OpenInMaps:        "Open in Google Maps",
		NoSpaces:          "No rooms to show.",
		LoadFailed:        "Failed to load buildings",
		CheckFailed:       "Failed to check availability",
		MissingSlot:       "Please select date, time, and duration",
		DurationRange:     "Duration must be between 30 minutes and 12 hours.",
		DateRange:         "Date must be within the next 5 days.",
		TimeAdjusted:      "Time adjusted to %s to match available booking slots",
		Minutes:           "min",
		ToggleLanguage:    "Suomeksi",
		RetryingIn:        "Retrying in %s...",
	},
	Finnish: {
		Title:             "JYU:n tilojen saatavuus",
		SelectCampus:      "Valitse kampus (valinnainen)",
		SelectBuilding:    "Valitse rakennus",
		Search:            "Hae tiloja",
		Date:              "Päivä",
		Time:              "Aika",
		Duration:          "Kesto",
		CheckAvailability: "Tarkista saatavuus",
		Loading:           "Ladataan...",
		Available:         "Vapaana valittuna aikana",
		Unavailable:       "Varattu valittuna aikana",
		Unknown:           "Tarkista saatavuus",
		Capacity:          "Kapasiteetti",
		Area:              "Pinta-ala",
		Reserve:           "Varaa",
		UnnamedSpace:      "Nimetön tila",
		OpenInMaps:        "Avaa Google Mapsissa",
		NoSpaces:          "Ei näytettäviä tiloja.",
		LoadFailed:        "Rakennusten lataus epäonnistui",
		CheckFailed:       "Saatavuuden tarkistus epäonnistui",
		MissingSlot:       "Valitse päivä, aika ja kesto",
		DurationRange:     "Keston on oltava 30 minuutin ja 12 tunnin välillä.",
		DateRange:         "Päivän on oltava seuraavan 5 päivän sisällä.",
		TimeAdjusted:      "Aika muutettu muotoon %s varattavien aikojen mukaiseksi",
		Minutes:           "min",
		ToggleLanguage:    "In English",
		RetryingIn:        "Yritetään uudelleen %s kuluttua...",
	},
}

func For(lang Lang) Strings {
	if s, ok := table[lang]; ok {
		return s
	}
	return table[English]
}

// Parse accepts "fi" or "en" in any case.
func Parse(value string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(value))) {
	case Finnish:
		return Finnish, true
	case English:
		return English, true
	}
	return "", false
}

func (l Lang) Other() Lang {
	if l == Finnish {
		return English
	}
	return Finnish
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Finnish})

// Detect picks the language from an explicit query value, then from an
// Accept-Language header, defaulting to English.
func Detect(query, acceptLanguage string) Lang {
	if lang, ok := Parse(query); ok {
		return lang
	}
	if acceptLanguage == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	if idx == 1 {
		return Finnish
	}
	return English
}
