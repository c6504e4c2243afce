// Package render turns the visible spaces into room cards and selector
// options, and writes them as an HTML grid or a terminal table.
package render

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"jyu-rooms/i18n"
	"jyu-rooms/rooms"
)

const DefaultReservationBaseURL = "https://kovs-calendar.app.jyu.fi"

type CapacityBand string

const (
	BandNone   CapacityBand = "none"
	BandSmall  CapacityBand = "small"
	BandMedium CapacityBand = "medium"
	BandLarge  CapacityBand = "large"
)

func Band(capacity int) CapacityBand {
	switch {
	case capacity <= 0:
		return BandNone
	case capacity < 10:
		return BandSmall
	case capacity < 30:
		return BandMedium
	}
	return BandLarge
}

type Card struct {
	Label        string             `json:"label"`
	Name         string             `json:"name,omitempty"`
	Category     string             `json:"category,omitempty"`
	Capacity     int                `json:"capacity"`
	Area         int                `json:"area"`
	Band         CapacityBand       `json:"band"`
	Availability rooms.Availability `json:"available"`
	Status       string             `json:"status"`
	ReserveURL   string             `json:"reserve_url"`
}

type Options struct {
	Language           i18n.Lang
	Date               string
	Search             string
	ReservationBaseURL string
}

// SortSpaces orders available spaces first, then by label ignoring case.
// Unknown and unavailable spaces rank equally.
func SortSpaces(spaces []rooms.Space) {
	sort.SliceStable(spaces, func(i, j int) bool {
		ai := spaces[i].Availability == rooms.Available
		aj := spaces[j].Availability == rooms.Available
		if ai != aj {
			return ai
		}
		li, lj := strings.ToLower(spaces[i].Label), strings.ToLower(spaces[j].Label)
		if li != lj {
			return li < lj
		}
		return spaces[i].Label < spaces[j].Label
	})
}

// Cards builds the full card list for the visible spaces matching the search.
func Cards(spaces []rooms.Space, opts Options) []Card {
	matched := make([]rooms.Space, 0, len(spaces))
	for _, sp := range spaces {
		if rooms.Match(sp, opts.Search) {
			matched = append(matched, sp)
		}
	}
	SortSpaces(matched)

	text := i18n.For(opts.Language)
	base := opts.ReservationBaseURL
	if base == "" {
		base = DefaultReservationBaseURL
	}

	cards := make([]Card, 0, len(matched))
	for _, sp := range matched {
		label := sp.Label
		if label == "" {
			label = text.UnnamedSpace
		}
		cards = append(cards, Card{
			Label:        label,
			Name:         sp.Name,
			Category:     sp.Category,
			Capacity:     sp.Capacity,
			Area:         int(math.Round(sp.Area)),
			Band:         Band(sp.Capacity),
			Availability: sp.Availability,
			Status:       statusText(sp.Availability, text),
			ReserveURL:   ReservationURL(base, sp.Label, opts.Date, opts.Language),
		})
	}
	return cards
}

func statusText(a rooms.Availability, text i18n.Strings) string {
	switch a {
	case rooms.Available:
		return text.Available
	case rooms.Unavailable:
		return text.Unavailable
	}
	return text.Unknown
}

func ReservationURL(base, label, date string, lang i18n.Lang) string {
	q := url.Values{}
	q.Set("date", date)
	q.Set("lang", string(lang))
	return strings.TrimSuffix(base, "/") + "/room/" + url.PathEscape(label) + "?" + q.Encode()
}

type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

func CampusOptions(buildings []rooms.Building, selected string) []Option {
	campuses := rooms.Campuses(buildings)
	options := make([]Option, 0, len(campuses))
	for _, campus := range campuses {
		options = append(options, Option{Value: campus, Label: campus, Selected: campus == selected})
	}
	return options
}

// BuildingOptions lists the buildings of campus, or all buildings with their
// campus appended when no campus is chosen.
func BuildingOptions(buildings []rooms.Building, campus, selected string) []Option {
	filtered := rooms.BuildingsInCampus(buildings, campus)
	options := make([]Option, 0, len(filtered))
	for _, b := range filtered {
		label := b.Name
		if campus == "" && b.Campus != "" {
			label += " (" + b.Campus + ")"
		}
		options = append(options, Option{Value: b.ID, Label: label, Selected: b.ID == selected})
	}
	return options
}

func MapsLink(b rooms.Building) string {
	if !b.HasCoordinates() {
		return ""
	}
	return "https://www.google.com/maps?q=" + formatCoord(b.Latitude) + "," + formatCoord(b.Longitude)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
