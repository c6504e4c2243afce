package rooms

import (
	"encoding/json"

	"jyu-rooms/api"
)

// Availability is the tri-state result of an availability check.
type Availability int8

const (
	Unknown Availability = iota
	Available
	Unavailable
)

func FromResult(isAvailable *bool) Availability {
	if isAvailable == nil {
		return Unknown
	}
	if *isAvailable {
		return Available
	}
	return Unavailable
}

func (a Availability) String() string {
	switch a {
	case Available:
		return "true"
	case Unavailable:
		return "false"
	}
	return "unknown"
}

func (a Availability) MarshalJSON() ([]byte, error) {
	switch a {
	case Available:
		return []byte("true"), nil
	case Unavailable:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

func (a *Availability) UnmarshalJSON(data []byte) error {
	var v *bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = FromResult(v)
	return nil
}

type Building struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Campus    string  `json:"campus"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Glyph     string  `json:"glyph,omitempty"`

	Raw api.Building `json:"-"`
}

func (b Building) HasCoordinates() bool {
	return b.Latitude != 0 || b.Longitude != 0
}

type Space struct {
	Label        string       `json:"label"`
	Name         string       `json:"name,omitempty"`
	Capacity     int          `json:"capacity"`
	Area         float64      `json:"area"`
	Category     string       `json:"category,omitempty"`
	FloorID      string       `json:"floor_id"`
	BuildingID   string       `json:"building_id"`
	Availability Availability `json:"available"`

	Raw api.Space `json:"-"`
}

type Result struct {
	Buildings []Building
	Spaces    []Space
}
